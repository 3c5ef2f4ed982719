package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

func (c *Client) PlanPrices(ctx context.Context, sess *session.Session) ([]PlanPrice, error) {
	var out []PlanPrice
	if err := c.do(ctx, sess, http.MethodGet, "/financial/plans/prices/", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("plan prices: %w", err)
	}
	return out, nil
}

// ValidateCoupon returns the discount the backend grants. A coupon the backend
// refuses comes back as utils.ErrCouponInvalid.
func (c *Client) ValidateCoupon(ctx context.Context, sess *session.Session, req CouponRequest) (*CouponResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}
	var out CouponResponse
	err := c.do(ctx, sess, http.MethodPost, "/financial/coupon/validate/", nil, req, &out)
	if errors.Is(err, utils.ErrRejected) || errors.Is(err, utils.RecordNotFound) {
		return nil, fmt.Errorf("%w: %s", utils.ErrCouponInvalid, err)
	}
	if err != nil {
		return nil, fmt.Errorf("validate coupon: %w", err)
	}
	if !out.Valid {
		msg := out.Message
		if msg == "" {
			msg = req.Code
		}
		return nil, fmt.Errorf("%w: %s", utils.ErrCouponInvalid, msg)
	}
	return &out, nil
}

func (c *Client) Purchase(ctx context.Context, sess *session.Session, req PurchaseRequest) (*PurchaseResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}
	var out PurchaseResponse
	if err := c.do(ctx, sess, http.MethodPost, "/financial/purchase/", nil, req, &out); err != nil {
		return nil, fmt.Errorf("purchase: %w", err)
	}
	return &out, nil
}

// invalidRequest turns the first validator failure into a field error.
func invalidRequest(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return utils.Invalid(fe.Namespace(), fmt.Sprintf("failed %q validation", fe.Tag()))
	}
	return fmt.Errorf("%w: %v", utils.ErrValidation, err)
}
