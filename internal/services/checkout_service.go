package services

import (
	"context"

	"go.uber.org/zap"
	"hairline/internal/backend"
	"hairline/internal/checkout"
	"hairline/internal/models/request_models"
	"hairline/internal/models/response_models"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

type CheckoutServiceInterface interface {
	State(ctx context.Context, sess *session.Session) (*response_models.CheckoutResponse, error)
	SelectPlan(ctx context.Context, sess *session.Session, req request_models.PlanRequest) (*response_models.CheckoutResponse, error)
	SetIdentity(ctx context.Context, sess *session.Session, req request_models.IdentityRequest) (*response_models.CheckoutResponse, error)
	SetAddress(ctx context.Context, sess *session.Session, addr backend.Address) (*response_models.CheckoutResponse, error)
	SelectPaymentMethod(ctx context.Context, sess *session.Session, method backend.PaymentMethod) (*response_models.CheckoutResponse, error)
	ApplyCoupon(ctx context.Context, sess *session.Session, code string) (*response_models.CheckoutResponse, error)
	RemoveCoupon(ctx context.Context, sess *session.Session) (*response_models.CheckoutResponse, error)
	Back(ctx context.Context, sess *session.Session) (*response_models.CheckoutResponse, error)
	Total(ctx context.Context, sess *session.Session) (*checkout.Preview, error)
	Purchase(ctx context.Context, sess *session.Session, req request_models.PurchaseRequest) (*checkout.Receipt, error)
	Abandon(ctx context.Context, sess *session.Session) error
}

type CheckoutService struct {
	backend FinancialBackend
	store   FlowStore
	logger  *zap.Logger
}

func NewCheckoutService(b FinancialBackend, store FlowStore, logger *zap.Logger) CheckoutServiceInterface {
	return &CheckoutService{
		backend: b,
		store:   store,
		logger:  logger,
	}
}

func (s *CheckoutService) restore(ctx context.Context, sess *session.Session) (*checkout.Wizard, error) {
	return checkout.Restore(ctx, sess.ID, s.store, financialGateway{b: s.backend, sess: sess})
}

// step restores the wizard, applies fn and renders the result.
func (s *CheckoutService) step(ctx context.Context, sess *session.Session, fn func(w *checkout.Wizard) error) (*response_models.CheckoutResponse, error) {
	w, err := s.restore(ctx, sess)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		if err := fn(w); err != nil {
			return nil, err
		}
	}
	return s.render(ctx, w)
}

func (s *CheckoutService) render(ctx context.Context, w *checkout.Wizard) (*response_models.CheckoutResponse, error) {
	resp := &response_models.CheckoutResponse{State: w.State()}
	if resp.Selection != nil {
		preview, err := w.Preview(ctx)
		if err != nil {
			return nil, err
		}
		resp.Preview = &preview
	}
	return resp, nil
}

func (s *CheckoutService) State(ctx context.Context, sess *session.Session) (*response_models.CheckoutResponse, error) {
	return s.step(ctx, sess, nil)
}

func (s *CheckoutService) SelectPlan(ctx context.Context, sess *session.Session, req request_models.PlanRequest) (*response_models.CheckoutResponse, error) {
	return s.step(ctx, sess, func(w *checkout.Wizard) error {
		return w.SelectPlan(ctx, checkout.PlanSelection{PlanID: req.PlanID, Cycle: req.BillingCycle, ProductIDs: req.ProductIDs})
	})
}

func (s *CheckoutService) SetIdentity(ctx context.Context, sess *session.Session, req request_models.IdentityRequest) (*response_models.CheckoutResponse, error) {
	return s.step(ctx, sess, func(w *checkout.Wizard) error {
		return w.SetIdentity(ctx, checkout.Identity{Name: req.Name, Email: req.Email, Phone: req.Phone})
	})
}

func (s *CheckoutService) SetAddress(ctx context.Context, sess *session.Session, addr backend.Address) (*response_models.CheckoutResponse, error) {
	return s.step(ctx, sess, func(w *checkout.Wizard) error {
		return w.SetAddress(ctx, addr)
	})
}

func (s *CheckoutService) SelectPaymentMethod(ctx context.Context, sess *session.Session, method backend.PaymentMethod) (*response_models.CheckoutResponse, error) {
	return s.step(ctx, sess, func(w *checkout.Wizard) error {
		return w.SelectPaymentMethod(ctx, method)
	})
}

func (s *CheckoutService) ApplyCoupon(ctx context.Context, sess *session.Session, code string) (*response_models.CheckoutResponse, error) {
	return s.step(ctx, sess, func(w *checkout.Wizard) error {
		_, err := w.ApplyCoupon(ctx, code)
		return err
	})
}

func (s *CheckoutService) RemoveCoupon(ctx context.Context, sess *session.Session) (*response_models.CheckoutResponse, error) {
	return s.step(ctx, sess, func(w *checkout.Wizard) error {
		return w.RemoveCoupon(ctx)
	})
}

func (s *CheckoutService) Back(ctx context.Context, sess *session.Session) (*response_models.CheckoutResponse, error) {
	return s.step(ctx, sess, func(w *checkout.Wizard) error {
		_, err := w.Back(ctx)
		return err
	})
}

func (s *CheckoutService) Total(ctx context.Context, sess *session.Session) (*checkout.Preview, error) {
	w, err := s.restore(ctx, sess)
	if err != nil {
		return nil, err
	}
	preview, err := w.Preview(ctx)
	if err != nil {
		return nil, err
	}
	return &preview, nil
}

// Purchase charges through the backend. The amount reported back is the one
// the backend charged; a differing preview is only logged.
func (s *CheckoutService) Purchase(ctx context.Context, sess *session.Session, req request_models.PurchaseRequest) (*checkout.Receipt, error) {
	w, err := s.restore(ctx, sess)
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{zap.String("session_id", sess.ID), zap.String("method", string(req.PaymentMethod))}
	if req.Card != nil {
		fields = append(fields, zap.String("card", utils.MaskCardNumber(req.Card.Number)))
	}
	s.logger.Info("checkout purchase", fields...)

	receipt, err := w.Pay(ctx, req.PaymentMethod, req.Card)
	if err != nil {
		if receipt != nil {
			// charged, but the stored fields could not be cleared
			s.logger.Error("clear checkout state", zap.String("session_id", sess.ID), zap.Error(err))
			return receipt, nil
		}
		return nil, err
	}
	if receipt.AmountChargedMinor != receipt.PreviewTotalMinor {
		s.logger.Info("charged amount differs from preview",
			zap.String("order_id", receipt.OrderID),
			zap.Int64("preview", receipt.PreviewTotalMinor),
			zap.Int64("charged", receipt.AmountChargedMinor))
	}
	return receipt, nil
}

func (s *CheckoutService) Abandon(ctx context.Context, sess *session.Session) error {
	w, err := s.restore(ctx, sess)
	if err != nil {
		return err
	}
	return w.Abandon(ctx)
}
