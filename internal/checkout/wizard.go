package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"hairline/internal/backend"
	"hairline/internal/protocol"
	"hairline/pkg/utils"
)

type Stage string

const (
	StagePlan      Stage = "plan"
	StageIdentity  Stage = "identity"
	StageAddress   Stage = "address"
	StagePayment   Stage = "payment"
	StageCompleted Stage = "completed"
)

var stageOrder = []Stage{StagePlan, StageIdentity, StageAddress, StagePayment, StageCompleted}

func (s Stage) rank() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return 0
}

// Durable field keys, one per wizard field.
const (
	keyPrefix         = "checkout."
	keyStage          = keyPrefix + "stage"
	keyPlanID         = keyPrefix + "plan_id"
	keyCycle          = keyPrefix + "billing_cycle"
	keyProducts       = keyPrefix + "product_ids"
	keyIdentity       = keyPrefix + "identity"
	keyAddress        = keyPrefix + "address"
	keyMethod         = keyPrefix + "payment_method"
	keyCouponCode     = keyPrefix + "coupon_code"
	keyCouponDiscount = keyPrefix + "coupon_discount"
)

// FieldStore is the durable per-field fallback that survives reloads and the
// detour through account creation.
type FieldStore interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID, key, value string) error
	DeletePrefix(ctx context.Context, sessionID, prefix string) error
}

// Gateway is the slice of the backend the wizard needs.
type Gateway interface {
	PlanPrices(ctx context.Context) ([]backend.PlanPrice, error)
	ValidateCoupon(ctx context.Context, req backend.CouponRequest) (*backend.CouponResponse, error)
	Purchase(ctx context.Context, req backend.PurchaseRequest) (*backend.PurchaseResponse, error)
}

type PlanSelection struct {
	PlanID     string               `json:"plan_id" validate:"required"`
	Cycle      backend.BillingCycle `json:"billing_cycle" validate:"required,oneof=monthly quarterly semiannual"`
	ProductIDs []string             `json:"product_ids" validate:"required,min=1,dive,required"`
}

type Identity struct {
	Name  string `json:"name" validate:"required,min=3,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,numeric,min=10,max=11"`
}

type Coupon struct {
	Code          string `json:"code"`
	DiscountMinor int64  `json:"discount"`
}

// State is the in-memory navigation state of the wizard.
type State struct {
	Stage     Stage                 `json:"stage"`
	Selection *PlanSelection        `json:"selection,omitempty"`
	Identity  *Identity             `json:"identity,omitempty"`
	Address   *backend.Address      `json:"address,omitempty"`
	Method    backend.PaymentMethod `json:"payment_method,omitempty"`
	Coupon    *Coupon               `json:"coupon,omitempty"`
}

// Preview is a UI price preview. The backend re-prices at purchase time and
// its amount is the one charged.
type Preview struct {
	BaseFeeMinor  int64 `json:"base_fee"`
	SubtotalMinor int64 `json:"products_subtotal"`
	DiscountMinor int64 `json:"discount"`
	TotalMinor    int64 `json:"total"`
	Advisory      bool  `json:"advisory"`
}

type Receipt struct {
	OrderID            string                 `json:"order_id"`
	Status             backend.PurchaseStatus `json:"status"`
	AmountChargedMinor int64                  `json:"amount_charged"`
	PreviewTotalMinor  int64                  `json:"preview_total"`
	PixData            *backend.PixData       `json:"pix_data,omitempty"`
}

type Wizard struct {
	sessionID string
	store     FieldStore
	gw        Gateway
	validate  *validator.Validate
	now       func() time.Time
	state     State
}

func New(sessionID string, store FieldStore, gw Gateway) *Wizard {
	return &Wizard{
		sessionID: sessionID,
		store:     store,
		gw:        gw,
		validate:  backend.Validator(),
		now:       time.Now,
		state:     State{Stage: StagePlan},
	}
}

func (w *Wizard) State() State { return w.state }

// allow checks that stage s has been reached; earlier stages may be revisited.
func (w *Wizard) allow(s Stage) error {
	if w.state.Stage == StageCompleted {
		return fmt.Errorf("%w: checkout already completed", utils.ErrInvalidTransition)
	}
	if s.rank() > w.state.Stage.rank() {
		return fmt.Errorf("%w: %s step is not available yet (current step: %s)", utils.ErrInvalidTransition, s, w.state.Stage)
	}
	return nil
}

func (w *Wizard) advancePast(s Stage) {
	next := stageOrder[s.rank()+1]
	if next.rank() > w.state.Stage.rank() {
		w.state.Stage = next
	}
}

func (w *Wizard) SelectPlan(ctx context.Context, sel PlanSelection) error {
	if err := w.allow(StagePlan); err != nil {
		return err
	}
	if err := w.check(sel); err != nil {
		return err
	}
	if _, err := protocol.Subtotal(sel.ProductIDs); err != nil {
		return utils.Invalid("product_ids", err.Error())
	}
	if _, err := w.baseFee(ctx, sel.PlanID, sel.Cycle); err != nil {
		return err
	}

	// a coupon was validated against the previous plan
	if w.state.Selection != nil && w.state.Selection.PlanID != sel.PlanID && w.state.Coupon != nil {
		w.state.Coupon = nil
		if err := w.setFields(ctx, map[string]string{keyCouponCode: "", keyCouponDiscount: ""}); err != nil {
			return err
		}
	}

	w.state.Selection = &sel
	w.advancePast(StagePlan)
	return w.setFields(ctx, map[string]string{
		keyPlanID:   sel.PlanID,
		keyCycle:    string(sel.Cycle),
		keyProducts: strings.Join(sel.ProductIDs, ","),
		keyStage:    string(w.state.Stage),
	})
}

func (w *Wizard) SetIdentity(ctx context.Context, id Identity) error {
	if err := w.allow(StageIdentity); err != nil {
		return err
	}
	id.Phone = digitsOnly(id.Phone)
	if err := w.check(id); err != nil {
		return err
	}
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	w.state.Identity = &id
	w.advancePast(StageIdentity)
	return w.setFields(ctx, map[string]string{keyIdentity: string(raw), keyStage: string(w.state.Stage)})
}

func (w *Wizard) SetAddress(ctx context.Context, addr backend.Address) error {
	if err := w.allow(StageAddress); err != nil {
		return err
	}
	addr.ZipCode = digitsOnly(addr.ZipCode)
	addr.State = strings.ToUpper(strings.TrimSpace(addr.State))
	if err := w.check(addr); err != nil {
		return err
	}
	raw, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	w.state.Address = &addr
	w.advancePast(StageAddress)
	return w.setFields(ctx, map[string]string{keyAddress: string(raw), keyStage: string(w.state.Stage)})
}

// SelectPaymentMethod records the method chosen on the payment step.
func (w *Wizard) SelectPaymentMethod(ctx context.Context, method backend.PaymentMethod) error {
	if w.state.Stage != StagePayment {
		return fmt.Errorf("%w: payment step is not available (current step: %s)", utils.ErrInvalidTransition, w.state.Stage)
	}
	if method != backend.PaymentCard && method != backend.PaymentPix {
		return utils.Invalid("payment_method", "payment method must be credit_card or pix")
	}
	w.state.Method = method
	return w.setFields(ctx, map[string]string{keyMethod: string(method)})
}

// ApplyCoupon validates code with the backend. A rejected coupon leaves the
// current coupon state untouched.
func (w *Wizard) ApplyCoupon(ctx context.Context, code string) (*Coupon, error) {
	if w.state.Selection == nil {
		return nil, fmt.Errorf("%w: select a plan before applying a coupon", utils.ErrInvalidTransition)
	}
	if w.state.Stage == StageCompleted {
		return nil, fmt.Errorf("%w: checkout already completed", utils.ErrInvalidTransition)
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, utils.Invalid("coupon", "coupon code is required")
	}

	resp, err := w.gw.ValidateCoupon(ctx, backend.CouponRequest{Code: code, PlanID: w.state.Selection.PlanID})
	if err != nil {
		return nil, err
	}
	coupon := &Coupon{Code: code, DiscountMinor: backend.ToMinor(resp.Discount)}
	w.state.Coupon = coupon
	return coupon, w.setFields(ctx, map[string]string{
		keyCouponCode:     coupon.Code,
		keyCouponDiscount: strconv.FormatInt(coupon.DiscountMinor, 10),
	})
}

func (w *Wizard) RemoveCoupon(ctx context.Context) error {
	w.state.Coupon = nil
	return w.setFields(ctx, map[string]string{keyCouponCode: "", keyCouponDiscount: ""})
}

// Preview computes the advisory total: plan base fee plus selected products
// minus the coupon discount, never below zero.
func (w *Wizard) Preview(ctx context.Context) (Preview, error) {
	sel := w.state.Selection
	if sel == nil {
		return Preview{}, fmt.Errorf("%w: no plan selected", utils.ErrInvalidTransition)
	}
	fee, err := w.baseFee(ctx, sel.PlanID, sel.Cycle)
	if err != nil {
		return Preview{}, err
	}
	subtotal, err := protocol.Subtotal(sel.ProductIDs)
	if err != nil {
		return Preview{}, utils.Invalid("product_ids", err.Error())
	}

	p := Preview{BaseFeeMinor: fee, SubtotalMinor: subtotal, Advisory: true}
	if w.state.Coupon != nil {
		p.DiscountMinor = w.state.Coupon.DiscountMinor
	}
	p.TotalMinor = p.BaseFeeMinor + p.SubtotalMinor - p.DiscountMinor
	if p.TotalMinor < 0 {
		p.TotalMinor = 0
	}
	return p, nil
}

// Pay submits the purchase. An empty method falls back to the one selected
// earlier. Card data is validated here and never stored. On success every
// stored checkout field is destroyed.
func (w *Wizard) Pay(ctx context.Context, method backend.PaymentMethod, card *utils.CardData) (*Receipt, error) {
	if w.state.Stage != StagePayment {
		return nil, fmt.Errorf("%w: payment step is not available (current step: %s)", utils.ErrInvalidTransition, w.state.Stage)
	}
	if method == "" {
		method = w.state.Method
	}

	req := backend.PurchaseRequest{
		PlanID:        w.state.Selection.PlanID,
		BillingCycle:  w.state.Selection.Cycle,
		ProductIDs:    w.state.Selection.ProductIDs,
		Address:       *w.state.Address,
		PaymentMethod: method,
	}
	switch method {
	case backend.PaymentCard:
		if card == nil {
			return nil, utils.Invalid("card", "card data is required")
		}
		valid, err := utils.ValidateCard(*card, w.now())
		if err != nil {
			return nil, err
		}
		req.CardData = &valid
	case backend.PaymentPix:
	default:
		return nil, utils.Invalid("payment_method", "payment method must be credit_card or pix")
	}
	if w.state.Coupon != nil {
		req.CouponCode = w.state.Coupon.Code
	}

	preview, err := w.Preview(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := w.gw.Purchase(ctx, req)
	if err != nil {
		return nil, err
	}

	w.state.Stage = StageCompleted
	receipt := &Receipt{
		OrderID:            resp.OrderID,
		Status:             resp.Status,
		AmountChargedMinor: backend.ToMinor(resp.AmountCharged),
		PreviewTotalMinor:  preview.TotalMinor,
		PixData:            resp.PixData,
	}
	if err := w.store.DeletePrefix(ctx, w.sessionID, keyPrefix); err != nil {
		return receipt, fmt.Errorf("clear checkout fields: %w", err)
	}
	return receipt, nil
}

// Back moves one stage back. Data already entered is kept.
func (w *Wizard) Back(ctx context.Context) (Stage, error) {
	if w.state.Stage == StageCompleted {
		return w.state.Stage, fmt.Errorf("%w: checkout already completed", utils.ErrInvalidTransition)
	}
	if w.state.Stage == StagePlan {
		return w.state.Stage, nil
	}
	w.state.Stage = stageOrder[w.state.Stage.rank()-1]
	return w.state.Stage, w.setFields(ctx, map[string]string{keyStage: string(w.state.Stage)})
}

// Abandon destroys the checkout session.
func (w *Wizard) Abandon(ctx context.Context) error {
	w.state = State{Stage: StagePlan}
	return w.store.DeletePrefix(ctx, w.sessionID, keyPrefix)
}

func (w *Wizard) baseFee(ctx context.Context, planID string, cycle backend.BillingCycle) (int64, error) {
	prices, err := w.gw.PlanPrices(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range prices {
		if p.PlanID == planID && p.BillingCycle == cycle {
			return backend.ToMinor(p.BaseFee), nil
		}
	}
	return 0, utils.Invalid("plan_id", fmt.Sprintf("plan %q has no %s price", planID, cycle))
}

func (w *Wizard) check(v any) error {
	err := w.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return utils.Invalid(strings.ToLower(fe.Field()), fmt.Sprintf("failed %q validation", fe.Tag()))
	}
	return fmt.Errorf("%w: %v", utils.ErrValidation, err)
}

func (w *Wizard) setFields(ctx context.Context, fields map[string]string) error {
	for k, v := range fields {
		if err := w.store.Set(ctx, w.sessionID, k, v); err != nil {
			return fmt.Errorf("persist %s: %w", k, err)
		}
	}
	return nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
