package request_models

import (
	"hairline/internal/backend"
	"hairline/pkg/utils"
)

type PlanRequest struct {
	PlanID       string               `json:"plan_id" binding:"required"`
	BillingCycle backend.BillingCycle `json:"billing_cycle" binding:"required"`
	ProductIDs   []string             `json:"product_ids" binding:"required,min=1"`
}

type IdentityRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

type PaymentMethodRequest struct {
	PaymentMethod backend.PaymentMethod `json:"payment_method" binding:"required"`
}

type CouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// PurchaseRequest carries the card only for the request that uses it.
type PurchaseRequest struct {
	PaymentMethod backend.PaymentMethod `json:"payment_method"`
	Card          *utils.CardData       `json:"card"`
}
