package request_models

import (
	"hairline/internal/backend"
	"hairline/pkg/utils"
)

type SlotsQuery struct {
	Date     string `form:"date" binding:"required"`
	DoctorID int64  `form:"doctor_id" binding:"required"`
}

type SelectSlotRequest struct {
	DoctorID int64  `json:"doctor_id" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
}

type BookRequest struct {
	PaymentMethod backend.PaymentMethod `json:"payment_method"`
	Card          *utils.CardData       `json:"card"`
}

type RetryRequest struct {
	Card *utils.CardData `json:"card"`
}
