package response_models

import "hairline/internal/checkout"

type CheckoutResponse struct {
	checkout.State
	Preview *checkout.Preview `json:"preview,omitempty"`
}
