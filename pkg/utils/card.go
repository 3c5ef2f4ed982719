package utils

import (
	"strings"
	"time"
)

// CardData is the credit card payload forwarded to the backend.
type CardData struct {
	Number      string `json:"number" binding:"required"`
	HolderName  string `json:"holder_name" binding:"required"`
	ExpiryMonth int    `json:"expiry_month" binding:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiry_year" binding:"required"`
	CVV         string `json:"cvv" binding:"required"`
}

// NormalizeCardNumber strips spaces and dashes.
func NormalizeCardNumber(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(number)
}

// LuhnValid reports whether number (digits only) passes the Luhn checksum.
func LuhnValid(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidateCard checks number, expiry and CVV before the card leaves the client.
// The returned card has its number normalized.
func ValidateCard(card CardData, now time.Time) (CardData, error) {
	card.Number = NormalizeCardNumber(card.Number)
	if len(card.Number) < 13 || len(card.Number) > 19 {
		return card, Invalid("card.number", "card number must have between 13 and 19 digits")
	}
	if strings.Trim(card.Number, "0123456789") != "" {
		return card, Invalid("card.number", "card number must contain only digits")
	}
	if !LuhnValid(card.Number) {
		return card, Invalid("card.number", "invalid card number")
	}

	if strings.TrimSpace(card.HolderName) == "" {
		return card, Invalid("card.holder_name", "holder name is required")
	}

	if card.ExpiryMonth < 1 || card.ExpiryMonth > 12 {
		return card, Invalid("card.expiry_month", "invalid expiry month")
	}
	year := card.ExpiryYear
	if year < 100 {
		year += 2000
	}
	// valid through the last day of the expiry month
	expires := time.Date(year, time.Month(card.ExpiryMonth)+1, 1, 0, 0, 0, 0, now.Location())
	if !now.Before(expires) {
		return card, Invalid("card.expiry", "card is expired")
	}
	card.ExpiryYear = year

	if len(card.CVV) < 3 || len(card.CVV) > 4 || strings.Trim(card.CVV, "0123456789") != "" {
		return card, Invalid("card.cvv", "invalid security code")
	}
	return card, nil
}

// MaskCardNumber keeps only the last four digits, for logs.
func MaskCardNumber(number string) string {
	n := NormalizeCardNumber(number)
	if len(n) <= 4 {
		return n
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}
