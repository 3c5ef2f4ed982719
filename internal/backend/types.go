package backend

import (
	"errors"
	"math"
	"time"

	"hairline/internal/protocol"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

// ToMinor converts a decimal amount in reais to centavos.
func ToMinor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// --- accounts ---

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponse struct {
	Access  string          `json:"access" validate:"required"`
	Refresh string          `json:"refresh"`
	User    session.Profile `json:"user" validate:"required"`
}

type RecommendationRequest struct {
	Answers protocol.Answers `json:"answers"`
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required"`
	Sub         string  `json:"sub"`
	Image       string  `json:"image"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty" validate:"gte=0"`
}

type RecommendationResponse struct {
	RedFlag     bool      `json:"redFlag"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Products    []Product `json:"products" validate:"dive"`
	TotalPrice  float64   `json:"total_price" validate:"gte=0"`
}

func (r RecommendationResponse) Validate() error {
	if !r.RedFlag && len(r.Products) == 0 {
		return errors.New("recommendation without red flag must carry products")
	}
	return nil
}

// Summary converts the wire response into the shared protocol summary.
func (r RecommendationResponse) Summary() protocol.Summary {
	items := make([]protocol.ProductItem, 0, len(r.Products))
	for _, p := range r.Products {
		items = append(items, protocol.ProductItem{
			ID:          p.ID,
			Name:        p.Name,
			SubLabel:    p.Sub,
			Image:       p.Image,
			Description: p.Description,
			PriceMinor:  ToMinor(p.Price),
		})
	}
	return protocol.Summary{
		RedFlag:     r.RedFlag,
		Title:       r.Title,
		Description: r.Description,
		Products:    items,
		TotalMinor:  ToMinor(r.TotalPrice),
	}
}

type QuestionnaireRecord struct {
	ID        int64            `json:"id" validate:"required"`
	Answers   protocol.Answers `json:"answers"`
	RedFlag   bool             `json:"red_flag"`
	CreatedAt time.Time        `json:"created_at"`
}

type SaveQuestionnaireRequest struct {
	Answers  protocol.Answers `json:"answers"`
	RedFlag  bool             `json:"red_flag"`
	Products []string         `json:"products,omitempty"`
}

// --- medical ---

type AppointmentStatus string

const (
	StatusScheduled      AppointmentStatus = "scheduled"
	StatusWaitingPayment AppointmentStatus = "waiting_payment"
	StatusCancelled      AppointmentStatus = "cancelled"
	StatusCompleted      AppointmentStatus = "completed"
)

type Appointment struct {
	ID              int64             `json:"id" validate:"required"`
	Date            string            `json:"date" validate:"required,isodate"`
	Time            string            `json:"time" validate:"required,slot"`
	DoctorID        int64             `json:"doctor_id" validate:"required"`
	DoctorName      string            `json:"doctor_name,omitempty"`
	PaymentRequired bool              `json:"payment_required"`
	PaymentStatus   string            `json:"payment_status,omitempty"`
	Status          AppointmentStatus `json:"status" validate:"required,oneof=scheduled waiting_payment cancelled completed"`
}

// Active reports whether the appointment still holds a slot.
func (a Appointment) Active() bool {
	return a.Status == StatusScheduled || a.Status == StatusWaitingPayment
}

type Eligibility struct {
	IsFree            bool         `json:"is_free"`
	Price             float64      `json:"price" validate:"gte=0"`
	ActiveAppointment *Appointment `json:"active_appointment,omitempty"`
}

func (e Eligibility) Validate() error {
	if !e.IsFree && e.Price <= 0 {
		return errors.New("billable visit without price")
	}
	return nil
}

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "credit_card"
	PaymentPix  PaymentMethod = "pix"
	PaymentFree PaymentMethod = "free"
)

type CreateAppointmentRequest struct {
	Date           string          `json:"date" validate:"required,isodate"`
	Time           string          `json:"time" validate:"required,slot"`
	DoctorID       int64           `json:"doctor_id" validate:"required"`
	PaymentMethod  PaymentMethod   `json:"payment_method" validate:"required,oneof=credit_card pix free"`
	IdempotencyKey string          `json:"idempotency_key" validate:"required,uuid4"`
	CardData       *utils.CardData `json:"cardData,omitempty"`
}

type PixData struct {
	QRCode    string `json:"qr_code" validate:"required"`
	CopyPaste string `json:"copy_paste"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// CreateAppointmentResponse is a union: exactly one of Success and
// PaymentRequired is set.
type CreateAppointmentResponse struct {
	Success         bool         `json:"success"`
	PaymentRequired bool         `json:"payment_required"`
	Appointment     *Appointment `json:"appointment,omitempty"`
	PixData         *PixData     `json:"pix_data,omitempty"`
}

func (r CreateAppointmentResponse) Validate() error {
	if r.Success == r.PaymentRequired {
		return errors.New("exactly one of success and payment_required must be set")
	}
	if r.PaymentRequired && r.PixData == nil {
		return errors.New("payment_required without pix_data")
	}
	return nil
}

type RescheduleRequest struct {
	Date string `json:"date" validate:"required,isodate"`
	Time string `json:"time" validate:"required,slot"`
}

// --- financial ---

type BillingCycle string

const (
	CycleMonthly    BillingCycle = "monthly"
	CycleQuarterly  BillingCycle = "quarterly"
	CycleSemiannual BillingCycle = "semiannual"
)

type PlanPrice struct {
	PlanID       string       `json:"plan_id" validate:"required"`
	BillingCycle BillingCycle `json:"billing_cycle" validate:"required,oneof=monthly quarterly semiannual"`
	BaseFee      float64      `json:"base_fee" validate:"gte=0"`
}

type CouponRequest struct {
	Code   string `json:"code" validate:"required"`
	PlanID string `json:"plan_id,omitempty"`
}

type CouponResponse struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount" validate:"gte=0"`
	Message  string  `json:"message,omitempty"`
}

type Address struct {
	ZipCode      string `json:"zip_code" validate:"required,len=8,numeric"`
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number" validate:"required"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required,len=2,alpha"`
}

type PurchaseRequest struct {
	PlanID        string          `json:"plan_id" validate:"required"`
	BillingCycle  BillingCycle    `json:"billing_cycle" validate:"required"`
	ProductIDs    []string        `json:"product_ids" validate:"required,min=1"`
	Address       Address         `json:"address"`
	PaymentMethod PaymentMethod   `json:"payment_method" validate:"required,oneof=credit_card pix"`
	CardData      *utils.CardData `json:"cardData,omitempty"`
	CouponCode    string          `json:"coupon_code,omitempty"`
}

type PurchaseStatus string

const (
	PurchasePaid           PurchaseStatus = "paid"
	PurchasePendingPayment PurchaseStatus = "pending_payment"
)

// PurchaseResponse carries the authoritative amount charged.
type PurchaseResponse struct {
	Status        PurchaseStatus `json:"status" validate:"required,oneof=paid pending_payment"`
	OrderID       string         `json:"order_id" validate:"required"`
	AmountCharged float64        `json:"amount_charged" validate:"gte=0"`
	PixData       *PixData       `json:"pix_data,omitempty"`
}

func (r PurchaseResponse) Validate() error {
	if r.Status == PurchasePendingPayment && r.PixData == nil {
		return errors.New("pending payment without pix_data")
	}
	return nil
}
