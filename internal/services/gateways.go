package services

import (
	"context"

	"hairline/internal/backend"
	"hairline/internal/protocol"
	"hairline/internal/session"
)

// FlowStore is the per-session key/value storage shared by the flows.
type FlowStore interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
	DeletePrefix(ctx context.Context, sessionID, prefix string) error
}

// The backend slices each service talks to. *backend.Client implements all of them.

type AccountBackend interface {
	Login(ctx context.Context, req backend.LoginRequest) (*backend.AuthResponse, error)
	Register(ctx context.Context, req backend.RegisterRequest) (*backend.AuthResponse, error)
}

type QuestionnaireBackend interface {
	Recommend(ctx context.Context, sess *session.Session, answers protocol.Answers) (protocol.Summary, error)
	ListQuestionnaires(ctx context.Context, sess *session.Session) ([]backend.QuestionnaireRecord, error)
	SaveQuestionnaire(ctx context.Context, sess *session.Session, req backend.SaveQuestionnaireRequest) (*backend.QuestionnaireRecord, error)
}

type FinancialBackend interface {
	PlanPrices(ctx context.Context, sess *session.Session) ([]backend.PlanPrice, error)
	ValidateCoupon(ctx context.Context, sess *session.Session, req backend.CouponRequest) (*backend.CouponResponse, error)
	Purchase(ctx context.Context, sess *session.Session, req backend.PurchaseRequest) (*backend.PurchaseResponse, error)
}

type MedicalBackend interface {
	Slots(ctx context.Context, sess *session.Session, date string, doctorID int64) ([]string, error)
	CheckEligibility(ctx context.Context, sess *session.Session, doctorID int64) (*backend.Eligibility, error)
	ListAppointments(ctx context.Context, sess *session.Session) ([]backend.Appointment, error)
	CreateAppointment(ctx context.Context, sess *session.Session, req backend.CreateAppointmentRequest) (*backend.CreateAppointmentResponse, error)
	RescheduleAppointment(ctx context.Context, sess *session.Session, id int64, req backend.RescheduleRequest) (*backend.Appointment, error)
	CancelAppointment(ctx context.Context, sess *session.Session, id int64) (*backend.Appointment, error)
}

// financialGateway binds FinancialBackend to one session for the checkout wizard.
type financialGateway struct {
	b    FinancialBackend
	sess *session.Session
}

func (g financialGateway) PlanPrices(ctx context.Context) ([]backend.PlanPrice, error) {
	return g.b.PlanPrices(ctx, g.sess)
}

func (g financialGateway) ValidateCoupon(ctx context.Context, req backend.CouponRequest) (*backend.CouponResponse, error) {
	return g.b.ValidateCoupon(ctx, g.sess, req)
}

func (g financialGateway) Purchase(ctx context.Context, req backend.PurchaseRequest) (*backend.PurchaseResponse, error) {
	return g.b.Purchase(ctx, g.sess, req)
}

// medicalGateway binds MedicalBackend to one session for the booking flow.
type medicalGateway struct {
	b    MedicalBackend
	sess *session.Session
}

func (g medicalGateway) Slots(ctx context.Context, date string, doctorID int64) ([]string, error) {
	return g.b.Slots(ctx, g.sess, date, doctorID)
}

func (g medicalGateway) CheckEligibility(ctx context.Context, doctorID int64) (*backend.Eligibility, error) {
	return g.b.CheckEligibility(ctx, g.sess, doctorID)
}

func (g medicalGateway) ListAppointments(ctx context.Context) ([]backend.Appointment, error) {
	return g.b.ListAppointments(ctx, g.sess)
}

func (g medicalGateway) CreateAppointment(ctx context.Context, req backend.CreateAppointmentRequest) (*backend.CreateAppointmentResponse, error) {
	return g.b.CreateAppointment(ctx, g.sess, req)
}

func (g medicalGateway) RescheduleAppointment(ctx context.Context, id int64, req backend.RescheduleRequest) (*backend.Appointment, error) {
	return g.b.RescheduleAppointment(ctx, g.sess, id, req)
}

func (g medicalGateway) CancelAppointment(ctx context.Context, id int64) (*backend.Appointment, error) {
	return g.b.CancelAppointment(ctx, g.sess, id)
}
