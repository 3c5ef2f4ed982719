package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"hairline/internal/backend"
	"hairline/pkg/utils"
)

type State string

const (
	StateSelectingSlot   State = "selecting_slot"
	StateConfirmNew      State = "confirm_new"
	StateOfferReschedule State = "offer_reschedule"
	StateAwaitingPayment State = "awaiting_payment"
	StateBooked          State = "booked"
	StateRescheduled     State = "rescheduled"
)

const snapshotKey = "booking"

// MinNoticeHours is how far ahead an appointment must be to move or cancel it.
const MinNoticeHours = 24

func CanReschedule(diffHours float64) bool { return diffHours >= MinNoticeHours }
func CanCancel(diffHours float64) bool     { return diffHours >= MinNoticeHours }

type Storage interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
}

// Gateway is the medical slice of the backend, already bound to a session.
type Gateway interface {
	Slots(ctx context.Context, date string, doctorID int64) ([]string, error)
	CheckEligibility(ctx context.Context, doctorID int64) (*backend.Eligibility, error)
	ListAppointments(ctx context.Context) ([]backend.Appointment, error)
	CreateAppointment(ctx context.Context, req backend.CreateAppointmentRequest) (*backend.CreateAppointmentResponse, error)
	RescheduleAppointment(ctx context.Context, id int64, req backend.RescheduleRequest) (*backend.Appointment, error)
	CancelAppointment(ctx context.Context, id int64) (*backend.Appointment, error)
}

// Attempt is a booking request that has been sent at least once. Card data
// is never part of it.
type Attempt struct {
	Key     string                           `json:"idempotency_key"`
	Request backend.CreateAppointmentRequest `json:"request"`
}

func (a *Attempt) sameAction(req backend.CreateAppointmentRequest) bool {
	r := a.Request
	return r.Date == req.Date && r.Time == req.Time && r.DoctorID == req.DoctorID && r.PaymentMethod == req.PaymentMethod
}

type Snapshot struct {
	State       State                `json:"state"`
	DoctorID    int64                `json:"doctor_id,omitempty"`
	Date        string               `json:"date,omitempty"`
	Time        string               `json:"time,omitempty"`
	Eligibility *backend.Eligibility `json:"eligibility,omitempty"`
	Pending     *Attempt             `json:"pending,omitempty"`
	Appointment *backend.Appointment `json:"appointment,omitempty"`
	PixData     *backend.PixData     `json:"pix_data,omitempty"`
}

type Flow struct {
	sessionID string
	store     Storage
	gw        Gateway
	appts     *Appointments
	validate  *validator.Validate
	now       func() time.Time
	newKey    func() string
	snap      Snapshot
}

// New starts an empty flow. appts may be nil when no listing cache is used.
func New(sessionID string, store Storage, gw Gateway, appts *Appointments) *Flow {
	return &Flow{
		sessionID: sessionID,
		store:     store,
		gw:        gw,
		appts:     appts,
		validate:  backend.Validator(),
		now:       time.Now,
		newKey:    uuid.NewString,
		snap:      Snapshot{State: StateSelectingSlot},
	}
}

func Restore(ctx context.Context, sessionID string, store Storage, gw Gateway, appts *Appointments) (*Flow, error) {
	f := New(sessionID, store, gw, appts)
	raw, ok, err := store.Get(ctx, sessionID, snapshotKey)
	if err != nil {
		return nil, fmt.Errorf("load booking snapshot: %w", err)
	}
	if !ok {
		return f, nil
	}
	if err := json.Unmarshal([]byte(raw), &f.snap); err != nil || f.snap.State == "" {
		return New(sessionID, store, gw, appts), nil
	}
	return f, nil
}

func (f *Flow) State() State       { return f.snap.State }
func (f *Flow) Snapshot() Snapshot { return f.snap }

// ListSlots returns the free slots of a doctor on date.
func (f *Flow) ListSlots(ctx context.Context, date string, doctorID int64) ([]string, error) {
	if err := f.validate.Var(date, "required,isodate"); err != nil {
		return nil, utils.Invalid("date", "date must be YYYY-MM-DD")
	}
	if doctorID <= 0 {
		return nil, utils.Invalid("doctor_id", "doctor is required")
	}
	return f.gw.Slots(ctx, date, doctorID)
}

// SelectSlot picks a slot and runs the eligibility check. An active
// appointment with the same doctor turns the flow into a reschedule offer.
// Any pending attempt for a previous slot is dropped.
func (f *Flow) SelectSlot(ctx context.Context, doctorID int64, date, slot string) error {
	if doctorID <= 0 {
		return utils.Invalid("doctor_id", "doctor is required")
	}
	if err := f.validate.Var(date, "required,isodate"); err != nil {
		return utils.Invalid("date", "date must be YYYY-MM-DD")
	}
	if err := f.validate.Var(slot, "required,slot"); err != nil {
		return utils.Invalid("time", "time must be HH:MM")
	}
	at, err := utils.ParseAppointmentTime(date, slot)
	if err != nil {
		return utils.Invalid("time", err.Error())
	}
	if !at.After(f.now()) {
		return utils.Invalid("time", "slot is in the past")
	}

	elig, err := f.gw.CheckEligibility(ctx, doctorID)
	if err != nil {
		return err
	}

	next := StateConfirmNew
	if a := elig.ActiveAppointment; a != nil && a.Active() && a.DoctorID == doctorID {
		next = StateOfferReschedule
	}
	f.snap = Snapshot{
		State:       next,
		DoctorID:    doctorID,
		Date:        date,
		Time:        slot,
		Eligibility: elig,
	}
	return f.save(ctx)
}

// Book sends a booking attempt. Resubmitting the same slot and payment method
// while an attempt is pending resends it under its idempotency key; any other
// request gets a fresh key. A failed attempt stays pending.
func (f *Flow) Book(ctx context.Context, method backend.PaymentMethod, card *utils.CardData) error {
	if f.snap.State != StateConfirmNew {
		return fmt.Errorf("%w: nothing to book (current state: %s)", utils.ErrInvalidTransition, f.snap.State)
	}
	if f.snap.Eligibility != nil && f.snap.Eligibility.IsFree {
		method = backend.PaymentFree
	}
	switch method {
	case backend.PaymentFree:
		if f.snap.Eligibility == nil || !f.snap.Eligibility.IsFree {
			return utils.Invalid("payment_method", "this appointment requires payment")
		}
	case backend.PaymentCard, backend.PaymentPix:
	default:
		return utils.Invalid("payment_method", "payment method must be credit_card or pix")
	}

	req := backend.CreateAppointmentRequest{
		Date:          f.snap.Date,
		Time:          f.snap.Time,
		DoctorID:      f.snap.DoctorID,
		PaymentMethod: method,
	}
	if p := f.snap.Pending; p != nil && p.sameAction(req) {
		return f.send(ctx, card)
	}

	key := f.newKey()
	req.IdempotencyKey = key
	f.snap.Pending = &Attempt{Key: key, Request: req}
	return f.send(ctx, card)
}

// Retry resends the pending attempt with the same idempotency key. Card data
// is not kept between requests, so a card attempt needs it again.
func (f *Flow) Retry(ctx context.Context, card *utils.CardData) error {
	if f.snap.Pending == nil || f.snap.State != StateConfirmNew {
		return utils.ErrNoPendingAttempt
	}
	return f.send(ctx, card)
}

func (f *Flow) send(ctx context.Context, card *utils.CardData) error {
	req := f.snap.Pending.Request
	if req.PaymentMethod == backend.PaymentCard {
		if card == nil {
			return utils.Invalid("card", "card data is required")
		}
		valid, err := utils.ValidateCard(*card, f.now())
		if err != nil {
			return err
		}
		req.CardData = &valid
	}

	// persisted before sending so a reload retries under the same key
	if err := f.save(ctx); err != nil {
		return err
	}

	resp, err := f.gw.CreateAppointment(ctx, req)
	if err != nil {
		return err
	}
	f.invalidate()

	f.snap.Pending = nil
	f.snap.Appointment = resp.Appointment
	if resp.PaymentRequired {
		f.snap.State = StateAwaitingPayment
		f.snap.PixData = resp.PixData
	} else {
		f.snap.State = StateBooked
	}
	return f.save(ctx)
}

// Reschedule moves the active appointment found by the eligibility check to
// the selected slot.
func (f *Flow) Reschedule(ctx context.Context) error {
	if f.snap.State != StateOfferReschedule || f.snap.Eligibility == nil || f.snap.Eligibility.ActiveAppointment == nil {
		return fmt.Errorf("%w: no appointment to reschedule (current state: %s)", utils.ErrInvalidTransition, f.snap.State)
	}
	active := f.snap.Eligibility.ActiveAppointment
	diff, err := utils.HoursUntil(active.Date, active.Time, f.now())
	if err != nil {
		return fmt.Errorf("active appointment time: %w", err)
	}
	if !CanReschedule(diff) {
		return utils.ErrRescheduleWindow
	}

	moved, err := f.gw.RescheduleAppointment(ctx, active.ID, backend.RescheduleRequest{Date: f.snap.Date, Time: f.snap.Time})
	if err != nil {
		return err
	}
	f.invalidate()
	f.snap.State = StateRescheduled
	f.snap.Appointment = moved
	return f.save(ctx)
}

// BookInstead declines a reschedule offer and books the slot as a new
// appointment.
func (f *Flow) BookInstead(ctx context.Context) error {
	if f.snap.State != StateOfferReschedule {
		return fmt.Errorf("%w: no reschedule offer to decline", utils.ErrInvalidTransition)
	}
	f.snap.State = StateConfirmNew
	return f.save(ctx)
}

// Reset discards the flow.
func (f *Flow) Reset(ctx context.Context) error {
	f.snap = Snapshot{State: StateSelectingSlot}
	return f.store.Delete(ctx, f.sessionID, snapshotKey)
}

func (f *Flow) invalidate() {
	if f.appts != nil {
		f.appts.Invalidate(f.sessionID)
	}
}

func (f *Flow) save(ctx context.Context) error {
	raw, err := json.Marshal(f.snap)
	if err != nil {
		return err
	}
	if err := f.store.Set(ctx, f.sessionID, snapshotKey, string(raw)); err != nil {
		return fmt.Errorf("persist booking snapshot: %w", err)
	}
	return nil
}
