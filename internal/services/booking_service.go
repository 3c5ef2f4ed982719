package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"hairline/internal/backend"
	"hairline/internal/booking"
	"hairline/internal/models/request_models"
	"hairline/internal/models/response_models"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

type BookingServiceInterface interface {
	Slots(ctx context.Context, sess *session.Session, date string, doctorID int64) ([]string, error)
	State(ctx context.Context, sess *session.Session) (*response_models.BookingResponse, error)
	Select(ctx context.Context, sess *session.Session, req request_models.SelectSlotRequest) (*response_models.BookingResponse, error)
	Book(ctx context.Context, sess *session.Session, req request_models.BookRequest) (*response_models.BookingResponse, error)
	Retry(ctx context.Context, sess *session.Session, req request_models.RetryRequest) (*response_models.BookingResponse, error)
	Reschedule(ctx context.Context, sess *session.Session) (*response_models.BookingResponse, error)
	DeclineReschedule(ctx context.Context, sess *session.Session) (*response_models.BookingResponse, error)
	Reset(ctx context.Context, sess *session.Session) error
	Appointments(ctx context.Context, sess *session.Session) ([]response_models.AppointmentResponse, error)
	Cancel(ctx context.Context, sess *session.Session, id int64) (*backend.Appointment, error)
}

type BookingService struct {
	backend MedicalBackend
	store   FlowStore
	appts   *booking.Appointments
	logger  *zap.Logger
	now     func() time.Time
}

func NewBookingService(b MedicalBackend, store FlowStore, appts *booking.Appointments, logger *zap.Logger) BookingServiceInterface {
	return &BookingService{
		backend: b,
		store:   store,
		appts:   appts,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *BookingService) gateway(sess *session.Session) booking.Gateway {
	return medicalGateway{b: s.backend, sess: sess}
}

func (s *BookingService) step(ctx context.Context, sess *session.Session, fn func(f *booking.Flow) error) (*response_models.BookingResponse, error) {
	flow, err := booking.Restore(ctx, sess.ID, s.store, s.gateway(sess), s.appts)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		if err := fn(flow); err != nil {
			return nil, err
		}
	}
	resp := response_models.NewBookingResponse(flow.Snapshot())
	return &resp, nil
}

func (s *BookingService) Slots(ctx context.Context, sess *session.Session, date string, doctorID int64) ([]string, error) {
	flow := booking.New(sess.ID, s.store, s.gateway(sess), s.appts)
	slots, err := flow.ListSlots(ctx, date, doctorID)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}

func (s *BookingService) State(ctx context.Context, sess *session.Session) (*response_models.BookingResponse, error) {
	return s.step(ctx, sess, nil)
}

func (s *BookingService) Select(ctx context.Context, sess *session.Session, req request_models.SelectSlotRequest) (*response_models.BookingResponse, error) {
	return s.step(ctx, sess, func(f *booking.Flow) error {
		return f.SelectSlot(ctx, req.DoctorID, req.Date, req.Time)
	})
}

func (s *BookingService) Book(ctx context.Context, sess *session.Session, req request_models.BookRequest) (*response_models.BookingResponse, error) {
	return s.step(ctx, sess, func(f *booking.Flow) error {
		err := f.Book(ctx, req.PaymentMethod, req.Card)
		s.logAttempt(sess, f, "book", err)
		return err
	})
}

func (s *BookingService) Retry(ctx context.Context, sess *session.Session, req request_models.RetryRequest) (*response_models.BookingResponse, error) {
	return s.step(ctx, sess, func(f *booking.Flow) error {
		err := f.Retry(ctx, req.Card)
		s.logAttempt(sess, f, "retry", err)
		return err
	})
}

func (s *BookingService) logAttempt(sess *session.Session, f *booking.Flow, op string, err error) {
	snap := f.Snapshot()
	fields := []zap.Field{zap.String("session_id", sess.ID), zap.String("op", op), zap.String("state", string(snap.State))}
	if snap.Pending != nil {
		fields = append(fields, zap.String("idempotency_key", snap.Pending.Key))
	}
	if err != nil {
		s.logger.Warn("booking attempt failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Info("booking attempt", fields...)
}

func (s *BookingService) Reschedule(ctx context.Context, sess *session.Session) (*response_models.BookingResponse, error) {
	return s.step(ctx, sess, func(f *booking.Flow) error {
		return f.Reschedule(ctx)
	})
}

func (s *BookingService) DeclineReschedule(ctx context.Context, sess *session.Session) (*response_models.BookingResponse, error) {
	return s.step(ctx, sess, func(f *booking.Flow) error {
		return f.BookInstead(ctx)
	})
}

func (s *BookingService) Reset(ctx context.Context, sess *session.Session) error {
	return booking.New(sess.ID, s.store, s.gateway(sess), s.appts).Reset(ctx)
}

func (s *BookingService) Appointments(ctx context.Context, sess *session.Session) ([]response_models.AppointmentResponse, error) {
	list, err := s.appts.List(ctx, sess.ID, s.gateway(sess))
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]response_models.AppointmentResponse, 0, len(list))
	for _, a := range list {
		item := response_models.AppointmentResponse{Appointment: a}
		if a.Active() {
			if diff, err := utils.HoursUntil(a.Date, a.Time, now); err == nil {
				item.CanReschedule = booking.CanReschedule(diff)
				item.CanCancel = booking.CanCancel(diff)
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *BookingService) Cancel(ctx context.Context, sess *session.Session, id int64) (*backend.Appointment, error) {
	return s.appts.Cancel(ctx, sess.ID, s.gateway(sess), id)
}
