package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"hairline/internal/session"
)

func (c *Client) Slots(ctx context.Context, sess *session.Session, date string, doctorID int64) ([]string, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("doctor_id", strconv.FormatInt(doctorID, 10))

	var out []string
	if err := c.do(ctx, sess, http.MethodGet, "/medical/slots/", q, nil, &out); err != nil {
		return nil, fmt.Errorf("slots: %w", err)
	}
	for _, s := range out {
		if err := validate.Var(s, "slot"); err != nil {
			return nil, fmt.Errorf("slots: invalid slot %q", s)
		}
	}
	return out, nil
}

func (c *Client) CheckEligibility(ctx context.Context, sess *session.Session, doctorID int64) (*Eligibility, error) {
	q := url.Values{}
	q.Set("doctor_id", strconv.FormatInt(doctorID, 10))

	var out Eligibility
	if err := c.do(ctx, sess, http.MethodGet, "/medical/appointments/check-eligibility/", q, nil, &out); err != nil {
		return nil, fmt.Errorf("check eligibility: %w", err)
	}
	return &out, nil
}

func (c *Client) ListAppointments(ctx context.Context, sess *session.Session) ([]Appointment, error) {
	var out []Appointment
	if err := c.do(ctx, sess, http.MethodGet, "/medical/appointments/", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

func (c *Client) CreateAppointment(ctx context.Context, sess *session.Session, req CreateAppointmentRequest) (*CreateAppointmentResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}
	var out CreateAppointmentResponse
	if err := c.do(ctx, sess, http.MethodPost, "/medical/appointments/", nil, req, &out); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return &out, nil
}

func (c *Client) RescheduleAppointment(ctx context.Context, sess *session.Session, id int64, req RescheduleRequest) (*Appointment, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}
	var out Appointment
	path := fmt.Sprintf("/medical/appointments/%d/reschedule/", id)
	if err := c.do(ctx, sess, http.MethodPost, path, nil, req, &out); err != nil {
		return nil, fmt.Errorf("reschedule appointment %d: %w", id, err)
	}
	return &out, nil
}

func (c *Client) CancelAppointment(ctx context.Context, sess *session.Session, id int64) (*Appointment, error) {
	var out Appointment
	path := fmt.Sprintf("/medical/appointments/%d/cancel/", id)
	if err := c.do(ctx, sess, http.MethodPost, path, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("cancel appointment %d: %w", id, err)
	}
	return &out, nil
}
