package response_models

import (
	"hairline/internal/backend"
	"hairline/internal/booking"
)

type BookingResponse struct {
	State       booking.State        `json:"state"`
	DoctorID    int64                `json:"doctor_id,omitempty"`
	Date        string               `json:"date,omitempty"`
	Time        string               `json:"time,omitempty"`
	Eligibility *backend.Eligibility `json:"eligibility,omitempty"`
	HasPending  bool                 `json:"has_pending_attempt"`
	Appointment *backend.Appointment `json:"appointment,omitempty"`
	PixData     *backend.PixData     `json:"pix_data,omitempty"`
}

func NewBookingResponse(s booking.Snapshot) BookingResponse {
	return BookingResponse{
		State:       s.State,
		DoctorID:    s.DoctorID,
		Date:        s.Date,
		Time:        s.Time,
		Eligibility: s.Eligibility,
		HasPending:  s.Pending != nil,
		Appointment: s.Appointment,
		PixData:     s.PixData,
	}
}

// AppointmentResponse adds the notice-window flags the UI uses to enable
// reschedule and cancel.
type AppointmentResponse struct {
	backend.Appointment
	CanReschedule bool `json:"can_reschedule"`
	CanCancel     bool `json:"can_cancel"`
}
