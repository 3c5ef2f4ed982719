package booking

import (
	"context"
	"fmt"
	"time"

	"hairline/internal/backend"
	mem "hairline/pkg/memcache"
	"hairline/pkg/utils"
)

// Appointments is a read-through cache of each session's appointment list.
type Appointments struct {
	cache *mem.Cache[[]backend.Appointment]
	ttl   time.Duration
	now   func() time.Time
}

func NewAppointments(ttl time.Duration) *Appointments {
	return &Appointments{cache: mem.NewCache[[]backend.Appointment](), ttl: ttl, now: time.Now}
}

func (a *Appointments) List(ctx context.Context, sessionID string, gw Gateway) ([]backend.Appointment, error) {
	if cached, ok := a.cache.Get(sessionID); ok {
		return cached, nil
	}
	list, err := gw.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}
	a.cache.Set(sessionID, list, a.ttl)
	return list, nil
}

func (a *Appointments) Invalidate(sessionID string) {
	a.cache.Delete(sessionID)
}

func (a *Appointments) Sweep() int { return a.cache.Sweep() }

// Find looks an appointment up in the session's list.
func (a *Appointments) Find(ctx context.Context, sessionID string, gw Gateway, id int64) (*backend.Appointment, error) {
	list, err := a.List(ctx, sessionID, gw)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			appt := list[i]
			return &appt, nil
		}
	}
	return nil, fmt.Errorf("appointment %d: %w", id, utils.RecordNotFound)
}

// Cancel cancels an active appointment at least MinNoticeHours away.
func (a *Appointments) Cancel(ctx context.Context, sessionID string, gw Gateway, id int64) (*backend.Appointment, error) {
	appt, err := a.Find(ctx, sessionID, gw, id)
	if err != nil {
		return nil, err
	}
	if !appt.Active() {
		return nil, fmt.Errorf("%w: appointment is %s", utils.ErrConflict, appt.Status)
	}
	diff, err := utils.HoursUntil(appt.Date, appt.Time, a.now())
	if err != nil {
		return nil, fmt.Errorf("appointment time: %w", err)
	}
	if !CanCancel(diff) {
		return nil, utils.ErrCancelWindow
	}

	cancelled, err := gw.CancelAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Invalidate(sessionID)
	return cancelled, nil
}
