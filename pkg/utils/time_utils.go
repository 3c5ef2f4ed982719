// utils/timeutil.go
package utils

import (
	"fmt"
	"time"
)

// Brasília time (BRT, -03:00); appointment dates and slots are local wall time.
var brLoc = func() *time.Location {
	if loc, err := time.LoadLocation("America/Sao_Paulo"); err == nil {
		return loc
	}
	return time.FixedZone("BRT", -3*3600)
}()

const (
	DateLayout = "2006-01-02"
	SlotLayout = "15:04"
)

func BRLocation() *time.Location { return brLoc }

// ParseAppointmentTime combines an appointment date ("2006-01-02") and slot
// ("15:04", seconds optional) into a BRT instant.
func ParseAppointmentTime(date, slot string) (time.Time, error) {
	if len(slot) == len("15:04:05") {
		slot = slot[:5]
	}
	t, err := time.ParseInLocation(DateLayout+" "+SlotLayout, date+" "+slot, brLoc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse appointment time %q %q: %w", date, slot, err)
	}
	return t, nil
}

// HoursUntil returns the (possibly negative) number of hours from now to the appointment.
func HoursUntil(date, slot string, now time.Time) (float64, error) {
	at, err := ParseAppointmentTime(date, slot)
	if err != nil {
		return 0, err
	}
	return at.Sub(now).Hours(), nil
}
