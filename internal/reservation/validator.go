package reservation

import (
	"strings"
	"time"

	"github.com/iliyamo/campus-space-reservation/internal/model"
)

// ValidateCreate runs the pure rule checks on a reservation request, in
// order, short-circuiting on the first failure.  Slot-conflict checking
// is deliberately not done here; see Manager.Create.
func ValidateCreate(req model.CreateReservationRequest) error {
	if !validClock(req.StartTime) || !validClock(req.EndTime) || req.StartTime >= req.EndTime {
		return ErrInvalidTimeRange
	}
	if strings.TrimSpace(req.Description) == "" {
		return ErrMissingDescription
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// validClock reports whether s is a 24-hour HH:mm string.
func validClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
