// Package slot derives the occupancy status of time slots from the
// reservations that overlap them.  Everything in this package is a pure
// function of its inputs; persistence and remote fetching live in the
// availability synchronizer.
package slot

import (
	"fmt"

	"github.com/iliyamo/campus-space-reservation/internal/model"
)

// The default grid covers 15 one-hour slots with start hours 7 through
// 21 inclusive.
const (
	GridStartHour = 7
	GridEndHour   = 22
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.  Times are fixed-width 24-hour HH:mm strings,
// so lexicographic comparison is chronological comparison.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// occupies reports whether r should count against a slot at all.
// Rejected, cancelled and completed reservations never occupy a slot.
func occupies(r model.Reservation) bool {
	return r.Status == model.ReservationApproved || r.Status == model.ReservationPending
}

// statusFor maps a reservation's status to the slot status it induces.
func statusFor(r model.Reservation) model.SlotStatus {
	if r.Status == model.ReservationApproved {
		return model.SlotReserved
	}
	return model.SlotPendingApproval
}

// Evaluate derives the status of the interval [start, end) from the given
// reservations using the symmetric overlap test.  It returns the derived
// status and the matching reservation, or AVAILABLE and nil when nothing
// overlaps.  When several reservations overlap the same interval the
// first match in slice order wins; ordering between them is undefined.
func Evaluate(start, end string, reservations []model.Reservation) (model.SlotStatus, *model.Reservation) {
	for i := range reservations {
		r := &reservations[i]
		if !occupies(*r) {
			continue
		}
		if Overlaps(r.StartTime, r.EndTime, start, end) {
			return statusFor(*r), r
		}
	}
	return model.SlotAvailable, nil
}

// GeneratedID returns the deterministic identifier used for slots of the
// default grid: {spaceId}-{date}-{hour}.
func GeneratedID(spaceID, date string, hour int) string {
	return fmt.Sprintf("%s-%s-%d", spaceID, date, hour)
}

// DefaultGrid builds the hourly grid for a space+date that has no
// explicitly configured slots: 15 slots from 07:00 to 22:00, each one
// hour long and evaluated against the reservations via interval overlap.
func DefaultGrid(spaceID, date string, reservations []model.Reservation) []model.TimeSlot {
	slots := make([]model.TimeSlot, 0, GridEndHour-GridStartHour)
	for hour := GridStartHour; hour < GridEndHour; hour++ {
		start := fmt.Sprintf("%02d:00", hour)
		end := fmt.Sprintf("%02d:00", hour+1)
		s := model.TimeSlot{
			ID:        GeneratedID(spaceID, date, hour),
			SpaceID:   spaceID,
			Date:      date,
			StartTime: start,
			EndTime:   end,
			Status:    model.SlotAvailable,
		}
		if status, r := Evaluate(start, end, reservations); r != nil {
			s.Status = status
			s.ReservedBy = r.UserID
			s.ReservedByName = r.UserName
			s.Description = r.Description
		}
		slots = append(slots, s)
	}
	return slots
}

// ApplyToConfigured re-derives the status of explicitly configured slots.
// Each slot is matched against the reservations by exact interval first
// and by overlap as fallback.  Slots with no matching reservation keep
// their configured status untouched, and an administratively BLOCKED slot
// stays BLOCKED no matter what overlaps it.  The input slice is modified
// in place and returned.
func ApplyToConfigured(slots []model.TimeSlot, reservations []model.Reservation) []model.TimeSlot {
	for i := range slots {
		s := &slots[i]
		if s.Status == model.SlotBlocked {
			continue
		}
		r := matchExact(*s, reservations)
		if r == nil {
			_, r = Evaluate(s.StartTime, s.EndTime, reservations)
		}
		if r == nil {
			continue
		}
		s.Status = statusFor(*r)
		s.ReservedBy = r.UserID
		s.ReservedByName = r.UserName
		s.Description = r.Description
	}
	return slots
}

// matchExact returns the first occupying reservation whose interval equals
// the slot's exactly.
func matchExact(s model.TimeSlot, reservations []model.Reservation) *model.Reservation {
	for i := range reservations {
		r := &reservations[i]
		if !occupies(*r) {
			continue
		}
		if r.StartTime == s.StartTime && r.EndTime == s.EndTime {
			return r
		}
	}
	return nil
}
