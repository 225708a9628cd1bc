package slot

import (
	"fmt"
	"testing"

	"github.com/iliyamo/campus-space-reservation/internal/model"
)

func res(status model.ReservationStatus, start, end string) model.Reservation {
	return model.Reservation{
		ID:        "r-" + start,
		SpaceID:   "court-1",
		UserID:    "u1",
		UserName:  "Ana",
		Date:      "2025-03-10",
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"exact match", "10:00", "11:00", "10:00", "11:00", true},
		{"partial overlap left", "09:30", "10:30", "10:00", "11:00", true},
		{"partial overlap right", "10:30", "11:30", "10:00", "11:00", true},
		{"containment", "09:00", "12:00", "10:00", "11:00", true},
		{"touching at boundary", "09:00", "10:00", "10:00", "11:00", false},
		{"disjoint", "07:00", "08:00", "10:00", "11:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name         string
		reservations []model.Reservation
		wantStatus   model.SlotStatus
		wantOccupant bool
	}{
		{"no reservations", nil, model.SlotAvailable, false},
		{"approved overlap", []model.Reservation{res(model.ReservationApproved, "10:00", "11:00")}, model.SlotReserved, true},
		{"pending overlap", []model.Reservation{res(model.ReservationPending, "10:30", "11:30")}, model.SlotPendingApproval, true},
		{"rejected never occupies", []model.Reservation{res(model.ReservationRejected, "10:00", "11:00")}, model.SlotAvailable, false},
		{"cancelled never occupies", []model.Reservation{res(model.ReservationCancelled, "10:00", "11:00")}, model.SlotAvailable, false},
		{"disjoint reservation", []model.Reservation{res(model.ReservationApproved, "14:00", "15:00")}, model.SlotAvailable, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, occ := Evaluate("10:00", "11:00", tc.reservations)
			if status != tc.wantStatus {
				t.Errorf("status = %s, want %s", status, tc.wantStatus)
			}
			if (occ != nil) != tc.wantOccupant {
				t.Errorf("occupant = %v, want occupant %v", occ, tc.wantOccupant)
			}
		})
	}
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	rs := []model.Reservation{
		res(model.ReservationPending, "10:00", "11:00"),
		res(model.ReservationApproved, "10:00", "11:00"),
	}
	status, occ := Evaluate("10:00", "11:00", rs)
	if status != model.SlotPendingApproval {
		t.Errorf("status = %s, want %s (first match in slice order)", status, model.SlotPendingApproval)
	}
	if occ == nil || occ.ID != rs[0].ID {
		t.Errorf("occupant = %v, want first reservation", occ)
	}
}

func TestDefaultGrid(t *testing.T) {
	slots := DefaultGrid("court-1", "2025-03-10", nil)
	if len(slots) != 15 {
		t.Fatalf("len(slots) = %d, want 15", len(slots))
	}
	for i, s := range slots {
		hour := GridStartHour + i
		if want := fmt.Sprintf("%02d:00", hour); s.StartTime != want {
			t.Errorf("slot %d start = %s, want %s", i, s.StartTime, want)
		}
		if want := fmt.Sprintf("%02d:00", hour+1); s.EndTime != want {
			t.Errorf("slot %d end = %s, want %s", i, s.EndTime, want)
		}
		if want := fmt.Sprintf("court-1-2025-03-10-%d", hour); s.ID != want {
			t.Errorf("slot %d id = %s, want %s", i, s.ID, want)
		}
		if s.Status != model.SlotAvailable {
			t.Errorf("slot %d status = %s, want AVAILABLE", i, s.Status)
		}
	}
	if slots[0].StartTime != "07:00" || slots[14].EndTime != "22:00" {
		t.Errorf("grid bounds = %s..%s, want 07:00..22:00", slots[0].StartTime, slots[14].EndTime)
	}
}

func TestDefaultGridWithReservations(t *testing.T) {
	rs := []model.Reservation{
		res(model.ReservationApproved, "10:00", "12:00"),
		res(model.ReservationPending, "15:30", "16:30"),
	}
	slots := DefaultGrid("court-1", "2025-03-10", rs)
	byStart := map[string]model.TimeSlot{}
	for _, s := range slots {
		byStart[s.StartTime] = s
	}
	// the approved 10:00-12:00 reservation covers two hourly slots
	for _, start := range []string{"10:00", "11:00"} {
		s := byStart[start]
		if s.Status != model.SlotReserved {
			t.Errorf("slot %s status = %s, want RESERVED", start, s.Status)
		}
		if s.ReservedBy != "u1" || s.ReservedByName != "Ana" {
			t.Errorf("slot %s occupant = %q/%q, want u1/Ana", start, s.ReservedBy, s.ReservedByName)
		}
	}
	// the pending reservation straddles the 15:00 and 16:00 slots
	for _, start := range []string{"15:00", "16:00"} {
		if s := byStart[start]; s.Status != model.SlotPendingApproval {
			t.Errorf("slot %s status = %s, want PENDING_APPROVAL", start, s.Status)
		}
	}
	if s := byStart["09:00"]; s.Status != model.SlotAvailable {
		t.Errorf("slot 09:00 status = %s, want AVAILABLE", s.Status)
	}
}

func TestApplyToConfigured(t *testing.T) {
	slots := []model.TimeSlot{
		{ID: "s1", SpaceID: "court-1", Date: "2025-03-10", StartTime: "10:00", EndTime: "11:00", Status: model.SlotAvailable},
		{ID: "s2", SpaceID: "court-1", Date: "2025-03-10", StartTime: "11:00", EndTime: "12:00", Status: model.SlotBlocked},
		{ID: "s3", SpaceID: "court-1", Date: "2025-03-10", StartTime: "12:00", EndTime: "13:00", Status: model.SlotAvailable},
	}
	rs := []model.Reservation{
		res(model.ReservationApproved, "10:00", "11:00"), // exact match for s1
		res(model.ReservationPending, "11:00", "13:00"),  // overlaps s2 and s3
	}
	out := ApplyToConfigured(slots, rs)

	if out[0].Status != model.SlotReserved {
		t.Errorf("s1 status = %s, want RESERVED", out[0].Status)
	}
	if out[0].ReservedByName != "Ana" {
		t.Errorf("s1 occupant name = %q, want Ana", out[0].ReservedByName)
	}
	if out[1].Status != model.SlotBlocked {
		t.Errorf("s2 status = %s, want BLOCKED preserved", out[1].Status)
	}
	if out[2].Status != model.SlotPendingApproval {
		t.Errorf("s3 status = %s, want PENDING_APPROVAL via overlap fallback", out[2].Status)
	}
}

func TestApplyToConfiguredNoMatchKeepsStatus(t *testing.T) {
	slots := []model.TimeSlot{
		{ID: "s1", StartTime: "08:00", EndTime: "09:00", Status: model.SlotAvailable},
	}
	out := ApplyToConfigured(slots, []model.Reservation{res(model.ReservationApproved, "14:00", "15:00")})
	if out[0].Status != model.SlotAvailable {
		t.Errorf("status = %s, want AVAILABLE untouched", out[0].Status)
	}
}
