package cache

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/campus-space-reservation/internal/model"
	"github.com/iliyamo/campus-space-reservation/internal/store"
)

func slotsFor(date string, status model.SlotStatus) []model.TimeSlot {
	return []model.TimeSlot{{
		ID:        "court-1-" + date + "-10",
		SpaceID:   "court-1",
		Date:      date,
		StartTime: "10:00",
		EndTime:   "11:00",
		Status:    status,
	}}
}

func recvSlots(t *testing.T, ch <-chan []model.TimeSlot) []model.TimeSlot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("stream closed early")
		}
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestWatchSlotsEmitsSnapshotThenUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatched(NewMemory())
	if err := w.ReplaceSlots(ctx, "court-1", "2025-03-10", slotsFor("2025-03-10", model.SlotAvailable)); err != nil {
		t.Fatalf("seed slots: %v", err)
	}

	stream := w.WatchSlots(ctx, "court-1", "2025-03-10")

	first := recvSlots(t, stream)
	if len(first) != 1 || first[0].Status != model.SlotAvailable {
		t.Fatalf("initial snapshot = %+v, want one AVAILABLE slot", first)
	}

	if err := w.ReplaceSlots(ctx, "court-1", "2025-03-10", slotsFor("2025-03-10", model.SlotReserved)); err != nil {
		t.Fatalf("replace slots: %v", err)
	}

	second := recvSlots(t, stream)
	if len(second) != 1 || second[0].Status != model.SlotReserved {
		t.Fatalf("snapshot after replace = %+v, want one RESERVED slot", second)
	}
}

func TestWatchSlotsIgnoresOtherKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatched(NewMemory())
	stream := w.WatchSlots(ctx, "court-1", "2025-03-10")
	recvSlots(t, stream) // initial (empty) snapshot

	// Writes to a different date and a different space must not signal
	// this subscriber.
	if err := w.ReplaceSlots(ctx, "court-1", "2025-03-11", slotsFor("2025-03-11", model.SlotReserved)); err != nil {
		t.Fatalf("replace slots: %v", err)
	}
	if err := w.ReplaceSlots(ctx, "garden-1", "2025-03-10", slotsFor("2025-03-10", model.SlotReserved)); err != nil {
		t.Fatalf("replace slots: %v", err)
	}

	select {
	case snap := <-stream:
		t.Fatalf("unexpected snapshot %+v for unrelated writes", snap)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchSlotsClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	w := NewWatched(NewMemory())
	stream := w.WatchSlots(ctx, "court-1", "2025-03-10")
	recvSlots(t, stream)

	cancel()

	select {
	case _, ok := <-stream:
		if ok {
			t.Fatal("expected stream close after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("stream did not close after cancel")
	}
}

func TestWatchReservationsFiltersAndSignals(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatched(NewMemory())
	stream := w.WatchReservations(ctx, store.ReservationFilter{
		StatusIn: []model.ReservationStatus{model.ReservationPending},
	})

	select {
	case snap := <-stream:
		if len(snap) != 0 {
			t.Fatalf("initial snapshot = %+v, want empty", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	if err := w.UpsertReservation(ctx, model.Reservation{
		ID: "r1", SpaceID: "court-1", UserID: "u1",
		Date: "2025-03-10", StartTime: "10:00", EndTime: "11:00",
		Status: model.ReservationPending,
	}); err != nil {
		t.Fatalf("upsert reservation: %v", err)
	}

	select {
	case snap := <-stream:
		if len(snap) != 1 || snap[0].ID != "r1" {
			t.Fatalf("snapshot after upsert = %+v, want r1", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for pending snapshot")
	}

	// Approving r1 drops it out of the PENDING filter on the next
	// snapshot.
	if err := w.UpsertReservation(ctx, model.Reservation{
		ID: "r1", SpaceID: "court-1", UserID: "u1",
		Date: "2025-03-10", StartTime: "10:00", EndTime: "11:00",
		Status: model.ReservationApproved,
	}); err != nil {
		t.Fatalf("upsert reservation: %v", err)
	}

	select {
	case snap := <-stream:
		if len(snap) != 0 {
			t.Fatalf("snapshot after approval = %+v, want empty", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for re-filtered snapshot")
	}
}

func TestWatchActiveSpacesSignalsOnUpsert(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatched(NewMemory())
	stream := w.WatchActiveSpaces(ctx)

	select {
	case snap := <-stream:
		if len(snap) != 0 {
			t.Fatalf("initial snapshot = %+v, want empty", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	if err := w.UpsertSpaces(ctx, []model.Space{{ID: "court-1", Name: "Cancha 1", Type: model.SpaceCourt, IsActive: true}}); err != nil {
		t.Fatalf("upsert spaces: %v", err)
	}

	select {
	case snap := <-stream:
		if len(snap) != 1 || snap[0].ID != "court-1" {
			t.Fatalf("snapshot after upsert = %+v, want court-1", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for updated snapshot")
	}
}
