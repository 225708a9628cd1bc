// Package availability reconciles authoritative reservation data into
// the locally cached slot grid for a space+date.  Remote failures are
// absorbed here: the cache keeps serving its last synced state and the
// caller only sees a log line (stale-but-available).
package availability

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/campus-space-reservation/internal/model"
	"github.com/iliyamo/campus-space-reservation/internal/slot"
	"github.com/iliyamo/campus-space-reservation/internal/store"
)

// Synchronizer computes the authoritative slot list for a space+date and
// replaces the cached entry set atomically (delete-then-insert).
// Concurrent syncs of the same key are not serialized; the last replace
// to complete wins, which is an accepted trade-off of the design.
type Synchronizer struct {
	remote store.Remote
	cache  store.Cache
}

// NewSynchronizer builds a Synchronizer over the two collaborators.
func NewSynchronizer(remote store.Remote, cache store.Cache) *Synchronizer {
	return &Synchronizer{remote: remote, cache: cache}
}

// SyncSlots refreshes the cached slot grid for one space+date:
//
//  1. fetch explicitly configured slots (may be empty),
//  2. fetch APPROVED and PENDING reservations for the same key,
//  3. derive slot statuses — the default hourly grid when no slots are
//     configured, otherwise re-evaluation of the configured slots,
//  4. replace the cache entry set for the key.
//
// Any remote fetch failure aborts the sync silently: the cache is left
// untouched and keeps serving the last known state.
func (s *Synchronizer) SyncSlots(ctx context.Context, spaceID, date string) {
	configured, err := s.remote.ListSlots(ctx, spaceID, date)
	if err != nil {
		log.Printf("availability: slot fetch failed for %s/%s: %v", spaceID, date, err)
		return
	}
	reservations, err := s.remote.ListReservations(ctx, store.ReservationFilter{
		SpaceID: spaceID,
		Date:    date,
		StatusIn: []model.ReservationStatus{
			model.ReservationApproved,
			model.ReservationPending,
		},
	})
	if err != nil {
		log.Printf("availability: reservation fetch failed for %s/%s: %v", spaceID, date, err)
		return
	}

	var slots []model.TimeSlot
	if len(configured) == 0 {
		slots = slot.DefaultGrid(spaceID, date, reservations)
	} else {
		slots = slot.ApplyToConfigured(configured, reservations)
	}

	if err := s.cache.ReplaceSlots(ctx, spaceID, date, slots); err != nil {
		log.Printf("availability: cache replace failed for %s/%s: %v", spaceID, date, err)
	}
}

// SyncSpaces refreshes the cached space list from the remote store.  On
// failure the cache keeps serving the previously synced spaces.
func (s *Synchronizer) SyncSpaces(ctx context.Context) {
	spaces, err := s.remote.ListActiveSpaces(ctx)
	if err != nil {
		log.Printf("availability: space fetch failed: %v", err)
		return
	}
	if err := s.cache.UpsertSpaces(ctx, spaces); err != nil {
		log.Printf("availability: space cache write failed: %v", err)
	}
}

// AutoSync re-runs SyncSlots for one space+date on every tick until the
// context is cancelled.  It is meant to run for as long as something
// observes that key (for example an open watch stream) and approximates
// real-time consistency in the absence of a push channel.
func (s *Synchronizer) AutoSync(ctx context.Context, spaceID, date string, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.SyncSlots(ctx, spaceID, date)
		}
	}
}
