package cache

import (
	"context"
	"sync"

	"github.com/iliyamo/campus-space-reservation/internal/model"
	"github.com/iliyamo/campus-space-reservation/internal/store"
)

// Watched decorates a cache with change notification.  Observers
// subscribe to a key and receive a fresh snapshot immediately and after
// every write touching that key.  Snapshots are re-read from the
// underlying cache on each signal, so all observers of a key see the
// state as of the last completed replace.
type Watched struct {
	store.Cache

	mu   sync.Mutex
	subs map[string][]chan struct{}
}

// NewWatched wraps an existing cache.
func NewWatched(inner store.Cache) *Watched {
	return &Watched{Cache: inner, subs: make(map[string][]chan struct{})}
}

const (
	topicSpaces       = "spaces"
	topicReservations = "reservations"
)

func topicSlots(spaceID, date string) string { return "slots|" + spaceID + "|" + date }

// notify signals every subscriber of a topic without blocking; a
// subscriber that already has a pending signal just coalesces.
func (w *Watched) notify(topic string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (w *Watched) subscribe(topic string) (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 1)
	w.mu.Lock()
	w.subs[topic] = append(w.subs[topic], ch)
	w.mu.Unlock()
	return ch, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		list := w.subs[topic]
		for i, c := range list {
			if c == ch {
				w.subs[topic] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

// ---- write interception ----

func (w *Watched) UpsertSpace(ctx context.Context, s model.Space) error {
	if err := w.Cache.UpsertSpace(ctx, s); err != nil {
		return err
	}
	w.notify(topicSpaces)
	return nil
}

func (w *Watched) UpsertSpaces(ctx context.Context, spaces []model.Space) error {
	if err := w.Cache.UpsertSpaces(ctx, spaces); err != nil {
		return err
	}
	w.notify(topicSpaces)
	return nil
}

func (w *Watched) ReplaceSlots(ctx context.Context, spaceID, date string, slots []model.TimeSlot) error {
	if err := w.Cache.ReplaceSlots(ctx, spaceID, date, slots); err != nil {
		return err
	}
	w.notify(topicSlots(spaceID, date))
	return nil
}

func (w *Watched) UpsertReservation(ctx context.Context, r model.Reservation) error {
	if err := w.Cache.UpsertReservation(ctx, r); err != nil {
		return err
	}
	w.notify(topicReservations)
	return nil
}

func (w *Watched) ClearReservations(ctx context.Context) error {
	if err := w.Cache.ClearReservations(ctx); err != nil {
		return err
	}
	w.notify(topicReservations)
	return nil
}

// ---- watch streams ----

// WatchSlots returns a stream of slot-grid snapshots for one space+date.
// The current snapshot is emitted first; a new one follows every cache
// replace for that key.  The channel closes when ctx is cancelled.
func (w *Watched) WatchSlots(ctx context.Context, spaceID, date string) <-chan []model.TimeSlot {
	out := make(chan []model.TimeSlot, 1)
	signal, cancel := w.subscribe(topicSlots(spaceID, date))

	go func() {
		defer close(out)
		defer cancel()
		for {
			snapshot, err := w.Cache.ListSlots(ctx, spaceID, date)
			if err == nil {
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-ctx.Done():
				return
			case <-signal:
			}
		}
	}()
	return out
}

// WatchActiveSpaces streams snapshots of the active-space list.
func (w *Watched) WatchActiveSpaces(ctx context.Context) <-chan []model.Space {
	out := make(chan []model.Space, 1)
	signal, cancel := w.subscribe(topicSpaces)

	go func() {
		defer close(out)
		defer cancel()
		for {
			snapshot, err := w.Cache.ListActiveSpaces(ctx)
			if err == nil {
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-ctx.Done():
				return
			case <-signal:
			}
		}
	}()
	return out
}

// WatchReservations streams snapshots of the reservations matching the
// filter.  Every reservation write re-evaluates the filter.
func (w *Watched) WatchReservations(ctx context.Context, f store.ReservationFilter) <-chan []model.Reservation {
	out := make(chan []model.Reservation, 1)
	signal, cancel := w.subscribe(topicReservations)

	go func() {
		defer close(out)
		defer cancel()
		for {
			snapshot, err := w.Cache.ListReservations(ctx, f)
			if err == nil {
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-ctx.Done():
				return
			case <-signal:
			}
		}
	}()
	return out
}
