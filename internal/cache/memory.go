package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/campus-space-reservation/internal/model"
	"github.com/iliyamo/campus-space-reservation/internal/store"
)

// Memory is an in-process cache with the same semantics as the MySQL
// backend.  It backs tests and single-node deployments that do not want
// a cache database (CACHE_DRIVER=memory).
type Memory struct {
	mu           sync.RWMutex
	spaces       map[string]model.Space
	slots        map[string][]model.TimeSlot // keyed by spaceID+"|"+date
	reservations map[string]model.Reservation
	users        map[string]model.User
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		spaces:       make(map[string]model.Space),
		slots:        make(map[string][]model.TimeSlot),
		reservations: make(map[string]model.Reservation),
		users:        make(map[string]model.User),
	}
}

func slotKey(spaceID, date string) string { return spaceID + "|" + date }

func (c *Memory) UpsertSpace(_ context.Context, s model.Space) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spaces[s.ID] = s
	return nil
}

func (c *Memory) UpsertSpaces(ctx context.Context, spaces []model.Space) error {
	for _, s := range spaces {
		if err := c.UpsertSpace(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Memory) GetSpace(_ context.Context, id string) (*model.Space, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.spaces[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (c *Memory) ListActiveSpaces(_ context.Context) ([]model.Space, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Space, 0, len(c.spaces))
	for _, s := range c.spaces {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *Memory) ReplaceSlots(_ context.Context, spaceID, date string, slots []model.TimeSlot) error {
	cp := make([]model.TimeSlot, len(slots))
	copy(cp, slots)
	sort.Slice(cp, func(i, j int) bool { return cp[i].StartTime < cp[j].StartTime })
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[slotKey(spaceID, date)] = cp
	return nil
}

func (c *Memory) ListSlots(_ context.Context, spaceID, date string) ([]model.TimeSlot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cached := c.slots[slotKey(spaceID, date)]
	out := make([]model.TimeSlot, len(cached))
	copy(out, cached)
	return out, nil
}

func (c *Memory) UpsertReservation(_ context.Context, r model.Reservation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reservations[r.ID] = r
	return nil
}

func (c *Memory) GetReservation(_ context.Context, id string) (*model.Reservation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.reservations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (c *Memory) ListReservations(_ context.Context, f store.ReservationFilter) ([]model.Reservation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Reservation, 0)
	for _, r := range c.reservations {
		if matchFilter(r, f) {
			out = append(out, r)
		}
	}
	if f.UserID != "" {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	} else {
		sort.Slice(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date < out[j].Date
			}
			return out[i].StartTime < out[j].StartTime
		})
	}
	return out, nil
}

func (c *Memory) ClearReservations(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reservations = make(map[string]model.Reservation)
	return nil
}

func (c *Memory) UpsertUser(_ context.Context, u model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[u.ID] = u
	return nil
}

func (c *Memory) GetUser(_ context.Context, id string) (*model.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (c *Memory) ClearUsers(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = make(map[string]model.User)
	return nil
}

func matchFilter(r model.Reservation, f store.ReservationFilter) bool {
	if f.SpaceID != "" && r.SpaceID != f.SpaceID {
		return false
	}
	if f.Date != "" && r.Date != f.Date {
		return false
	}
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if len(f.StatusIn) > 0 {
		ok := false
		for _, st := range f.StatusIn {
			if r.Status == st {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.DateFrom != "" && r.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && r.Date > f.DateTo {
		return false
	}
	return true
}
