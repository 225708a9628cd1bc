package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/campus-space-reservation/internal/model"
	"github.com/iliyamo/campus-space-reservation/internal/queue"
	"github.com/iliyamo/campus-space-reservation/internal/store"
)

// EventPublisher emits reservation lifecycle events to the message
// broker.  Publishing is best-effort: failures are logged and never fail
// the operation that triggered them.
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, ev queue.ReservationEvent) error
}

// Manager drives reservation state transitions.  Every transition writes
// to the authoritative remote store first; only after that write
// succeeds is the local cache updated to mirror it.  A failed cache
// mirror is logged but does not fail the operation, because the next
// sync repairs the cache.  A failed remote write fails the whole
// operation and leaves the cache untouched.
//
// The manager does not enforce caller roles; admin endpoints are gated
// by middleware before they reach it.
type Manager struct {
	remote store.Remote
	cache  store.Cache
	events EventPublisher // may be nil

	now   func() time.Time
	newID func() string
}

// NewManager builds a Manager.  events may be nil when no broker is
// configured.
func NewManager(remote store.Remote, cache store.Cache, events EventPublisher) *Manager {
	return &Manager{
		remote: remote,
		cache:  cache,
		events: events,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Create validates the request, checks that the target space exists and
// is active, and stores a new PENDING reservation.  Space and requester
// fields are denormalized into the record at this point.  Overlapping
// PENDING requests on the same interval are intentionally allowed; staff
// reconcile them at approval time.
func (m *Manager) Create(ctx context.Context, req model.CreateReservationRequest, requester model.User) (*model.Reservation, error) {
	if err := ValidateCreate(req); err != nil {
		return nil, err
	}

	space, err := m.spaceByID(ctx, req.SpaceID)
	if err != nil {
		return nil, err
	}
	if !space.IsActive {
		return nil, ErrSpaceInactive
	}

	r := model.Reservation{
		ID:          m.newID(),
		SpaceID:     space.ID,
		SpaceName:   space.Name,
		SpaceType:   space.Type,
		UserID:      requester.ID,
		UserName:    requester.Name,
		UserEmail:   requester.Email,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
		Status:      model.ReservationPending,
		CreatedAt:   m.now().UnixMilli(),
	}

	if err := m.remote.CreateReservation(ctx, r); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	if err := m.cache.UpsertReservation(ctx, r); err != nil {
		log.Printf("reservation: cache mirror failed for %s: %v", r.ID, err)
	}
	m.publish(ctx, queue.ActionCreated, r, "", "")
	return &r, nil
}

// Approve transitions a PENDING reservation to APPROVED and records the
// approver.  Re-approving an already APPROVED reservation is a no-op
// success; approving a rejected, cancelled or completed one fails with
// ErrAlreadyFinal.
func (m *Manager) Approve(ctx context.Context, id, approverID string) error {
	r, err := m.remote.GetReservation(ctx, id)
	if err != nil {
		return err
	}
	if r.Status == model.ReservationApproved {
		return nil
	}
	if r.Status.Terminal() {
		return ErrAlreadyFinal
	}

	status := model.ReservationApproved
	patch := store.ReservationPatch{Status: &status, ApprovedBy: &approverID}
	if err := m.remote.UpdateReservation(ctx, id, patch); err != nil {
		return fmt.Errorf("approve reservation: %w", err)
	}

	r.Status = model.ReservationApproved
	r.ApprovedBy = approverID
	m.mirror(ctx, *r)
	m.publish(ctx, queue.ActionApproved, *r, approverID, "")
	return nil
}

// Reject transitions a PENDING reservation to REJECTED, recording the
// non-blank reason.  Rejecting an already REJECTED reservation is a
// no-op success.
func (m *Manager) Reject(ctx context.Context, id, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrInvalidReason
	}
	r, err := m.remote.GetReservation(ctx, id)
	if err != nil {
		return err
	}
	if r.Status == model.ReservationRejected {
		return nil
	}
	if r.Status.Terminal() {
		return ErrAlreadyFinal
	}

	status := model.ReservationRejected
	patch := store.ReservationPatch{Status: &status, RejectionReason: &reason}
	if err := m.remote.UpdateReservation(ctx, id, patch); err != nil {
		return fmt.Errorf("reject reservation: %w", err)
	}

	r.Status = model.ReservationRejected
	r.RejectionReason = reason
	m.mirror(ctx, *r)
	m.publish(ctx, queue.ActionRejected, *r, "", reason)
	return nil
}

// Cancel transitions a non-terminal reservation to CANCELLED.
// Cancelling an already CANCELLED reservation is a no-op success.
func (m *Manager) Cancel(ctx context.Context, id string) error {
	r, err := m.remote.GetReservation(ctx, id)
	if err != nil {
		return err
	}
	if r.Status == model.ReservationCancelled {
		return nil
	}
	if r.Status.Terminal() {
		return ErrAlreadyFinal
	}

	status := model.ReservationCancelled
	if err := m.remote.UpdateReservation(ctx, id, store.ReservationPatch{Status: &status}); err != nil {
		return fmt.Errorf("cancel reservation: %w", err)
	}

	r.Status = model.ReservationCancelled
	m.mirror(ctx, *r)
	m.publish(ctx, queue.ActionCancelled, *r, "", "")
	return nil
}

// Get resolves one reservation, preferring the remote store and falling
// back to the cache when the remote cannot be reached.
func (m *Manager) Get(ctx context.Context, id string) (*model.Reservation, error) {
	r, err := m.remote.GetReservation(ctx, id)
	if err == nil {
		return r, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if cached, cerr := m.cache.GetReservation(ctx, id); cerr == nil {
		return cached, nil
	}
	return nil, err
}

// ---- read surface ----
//
// Reads are served from the local cache and refreshed by the explicit
// Sync* calls below.  Sync failures follow the stale-but-available
// policy: they are logged, the cache keeps serving its last state, and
// the caller is not informed beyond the log line.

// ListForUser returns the cached reservations of one user, newest first.
func (m *Manager) ListForUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	return m.cache.ListReservations(ctx, store.ReservationFilter{UserID: userID})
}

// ListPending returns all cached PENDING reservations.
func (m *Manager) ListPending(ctx context.Context) ([]model.Reservation, error) {
	return m.cache.ListReservations(ctx, store.ReservationFilter{
		StatusIn: []model.ReservationStatus{model.ReservationPending},
	})
}

// ListApprovedInRange returns cached APPROVED reservations whose date
// falls in the inclusive range [from, to].
func (m *Manager) ListApprovedInRange(ctx context.Context, from, to string) ([]model.Reservation, error) {
	return m.cache.ListReservations(ctx, store.ReservationFilter{
		StatusIn: []model.ReservationStatus{model.ReservationApproved},
		DateFrom: from,
		DateTo:   to,
	})
}

// SyncForUser refreshes the cache with the user's reservations from the
// remote store.
func (m *Manager) SyncForUser(ctx context.Context, userID string) {
	m.syncFiltered(ctx, store.ReservationFilter{UserID: userID})
}

// SyncPending refreshes the cache with all PENDING reservations.
func (m *Manager) SyncPending(ctx context.Context) {
	m.syncFiltered(ctx, store.ReservationFilter{
		StatusIn: []model.ReservationStatus{model.ReservationPending},
	})
}

// SyncApprovedInRange refreshes the cache with APPROVED reservations in
// the inclusive date range [from, to].
func (m *Manager) SyncApprovedInRange(ctx context.Context, from, to string) {
	m.syncFiltered(ctx, store.ReservationFilter{
		StatusIn: []model.ReservationStatus{model.ReservationApproved},
		DateFrom: from,
		DateTo:   to,
	})
}

func (m *Manager) syncFiltered(ctx context.Context, f store.ReservationFilter) {
	rs, err := m.remote.ListReservations(ctx, f)
	if err != nil {
		log.Printf("reservation: sync fetch failed: %v", err)
		return
	}
	for _, r := range rs {
		if err := m.cache.UpsertReservation(ctx, r); err != nil {
			log.Printf("reservation: sync cache write failed for %s: %v", r.ID, err)
		}
	}
}

// ---- helpers ----

// spaceByID resolves a space, trying the cache first and falling back to
// the remote store, caching whatever the remote returns.
func (m *Manager) spaceByID(ctx context.Context, id string) (*model.Space, error) {
	if s, err := m.cache.GetSpace(ctx, id); err == nil && s != nil {
		return s, nil
	}
	s, err := m.remote.GetSpace(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.cache.UpsertSpace(ctx, *s); err != nil {
		log.Printf("reservation: space cache write failed for %s: %v", s.ID, err)
	}
	return s, nil
}

// mirror upserts the post-transition record into the cache, logging on
// failure.  The remote write already succeeded at this point, so the
// operation result is not affected.
func (m *Manager) mirror(ctx context.Context, r model.Reservation) {
	if err := m.cache.UpsertReservation(ctx, r); err != nil {
		log.Printf("reservation: cache mirror failed for %s: %v", r.ID, err)
	}
}

func (m *Manager) publish(ctx context.Context, action string, r model.Reservation, actorID, reason string) {
	if m.events == nil {
		return
	}
	ev := queue.ReservationEvent{
		Action:        action,
		ReservationID: r.ID,
		SpaceID:       r.SpaceID,
		SpaceName:     r.SpaceName,
		UserID:        r.UserID,
		UserName:      r.UserName,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		ActorID:       actorID,
		Reason:        reason,
		OccurredAt:    m.now().UTC().Format(time.RFC3339),
	}
	if err := m.events.PublishReservationEvent(ctx, ev); err != nil {
		log.Printf("reservation: publish %s event failed: %v", action, err)
	}
}
