package reservation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/iliyamo/campus-space-reservation/internal/cache"
	"github.com/iliyamo/campus-space-reservation/internal/model"
	"github.com/iliyamo/campus-space-reservation/internal/queue"
	"github.com/iliyamo/campus-space-reservation/internal/store"
)

// fakeRemote is an in-memory store.Remote with switchable failure mode.
type fakeRemote struct {
	spaces       map[string]model.Space
	reservations map[string]model.Reservation
	down         bool
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		spaces:       make(map[string]model.Space),
		reservations: make(map[string]model.Reservation),
	}
}

func (f *fakeRemote) fail() error {
	if f.down {
		return fmt.Errorf("%w: dial tcp: connection refused", store.ErrRemoteUnavailable)
	}
	return nil
}

func (f *fakeRemote) GetSpace(_ context.Context, id string) (*model.Space, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	s, ok := f.spaces[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (f *fakeRemote) ListActiveSpaces(_ context.Context) ([]model.Space, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	var out []model.Space
	for _, s := range f.spaces {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRemote) ListSlots(_ context.Context, _, _ string) ([]model.TimeSlot, error) {
	return nil, f.fail()
}

func (f *fakeRemote) ListReservations(_ context.Context, filter store.ReservationFilter) ([]model.Reservation, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	var out []model.Reservation
	for _, r := range f.reservations {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.SpaceID != "" && r.SpaceID != filter.SpaceID {
			continue
		}
		if filter.Date != "" && r.Date != filter.Date {
			continue
		}
		if len(filter.StatusIn) > 0 {
			ok := false
			for _, st := range filter.StatusIn {
				if r.Status == st {
					ok = true
				}
			}
			if !ok {
				continue
			}
		}
		if filter.DateFrom != "" && r.Date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && r.Date > filter.DateTo {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRemote) CreateReservation(_ context.Context, r model.Reservation) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.reservations[r.ID] = r
	return nil
}

func (f *fakeRemote) UpdateReservation(_ context.Context, id string, p store.ReservationPatch) error {
	if err := f.fail(); err != nil {
		return err
	}
	r, ok := f.reservations[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.ApprovedBy != nil {
		r.ApprovedBy = *p.ApprovedBy
	}
	if p.RejectionReason != nil {
		r.RejectionReason = *p.RejectionReason
	}
	f.reservations[id] = r
	return nil
}

func (f *fakeRemote) GetReservation(_ context.Context, id string) (*model.Reservation, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	r, ok := f.reservations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRemote) GetUser(_ context.Context, _ string) (*model.User, error) {
	return nil, store.ErrNotFound
}
func (f *fakeRemote) GetUserByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, store.ErrNotFound
}
func (f *fakeRemote) CreateUser(_ context.Context, _ model.User, _ string) error { return f.fail() }
func (f *fakeRemote) UserCredentials(_ context.Context, _ string) (string, string, error) {
	return "", "", store.ErrNotFound
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []queue.ReservationEvent
}

func (p *recordingPublisher) PublishReservationEvent(_ context.Context, ev queue.ReservationEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func testUser() model.User {
	return model.User{ID: "u1", Name: "Ana", Email: "ana@uvg.edu.gt", Role: model.RoleStudent}
}

func newTestManager(remote *fakeRemote) (*Manager, store.Cache, *recordingPublisher) {
	c := cache.NewMemory()
	pub := &recordingPublisher{}
	m := NewManager(remote, c, pub)
	m.now = func() time.Time { return time.UnixMilli(1700000000000) }
	n := 0
	m.newID = func() string {
		n++
		return fmt.Sprintf("res-%d", n)
	}
	return m, c, pub
}

func TestCreateStoresPendingReservation(t *testing.T) {
	remote := newFakeRemote()
	remote.spaces["court-1"] = model.Space{
		ID: "court-1", Name: "Cancha 1", Type: model.SpaceCourt, IsActive: true,
	}
	m, c, pub := newTestManager(remote)

	r, err := m.Create(context.Background(), validReq(), testUser())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.Status != model.ReservationPending {
		t.Fatalf("expected PENDING, got %s", r.Status)
	}
	if r.SpaceName != "Cancha 1" || r.UserName != "Ana" {
		t.Fatalf("expected denormalized fields, got %+v", r)
	}
	if r.CreatedAt != 1700000000000 {
		t.Fatalf("expected fixed timestamp, got %d", r.CreatedAt)
	}
	if _, ok := remote.reservations[r.ID]; !ok {
		t.Fatal("reservation not written to remote")
	}
	if got, err := c.GetReservation(context.Background(), r.ID); err != nil || got.Status != model.ReservationPending {
		t.Fatalf("reservation not mirrored to cache: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0].Action != queue.ActionCreated {
		t.Fatalf("expected one created event, got %+v", pub.events)
	}
}

func TestCreateRejectsInactiveSpace(t *testing.T) {
	remote := newFakeRemote()
	remote.spaces["court-1"] = model.Space{ID: "court-1", Name: "Cancha 1", IsActive: false}
	m, _, _ := newTestManager(remote)

	if _, err := m.Create(context.Background(), validReq(), testUser()); !errors.Is(err, ErrSpaceInactive) {
		t.Fatalf("expected ErrSpaceInactive, got %v", err)
	}
}

func TestCreateFailsWhenRemoteDown(t *testing.T) {
	remote := newFakeRemote()
	remote.spaces["court-1"] = model.Space{ID: "court-1", Name: "Cancha 1", IsActive: true}
	m, c, _ := newTestManager(remote)

	// Prime the space into the cache, then take the remote down.
	if _, err := m.Create(context.Background(), validReq(), testUser()); err != nil {
		t.Fatalf("priming create: %v", err)
	}
	remote.down = true

	_, err := m.Create(context.Background(), validReq(), testUser())
	if !errors.Is(err, store.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
	// The failed request must not appear in the cache.
	rs, err := c.ListReservations(context.Background(), store.ReservationFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rs) != 1 {
		t.Fatalf("expected only the primed reservation in cache, got %d", len(rs))
	}
}

func TestApproveLifecycle(t *testing.T) {
	remote := newFakeRemote()
	remote.spaces["court-1"] = model.Space{ID: "court-1", Name: "Cancha 1", IsActive: true}
	m, c, pub := newTestManager(remote)

	r, err := m.Create(context.Background(), validReq(), testUser())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := m.Approve(context.Background(), r.ID, "admin-1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	got := remote.reservations[r.ID]
	if got.Status != model.ReservationApproved || got.ApprovedBy != "admin-1" {
		t.Fatalf("unexpected remote state after approve: %+v", got)
	}
	cached, err := c.GetReservation(context.Background(), r.ID)
	if err != nil || cached.Status != model.ReservationApproved {
		t.Fatalf("cache not mirrored after approve: %v", err)
	}

	// Re-approving is a no-op success and publishes nothing new.
	before := len(pub.events)
	if err := m.Approve(context.Background(), r.ID, "admin-2"); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if len(pub.events) != before {
		t.Fatal("re-approve must not publish another event")
	}
	if remote.reservations[r.ID].ApprovedBy != "admin-1" {
		t.Fatal("re-approve must not change the recorded approver")
	}

	// A cancelled reservation can no longer be approved.
	r2, _ := m.Create(context.Background(), validReq(), testUser())
	if err := m.Cancel(context.Background(), r2.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := m.Approve(context.Background(), r2.ID, "admin-1"); !errors.Is(err, ErrAlreadyFinal) {
		t.Fatalf("expected ErrAlreadyFinal, got %v", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	remote := newFakeRemote()
	remote.spaces["court-1"] = model.Space{ID: "court-1", Name: "Cancha 1", IsActive: true}
	m, _, _ := newTestManager(remote)

	r, _ := m.Create(context.Background(), validReq(), testUser())

	if err := m.Reject(context.Background(), r.ID, "  "); !errors.Is(err, ErrInvalidReason) {
		t.Fatalf("expected ErrInvalidReason, got %v", err)
	}
	if err := m.Reject(context.Background(), r.ID, "court under maintenance"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got := remote.reservations[r.ID]
	if got.Status != model.ReservationRejected || got.RejectionReason != "court under maintenance" {
		t.Fatalf("unexpected remote state after reject: %+v", got)
	}
	// Rejecting again is a no-op.
	if err := m.Reject(context.Background(), r.ID, "another reason"); err != nil {
		t.Fatalf("re-reject: %v", err)
	}
	if remote.reservations[r.ID].RejectionReason != "court under maintenance" {
		t.Fatal("re-reject must not overwrite the reason")
	}
}

func TestCancelUnknownReservation(t *testing.T) {
	remote := newFakeRemote()
	m, _, _ := newTestManager(remote)
	if err := m.Cancel(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSyncForUserPopulatesCache(t *testing.T) {
	remote := newFakeRemote()
	r1 := model.Reservation{
		ID: "r1", SpaceID: "court-1", SpaceName: "Cancha 1", SpaceType: model.SpaceCourt,
		UserID: "u1", UserName: "Ana", UserEmail: "ana@uvg.edu.gt",
		Date: "2025-03-10", StartTime: "10:00", EndTime: "11:00",
		Description: "practice", Status: model.ReservationApproved,
		ApprovedBy: "staff-1", CreatedAt: 2,
	}
	remote.reservations["r1"] = r1
	remote.reservations["r2"] = model.Reservation{
		ID: "r2", SpaceID: "court-1", UserID: "u2", Date: "2025-03-10",
		StartTime: "11:00", EndTime: "12:00", Status: model.ReservationPending,
		Description: "match", CreatedAt: 1,
	}
	m, _, _ := newTestManager(remote)

	m.SyncForUser(context.Background(), "u1")

	rs, err := m.ListForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rs) != 1 {
		t.Fatalf("expected only u1's reservation, got %+v", rs)
	}
	// The remote record must survive the sync round-trip field for field.
	if !reflect.DeepEqual(rs[0], r1) {
		t.Fatalf("synced copy diverged:\ngot  %+v\nwant %+v", rs[0], r1)
	}
}

func TestSyncSwallowsRemoteFailure(t *testing.T) {
	remote := newFakeRemote()
	remote.reservations["r1"] = model.Reservation{
		ID: "r1", UserID: "u1", Date: "2025-03-10", Status: model.ReservationPending,
		StartTime: "10:00", EndTime: "11:00", CreatedAt: 1,
	}
	m, _, _ := newTestManager(remote)
	m.SyncForUser(context.Background(), "u1")

	// Remote goes down; the cached copy must keep serving.
	remote.down = true
	m.SyncForUser(context.Background(), "u1")

	rs, err := m.ListForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rs) != 1 {
		t.Fatalf("expected stale reservation to remain, got %d", len(rs))
	}
}
