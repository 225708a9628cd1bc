// Package store declares the two collaborators the reservation engine
// consumes: the authoritative remote document store and the local
// read-model cache.  The engine only ever talks to these interfaces;
// concrete backends live in subpackages (mongostore) and in the cache
// package.
package store

import (
	"context"
	"errors"

	"github.com/iliyamo/campus-space-reservation/internal/model"
)

// ErrNotFound is returned when a requested document does not exist.  It
// is deliberately distinct from ErrRemoteUnavailable so callers can tell
// "missing" apart from "could not ask".
var ErrNotFound = errors.New("not found")

// ErrRemoteUnavailable wraps network and driver failures from the remote
// store.  The synchronizer swallows it (stale-but-available policy);
// the lifecycle manager propagates it.
var ErrRemoteUnavailable = errors.New("remote store unavailable")

// ReservationFilter narrows a reservation query.  Zero-valued fields are
// ignored.  DateFrom/DateTo form an inclusive ISO-date range.
type ReservationFilter struct {
	SpaceID  string
	Date     string
	UserID   string
	StatusIn []model.ReservationStatus
	DateFrom string
	DateTo   string
}

// ReservationPatch is a partial update applied to a reservation document.
// Nil fields are left unchanged.
type ReservationPatch struct {
	Status          *model.ReservationStatus
	ApprovedBy      *string
	RejectionReason *string
}

// Remote is the authoritative document store.  All operations are
// fallible network calls; implementations must return ErrNotFound for
// missing documents and wrap every other failure in ErrRemoteUnavailable.
type Remote interface {
	GetSpace(ctx context.Context, id string) (*model.Space, error)
	ListActiveSpaces(ctx context.Context) ([]model.Space, error)
	ListSlots(ctx context.Context, spaceID, date string) ([]model.TimeSlot, error)
	ListReservations(ctx context.Context, f ReservationFilter) ([]model.Reservation, error)
	CreateReservation(ctx context.Context, r model.Reservation) error
	UpdateReservation(ctx context.Context, id string, p ReservationPatch) error
	GetReservation(ctx context.Context, id string) (*model.Reservation, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, u model.User, passwordHash string) error
	UserCredentials(ctx context.Context, email string) (id, passwordHash string, err error)
}

// Cache is the local read-through store.  Writes mirror the remote after
// the remote write succeeded; reads serve the last synced state even
// when the remote is down.
type Cache interface {
	UpsertSpace(ctx context.Context, s model.Space) error
	UpsertSpaces(ctx context.Context, spaces []model.Space) error
	GetSpace(ctx context.Context, id string) (*model.Space, error)
	ListActiveSpaces(ctx context.Context) ([]model.Space, error)

	ReplaceSlots(ctx context.Context, spaceID, date string, slots []model.TimeSlot) error
	ListSlots(ctx context.Context, spaceID, date string) ([]model.TimeSlot, error)

	UpsertReservation(ctx context.Context, r model.Reservation) error
	GetReservation(ctx context.Context, id string) (*model.Reservation, error)
	ListReservations(ctx context.Context, f ReservationFilter) ([]model.Reservation, error)
	ClearReservations(ctx context.Context) error

	UpsertUser(ctx context.Context, u model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ClearUsers(ctx context.Context) error
}
