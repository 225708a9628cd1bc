// Package mongostore implements the authoritative remote store on
// MongoDB.  Documents carry application-level string ids in an "id"
// field, so all lookups filter on that rather than _id.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/campus-space-reservation/internal/model"
	"github.com/iliyamo/campus-space-reservation/internal/store"
)

// Store talks to one MongoDB database holding the spaces, time_slots,
// reservations and users collections.
type Store struct {
	spaces       *mongo.Collection
	slots        *mongo.Collection
	reservations *mongo.Collection
	users        *mongo.Collection
}

// Connect dials MongoDB, verifies the connection and returns a Store
// bound to the named database.
func Connect(ctx context.Context, uri, dbName string) (*Store, *mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", store.ErrRemoteUnavailable, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", store.ErrRemoteUnavailable, err)
	}
	return New(client.Database(dbName)), client, nil
}

// New wraps an already connected database handle.
func New(db *mongo.Database) *Store {
	return &Store{
		spaces:       db.Collection("spaces"),
		slots:        db.Collection("time_slots"),
		reservations: db.Collection("reservations"),
		users:        db.Collection("users"),
	}
}

// remoteErr translates driver failures into the store error taxonomy.
func remoteErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return fmt.Errorf("%w: %v", store.ErrRemoteUnavailable, err)
}

func (s *Store) GetSpace(ctx context.Context, id string) (*model.Space, error) {
	var sp model.Space
	if err := s.spaces.FindOne(ctx, bson.M{"id": id}).Decode(&sp); err != nil {
		return nil, remoteErr(err)
	}
	return &sp, nil
}

func (s *Store) ListActiveSpaces(ctx context.Context) ([]model.Space, error) {
	cur, err := s.spaces.Find(ctx, bson.M{"isActive": true},
		options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, remoteErr(err)
	}
	var out []model.Space
	if err := cur.All(ctx, &out); err != nil {
		return nil, remoteErr(err)
	}
	return out, nil
}

func (s *Store) ListSlots(ctx context.Context, spaceID, date string) ([]model.TimeSlot, error) {
	cur, err := s.slots.Find(ctx, bson.M{"spaceId": spaceID, "date": date},
		options.Find().SetSort(bson.M{"startTime": 1}))
	if err != nil {
		return nil, remoteErr(err)
	}
	var out []model.TimeSlot
	if err := cur.All(ctx, &out); err != nil {
		return nil, remoteErr(err)
	}
	return out, nil
}

func (s *Store) ListReservations(ctx context.Context, f store.ReservationFilter) ([]model.Reservation, error) {
	filter := bson.M{}
	if f.SpaceID != "" {
		filter["spaceId"] = f.SpaceID
	}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if len(f.StatusIn) > 0 {
		filter["status"] = bson.M{"$in": f.StatusIn}
	}
	if f.Date == "" && (f.DateFrom != "" || f.DateTo != "") {
		rng := bson.M{}
		if f.DateFrom != "" {
			rng["$gte"] = f.DateFrom
		}
		if f.DateTo != "" {
			rng["$lte"] = f.DateTo
		}
		filter["date"] = rng
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	if f.UserID != "" {
		opts = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}
	cur, err := s.reservations.Find(ctx, filter, opts)
	if err != nil {
		return nil, remoteErr(err)
	}
	var out []model.Reservation
	if err := cur.All(ctx, &out); err != nil {
		return nil, remoteErr(err)
	}
	return out, nil
}

func (s *Store) CreateReservation(ctx context.Context, r model.Reservation) error {
	if _, err := s.reservations.InsertOne(ctx, r); err != nil {
		return remoteErr(err)
	}
	return nil
}

func (s *Store) UpdateReservation(ctx context.Context, id string, p store.ReservationPatch) error {
	set := bson.M{}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.ApprovedBy != nil {
		set["approvedBy"] = *p.ApprovedBy
	}
	if p.RejectionReason != nil {
		set["rejectionReason"] = *p.RejectionReason
	}
	if len(set) == 0 {
		return nil
	}
	res, err := s.reservations.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return remoteErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	var r model.Reservation
	if err := s.reservations.FindOne(ctx, bson.M{"id": id}).Decode(&r); err != nil {
		return nil, remoteErr(err)
	}
	return &r, nil
}

// userDoc adds the password hash to the public user shape.  The hash
// never leaves this package.
type userDoc struct {
	model.User   `bson:",inline"`
	PasswordHash string `bson:"passwordHash"`
}

func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	var d userDoc
	if err := s.users.FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		return nil, remoteErr(err)
	}
	return &d.User, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var d userDoc
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&d); err != nil {
		return nil, remoteErr(err)
	}
	return &d.User, nil
}

func (s *Store) CreateUser(ctx context.Context, u model.User, passwordHash string) error {
	if _, err := s.users.InsertOne(ctx, userDoc{User: u, PasswordHash: passwordHash}); err != nil {
		return remoteErr(err)
	}
	return nil
}

func (s *Store) UserCredentials(ctx context.Context, email string) (string, string, error) {
	var d userDoc
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&d); err != nil {
		return "", "", remoteErr(err)
	}
	return d.ID, d.PasswordHash, nil
}
