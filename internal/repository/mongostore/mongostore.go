// Package mongostore implements the user, trip and itinerary stores on a
// MongoDB database with one collection per record type. Records are
// addressed by their own "id" field; the driver-assigned _id is ignored.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/itinera/itinera-go/internal/model"
	"github.com/itinera/itinera-go/internal/repository"
)

const (
	usersCollection       = "users"
	tripsCollection       = "trips"
	itinerariesCollection = "itineraries"
)

// Store owns the client connection and hands out per-collection stores.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, verifies the connection and ensures the indexes the
// stores rely on, including the unique index on users.email.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Users returns the store for the users collection.
func (s *Store) Users() *UserStore {
	return &UserStore{coll: s.db.Collection(usersCollection)}
}

// Trips returns the store for the trips collection.
func (s *Store) Trips() *TripStore {
	return &TripStore{coll: s.db.Collection(tripsCollection)}
}

// Itineraries returns the store for the itineraries collection.
func (s *Store) Itineraries() *ItineraryStore {
	return &ItineraryStore{coll: s.db.Collection(itinerariesCollection)}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		tripsCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		itinerariesCollection: {
			{Keys: bson.D{{Key: "trip_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating %s indexes: %w", name, err)
		}
	}
	return nil
}

// UserStore handles user documents.
type UserStore struct {
	coll *mongo.Collection
}

// Create inserts a user. A unique index violation on email is reported as
// repository.ErrDuplicateEmail.
func (u *UserStore) Create(ctx context.Context, user *model.User) error {
	if _, err := u.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByEmail retrieves a user by their email address.
func (u *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.findOne(ctx, bson.M{"email": email})
}

// GetByID retrieves a user by their ID.
func (u *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.findOne(ctx, bson.M{"id": id})
}

func (u *UserStore) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	user := &model.User{}
	if err := u.coll.FindOne(ctx, filter).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// TripStore handles trip documents.
type TripStore struct {
	coll *mongo.Collection
}

// Create inserts a trip.
func (t *TripStore) Create(ctx context.Context, trip *model.Trip) error {
	_, err := t.coll.InsertOne(ctx, trip)
	return err
}

// GetForUser retrieves a trip by ID, scoped to its owner.
func (t *TripStore) GetForUser(ctx context.Context, tripID, userID string) (*model.Trip, error) {
	trip := &model.Trip{}
	err := t.coll.FindOne(ctx, bson.M{"id": tripID, "user_id": userID}).Decode(trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

// ListByUser retrieves a user's trips, newest first, at most
// repository.MaxTripsPerList.
func (t *TripStore) ListByUser(ctx context.Context, userID string) ([]model.Trip, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(repository.MaxTripsPerList)

	cur, err := t.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	trips := []model.Trip{}
	if err := cur.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// ItineraryStore handles itinerary documents.
type ItineraryStore struct {
	coll *mongo.Collection
}

// Create appends an itinerary.
func (i *ItineraryStore) Create(ctx context.Context, it *model.Itinerary) error {
	_, err := i.coll.InsertOne(ctx, it)
	return err
}

// LatestForTrip returns the newest itinerary for the trip and owner, with the
// document converted to plain maps and slices.
func (i *ItineraryStore) LatestForTrip(ctx context.Context, tripID, userID string) (*model.Itinerary, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	it := &model.Itinerary{}
	err := i.coll.FindOne(ctx, bson.M{"trip_id": tripID, "user_id": userID}, opts).Decode(it)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrItineraryNotFound
		}
		return nil, err
	}
	it.ItineraryData, _ = plain(map[string]any(it.ItineraryData)).(map[string]any)
	return it, nil
}

// plain converts the driver's bson.D, bson.M and bson.A values nested in a
// decoded document into map[string]any and []any, as encoding/json produces.
func plain(v any) any {
	switch x := v.(type) {
	case bson.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.M:
		return plain(map[string]any(x))
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = plain(e)
		}
		return m
	case bson.A:
		return plain([]any(x))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}
