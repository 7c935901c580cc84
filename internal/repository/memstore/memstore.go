// Package memstore keeps users, trips and itineraries in process memory.
// It backs STORE_DRIVER=memory for local runs and the HTTP tests. Data is
// lost on restart.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/itinera/itinera-go/internal/model"
	"github.com/itinera/itinera-go/internal/repository"
)

// Store holds all three collections behind one lock.
type Store struct {
	mu          sync.RWMutex
	users       map[string]model.User // by id
	emails      map[string]string     // email -> id
	trips       map[string]model.Trip
	itineraries []model.Itinerary
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:  make(map[string]model.User),
		emails: make(map[string]string),
		trips:  make(map[string]model.Trip),
	}
}

// Users returns the user collection view.
func (s *Store) Users() *UserStore { return &UserStore{s} }

// Trips returns the trip collection view.
func (s *Store) Trips() *TripStore { return &TripStore{s} }

// Itineraries returns the itinerary collection view.
func (s *Store) Itineraries() *ItineraryStore { return &ItineraryStore{s} }

// UserStore is the user view of a Store. Email uniqueness is exact-match.
type UserStore struct{ s *Store }

// Create inserts a user, or returns repository.ErrDuplicateEmail when the
// email is taken.
func (u *UserStore) Create(_ context.Context, user *model.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if _, taken := u.s.emails[user.Email]; taken {
		return repository.ErrDuplicateEmail
	}
	u.s.users[user.ID] = *user
	u.s.emails[user.Email] = user.ID
	return nil
}

// GetByEmail retrieves a user by their email address.
func (u *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	id, ok := u.s.emails[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	user := u.s.users[id]
	return &user, nil
}

// GetByID retrieves a user by their ID.
func (u *UserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, ok := u.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

// Delete removes a user. Tokens already issued to them stop resolving.
func (u *UserStore) Delete(_ context.Context, id string) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	delete(u.s.users, id)
	delete(u.s.emails, user.Email)
	return nil
}

// TripStore is the trip view of a Store.
type TripStore struct{ s *Store }

// Create inserts a trip.
func (t *TripStore) Create(_ context.Context, trip *model.Trip) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	t.s.trips[trip.ID] = *trip
	return nil
}

// GetForUser retrieves a trip by ID, scoped to its owner.
func (t *TripStore) GetForUser(_ context.Context, tripID, userID string) (*model.Trip, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	trip, ok := t.s.trips[tripID]
	if !ok || trip.UserID != userID {
		return nil, repository.ErrTripNotFound
	}
	return &trip, nil
}

// ListByUser retrieves a user's trips, newest first, at most
// repository.MaxTripsPerList.
func (t *TripStore) ListByUser(_ context.Context, userID string) ([]model.Trip, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	trips := []model.Trip{}
	for _, trip := range t.s.trips {
		if trip.UserID == userID {
			trips = append(trips, trip)
		}
	}
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
	if len(trips) > repository.MaxTripsPerList {
		trips = trips[:repository.MaxTripsPerList]
	}
	return trips, nil
}

// ItineraryStore is the itinerary view of a Store.
type ItineraryStore struct{ s *Store }

// Create appends an itinerary.
func (i *ItineraryStore) Create(_ context.Context, it *model.Itinerary) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()

	i.s.itineraries = append(i.s.itineraries, *it)
	return nil
}

// LatestForTrip returns the newest itinerary for the trip and owner. It scans
// backwards so that, on equal timestamps, the record appended last wins.
func (i *ItineraryStore) LatestForTrip(_ context.Context, tripID, userID string) (*model.Itinerary, error) {
	i.s.mu.RLock()
	defer i.s.mu.RUnlock()

	var latest *model.Itinerary
	for k := len(i.s.itineraries) - 1; k >= 0; k-- {
		it := i.s.itineraries[k]
		if it.TripID != tripID || it.UserID != userID {
			continue
		}
		if latest == nil || it.CreatedAt.After(latest.CreatedAt) {
			latest = &it
		}
	}
	if latest == nil {
		return nil, repository.ErrItineraryNotFound
	}
	return latest, nil
}
