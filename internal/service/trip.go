package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/itinera/itinera-go/internal/model"
	"github.com/itinera/itinera-go/internal/repository"
)

// TripStore persists trip criteria. GetForUser must return
// repository.ErrTripNotFound for trips owned by someone else.
type TripStore interface {
	Create(ctx context.Context, trip *model.Trip) error
	GetForUser(ctx context.Context, tripID, userID string) (*model.Trip, error)
	ListByUser(ctx context.Context, userID string) ([]model.Trip, error)
}

// TripService handles trip criteria business logic.
type TripService struct {
	trips TripStore
}

// NewTripService creates a new TripService.
func NewTripService(trips TripStore) *TripService {
	return &TripService{trips: trips}
}

// CreateTrip validates the criteria and stores them under userID.
func (s *TripService) CreateTrip(ctx context.Context, userID string, req model.CreateTripRequest) (model.Trip, error) {
	if err := validateTrip(req); err != nil {
		return model.Trip{}, err
	}

	trip := model.Trip{
		ID:               uuid.NewString(),
		UserID:           userID,
		Location:         req.Location,
		TimeOfArrival:    req.TimeOfArrival,
		TimeOfDeparture:  req.TimeOfDeparture,
		LocationOfStay:   req.LocationOfStay,
		CheckInDatetime:  req.CheckInDatetime,
		CheckOutDatetime: req.CheckOutDatetime,
		NumberOfDays:     req.NumberOfDays,
		TripType:         req.TripType,
		TripVibe:         req.TripVibe,
		HecticLevel:      req.HecticLevel,
		PlacesPreference: req.PlacesPreference,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.trips.Create(ctx, &trip); err != nil {
		return model.Trip{}, err
	}

	return trip, nil
}

// ListTrips returns the caller's trips, newest first.
func (s *TripService) ListTrips(ctx context.Context, userID string) ([]model.Trip, error) {
	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []model.Trip{}
	}
	return trips, nil
}

// GetTrip returns a trip owned by userID.
func (s *TripService) GetTrip(ctx context.Context, userID, tripID string) (model.Trip, error) {
	trip, err := s.trips.GetForUser(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return model.Trip{}, ErrTripNotFound
		}
		return model.Trip{}, err
	}
	return *trip, nil
}

func validateTrip(req model.CreateTripRequest) error {
	required := []struct {
		field string
		value string
	}{
		{"location", req.Location},
		{"time_of_arrival", req.TimeOfArrival},
		{"time_of_departure", req.TimeOfDeparture},
		{"location_of_stay", req.LocationOfStay},
		{"check_in_datetime", req.CheckInDatetime},
		{"check_out_datetime", req.CheckOutDatetime},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalid(r.field, "field required")
		}
	}

	if req.NumberOfDays <= 0 {
		return invalid("number_of_days", "must be a positive integer")
	}
	if !req.TripType.Valid() {
		return invalid("trip_type", "must be one of %v", model.TripTypes)
	}
	if !req.TripVibe.Valid() {
		return invalid("trip_vibe", "must be one of %v", model.TripVibes)
	}
	if !req.HecticLevel.Valid() {
		return invalid("hectic_level", "must be one of %v", model.HecticLevels)
	}
	if !req.PlacesPreference.Valid() {
		return invalid("places_preference", "must be one of %v", model.PlacesPreferences)
	}

	return nil
}
