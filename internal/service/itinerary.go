package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/itinera/itinera-go/internal/model"
	"github.com/itinera/itinera-go/internal/repository"
)

// TextGenerator is the external text-generation service.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ItineraryStore persists generated itineraries. Create appends;
// LatestForTrip returns the newest record for the trip and owner.
type ItineraryStore interface {
	Create(ctx context.Context, it *model.Itinerary) error
	LatestForTrip(ctx context.Context, tripID, userID string) (*model.Itinerary, error)
}

// ItineraryService turns stored trip criteria into a day-by-day itinerary.
type ItineraryService struct {
	trips       TripStore
	itineraries ItineraryStore
	generator   TextGenerator
	timeout     time.Duration
}

// NewItineraryService creates a new ItineraryService. timeout bounds each
// call to the generator.
func NewItineraryService(trips TripStore, itineraries ItineraryStore, generator TextGenerator, timeout time.Duration) *ItineraryService {
	return &ItineraryService{
		trips:       trips,
		itineraries: itineraries,
		generator:   generator,
		timeout:     timeout,
	}
}

// GenerateItinerary asks the generator for an itinerary for the caller's trip
// and stores it. Generator failures, timeouts and unparseable output are
// returned as *GenerationError and nothing is stored.
func (s *ItineraryService) GenerateItinerary(ctx context.Context, userID, tripID string) (model.GenerateItineraryResponse, error) {
	trip, err := s.trips.GetForUser(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return model.GenerateItineraryResponse{}, ErrTripNotFound
		}
		return model.GenerateItineraryResponse{}, err
	}

	raw, err := s.generate(ctx, BuildItineraryPrompt(*trip))
	if err != nil {
		slog.Error("itinerary generation failed", "trip_id", tripID, "error", err)
		return model.GenerateItineraryResponse{}, &GenerationError{Err: err}
	}

	data, err := ParseItinerary(raw)
	if err != nil {
		slog.Error("itinerary response unparseable", "trip_id", tripID, "error", err, "response_bytes", len(raw))
		return model.GenerateItineraryResponse{}, &GenerationError{Err: err}
	}
	days := len(data.Days())
	if days == 0 {
		return model.GenerateItineraryResponse{}, &GenerationError{Err: errors.New("response contained no days")}
	}
	if days != trip.NumberOfDays {
		slog.Warn("itinerary day count differs from trip", "trip_id", tripID,
			"want", trip.NumberOfDays, "got", days)
	}

	it := &model.Itinerary{
		ID:            uuid.NewString(),
		TripID:        trip.ID,
		UserID:        userID,
		ItineraryData: data,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.itineraries.Create(ctx, it); err != nil {
		return model.GenerateItineraryResponse{}, fmt.Errorf("storing itinerary: %w", err)
	}

	return model.GenerateItineraryResponse{
		ID:        it.ID,
		TripID:    it.TripID,
		Itinerary: it.ItineraryData,
	}, nil
}

// GetItinerary returns the most recent itinerary for the caller's trip.
func (s *ItineraryService) GetItinerary(ctx context.Context, userID, tripID string) (model.Itinerary, error) {
	it, err := s.itineraries.LatestForTrip(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrItineraryNotFound) {
			return model.Itinerary{}, ErrItineraryNotFound
		}
		return model.Itinerary{}, err
	}
	return *it, nil
}

// generate calls the generator under the configured timeout. A panic inside
// the generator is reported as an error.
func (s *ItineraryService) generate(ctx context.Context, prompt string) (raw string, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text generator panicked: %v", r)
		}
	}()

	raw, err = s.generator.Generate(ctx, plannerSystemMessage, prompt)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("text generator timed out after %s: %w", s.timeout, err)
	}
	return raw, err
}
