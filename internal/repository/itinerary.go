package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itinera/itinera-go/internal/model"
)

// ItineraryRepository handles generated itinerary persistence operations.
type ItineraryRepository struct {
	db *sql.DB
}

// NewItineraryRepository creates a new ItineraryRepository.
func NewItineraryRepository(db *sql.DB) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

// Create appends an itinerary. Earlier itineraries for the same trip are kept.
func (r *ItineraryRepository) Create(ctx context.Context, it *model.Itinerary) error {
	data, err := json.Marshal(it.ItineraryData)
	if err != nil {
		return fmt.Errorf("encoding itinerary data: %w", err)
	}

	query := `INSERT INTO itineraries (id, trip_id, user_id, itinerary_data, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query, it.ID, it.TripID, it.UserID, data, it.CreatedAt)
	return err
}

// LatestForTrip returns the most recently created itinerary for the trip,
// scoped to its owner.
func (r *ItineraryRepository) LatestForTrip(ctx context.Context, tripID, userID string) (*model.Itinerary, error) {
	query := `SELECT id, trip_id, user_id, itinerary_data, created_at FROM itineraries
		WHERE trip_id = ? AND user_id = ? ORDER BY created_at DESC LIMIT 1`

	it := &model.Itinerary{}
	var data []byte
	err := r.db.QueryRowContext(ctx, query, tripID, userID).Scan(
		&it.ID, &it.TripID, &it.UserID, &data, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItineraryNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &it.ItineraryData); err != nil {
		return nil, fmt.Errorf("decoding itinerary data: %w", err)
	}

	return it, nil
}
