package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/itinera/itinera-go/internal/model"
)

const tripColumns = `id, user_id, location, time_of_arrival, time_of_departure, location_of_stay,
	check_in_datetime, check_out_datetime, number_of_days, trip_type, trip_vibe,
	hectic_level, places_preference, created_at`

// TripRepository handles trip criteria persistence operations.
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *model.Trip) error {
	query := `INSERT INTO trips (` + tripColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		trip.ID, trip.UserID, trip.Location, trip.TimeOfArrival, trip.TimeOfDeparture,
		trip.LocationOfStay, trip.CheckInDatetime, trip.CheckOutDatetime, trip.NumberOfDays,
		trip.TripType, trip.TripVibe, trip.HecticLevel, trip.PlacesPreference, trip.CreatedAt,
	)
	return err
}

// GetForUser retrieves a trip by ID, scoped to its owner. A trip owned by
// someone else is reported as ErrTripNotFound.
func (r *TripRepository) GetForUser(ctx context.Context, tripID, userID string) (*model.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = ? AND user_id = ?`

	trip, err := scanTrip(r.db.QueryRowContext(ctx, query, tripID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	return trip, nil
}

// ListByUser retrieves a user's trips, newest first, at most MaxTripsPerList.
func (r *TripRepository) ListByUser(ctx context.Context, userID string) ([]model.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, MaxTripsPerList)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []model.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}

	return trips, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*model.Trip, error) {
	t := &model.Trip{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.Location, &t.TimeOfArrival, &t.TimeOfDeparture,
		&t.LocationOfStay, &t.CheckInDatetime, &t.CheckOutDatetime, &t.NumberOfDays,
		&t.TripType, &t.TripVibe, &t.HecticLevel, &t.PlacesPreference, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}
