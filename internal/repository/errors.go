package repository

import "errors"

// Sentinel errors shared by every store implementation.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrTripNotFound      = errors.New("trip not found")
	ErrItineraryNotFound = errors.New("itinerary not found")
)

// MaxTripsPerList caps how many trips a single listing returns.
const MaxTripsPerList = 100
