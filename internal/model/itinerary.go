package model

import "time"

// ItineraryData is the document produced by the text generator, kept as
// decoded. Only the top-level "days" list is inspected; every other key and
// value is stored and returned untouched.
type ItineraryData map[string]any

// Days returns the entries of the top-level "days" list, or nil when it is
// missing or not a list.
func (d ItineraryData) Days() []any {
	days, _ := d["days"].([]any)
	return days
}

// Itinerary is a stored generation result for a trip.
type Itinerary struct {
	ID            string        `json:"id" bson:"id"`
	TripID        string        `json:"trip_id" bson:"trip_id"`
	UserID        string        `json:"user_id" bson:"user_id"`
	ItineraryData ItineraryData `json:"itinerary_data" bson:"itinerary_data"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
}

// GenerateItineraryResponse is returned after a successful generation.
type GenerateItineraryResponse struct {
	ID        string        `json:"id"`
	TripID    string        `json:"trip_id"`
	Itinerary ItineraryData `json:"itinerary"`
}
