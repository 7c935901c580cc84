package model

import (
	"slices"
	"time"
)

type TripType string

const (
	TripTypeFriends TripType = "friends"
	TripTypeFamily  TripType = "family"
	TripTypeSolo    TripType = "solo"
	TripTypeCouple  TripType = "couple"
)

var TripTypes = []TripType{TripTypeFriends, TripTypeFamily, TripTypeSolo, TripTypeCouple}

func (t TripType) Valid() bool { return slices.Contains(TripTypes, t) }

type TripVibe string

const (
	TripVibeRelaxing    TripVibe = "relaxing"
	TripVibeAdventurous TripVibe = "adventurous"
	TripVibeParty       TripVibe = "party"
	TripVibeCultural    TripVibe = "cultural"
	TripVibeNature      TripVibe = "nature"
	TripVibeMix         TripVibe = "mix"
)

var TripVibes = []TripVibe{
	TripVibeRelaxing, TripVibeAdventurous, TripVibeParty,
	TripVibeCultural, TripVibeNature, TripVibeMix,
}

func (v TripVibe) Valid() bool { return slices.Contains(TripVibes, v) }

type HecticLevel string

const (
	HecticVeryRelaxed       HecticLevel = "very_relaxed"
	HecticModeratelyRelaxed HecticLevel = "moderately_relaxed"
	HecticModerate          HecticLevel = "moderate"
	HecticMediumToHigh      HecticLevel = "medium_to_high"
	HecticVeryHectic        HecticLevel = "very_hectic"
)

var HecticLevels = []HecticLevel{
	HecticVeryRelaxed, HecticModeratelyRelaxed, HecticModerate,
	HecticMediumToHigh, HecticVeryHectic,
}

func (h HecticLevel) Valid() bool { return slices.Contains(HecticLevels, h) }

type PlacesPreference string

const (
	PlacesMainstream PlacesPreference = "mainstream"
	PlacesHiddenGems PlacesPreference = "hidden_gems"
	PlacesBalanced   PlacesPreference = "balanced"
)

var PlacesPreferences = []PlacesPreference{PlacesMainstream, PlacesHiddenGems, PlacesBalanced}

func (p PlacesPreference) Valid() bool { return slices.Contains(PlacesPreferences, p) }

// Trip is a user's stored trip criteria. Arrival, departure and check-in/out
// values are kept exactly as the client sent them.
type Trip struct {
	ID               string           `json:"id" bson:"id"`
	UserID           string           `json:"user_id" bson:"user_id"`
	Location         string           `json:"location" bson:"location"`
	TimeOfArrival    string           `json:"time_of_arrival" bson:"time_of_arrival"`
	TimeOfDeparture  string           `json:"time_of_departure" bson:"time_of_departure"`
	LocationOfStay   string           `json:"location_of_stay" bson:"location_of_stay"`
	CheckInDatetime  string           `json:"check_in_datetime" bson:"check_in_datetime"`
	CheckOutDatetime string           `json:"check_out_datetime" bson:"check_out_datetime"`
	NumberOfDays     int              `json:"number_of_days" bson:"number_of_days"`
	TripType         TripType         `json:"trip_type" bson:"trip_type"`
	TripVibe         TripVibe         `json:"trip_vibe" bson:"trip_vibe"`
	HecticLevel      HecticLevel      `json:"hectic_level" bson:"hectic_level"`
	PlacesPreference PlacesPreference `json:"places_preference" bson:"places_preference"`
	CreatedAt        time.Time        `json:"created_at" bson:"created_at"`
}

// CreateTripRequest represents a trip creation request.
type CreateTripRequest struct {
	Location         string           `json:"location"`
	TimeOfArrival    string           `json:"time_of_arrival"`
	TimeOfDeparture  string           `json:"time_of_departure"`
	LocationOfStay   string           `json:"location_of_stay"`
	CheckInDatetime  string           `json:"check_in_datetime"`
	CheckOutDatetime string           `json:"check_out_datetime"`
	NumberOfDays     int              `json:"number_of_days"`
	TripType         TripType         `json:"trip_type"`
	TripVibe         TripVibe         `json:"trip_vibe"`
	HecticLevel      HecticLevel      `json:"hectic_level"`
	PlacesPreference PlacesPreference `json:"places_preference"`
}
