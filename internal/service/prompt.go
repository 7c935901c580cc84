package service

import (
	"fmt"

	"github.com/itinera/itinera-go/internal/model"
)

const plannerSystemMessage = "You are an expert travel planner. Generate detailed, realistic day-wise travel itineraries based on user preferences."

// itinerarySchema is the JSON shape clients depend on.
const itinerarySchema = `{
  "days": [
    {
      "day": 1,
      "date": "Day 1",
      "activities": [
        {
          "time": "Morning (8:00 AM - 12:00 PM)",
          "title": "Activity title",
          "description": "Detailed description",
          "travel_time": "15 minutes from hotel",
          "tips": "Helpful tips"
        }
      ]
    }
  ]
}`

// BuildItineraryPrompt renders the user prompt for a trip.
func BuildItineraryPrompt(trip model.Trip) string {
	return fmt.Sprintf(`Create a detailed %d-day travel itinerary for %s with the following criteria:

- Arrival: %s
- Departure: %s
- Staying at: %s
- Check-in: %s
- Check-out: %s
- Trip type: %s
- Trip vibe: %s
- Hectic level: %s
- Places preference: %s

Generate a JSON response with the following structure:
%s

Ensure the itinerary:
1. Respects arrival and departure times
2. Matches the hectic level (more rest for relaxed, packed for hectic)
3. Aligns with trip type (family-friendly, adventurous for friends, romantic for couples, flexible for solo)
4. Reflects the vibe preference
5. Includes realistic travel times
6. Has food recommendations
7. Considers check-in/check-out times

Respond ONLY with valid JSON, no markdown or extra text.
`,
		trip.NumberOfDays, trip.Location,
		trip.TimeOfArrival, trip.TimeOfDeparture, trip.LocationOfStay,
		trip.CheckInDatetime, trip.CheckOutDatetime,
		trip.TripType, trip.TripVibe, trip.HecticLevel, trip.PlacesPreference,
		itinerarySchema,
	)
}
