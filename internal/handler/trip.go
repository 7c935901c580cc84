package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itinera/itinera-go/internal/middleware"
	"github.com/itinera/itinera-go/internal/model"
	"github.com/itinera/itinera-go/internal/service"
)

// TripHandler handles trip and itinerary requests. Every route requires an
// authenticated user.
type TripHandler struct {
	trips       *service.TripService
	itineraries *service.ItineraryService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips *service.TripService, itineraries *service.ItineraryService) *TripHandler {
	return &TripHandler{trips: trips, itineraries: itineraries}
}

// HandleCreateTrip handles POST /trips requests.
func (h *TripHandler) HandleCreateTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Not authenticated"))
		return
	}

	var req model.CreateTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip, err := h.trips.CreateTrip(r.Context(), user.ID, req)
	if err != nil {
		if !writeValidationError(w, err) {
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// HandleListTrips handles GET /trips requests.
func (h *TripHandler) HandleListTrips(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Not authenticated"))
		return
	}

	trips, err := h.trips.ListTrips(r.Context(), user.ID)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trips)
}

// HandleGetTrip handles GET /trips/{trip_id} requests.
func (h *TripHandler) HandleGetTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Not authenticated"))
		return
	}

	trip, err := h.trips.GetTrip(r.Context(), user.ID, chi.URLParam(r, "trip_id"))
	if err != nil {
		if errors.Is(err, service.ErrTripNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse("Trip not found"))
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// HandleGenerateItinerary handles POST /trips/{trip_id}/generate-itinerary.
func (h *TripHandler) HandleGenerateItinerary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Not authenticated"))
		return
	}

	resp, err := h.itineraries.GenerateItinerary(r.Context(), user.ID, chi.URLParam(r, "trip_id"))
	if err != nil {
		var genErr *service.GenerationError
		switch {
		case errors.Is(err, service.ErrTripNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse("Trip not found"))
		case errors.As(err, &genErr):
			writeJSON(w, http.StatusInternalServerError, errorResponse("Failed to generate itinerary: "+genErr.Err.Error()))
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGetItinerary handles GET /trips/{trip_id}/itinerary.
func (h *TripHandler) HandleGetItinerary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Not authenticated"))
		return
	}

	it, err := h.itineraries.GetItinerary(r.Context(), user.ID, chi.URLParam(r, "trip_id"))
	if err != nil {
		if errors.Is(err, service.ErrItineraryNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse("Itinerary not found"))
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, it)
}
