package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/itinera/itinera-go/internal/config"
	"github.com/itinera/itinera-go/internal/middleware"
	"github.com/itinera/itinera-go/internal/service"
)

// Deps are the services and limiters the router serves. A nil limiter
// disables rate limiting for its routes.
type Deps struct {
	Auth        *service.AuthService
	Trips       *service.TripService
	Itineraries *service.ItineraryService

	AuthLimiter     *middleware.IPRateLimiter
	GenerateLimiter *middleware.IPRateLimiter
}

// NewRouter assembles the HTTP API.
func NewRouter(cfg config.Config, deps Deps) http.Handler {
	authHandler := NewAuthHandler(deps.Auth)
	tripHandler := NewTripHandler(deps.Trips, deps.Itineraries)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	api := func(r chi.Router) {
		r.Group(func(r chi.Router) {
			useLimiter(r, deps.AuthLimiter)
			r.Post("/auth/register", authHandler.HandleRegister)
			r.Post("/auth/login", authHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(deps.Auth))
			r.Get("/auth/me", authHandler.HandleMe)

			r.Post("/trips", tripHandler.HandleCreateTrip)
			r.Get("/trips", tripHandler.HandleListTrips)
			r.Get("/trips/{trip_id}", tripHandler.HandleGetTrip)
			r.Get("/trips/{trip_id}/itinerary", tripHandler.HandleGetItinerary)

			r.Group(func(r chi.Router) {
				useLimiter(r, deps.GenerateLimiter)
				r.Post("/trips/{trip_id}/generate-itinerary", tripHandler.HandleGenerateItinerary)
			})
		})
	}
	if prefix := strings.TrimRight(cfg.APIPrefix, "/"); prefix != "" {
		r.Route(prefix, api)
	} else {
		r.Group(api)
	}

	return r
}

func useLimiter(r chi.Router, l *middleware.IPRateLimiter) {
	if l != nil {
		r.Use(middleware.RateLimit(l))
	}
}
