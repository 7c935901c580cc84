package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/itinera/itinera-go/internal/config"
	"github.com/itinera/itinera-go/internal/crypto"
	"github.com/itinera/itinera-go/internal/handler"
	"github.com/itinera/itinera-go/internal/llm"
	"github.com/itinera/itinera-go/internal/middleware"
	"github.com/itinera/itinera-go/internal/repository"
	"github.com/itinera/itinera-go/internal/repository/memstore"
	"github.com/itinera/itinera-go/internal/repository/mongostore"
	"github.com/itinera/itinera-go/internal/service"
)

// stores bundles the three record stores behind one driver.
type stores struct {
	users       service.UserStore
	trips       service.TripStore
	itineraries service.ItineraryStore
	close       func(context.Context) error
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Env == "production" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("store initialization failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	if cfg.LLMAPIKey == "" {
		slog.Warn("LLM API key not set, itinerary generation will fail")
	}
	generator := llm.NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)

	authService := service.NewAuthService(st.users, crypto.NewHasher(crypto.DefaultHashParams()), crypto.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry))
	tripService := service.NewTripService(st.trips)
	itineraryService := service.NewItineraryService(st.trips, st.itineraries, generator, cfg.LLMTimeout)

	authLimiter := middleware.NewIPRateLimiter(5, 10)
	generateLimiter := middleware.NewIPRateLimiter(0.2, 3)
	go authLimiter.Run(ctx)
	go generateLimiter.Run(ctx)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handler.NewRouter(cfg, handler.Deps{
			Auth:            authService,
			Trips:           tripService,
			Itineraries:     itineraryService,
			AuthLimiter:     authLimiter,
			GenerateLimiter: generateLimiter,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	if err := st.close(shutdownCtx); err != nil {
		slog.Error("closing store", "error", err)
	}

	slog.Info("server stopped")
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMySQL:
		db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
		if err != nil {
			return stores{}, err
		}
		if err := repository.Migrate(ctx, db); err != nil {
			db.Close()
			return stores{}, err
		}
		return stores{
			users:       repository.NewUserRepository(db),
			trips:       repository.NewTripRepository(db),
			itineraries: repository.NewItineraryRepository(db),
			close:       func(context.Context) error { return db.Close() },
		}, nil

	case config.StoreMongo:
		ms, err := mongostore.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			return stores{}, err
		}
		return stores{
			users:       ms.Users(),
			trips:       ms.Trips(),
			itineraries: ms.Itineraries(),
			close:       ms.Close,
		}, nil

	case config.StoreMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		mem := memstore.New()
		return stores{
			users:       mem.Users(),
			trips:       mem.Trips(),
			itineraries: mem.Itineraries(),
			close:       func(context.Context) error { return nil },
		}, nil
	}

	return stores{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
