package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/itinera/itinera-go/internal/model"
	"github.com/itinera/itinera-go/internal/repository"
)

func TestUserStore_DuplicateEmailUnderRace(t *testing.T) {
	users := New().Users()
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- users.Create(ctx, &model.User{ID: fmt.Sprintf("u-%d", i), Email: "a@x.com"})
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repository.ErrDuplicateEmail):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != n-1 {
		t.Errorf("got %d created and %d duplicates, want 1 and %d", ok, dup, n-1)
	}
}

func TestUserStore_EmailIsCaseSensitive(t *testing.T) {
	users := New().Users()
	ctx := context.Background()

	if err := users.Create(ctx, &model.User{ID: "u-1", Email: "a@x.com"}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if err := users.Create(ctx, &model.User{ID: "u-2", Email: "A@x.com"}); err != nil {
		t.Fatalf("Create() with different case unexpected error: %v", err)
	}
}

func TestUserStore_Delete(t *testing.T) {
	users := New().Users()
	ctx := context.Background()

	_ = users.Create(ctx, &model.User{ID: "u-1", Email: "a@x.com"})
	if err := users.Delete(ctx, "u-1"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if _, err := users.GetByID(ctx, "u-1"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("GetByID() error = %v, want ErrUserNotFound", err)
	}
	if _, err := users.GetByEmail(ctx, "a@x.com"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrUserNotFound", err)
	}
}

func TestTripStore_OwnerScoped(t *testing.T) {
	trips := New().Trips()
	ctx := context.Background()
	now := time.Now()

	_ = trips.Create(ctx, &model.Trip{ID: "t-1", UserID: "alice", CreatedAt: now.Add(-time.Hour)})
	_ = trips.Create(ctx, &model.Trip{ID: "t-2", UserID: "alice", CreatedAt: now})
	_ = trips.Create(ctx, &model.Trip{ID: "t-3", UserID: "bob", CreatedAt: now})

	list, err := trips.ListByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByUser() unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID != "t-2" || list[1].ID != "t-1" {
		t.Errorf("ListByUser() = %+v, want t-2 then t-1", list)
	}

	if _, err := trips.GetForUser(ctx, "t-1", "bob"); !errors.Is(err, repository.ErrTripNotFound) {
		t.Errorf("GetForUser() error = %v, want ErrTripNotFound", err)
	}
}

func TestTripStore_ListCap(t *testing.T) {
	trips := New().Trips()
	ctx := context.Background()

	for i := 0; i < repository.MaxTripsPerList+5; i++ {
		_ = trips.Create(ctx, &model.Trip{ID: fmt.Sprintf("t-%d", i), UserID: "alice"})
	}

	list, _ := trips.ListByUser(ctx, "alice")
	if len(list) != repository.MaxTripsPerList {
		t.Errorf("ListByUser() returned %d trips, want %d", len(list), repository.MaxTripsPerList)
	}
}

func TestItineraryStore_LatestWins(t *testing.T) {
	its := New().Itineraries()
	ctx := context.Background()
	now := time.Now()

	_ = its.Create(ctx, &model.Itinerary{ID: "i-1", TripID: "t-1", UserID: "alice", CreatedAt: now})
	_ = its.Create(ctx, &model.Itinerary{ID: "i-2", TripID: "t-1", UserID: "alice", CreatedAt: now})
	_ = its.Create(ctx, &model.Itinerary{ID: "i-3", TripID: "t-2", UserID: "alice", CreatedAt: now.Add(time.Hour)})

	got, err := its.LatestForTrip(ctx, "t-1", "alice")
	if err != nil {
		t.Fatalf("LatestForTrip() unexpected error: %v", err)
	}
	if got.ID != "i-2" {
		t.Errorf("LatestForTrip() = %q, want i-2", got.ID)
	}

	if _, err := its.LatestForTrip(ctx, "t-1", "bob"); !errors.Is(err, repository.ErrItineraryNotFound) {
		t.Errorf("LatestForTrip() error = %v, want ErrItineraryNotFound", err)
	}
}
