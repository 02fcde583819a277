package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"cupo/internal/domain"
)

var baseTime = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func tripIDs(trips []*domain.Trip) []string {
	ids := make([]string, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
	}
	return ids
}

func TestSortTripsByPriority_Example(t *testing.T) {
	t.Parallel()

	trips := []*domain.Trip{
		{ID: "finished", Status: domain.TripStatusFinished, DateTime: baseTime},
		{ID: "active-reserved", Status: domain.TripStatusActive, SeatsReserved: 2, DateTime: baseTime.Add(time.Hour)},
		{ID: "started", Status: domain.TripStatusStarted, DateTime: baseTime.Add(2 * time.Hour)},
	}

	got := tripIDs(SortTripsByPriority(trips))
	want := []string{"active-reserved", "started", "finished"}

	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Input order is untouched.
	if trips[0].ID != "finished" {
		t.Error("input slice was reordered")
	}
}

func TestSortTripsByPriority_StatusRankAndDates(t *testing.T) {
	t.Parallel()

	trips := []*domain.Trip{
		{ID: "canceled-old", Status: domain.TripStatusCanceled, DateTime: baseTime},
		{ID: "unknown", Status: domain.TripStatus("paused"), DateTime: baseTime},
		{ID: "finished-old", Status: domain.TripStatusFinished, DateTime: baseTime},
		{ID: "active-late", Status: domain.TripStatusActive, DateTime: baseTime.Add(48 * time.Hour)},
		{ID: "finished-new", Status: domain.TripStatusFinished, DateTime: baseTime.Add(24 * time.Hour)},
		{ID: "active-soon", Status: domain.TripStatusActive, DateTime: baseTime.Add(time.Hour)},
		{ID: "canceled-new", Status: domain.TripStatusCanceled, DateTime: baseTime.Add(24 * time.Hour)},
		{ID: "started", Status: domain.TripStatusStarted, DateTime: baseTime},
	}

	got := tripIDs(SortTripsByPriority(trips))
	want := []string{
		"started",
		"active-soon", "active-late",
		"finished-new", "finished-old",
		"canceled-new", "canceled-old",
		"unknown",
	}

	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSortTripsByPriority_ReservationsOnlyCountWhenActive(t *testing.T) {
	t.Parallel()

	trips := []*domain.Trip{
		{ID: "started-reserved", Status: domain.TripStatusStarted, SeatsReserved: 3, DateTime: baseTime},
		{ID: "active-reserved", Status: domain.TripStatusActive, SeatsReserved: 1, DateTime: baseTime.Add(time.Hour)},
	}

	got := tripIDs(SortTripsByPriority(trips))
	if got[0] != "active-reserved" {
		t.Errorf("expected active trip with reservations first, got %v", got)
	}
}

func TestTripPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		trip   domain.Trip
		level  int
		notify bool
	}{
		{domain.Trip{Status: domain.TripStatusActive, SeatsReserved: 1}, 0, true},
		{domain.Trip{Status: domain.TripStatusStarted}, 1, false},
		{domain.Trip{Status: domain.TripStatusActive}, 2, false},
		{domain.Trip{Status: domain.TripStatusFinished}, 3, false},
		{domain.Trip{Status: domain.TripStatusCanceled}, 4, false},
		{domain.Trip{Status: "mystery"}, 5, false},
	}

	for _, tt := range tests {
		p := TripPriority(&tt.trip)
		if p.Level != tt.level || p.HasNotifications != tt.notify {
			t.Errorf("status %s reserved %d: expected level %d notify %v, got %+v",
				tt.trip.Status, tt.trip.SeatsReserved, tt.level, tt.notify, p)
		}
	}
}

// genTrips generates trip lists; each int encodes a status, a reservation count and a departure hour.
func genTrips() gopter.Gen {
	statuses := []domain.TripStatus{
		domain.TripStatusActive,
		domain.TripStatusStarted,
		domain.TripStatusFinished,
		domain.TripStatusCanceled,
		"unknown",
	}

	return gen.SliceOf(gen.IntRange(0, 59)).Map(func(seeds []int) []*domain.Trip {
		trips := make([]*domain.Trip, len(seeds))
		for i, seed := range seeds {
			trips[i] = &domain.Trip{
				ID:            fmt.Sprintf("trip-%d", i),
				Status:        statuses[seed%5],
				SeatsReserved: (seed / 5) % 3,
				DateTime:      baseTime.Add(time.Duration((seed/15)%4) * time.Hour),
			}
		}
		return trips
	})
}

func TestSortTripsByPriority_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("sorting is idempotent", prop.ForAll(
		func(trips []*domain.Trip) bool {
			once := SortTripsByPriority(trips)
			twice := SortTripsByPriority(once)
			return fmt.Sprint(tripIDs(once)) == fmt.Sprint(tripIDs(twice))
		},
		genTrips(),
	))

	properties.Property("equal keys keep input order", prop.ForAll(
		func(trips []*domain.Trip) bool {
			position := make(map[string]int, len(trips))
			for i, t := range trips {
				position[t.ID] = i
			}

			sorted := SortTripsByPriority(trips)
			for i := 1; i < len(sorted); i++ {
				a, b := sorted[i-1], sorted[i]
				if compareTripPriority(a, b) == 0 && position[a.ID] > position[b.ID] {
					return false
				}
			}
			return true
		},
		genTrips(),
	))

	properties.Property("output is ordered", prop.ForAll(
		func(trips []*domain.Trip) bool {
			sorted := SortTripsByPriority(trips)
			for i := 1; i < len(sorted); i++ {
				if compareTripPriority(sorted[i-1], sorted[i]) > 0 {
					return false
				}
			}
			return len(sorted) == len(trips)
		},
		genTrips(),
	))

	properties.TestingRun(t)
}
