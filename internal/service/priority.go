package service

import (
	"slices"

	"cupo/internal/domain"
)

// statusRank orders statuses for display; unknown statuses sort last.
var statusRank = map[domain.TripStatus]int{
	domain.TripStatusStarted:  1,
	domain.TripStatusActive:   2,
	domain.TripStatusFinished: 3,
	domain.TripStatusCanceled: 4,
}

const unknownStatusRank = 5

var statusLabel = map[domain.TripStatus]string{
	domain.TripStatusStarted:  "In progress",
	domain.TripStatusActive:   "Active",
	domain.TripStatusFinished: "Finished",
	domain.TripStatusCanceled: "Canceled",
}

// Priority describes where a trip lands in a driver's list.
type Priority struct {
	Level            int
	Label            string
	HasNotifications bool
}

// SortTripsByPriority returns a new slice ordered by urgency:
// active trips with reservations first, then by status rank, then by departure time
// (most recent first for finished and canceled trips, soonest first otherwise).
// The sort is stable and the input is not modified.
func SortTripsByPriority(trips []*domain.Trip) []*domain.Trip {
	sorted := slices.Clone(trips)
	slices.SortStableFunc(sorted, compareTripPriority)
	return sorted
}

// TripPriority returns the display priority of a single trip. Level 0 means pending notifications.
func TripPriority(trip *domain.Trip) Priority {
	label, ok := statusLabel[trip.Status]
	if !ok {
		label = "Unknown"
	}

	if trip.HasPendingNotifications() {
		return Priority{Level: 0, Label: label + " (with notifications)", HasNotifications: true}
	}
	return Priority{Level: rankOf(trip.Status), Label: label}
}

func compareTripPriority(a, b *domain.Trip) int {
	aNotify, bNotify := a.HasPendingNotifications(), b.HasPendingNotifications()
	if aNotify != bNotify {
		if aNotify {
			return -1
		}
		return 1
	}

	if ra, rb := rankOf(a.Status), rankOf(b.Status); ra != rb {
		return ra - rb
	}

	if a.Status.IsTerminal() {
		return b.DateTime.Compare(a.DateTime)
	}
	return a.DateTime.Compare(b.DateTime)
}

func rankOf(status domain.TripStatus) int {
	if rank, ok := statusRank[status]; ok {
		return rank
	}
	return unknownStatusRank
}
