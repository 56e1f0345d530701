package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TimelineFilter selects the seats and window an occupancy timeline is built
// for. Ignore excludes one reservation, used when re-validating an edit.
type TimelineFilter struct {
	LocationID         uuid.UUID
	SeatName           *string
	Date               time.Time
	TwoDays            bool
	SingleOccupantOnly bool
	Ignore             *uuid.UUID
}

type TimelineQueries interface {
	SeatTimelines(ctx context.Context, f TimelineFilter) ([]*SeatTimeline, error)
}

type BookingQueries interface {
	ListByUser(ctx context.Context, userID int64) ([]*UserBookingItem, error)
	Members(ctx context.Context, bookingID uuid.UUID) ([]*MemberView, error)
	ListByLocationAdmin(ctx context.Context, locationID, adminID uuid.UUID) ([]*AdminBookingItem, error)
	// BusySeatNames lists seats of the location occupied at any point of
	// [start, start+hours).
	BusySeatNames(ctx context.Context, locationID uuid.UUID, start time.Time, hours int) ([]string, error)
}

type QueueQueries interface {
	// ForLocationDay returns the location's active entries matching the day
	// (or undated ones), most recently created first.
	ForLocationDay(ctx context.Context, locationID uuid.UUID, day time.Time) ([]*QueueEntryView, error)
	ForUserDay(ctx context.Context, userID int64, day time.Time) ([]*QueueEntryView, error)
}

type LocationQueries interface {
	List(ctx context.Context) ([]*LocationView, error)
	Get(ctx context.Context, id uuid.UUID) (*LocationView, error)
	Seats(ctx context.Context, locationID uuid.UUID) ([]*SeatView, error)
}

// LifecycleQueries feed the reconciliation pass: each method returns the
// reservations inside the given look-ahead window whose matching one-shot
// flag is still unset.
type LifecycleQueries interface {
	DuePreEnd(ctx context.Context, now time.Time, window time.Duration) ([]*LifecycleCandidate, error)
	DuePreStart(ctx context.Context, now time.Time, window time.Duration) ([]*LifecycleCandidate, error)
	DueClientEnd(ctx context.Context, now time.Time, window time.Duration) ([]*LifecycleCandidate, error)
	DueClientStart(ctx context.Context, now time.Time, window time.Duration) ([]*LifecycleCandidate, error)
}
