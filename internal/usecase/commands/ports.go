package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is the payload shape fanned out to live subscribers. The wire key
// table_id carries the seat name, kept for compatibility with deployed
// clients.
type Event struct {
	Event     string `json:"event"`
	TableID   string `json:"table_id"`
	TimeStart string `json:"time_start,omitempty"`
	TimeEnd   string `json:"time_end,omitempty"`
}

const (
	EventBookingCreated  = "booking_created"
	EventBookingUpdated  = "booking_updated"
	EventBookingCanceled = "booking_canceled"
	EventBookingStarted  = "booking_started"
)

func bookingEvent(name, seatName string, start, end time.Time) Event {
	return Event{
		Event:     name,
		TableID:   seatName,
		TimeStart: start.Format(time.RFC3339),
		TimeEnd:   end.Format(time.RFC3339),
	}
}

// LiveFanout broadcasts an event to every subscriber of a location. Delivery
// is fire-and-forget; the implementation never blocks the caller on a slow or
// dead subscriber.
type LiveFanout interface {
	Notify(locationID uuid.UUID, ev Event)
}

// Action is an inline button attached to a direct message, handled by the
// chat-bot consumer.
type Action struct {
	Label   string `json:"label"`
	Command string `json:"command"`
}

// DirectNotifier sends a private message to one user, best effort.
type DirectNotifier interface {
	Send(ctx context.Context, userID int64, text string, actions ...Action) error
}

// MatchRunner is one queue-match pass over a location's single-occupant
// seats. triggeredBy excludes the user whose own write started the pass.
type MatchRunner interface {
	Run(ctx context.Context, locationID uuid.UUID, day time.Time, triggeredBy int64) error
}
