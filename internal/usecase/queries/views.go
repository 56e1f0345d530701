package queries

import (
	"time"

	"cowork-booking/internal/domain/timeline"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

// BookingView is the projection returned to the booking owner after a write.
type BookingView struct {
	ID           uuid.UUID `json:"id"`
	SeatID       uuid.UUID `json:"seat_id"`
	SeatName     string    `json:"seat_name"`
	LocationID   uuid.UUID `json:"location_id"`
	TimeStart    time.Time `json:"time_start"`
	TimeEnd      time.Time `json:"time_end"`
	PeopleAmount int       `json:"people_amount"`
	Features     []string  `json:"features"`
	Comment      string    `json:"comment,omitempty"`
	Code         string    `json:"code"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserBookingItem is the per-user list view, including the member role.
type UserBookingItem struct {
	ID           uuid.UUID `json:"booking_id"`
	SeatID       uuid.UUID `json:"seat_id"`
	SeatName     string    `json:"seat_name"`
	TimeStart    time.Time `json:"time_start"`
	TimeEnd      time.Time `json:"time_end"`
	PeopleAmount int       `json:"people_amount"`
	Features     []string  `json:"features"`
	Comment      string    `json:"comment,omitempty"`
	Code         string    `json:"code"`
	Role         string    `json:"status"`
}

// AdminBookingItem is the admin-scoped view of a location's reservations.
// No access code: admins verify identity at the desk, not by code.
type AdminBookingItem struct {
	ID           uuid.UUID `json:"id"`
	SeatID       uuid.UUID `json:"seat_id"`
	SeatName     string    `json:"seat_name"`
	TimeStart    time.Time `json:"time_start"`
	TimeEnd      time.Time `json:"time_end"`
	PeopleAmount int       `json:"people_amount"`
	Comment      string    `json:"comment,omitempty"`
}

type MemberView struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name"`
	Role      string `json:"status"`
}

type LocationView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	OpenHour  int       `json:"open_hour"`
	CloseHour int       `json:"close_hour"`
}

type SeatView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Features []string  `json:"features"`
	Capacity int       `json:"max_occupants"`
}

type QueueEntryView struct {
	ID        uuid.UUID  `json:"id"`
	UserID    int64      `json:"user_id"`
	Date      *time.Time `json:"date,omitempty"`
	Hours     int        `json:"hours"`
	Comment   string     `json:"comment,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// SeatTimeline pairs one seat with its occupancy bitmap for the requested
// window.
type SeatTimeline struct {
	SeatID   uuid.UUID         `json:"seat_id"`
	SeatName string            `json:"seat_name"`
	Capacity int               `json:"max_occupants"`
	Hours    timeline.Timeline `json:"hours"`
}

// LifecycleCandidate is one reservation due a lifecycle transition in the
// current reconciliation pass.
type LifecycleCandidate struct {
	BookingID  uuid.UUID
	LocationID uuid.UUID
	SeatID     uuid.UUID
	SeatName   string
	CreatorID  int64
	TimeStart  time.Time
	TimeEnd    time.Time
}
