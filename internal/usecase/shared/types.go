package shared

import (
	"time"

	"cowork-booking/internal/domain/booking"

	"github.com/google/uuid"
)

type LocationSnapshot struct {
	ID      uuid.UUID
	Name    string
	Address string
	AdminID uuid.UUID
	Hours   booking.OpenHours
}

type SeatSnapshot struct {
	ID         uuid.UUID
	LocationID uuid.UUID
	Name       string
	Features   []string
	Capacity   int
}

func (s SeatSnapshot) Spec(hours booking.OpenHours) booking.SeatSpec {
	return booking.SeatSpec{
		ID:         s.ID,
		LocationID: s.LocationID,
		Name:       s.Name,
		Capacity:   s.Capacity,
		Hours:      hours,
	}
}

// BookingSnapshot is the command-side projection of one reservation row,
// joined with its seat and creator.
type BookingSnapshot struct {
	ID           uuid.UUID
	SeatID       uuid.UUID
	SeatName     string
	SeatCapacity int
	LocationID   uuid.UUID
	TimeStart    time.Time
	TimeEnd      time.Time
	PeopleAmount int
	Features     []string
	Comment      string
	Code         string
	CreatorID    int64
	Flags        booking.Flags
}

type QueueEntrySnapshot struct {
	ID         uuid.UUID
	LocationID uuid.UUID
	UserID     int64
	Date       *time.Time
	Hours      int
	Comment    string
	CreatedAt  time.Time
}

type AdminSnapshot struct {
	ID           uuid.UUID
	Login        string
	PasswordHash string
}

// UserProfile is the write-side payload for registering a messenger user.
type UserProfile struct {
	ID        int64
	FirstName string
	Username  string
	Phone     string
}

// NewQueueEntry is the write-side payload for a queue join.
type NewQueueEntry struct {
	LocationID uuid.UUID
	UserID     int64
	Date       *time.Time
	Hours      int
	Comment    string
}
