package shared

import (
	"context"
	"time"

	"cowork-booking/internal/domain/booking"
	"cowork-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Members() MemberRepository
	Queue() QueueRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, res *booking.Reservation) (uuid.UUID, error)
	UpdateSlot(ctx context.Context, tx db.DBTX, id uuid.UUID, slot booking.TimeSlot, features []string, comment string) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	SetFlag(ctx context.Context, tx db.DBTX, id uuid.UUID, flag booking.Flag) error
}

type MemberRepository interface {
	Add(ctx context.Context, tx db.DBTX, bookingID uuid.UUID, userID int64, role booking.Role) error
}

type UserRepository interface {
	// Upsert registers the messenger user or refreshes their profile fields.
	Upsert(ctx context.Context, tx db.DBTX, user UserProfile) error
}

type QueueRepository interface {
	Create(ctx context.Context, tx db.DBTX, entry NewQueueEntry) (uuid.UUID, error)
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	// DeleteOwned deletes the entry only when it belongs to the given user.
	DeleteOwned(ctx context.Context, tx db.DBTX, id uuid.UUID, userID int64) error
	DeleteExpired(ctx context.Context, tx db.DBTX, before time.Time) (int64, error)
}

// CommandReads are the lookups commands run for validation. Obtained from a
// Tx they see uncommitted writes of that transaction, which is what makes the
// check-then-write sequences race-safe.
type CommandReads interface {
	LocationByID(ctx context.Context, id uuid.UUID) (*LocationSnapshot, error)
	SeatByID(ctx context.Context, id uuid.UUID) (*SeatSnapshot, error)
	SeatByName(ctx context.Context, locationID uuid.UUID, name string) (*SeatSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	// SeatFree reports no reservation on the seat overlapping [start, end),
	// optionally excluding one reservation id.
	SeatFree(ctx context.Context, seatID uuid.UUID, start, end time.Time, ignore *uuid.UUID) (bool, error)
	// UserHasBookingOn reports an existing reservation held by the user in the
	// location on the given calendar day.
	UserHasBookingOn(ctx context.Context, userID int64, locationID uuid.UUID, day time.Time) (bool, error)
	// UserQueuedOn reports an active queue entry for the user on the given
	// calendar day.
	UserQueuedOn(ctx context.Context, userID int64, day time.Time) (bool, error)
	MemberRole(ctx context.Context, bookingID uuid.UUID, userID int64) (booking.Role, error)
	MemberCount(ctx context.Context, bookingID uuid.UUID) (int, error)
	AdminByLogin(ctx context.Context, login string) (*AdminSnapshot, error)
}
