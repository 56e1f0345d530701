package readstore

import (
	"context"
	"errors"
	"time"

	"cowork-booking/internal/domain/booking"
	"cowork-booking/internal/infra"
	"cowork-booking/internal/infra/db"
	"cowork-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CommandReads runs the validation lookups of the write path. Bound to a
// transaction it observes that transaction's own writes.
type CommandReads struct {
	db  db.DBTX
	loc *time.Location
}

func NewCommandReads(dbtx db.DBTX, loc *time.Location) *CommandReads {
	return &CommandReads{db: dbtx, loc: loc}
}

func (r *CommandReads) LocationByID(ctx context.Context, id uuid.UUID) (*shared.LocationSnapshot, error) {
	const query = `
		SELECT id, name, address, admin_id, open_hour, close_hour
		FROM locations
		WHERE id = $1`

	var snap shared.LocationSnapshot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.Name, &snap.Address, &snap.AdminID,
		&snap.Hours.Open, &snap.Hours.Close,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("location not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find location", err)
	}
	return &snap, nil
}

func (r *CommandReads) SeatByID(ctx context.Context, id uuid.UUID) (*shared.SeatSnapshot, error) {
	const query = `
		SELECT id, location_id, name, features, capacity
		FROM seats
		WHERE id = $1`

	return r.scanSeat(r.db.QueryRow(ctx, query, id))
}

func (r *CommandReads) SeatByName(ctx context.Context, locationID uuid.UUID, name string) (*shared.SeatSnapshot, error) {
	const query = `
		SELECT id, location_id, name, features, capacity
		FROM seats
		WHERE location_id = $1 AND name = $2`

	return r.scanSeat(r.db.QueryRow(ctx, query, locationID, name))
}

func (r *CommandReads) scanSeat(row pgx.Row) (*shared.SeatSnapshot, error) {
	var snap shared.SeatSnapshot
	err := row.Scan(&snap.ID, &snap.LocationID, &snap.Name, &snap.Features, &snap.Capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("seat not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find seat", err)
	}
	return &snap, nil
}

func (r *CommandReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	const query = `
		SELECT b.id, b.seat_id, s.name, s.capacity, s.location_id,
		       b.time_start, b.time_end, b.people_amount, b.features, b.comment, b.code,
		       b.notified_pre_end, b.notified_pre_start, b.notified_client_end, b.notified_client_start,
		       COALESCE(m.user_id, 0)
		FROM bookings b
		JOIN seats s ON s.id = b.seat_id
		LEFT JOIN booking_members m ON m.booking_id = b.id AND m.role = 'creator'
		WHERE b.id = $1`

	var snap shared.BookingSnapshot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.SeatID, &snap.SeatName, &snap.SeatCapacity, &snap.LocationID,
		&snap.TimeStart, &snap.TimeEnd, &snap.PeopleAmount, &snap.Features, &snap.Comment, &snap.Code,
		&snap.Flags.PreEnd, &snap.Flags.PreStart, &snap.Flags.ClientEnd, &snap.Flags.ClientStart,
		&snap.CreatorID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	snap.TimeStart = snap.TimeStart.In(r.loc)
	snap.TimeEnd = snap.TimeEnd.In(r.loc)
	return &snap, nil
}

func (r *CommandReads) SeatFree(ctx context.Context, seatID uuid.UUID, start, end time.Time, ignore *uuid.UUID) (bool, error) {
	const query = `
		SELECT NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE seat_id = $1
			  AND time_start < $3
			  AND time_end > $2
			  AND ($4::uuid IS NULL OR id <> $4)
		)`

	var free bool
	if err := r.db.QueryRow(ctx, query, seatID, start, end, ignore).Scan(&free); err != nil {
		return false, infra.WrapRepoErr("failed to check seat availability", err)
	}
	return free, nil
}

func (r *CommandReads) UserHasBookingOn(ctx context.Context, userID int64, locationID uuid.UUID, day time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM bookings b
			JOIN seats s ON s.id = b.seat_id
			JOIN booking_members m ON m.booking_id = b.id
			WHERE m.user_id = $1
			  AND s.location_id = $2
			  AND b.time_start >= $3 AND b.time_start < $4
		)`

	from, to := r.dayRange(day)
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, locationID, from, to).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check same-day booking", err)
	}
	return exists, nil
}

func (r *CommandReads) UserQueuedOn(ctx context.Context, userID int64, day time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM queue_entries
			WHERE user_id = $1
			  AND (date IS NULL OR (date >= $2 AND date < $3))
		)`

	from, to := r.dayRange(day)
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, from, to).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check queue entry", err)
	}
	return exists, nil
}

func (r *CommandReads) MemberRole(ctx context.Context, bookingID uuid.UUID, userID int64) (booking.Role, error) {
	const query = `SELECT role FROM booking_members WHERE booking_id = $1 AND user_id = $2`

	var role string
	err := r.db.QueryRow(ctx, query, bookingID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", infra.WrapRepoErr("booking member not found", err, infra.KindNotFound)
		}
		return "", infra.WrapRepoErr("failed to find booking member", err)
	}
	return booking.Role(role), nil
}

func (r *CommandReads) AdminByLogin(ctx context.Context, login string) (*shared.AdminSnapshot, error) {
	const query = `SELECT id, login, password_hash FROM admins WHERE login = $1`

	var snap shared.AdminSnapshot
	err := r.db.QueryRow(ctx, query, login).Scan(&snap.ID, &snap.Login, &snap.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("admin not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find admin", err)
	}
	return &snap, nil
}

func (r *CommandReads) MemberCount(ctx context.Context, bookingID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM booking_members WHERE booking_id = $1`, bookingID).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count booking members", err)
	}
	return count, nil
}

// dayRange converts a moment into its calendar-day bounds in the configured
// timezone.
func (r *CommandReads) dayRange(t time.Time) (time.Time, time.Time) {
	local := t.In(r.loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.loc)
	return from, from.AddDate(0, 0, 1)
}
