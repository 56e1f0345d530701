package writerepo

import (
	"context"
	"errors"

	"cowork-booking/internal/domain/booking"
	"cowork-booking/internal/infra"
	"cowork-booking/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeExclusionViolation = "23P01"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, res *booking.Reservation) (uuid.UUID, error) {
	const query = `
		INSERT INTO bookings (id, seat_id, time_start, time_end, people_amount, features, comment, code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		res.ID(),
		res.SeatID(),
		res.Slot().Start(),
		res.Slot().End(),
		res.PeopleAmount(),
		res.Features(),
		res.Comment(),
		res.Code(),
	).Scan(&id)
	if err != nil {
		if isConflict(err) {
			return uuid.Nil, infra.WrapRepoErr("seat already booked for this interval", err, infra.KindConflict)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	return id, nil
}

func (r *BookingRepository) UpdateSlot(ctx context.Context, tx db.DBTX, id uuid.UUID, slot booking.TimeSlot, features []string, comment string) error {
	const query = `
		UPDATE bookings
		SET time_start = $2, time_end = $3, features = $4, comment = $5, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, slot.Start(), slot.End(), features, comment)
	if err != nil {
		if isConflict(err) {
			return infra.WrapRepoErr("seat already booked for this interval", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) SetFlag(ctx context.Context, tx db.DBTX, id uuid.UUID, flag booking.Flag) error {
	column, ok := flagColumns[flag]
	if !ok {
		return infra.WrapRepoErr("unknown notification flag", nil)
	}

	_, err := tx.Exec(ctx, `UPDATE bookings SET `+column+` = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to set notification flag", err)
	}
	return nil
}

// Column names are taken from this map, never from input.
var flagColumns = map[booking.Flag]string{
	booking.FlagPreEnd:      "notified_pre_end",
	booking.FlagPreStart:    "notified_pre_start",
	booking.FlagClientEnd:   "notified_client_end",
	booking.FlagClientStart: "notified_client_start",
}

// isConflict covers both the unique index and the seat/interval exclusion
// constraint, so a concurrent overlapping insert loses with CONFLICT even
// when the in-transaction check passed.
func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgErrCodeUniqueViolation || pgErr.Code == pgErrCodeExclusionViolation
}
