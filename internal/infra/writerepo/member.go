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

type MemberRepository struct{}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{}
}

func (r *MemberRepository) Add(ctx context.Context, tx db.DBTX, bookingID uuid.UUID, userID int64, role booking.Role) error {
	const query = `
		INSERT INTO booking_members (id, booking_id, user_id, role)
		VALUES ($1, $2, $3, $4)`

	_, err := tx.Exec(ctx, query, uuid.New(), bookingID, userID, string(role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("user already joined this booking", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to add booking member", err)
	}
	return nil
}
