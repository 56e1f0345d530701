package writerepo

import (
	"context"
	"time"

	"cowork-booking/internal/infra"
	"cowork-booking/internal/infra/db"
	"cowork-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type QueueRepository struct{}

func NewQueueRepository() *QueueRepository {
	return &QueueRepository{}
}

func (r *QueueRepository) Create(ctx context.Context, tx db.DBTX, entry shared.NewQueueEntry) (uuid.UUID, error) {
	const query = `
		INSERT INTO queue_entries (id, location_id, user_id, date, hours, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		uuid.New(),
		entry.LocationID,
		entry.UserID,
		entry.Date,
		entry.Hours,
		entry.Comment,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create queue entry", err)
	}
	return id, nil
}

func (r *QueueRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM queue_entries WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete queue entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("queue entry not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *QueueRepository) DeleteOwned(ctx context.Context, tx db.DBTX, id uuid.UUID, userID int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM queue_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete queue entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("queue entry not found", nil, infra.KindNotFound)
	}
	return nil
}

// DeleteExpired purges dated entries whose moment has already passed.
// Undated entries ("earliest available") are kept.
func (r *QueueRepository) DeleteExpired(ctx context.Context, tx db.DBTX, before time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM queue_entries WHERE date IS NOT NULL AND date < $1`, before)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to purge queue entries", err)
	}
	return tag.RowsAffected(), nil
}
