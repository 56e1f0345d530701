package readstore

import (
	"context"
	"time"

	"cowork-booking/internal/infra"
	"cowork-booking/internal/infra/db"
	"cowork-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type QueueReadStore struct {
	db  db.DBTX
	loc *time.Location
}

func NewQueueReadStore(dbtx db.DBTX, loc *time.Location) *QueueReadStore {
	return &QueueReadStore{db: dbtx, loc: loc}
}

// ForLocationDay returns the entries the matcher walks for one location and
// day. Undated entries mean "earliest available" and match every day. Newest
// first, same order promotions are attempted in.
func (r *QueueReadStore) ForLocationDay(ctx context.Context, locationID uuid.UUID, day time.Time) ([]*queries.QueueEntryView, error) {
	const query = `
		SELECT id, user_id, date, hours, comment, created_at
		FROM queue_entries
		WHERE location_id = $1
		  AND (date IS NULL OR (date >= $2 AND date < $3))
		ORDER BY created_at DESC`

	from, to := dayBounds(day, r.loc)
	rows, err := r.db.Query(ctx, query, locationID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list queue entries", err)
	}
	return r.collect(rows)
}

func (r *QueueReadStore) ForUserDay(ctx context.Context, userID int64, day time.Time) ([]*queries.QueueEntryView, error) {
	const query = `
		SELECT id, user_id, date, hours, comment, created_at
		FROM queue_entries
		WHERE user_id = $1
		  AND (date IS NULL OR (date >= $2 AND date < $3))
		ORDER BY created_at DESC`

	from, to := dayBounds(day, r.loc)
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list user queue entries", err)
	}
	return r.collect(rows)
}

func (r *QueueReadStore) collect(rows pgx.Rows) ([]*queries.QueueEntryView, error) {
	defer rows.Close()

	entries := make([]*queries.QueueEntryView, 0)
	for rows.Next() {
		var e queries.QueueEntryView
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Hours, &e.Comment, &e.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan queue entry row", err)
		}
		if e.Date != nil {
			local := e.Date.In(r.loc)
			e.Date = &local
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate queue entry rows", err)
	}
	return entries, nil
}

func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}
