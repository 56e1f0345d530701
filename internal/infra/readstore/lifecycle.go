package readstore

import (
	"context"
	"time"

	"cowork-booking/internal/infra"
	"cowork-booking/internal/infra/db"
	"cowork-booking/internal/usecase/queries"
)

// LifecycleReadStore selects the reservations due a one-shot lifecycle
// transition. Each method pairs a time column with its idempotency flag, so a
// reservation is returned at most until the flag is set.
type LifecycleReadStore struct {
	db  db.DBTX
	loc *time.Location
}

func NewLifecycleReadStore(dbtx db.DBTX, loc *time.Location) *LifecycleReadStore {
	return &LifecycleReadStore{db: dbtx, loc: loc}
}

func (r *LifecycleReadStore) DuePreEnd(ctx context.Context, now time.Time, window time.Duration) ([]*queries.LifecycleCandidate, error) {
	const query = `
		SELECT b.id, s.location_id, s.id, s.name, m.user_id, b.time_start, b.time_end
		FROM bookings b
		JOIN seats s ON s.id = b.seat_id
		JOIN booking_members m ON m.booking_id = b.id AND m.role = 'creator'
		WHERE NOT b.notified_pre_end
		  AND b.time_end > $1
		  AND b.time_end <= $2
		ORDER BY b.time_end`

	return r.collect(ctx, query, now, now.Add(window))
}

// DuePreStart has no lower bound: a booking already underway with the flag
// unset is still due its notice.
func (r *LifecycleReadStore) DuePreStart(ctx context.Context, now time.Time, window time.Duration) ([]*queries.LifecycleCandidate, error) {
	const query = `
		SELECT b.id, s.location_id, s.id, s.name, m.user_id, b.time_start, b.time_end
		FROM bookings b
		JOIN seats s ON s.id = b.seat_id
		JOIN booking_members m ON m.booking_id = b.id AND m.role = 'creator'
		WHERE NOT b.notified_pre_start
		  AND b.time_start <= $1
		ORDER BY b.time_start`

	return r.collect(ctx, query, now.Add(window))
}

func (r *LifecycleReadStore) DueClientEnd(ctx context.Context, now time.Time, window time.Duration) ([]*queries.LifecycleCandidate, error) {
	const query = `
		SELECT b.id, s.location_id, s.id, s.name, m.user_id, b.time_start, b.time_end
		FROM bookings b
		JOIN seats s ON s.id = b.seat_id
		JOIN booking_members m ON m.booking_id = b.id AND m.role = 'creator'
		WHERE NOT b.notified_client_end
		  AND b.time_end <= $1
		ORDER BY b.time_end`

	return r.collect(ctx, query, now.Add(window))
}

func (r *LifecycleReadStore) DueClientStart(ctx context.Context, now time.Time, window time.Duration) ([]*queries.LifecycleCandidate, error) {
	const query = `
		SELECT b.id, s.location_id, s.id, s.name, m.user_id, b.time_start, b.time_end
		FROM bookings b
		JOIN seats s ON s.id = b.seat_id
		JOIN booking_members m ON m.booking_id = b.id AND m.role = 'creator'
		WHERE NOT b.notified_client_start
		  AND b.time_start <= $1
		ORDER BY b.time_start`

	return r.collect(ctx, query, now.Add(window))
}

func (r *LifecycleReadStore) collect(ctx context.Context, query string, args ...any) ([]*queries.LifecycleCandidate, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list lifecycle candidates", err)
	}
	defer rows.Close()

	candidates := make([]*queries.LifecycleCandidate, 0)
	for rows.Next() {
		var c queries.LifecycleCandidate
		err := rows.Scan(&c.BookingID, &c.LocationID, &c.SeatID, &c.SeatName, &c.CreatorID, &c.TimeStart, &c.TimeEnd)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan lifecycle candidate", err)
		}
		c.TimeStart = c.TimeStart.In(r.loc)
		c.TimeEnd = c.TimeEnd.In(r.loc)
		candidates = append(candidates, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate lifecycle candidates", err)
	}
	return candidates, nil
}
