package readstore

import (
	"context"
	"time"

	"cowork-booking/internal/domain/timeline"
	"cowork-booking/internal/infra"
	"cowork-booking/internal/infra/db"
	"cowork-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type TimelineReadStore struct {
	db  db.DBTX
	loc *time.Location
}

func NewTimelineReadStore(dbtx db.DBTX, loc *time.Location) *TimelineReadStore {
	return &TimelineReadStore{db: dbtx, loc: loc}
}

// SeatTimelines builds the hourly occupancy bitmap of every matching seat for
// the requested day (or two consecutive days). Only reservations starting
// inside the window count. Hours are indexed in the configured timezone, the
// same one reservation slots are validated in.
func (r *TimelineReadStore) SeatTimelines(ctx context.Context, f queries.TimelineFilter) ([]*queries.SeatTimeline, error) {
	days := 1
	if f.TwoDays {
		days = 2
	}
	local := f.Date.In(r.loc)
	windowStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.loc)
	windowEnd := windowStart.AddDate(0, 0, days)

	seats, index, err := r.seatsFor(ctx, f, days)
	if err != nil {
		return nil, err
	}
	if len(seats) == 0 {
		return seats, nil
	}

	const query = `
		SELECT b.seat_id, b.time_start, b.time_end
		FROM bookings b
		JOIN seats s ON s.id = b.seat_id
		WHERE s.location_id = $1
		  AND b.time_start >= $2
		  AND b.time_start < $3
		  AND ($4::uuid IS NULL OR b.id <> $4)`

	rows, err := r.db.Query(ctx, query, f.LocationID, windowStart, windowEnd, f.Ignore)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load reservations for timeline", err)
	}
	defer rows.Close()

	for rows.Next() {
		var seatID uuid.UUID
		var start, end time.Time
		if err := rows.Scan(&seatID, &start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		st, ok := index[seatID]
		if !ok {
			continue
		}
		markSlot(st.Hours, windowStart, start.In(r.loc), end.In(r.loc))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation rows", err)
	}

	return seats, nil
}

func (r *TimelineReadStore) seatsFor(ctx context.Context, f queries.TimelineFilter, days int) ([]*queries.SeatTimeline, map[uuid.UUID]*queries.SeatTimeline, error) {
	const query = `
		SELECT id, name, capacity
		FROM seats
		WHERE location_id = $1
		  AND ($2::text IS NULL OR name = $2)
		  AND (NOT $3::bool OR capacity = 1)
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, f.LocationID, f.SeatName, f.SingleOccupantOnly)
	if err != nil {
		return nil, nil, infra.WrapRepoErr("failed to list seats for timeline", err)
	}
	defer rows.Close()

	seats := make([]*queries.SeatTimeline, 0)
	index := make(map[uuid.UUID]*queries.SeatTimeline)
	for rows.Next() {
		st := &queries.SeatTimeline{Hours: timeline.New(days)}
		if err := rows.Scan(&st.SeatID, &st.SeatName, &st.Capacity); err != nil {
			return nil, nil, infra.WrapRepoErr("failed to scan seat row", err)
		}
		seats = append(seats, st)
		index[st.SeatID] = st
	}
	if err := rows.Err(); err != nil {
		return nil, nil, infra.WrapRepoErr("failed to iterate seat rows", err)
	}
	return seats, index, nil
}

// markSlot projects one reservation onto the bitmap: hours
// [start hour, end hour), so a slot occupies every hour it starts in and its
// end hour stays free. The part outside the window is dropped by Mark's clamp.
func markSlot(t timeline.Timeline, windowStart, start, end time.Time) {
	fromIdx := hourFloor(windowStart, start)
	toIdx := hourFloor(windowStart, end)
	for day := 0; day < t.Days(); day++ {
		base := day * timeline.HoursPerDay
		t.Mark(day, fromIdx-base, toIdx-base)
	}
}

func hourFloor(base, t time.Time) int {
	d := t.Sub(base)
	if d < 0 {
		d -= time.Hour - time.Nanosecond
	}
	return int(d / time.Hour)
}
