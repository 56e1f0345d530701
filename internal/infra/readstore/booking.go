package readstore

import (
	"context"
	"errors"
	"time"

	"cowork-booking/internal/infra"
	"cowork-booking/internal/infra/db"
	"cowork-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	db  db.DBTX
	loc *time.Location
}

func NewBookingReadStore(dbtx db.DBTX, loc *time.Location) *BookingReadStore {
	return &BookingReadStore{db: dbtx, loc: loc}
}

func (r *BookingReadStore) ListByUser(ctx context.Context, userID int64) ([]*queries.UserBookingItem, error) {
	const query = `
		SELECT b.id, b.seat_id, s.name, b.time_start, b.time_end,
		       b.people_amount, b.features, b.comment, b.code, m.role
		FROM bookings b
		JOIN seats s ON s.id = b.seat_id
		JOIN booking_members m ON m.booking_id = b.id
		WHERE m.user_id = $1
		ORDER BY b.time_start`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list user bookings", err)
	}
	defer rows.Close()

	items := make([]*queries.UserBookingItem, 0)
	for rows.Next() {
		var item queries.UserBookingItem
		err := rows.Scan(
			&item.ID, &item.SeatID, &item.SeatName, &item.TimeStart, &item.TimeEnd,
			&item.PeopleAmount, &item.Features, &item.Comment, &item.Code, &item.Role,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan user booking row", err)
		}
		item.TimeStart = item.TimeStart.In(r.loc)
		item.TimeEnd = item.TimeEnd.In(r.loc)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate user booking rows", err)
	}
	return items, nil
}

func (r *BookingReadStore) Members(ctx context.Context, bookingID uuid.UUID) ([]*queries.MemberView, error) {
	const query = `
		SELECT m.user_id, COALESCE(u.username, ''), u.first_name, m.role
		FROM booking_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.booking_id = $1
		ORDER BY m.created_at`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking members", err)
	}
	defer rows.Close()

	members := make([]*queries.MemberView, 0)
	for rows.Next() {
		var m queries.MemberView
		if err := rows.Scan(&m.UserID, &m.Username, &m.FirstName, &m.Role); err != nil {
			return nil, infra.WrapRepoErr("failed to scan member row", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate member rows", err)
	}
	return members, nil
}

func (r *BookingReadStore) ListByLocationAdmin(ctx context.Context, locationID, adminID uuid.UUID) ([]*queries.AdminBookingItem, error) {
	const ownerQuery = `SELECT admin_id FROM locations WHERE id = $1`

	var ownerID uuid.UUID
	if err := r.db.QueryRow(ctx, ownerQuery, locationID).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("location not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find location", err)
	}
	if ownerID != adminID {
		return nil, infra.WrapRepoErr("location belongs to another admin", nil, infra.KindNotFound)
	}

	const query = `
		SELECT b.id, b.seat_id, s.name, b.time_start, b.time_end, b.people_amount, b.comment
		FROM bookings b
		JOIN seats s ON s.id = b.seat_id
		WHERE s.location_id = $1
		ORDER BY b.time_start`

	rows, err := r.db.Query(ctx, query, locationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list location bookings", err)
	}
	defer rows.Close()

	items := make([]*queries.AdminBookingItem, 0)
	for rows.Next() {
		var item queries.AdminBookingItem
		err := rows.Scan(
			&item.ID, &item.SeatID, &item.SeatName, &item.TimeStart, &item.TimeEnd,
			&item.PeopleAmount, &item.Comment,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan location booking row", err)
		}
		item.TimeStart = item.TimeStart.In(r.loc)
		item.TimeEnd = item.TimeEnd.In(r.loc)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate location booking rows", err)
	}
	return items, nil
}

func (r *BookingReadStore) BusySeatNames(ctx context.Context, locationID uuid.UUID, start time.Time, hours int) ([]string, error) {
	const query = `
		SELECT DISTINCT s.name
		FROM bookings b
		JOIN seats s ON s.id = b.seat_id
		WHERE s.location_id = $1
		  AND b.time_start < $3
		  AND b.time_end > $2
		ORDER BY s.name`

	end := start.Add(time.Duration(hours) * time.Hour)
	rows, err := r.db.Query(ctx, query, locationID, start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list busy seats", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, infra.WrapRepoErr("failed to scan seat name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate seat names", err)
	}
	return names, nil
}
