package readstore

import (
	"context"
	"errors"

	"cowork-booking/internal/infra"
	"cowork-booking/internal/infra/db"
	"cowork-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LocationReadStore struct {
	db db.DBTX
}

func NewLocationReadStore(dbtx db.DBTX) *LocationReadStore {
	return &LocationReadStore{db: dbtx}
}

func (r *LocationReadStore) List(ctx context.Context) ([]*queries.LocationView, error) {
	const query = `
		SELECT id, name, address, open_hour, close_hour
		FROM locations
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list locations", err)
	}
	defer rows.Close()

	locations := make([]*queries.LocationView, 0)
	for rows.Next() {
		var v queries.LocationView
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.OpenHour, &v.CloseHour); err != nil {
			return nil, infra.WrapRepoErr("failed to scan location row", err)
		}
		locations = append(locations, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate location rows", err)
	}
	return locations, nil
}

func (r *LocationReadStore) Get(ctx context.Context, id uuid.UUID) (*queries.LocationView, error) {
	const query = `
		SELECT id, name, address, open_hour, close_hour
		FROM locations
		WHERE id = $1`

	var v queries.LocationView
	err := r.db.QueryRow(ctx, query, id).Scan(&v.ID, &v.Name, &v.Address, &v.OpenHour, &v.CloseHour)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("location not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find location", err)
	}
	return &v, nil
}

func (r *LocationReadStore) Seats(ctx context.Context, locationID uuid.UUID) ([]*queries.SeatView, error) {
	const query = `
		SELECT id, name, features, capacity
		FROM seats
		WHERE location_id = $1
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, locationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list seats", err)
	}
	defer rows.Close()

	seats := make([]*queries.SeatView, 0)
	for rows.Next() {
		var v queries.SeatView
		if err := rows.Scan(&v.ID, &v.Name, &v.Features, &v.Capacity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan seat row", err)
		}
		seats = append(seats, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate seat rows", err)
	}
	return seats, nil
}
