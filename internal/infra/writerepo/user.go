package writerepo

import (
	"context"

	"cowork-booking/internal/infra"
	"cowork-booking/internal/infra/db"
	"cowork-booking/internal/usecase/shared"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Upsert(ctx context.Context, tx db.DBTX, user shared.UserProfile) error {
	const query = `
		INSERT INTO users (id, first_name, username, phone)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    username   = EXCLUDED.username,
		    phone      = EXCLUDED.phone,
		    updated_at = now()`

	if _, err := tx.Exec(ctx, query, user.ID, user.FirstName, user.Username, user.Phone); err != nil {
		return infra.WrapRepoErr("failed to upsert user", err)
	}
	return nil
}
