package storage

import (
	"context"
	"fmt"
	"time"

	"tour-booking/internal/models"
)

func (d *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &user, nil
}

// UpsertUser creates the user on first authenticated contact and refreshes
// the mutable profile fields (and updated_at) on every later one. The
// admin flag is never touched here; it is set out of band.
func (d *DB) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := d.Bun.NewInsert().
		Model(user).
		On("CONFLICT (id) DO UPDATE").
		Set("email = EXCLUDED.email").
		Set("first_name = EXCLUDED.first_name").
		Set("last_name = EXCLUDED.last_name").
		Set("profile_image_url = EXCLUDED.profile_image_url").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", user.ID, err)
	}

	return d.GetUser(ctx, user.ID)
}
