package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tour-booking/internal/models"
)

// GetTours returns active tours only, ordered by name. Soft-deleted rows
// never appear in listings.
func (d *DB) GetTours(ctx context.Context) ([]models.Tour, error) {
	var tours []models.Tour
	err := d.Bun.NewSelect().
		Model(&tours).
		Where("is_active = ?", true).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	if tours == nil {
		tours = []models.Tour{}
	}
	return tours, nil
}

// GetAllTours includes inactive rows, for the admin dashboard.
func (d *DB) GetAllTours(ctx context.Context) ([]models.Tour, error) {
	var tours []models.Tour
	err := d.Bun.NewSelect().
		Model(&tours).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list all tours: %w", err)
	}
	if tours == nil {
		tours = []models.Tour{}
	}
	return tours, nil
}

func (d *DB) GetTour(ctx context.Context, id string) (*models.Tour, error) {
	var tour models.Tour
	err := d.Bun.NewSelect().
		Model(&tour).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tour %s: %w", id, err)
	}
	return &tour, nil
}

func (d *DB) CreateTour(ctx context.Context, payload models.InsertTour) (*models.Tour, error) {
	now := time.Now()
	tour := &models.Tour{
		ID:           uuid.NewString(),
		Name:         payload.Name,
		Description:  payload.Description,
		Type:         payload.Type,
		Price:        payload.Price,
		Duration:     payload.Duration,
		MaxGroupSize: payload.MaxGroupSize,
		ImageURL:     payload.ImageURL,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if tour.MaxGroupSize == 0 {
		tour.MaxGroupSize = 8
	}
	if payload.IsActive != nil {
		tour.IsActive = *payload.IsActive
	}

	_, err := d.Bun.NewInsert().Model(tour).Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create tour: %w", err)
	}

	d.Log.LogDatabase("INSERT", "tours", fmt.Sprintf("Created tour %s", tour.ID))
	return tour, nil
}

func (d *DB) UpdateTour(ctx context.Context, id string, payload models.InsertTour) (*models.Tour, error) {
	tour, err := d.GetTour(ctx, id)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, nil
	}

	tour.Name = payload.Name
	tour.Description = payload.Description
	tour.Type = payload.Type
	tour.Price = payload.Price
	tour.Duration = payload.Duration
	if payload.MaxGroupSize > 0 {
		tour.MaxGroupSize = payload.MaxGroupSize
	}
	tour.ImageURL = payload.ImageURL
	if payload.IsActive != nil {
		tour.IsActive = *payload.IsActive
	}
	tour.UpdatedAt = time.Now()

	_, err = d.Bun.NewUpdate().
		Model(tour).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update tour %s: %w", id, err)
	}
	return tour, nil
}

// DeleteTour is a soft delete: the row is retained so bookings keep a
// valid tour reference.
func (d *DB) DeleteTour(ctx context.Context, id string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Tour)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete tour %s: %w", id, err)
	}
	d.Log.LogDatabase("UPDATE", "tours", fmt.Sprintf("Deactivated tour %s", id))
	return nil
}
