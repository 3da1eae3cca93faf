package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tour-booking/internal/models"
)

func (d *DB) GetCustomTours(ctx context.Context) ([]models.CustomTour, error) {
	var requests []models.CustomTour
	err := d.Bun.NewSelect().
		Model(&requests).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom tour requests: %w", err)
	}
	if requests == nil {
		requests = []models.CustomTour{}
	}
	return requests, nil
}

func (d *DB) GetCustomTour(ctx context.Context, id string) (*models.CustomTour, error) {
	var request models.CustomTour
	err := d.Bun.NewSelect().
		Model(&request).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get custom tour request %s: %w", id, err)
	}
	return &request, nil
}

func (d *DB) CreateCustomTour(ctx context.Context, payload models.InsertCustomTour, estimatedPrice string) (*models.CustomTour, error) {
	now := time.Now()
	request := &models.CustomTour{
		ID:              uuid.NewString(),
		CustomerName:    payload.CustomerName,
		CustomerEmail:   payload.CustomerEmail,
		CustomerPhone:   payload.CustomerPhone,
		TourType:        payload.TourType,
		Activities:      payload.Activities,
		GroupSize:       payload.GroupSize,
		SpecialRequests: payload.SpecialRequests,
		EstimatedPrice:  estimatedPrice,
		Status:          models.BookingPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := d.Bun.NewInsert().Model(request).Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom tour request: %w", err)
	}

	d.Log.LogDatabase("INSERT", "custom_tours", fmt.Sprintf("Created request %s", request.ID))
	return request, nil
}

func (d *DB) UpdateCustomTour(ctx context.Context, id string, payload models.UpdateCustomTour) (*models.CustomTour, error) {
	request, err := d.GetCustomTour(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, nil
	}

	if payload.Status != "" {
		request.Status = payload.Status
	}
	if payload.EstimatedPrice != "" {
		request.EstimatedPrice = payload.EstimatedPrice
	}
	request.UpdatedAt = time.Now()

	_, err = d.Bun.NewUpdate().
		Model(request).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update custom tour request %s: %w", id, err)
	}
	return request, nil
}
