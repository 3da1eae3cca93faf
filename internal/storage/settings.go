package storage

import (
	"context"
	"fmt"
	"time"

	"tour-booking/internal/models"
)

// GetSettings returns (nil, nil) when the admin has never saved a
// configuration; callers treat that as a distinct state, not as defaults.
func (d *DB) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := d.Bun.NewSelect().
		Model(&settings).
		Where("id = ?", models.SettingsID).
		Limit(1).
		Scan(ctx)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// UpsertSettings writes the singleton row with a single atomic
// INSERT ... ON CONFLICT DO UPDATE keyed by the fixed id, so concurrent
// admin edits can never produce a second row.
func (d *DB) UpsertSettings(ctx context.Context, payload models.UpsertSettings) (*models.Settings, error) {
	settings := &models.Settings{
		ID:                  models.SettingsID,
		CloverAppID:         payload.CloverAppID,
		CloverAPIToken:      payload.CloverAPIToken,
		CloverEnvironment:   payload.CloverEnvironment,
		BusinessName:        payload.BusinessName,
		ContactEmail:        payload.ContactEmail,
		PhoneNumber:         payload.PhoneNumber,
		TaxRate:             payload.TaxRate,
		DefaultTourDuration: payload.DefaultTourDuration,
		MaxGroupSize:        payload.MaxGroupSize,
		AdvanceBookingDays:  2,
		UpdatedAt:           time.Now(),
	}
	if settings.CloverEnvironment == "" {
		settings.CloverEnvironment = models.CloverSandbox
	}
	if settings.TaxRate == "" {
		settings.TaxRate = "8.25"
	}
	if settings.BusinessName == "" {
		settings.BusinessName = "Oahu Elite Tours"
	}
	if settings.DefaultTourDuration == 0 {
		settings.DefaultTourDuration = 6
	}
	if settings.MaxGroupSize == 0 {
		settings.MaxGroupSize = 8
	}
	// Zero is a valid value here (same-day bookings), so the default applies
	// only when the field was omitted entirely.
	if payload.AdvanceBookingDays != nil {
		settings.AdvanceBookingDays = *payload.AdvanceBookingDays
	}

	_, err := d.Bun.NewInsert().
		Model(settings).
		On("CONFLICT (id) DO UPDATE").
		Set("clover_app_id = EXCLUDED.clover_app_id").
		Set("clover_api_token = EXCLUDED.clover_api_token").
		Set("clover_environment = EXCLUDED.clover_environment").
		Set("business_name = EXCLUDED.business_name").
		Set("contact_email = EXCLUDED.contact_email").
		Set("phone_number = EXCLUDED.phone_number").
		Set("tax_rate = EXCLUDED.tax_rate").
		Set("default_tour_duration = EXCLUDED.default_tour_duration").
		Set("max_group_size = EXCLUDED.max_group_size").
		Set("advance_booking_days = EXCLUDED.advance_booking_days").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert settings: %w", err)
	}

	d.Log.LogDatabase("UPSERT", "settings", "Settings saved")
	return d.GetSettings(ctx)
}
