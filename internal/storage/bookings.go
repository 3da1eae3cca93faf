package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"tour-booking/internal/models"
)

func (d *DB) GetBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

func (d *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetBookingsByDateRange returns bookings with booking_date in [start, end]
// (inclusive bounds), ordered by date ascending.
func (d *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("booking_date >= ?", start).
		Where("booking_date <= ?", end).
		Order("booking_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by date range: %w", err)
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

func (d *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	_, err := d.Bun.NewInsert().Model(booking).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	d.Log.LogDatabase("INSERT", "bookings", fmt.Sprintf("Created booking %s", booking.ID))
	return nil
}

// CreateBookingChecked re-runs the daily capacity check and inserts the
// booking inside one transaction, so two concurrent requests that each fit
// individually cannot jointly overshoot the date's capacity.
func (d *DB) CreateBookingChecked(ctx context.Context, booking *models.Booking, dailyCapacity int) error {
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		start, end := dayBounds(booking.BookingDate)

		var booked int
		err := tx.NewSelect().
			Model((*models.Booking)(nil)).
			ColumnExpr("COALESCE(SUM(number_of_guests), 0)").
			Where("booking_date >= ?", start).
			Where("booking_date <= ?", end).
			Where("status != ?", models.BookingCancelled).
			Scan(ctx, &booked)
		if err != nil {
			return fmt.Errorf("failed to sum booked guests: %w", err)
		}

		if booked+booking.NumberOfGuests > dailyCapacity {
			return ErrCapacityExceeded
		}

		_, err = tx.NewInsert().Model(booking).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.Log.LogDatabase("INSERT", "bookings", fmt.Sprintf("Created booking %s (capacity checked)", booking.ID))
	return nil
}

// GuestsOnDate sums confirmed and pending guests for the calendar date.
func (d *DB) GuestsOnDate(ctx context.Context, date time.Time) (int, error) {
	start, end := dayBounds(date)

	var booked int
	err := d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		ColumnExpr("COALESCE(SUM(number_of_guests), 0)").
		Where("booking_date >= ?", start).
		Where("booking_date <= ?", end).
		Where("status != ?", models.BookingCancelled).
		Scan(ctx, &booked)
	if err != nil {
		return 0, fmt.Errorf("failed to sum booked guests: %w", err)
	}
	return booked, nil
}

func (d *DB) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	booking.UpdatedAt = time.Now()
	_, err := d.Bun.NewUpdate().
		Model(booking).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", booking.ID, err)
	}
	return nil
}

// UpdateBookingPayment applies a payment transition: payment status,
// booking status, and the provider's payment reference when present.
func (d *DB) UpdateBookingPayment(ctx context.Context, id string, paymentStatus models.PaymentStatus, status models.BookingStatus, cloverPaymentID string) error {
	q := d.Bun.NewUpdate().
		Model((*models.Booking)(nil)).
		Set("payment_status = ?", paymentStatus).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id)
	if cloverPaymentID != "" {
		q = q.Set("clover_payment_id = ?", cloverPaymentID)
	}

	_, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update booking payment %s: %w", id, err)
	}
	d.Log.LogDatabase("UPDATE", "bookings", fmt.Sprintf("Booking %s payment -> %s", id, paymentStatus))
	return nil
}

func (d *DB) DeleteBooking(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Booking)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	return nil
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}
