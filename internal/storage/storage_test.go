package storage_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/storage"
)

func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.User)(nil),
		(*models.Tour)(nil),
		(*models.Booking)(nil),
		(*models.CustomTour)(nil),
		(*models.Settings)(nil),
	} {
		require.NoError(t, bunDB.ResetModel(ctx, model))
	}

	return storage.New(bunDB, logger.Discard())
}

func activePtr(v bool) *bool { return &v }

func daysPtr(v int) *int { return &v }

func TestCreateAndGetTour(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created, err := db.CreateTour(ctx, models.InsertTour{
		Name:        "Sunset Sail",
		Description: "Catamaran cruise along the leeward coast",
		Type:        models.TourTypeNight,
		Price:       "150.00",
		Duration:    3,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 8, created.MaxGroupSize)
	assert.True(t, created.IsActive)

	got, err := db.GetTour(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sunset Sail", got.Name)
	assert.Equal(t, "150.00", got.Price)
	assert.Equal(t, models.TourTypeNight, got.Type)
}

func TestGetTourNotFound(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.GetTour(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetToursExcludesInactive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.CreateTour(ctx, models.InsertTour{
		Name: "Zipline Adventure", Description: "d", Type: models.TourTypeDay, Price: "99.00", Duration: 2,
	})
	require.NoError(t, err)

	hidden, err := db.CreateTour(ctx, models.InsertTour{
		Name: "Abandoned Tour", Description: "d", Type: models.TourTypeDay, Price: "10.00", Duration: 1,
		IsActive: activePtr(false),
	})
	require.NoError(t, err)

	tours, err := db.GetTours(ctx)
	require.NoError(t, err)
	require.Len(t, tours, 1)
	assert.Equal(t, "Zipline Adventure", tours[0].Name)

	all, err := db.GetAllTours(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Inactive tours stay addressable by id.
	got, err := db.GetTour(ctx, hidden.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
}

func TestDeleteTourIsSoft(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tour, err := db.CreateTour(ctx, models.InsertTour{
		Name: "Volcano Hike", Description: "d", Type: models.TourTypeDay, Price: "120.00", Duration: 6,
	})
	require.NoError(t, err)

	booking := &models.Booking{
		ID:             uuid.NewString(),
		TourID:         tour.ID,
		CustomerName:   "Kai",
		CustomerEmail:  "kai@example.com",
		BookingDate:    time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		NumberOfGuests: 2,
		TotalAmount:    "259.80",
		Status:         models.BookingConfirmed,
		PaymentStatus:  models.PaymentPaid,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, db.CreateBooking(ctx, booking))

	require.NoError(t, db.DeleteTour(ctx, tour.ID))

	tours, err := db.GetTours(ctx)
	require.NoError(t, err)
	assert.Empty(t, tours)

	// The booking still resolves its tour.
	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tour.ID, got.TourID)

	ref, err := db.GetTour(ctx, got.TourID)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.False(t, ref.IsActive)
}

func TestGetBookingsByDateRange(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		b := &models.Booking{
			ID:             uuid.NewString(),
			CustomerName:   "Guest",
			CustomerEmail:  "guest@example.com",
			BookingDate:    d,
			NumberOfGuests: i + 1,
			TotalAmount:    "100.00",
			Status:         models.BookingPending,
			PaymentStatus:  models.PaymentPending,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		require.NoError(t, db.CreateBooking(ctx, b))
	}

	// Bounds are inclusive on both ends.
	got, err := db.GetBookingsByDateRange(ctx,
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].BookingDate.Before(got[1].BookingDate))
}

func TestUpdateAndDeleteBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	b := &models.Booking{
		ID:             uuid.NewString(),
		CustomerName:   "Lani",
		CustomerEmail:  "lani@example.com",
		BookingDate:    time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		NumberOfGuests: 3,
		TotalAmount:    "300.00",
		Status:         models.BookingConfirmed,
		PaymentStatus:  models.PaymentPaid,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, db.CreateBooking(ctx, b))

	b.Status = models.BookingCompleted
	require.NoError(t, db.UpdateBooking(ctx, b))

	got, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.BookingCompleted, got.Status)

	require.NoError(t, db.DeleteBooking(ctx, b.ID))

	gone, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCreateBookingCheckedRejectsOverCapacity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	first := &models.Booking{
		ID:             uuid.NewString(),
		CustomerName:   "A",
		CustomerEmail:  "a@example.com",
		BookingDate:    date,
		NumberOfGuests: 6,
		TotalAmount:    "600.00",
		Status:         models.BookingConfirmed,
		PaymentStatus:  models.PaymentPaid,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, db.CreateBookingChecked(ctx, first, 10))

	second := &models.Booking{
		ID:             uuid.NewString(),
		CustomerName:   "B",
		CustomerEmail:  "b@example.com",
		BookingDate:    date,
		NumberOfGuests: 5,
		TotalAmount:    "500.00",
		Status:         models.BookingPending,
		PaymentStatus:  models.PaymentPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	err := db.CreateBookingChecked(ctx, second, 10)
	require.ErrorIs(t, err, storage.ErrCapacityExceeded)

	// The rejected booking left no row behind.
	got, err := db.GetBooking(ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateBookingCheckedIgnoresCancelled(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	date := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
	cancelled := &models.Booking{
		ID:             uuid.NewString(),
		CustomerName:   "A",
		CustomerEmail:  "a@example.com",
		BookingDate:    date,
		NumberOfGuests: 8,
		TotalAmount:    "800.00",
		Status:         models.BookingCancelled,
		PaymentStatus:  models.PaymentRefunded,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, db.CreateBooking(ctx, cancelled))

	b := &models.Booking{
		ID:             uuid.NewString(),
		CustomerName:   "B",
		CustomerEmail:  "b@example.com",
		BookingDate:    date,
		NumberOfGuests: 8,
		TotalAmount:    "800.00",
		Status:         models.BookingPending,
		PaymentStatus:  models.PaymentPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, db.CreateBookingChecked(ctx, b, 10))
}

func TestUpdateBookingPayment(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	b := &models.Booking{
		ID:             uuid.NewString(),
		CustomerName:   "Kai",
		CustomerEmail:  "kai@example.com",
		BookingDate:    time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		NumberOfGuests: 2,
		TotalAmount:    "324.75",
		Status:         models.BookingPending,
		PaymentStatus:  models.PaymentPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, db.CreateBooking(ctx, b))

	err := db.UpdateBookingPayment(ctx, b.ID, models.PaymentPaid, models.BookingConfirmed, "clv_pay_123")
	require.NoError(t, err)

	got, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, models.BookingConfirmed, got.Status)
	assert.Equal(t, "clv_pay_123", got.CloverPaymentID)
}

func TestCustomTourRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created, err := db.CreateCustomTour(ctx, models.InsertCustomTour{
		CustomerName:  "Leilani",
		CustomerEmail: "leilani@example.com",
		TourType:      models.TourTypeCustom,
		Activities:    []string{"snorkeling", "hiking"},
		GroupSize:     4,
	}, "480.00")
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, created.Status)
	assert.Equal(t, "480.00", created.EstimatedPrice)

	updated, err := db.UpdateCustomTour(ctx, created.ID, models.UpdateCustomTour{
		Status:         models.BookingConfirmed,
		EstimatedPrice: "525.00",
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.BookingConfirmed, updated.Status)
	assert.Equal(t, "525.00", updated.EstimatedPrice)
	assert.Equal(t, []string{"snorkeling", "hiking"}, updated.Activities)
}

func TestSettingsUpsertKeepsSingleRow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Unconfigured state is reported as absence, not defaults.
	got, err := db.GetSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	first, err := db.UpsertSettings(ctx, models.UpsertSettings{
		BusinessName: "Oahu Elite Tours",
		TaxRate:      "8.25",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SettingsID, first.ID)
	assert.Equal(t, models.CloverSandbox, first.CloverEnvironment)
	assert.Equal(t, 8, first.MaxGroupSize)

	second, err := db.UpsertSettings(ctx, models.UpsertSettings{
		BusinessName:      "Oahu Elite Tours",
		TaxRate:           "9.00",
		CloverEnvironment: models.CloverProduction,
		CloverAPIToken:    "tok_1234567890abc",
		CloverAppID:       "APP123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SettingsID, second.ID)
	assert.Equal(t, "9.00", second.TaxRate)
	assert.Equal(t, models.CloverProduction, second.CloverEnvironment)

	var count int
	err = db.Bun.NewSelect().Model((*models.Settings)(nil)).ColumnExpr("COUNT(*)").Scan(ctx, &count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSettingsUpsertKeepsExplicitZeroAdvanceDays(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Omitted field falls back to the two-day default.
	defaulted, err := db.UpsertSettings(ctx, models.UpsertSettings{
		BusinessName: "Oahu Elite Tours",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, defaulted.AdvanceBookingDays)

	// An explicit 0 means same-day bookings are allowed and must survive
	// the round trip.
	sameDay, err := db.UpsertSettings(ctx, models.UpsertSettings{
		BusinessName:       "Oahu Elite Tours",
		AdvanceBookingDays: daysPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, sameDay.AdvanceBookingDays)

	stored, err := db.GetSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 0, stored.AdvanceBookingDays)
}

func TestUpsertUserRefreshesProfileOnly(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created, err := db.UpsertUser(ctx, &models.User{
		ID:        "user-1",
		Email:     "old@example.com",
		FirstName: "Old",
	})
	require.NoError(t, err)
	assert.False(t, created.IsAdmin)

	// Promote out of band, then upsert again with fresh profile data.
	_, err = db.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_admin = ?", true).
		Where("id = ?", "user-1").
		Exec(ctx)
	require.NoError(t, err)

	updated, err := db.UpsertUser(ctx, &models.User{
		ID:        "user-1",
		Email:     "new@example.com",
		FirstName: "New",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "New", updated.FirstName)
	assert.True(t, updated.IsAdmin)
}
