package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tour-booking/internal/events"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/payment"
	"tour-booking/internal/storage"
)

var (
	ErrTourNotFound    = errors.New("tour not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidDate     = errors.New("invalid booking date")
	// ErrPaymentFailed carries the provider's decline reason; the booking is
	// not persisted when it occurs on a card checkout.
	ErrPaymentFailed = errors.New("payment failed")
	// ErrDuplicateRequest means another request holding the same idempotency
	// key is in flight or already finished.
	ErrDuplicateRequest = errors.New("duplicate payment request")
)

// Fallbacks used until the admin saves a settings row.
const (
	defaultTaxRate       = "8.25"
	defaultMaxGroupSize  = 8
	defaultAdvanceDays   = 2
	defaultDailyCapacity = 40
)

// Store is the slice of the persistence layer the workflow needs.
type Store interface {
	GetTour(ctx context.Context, id string) (*models.Tour, error)
	GetSettings(ctx context.Context) (*models.Settings, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	CreateBookingChecked(ctx context.Context, b *models.Booking, dailyCapacity int) error
	UpdateBookingPayment(ctx context.Context, id string, ps models.PaymentStatus, bs models.BookingStatus, cloverPaymentID string) error
	GuestsOnDate(ctx context.Context, date time.Time) (int, error)
}

// Charger is the payment surface used per checkout. A new one is built
// from the settings snapshot on every attempt.
type Charger interface {
	CreatePayment(ctx context.Context, req models.CloverChargeRequest, idempotencyKey string) (*models.CloverChargeResult, error)
	RefundPayment(ctx context.Context, paymentID string, amount int64) (*models.CloverRefund, error)
}

type ChargerFactory func(cfg payment.Config) Charger

// DefaultChargerFactory builds the real Clover client. A positive timeout
// bounds each charge call; zero keeps the client default.
func DefaultChargerFactory(log *logger.Logger, timeout time.Duration) ChargerFactory {
	return func(cfg payment.Config) Charger {
		return payment.NewClient(cfg, log, payment.WithTimeout(timeout))
	}
}

// Publisher mirrors the events producer; implementations must never block
// the request path on broker trouble.
type Publisher interface {
	PublishBookingCreated(ctx context.Context, event events.BookingEvent) error
	PublishPaymentSucceeded(ctx context.Context, event events.BookingEvent) error
	PublishPaymentFailed(ctx context.Context, event events.BookingEvent) error
	PublishPaymentRefunded(ctx context.Context, event events.BookingEvent) error
}

// Service runs the booking workflow: price recomputation, availability,
// payment, persistence, events.
type Service struct {
	Store         Store
	NewCharger    ChargerFactory
	Events        Publisher
	Idempotency   payment.IdempotencyStore
	QR            *QRGenerator
	Log           *logger.Logger
	DailyCapacity int
}

func NewService(store Store, factory ChargerFactory, pub Publisher, idem payment.IdempotencyStore, qr *QRGenerator, log *logger.Logger, dailyCapacity int) *Service {
	if dailyCapacity <= 0 {
		dailyCapacity = defaultDailyCapacity
	}
	return &Service{
		Store:         store,
		NewCharger:    factory,
		Events:        pub,
		Idempotency:   idem,
		QR:            qr,
		Log:           log,
		DailyCapacity: dailyCapacity,
	}
}

// effectiveSettings fills in business defaults when no settings row exists
// yet, so the storefront keeps working before first admin configuration.
type effectiveSettings struct {
	TaxRate      string
	MaxGroupSize int
	AdvanceDays  int
	Raw          *models.Settings
}

func resolveSettings(s *models.Settings) effectiveSettings {
	eff := effectiveSettings{
		TaxRate:      defaultTaxRate,
		MaxGroupSize: defaultMaxGroupSize,
		AdvanceDays:  defaultAdvanceDays,
		Raw:          s,
	}
	if s == nil {
		return eff
	}
	if s.TaxRate != "" {
		eff.TaxRate = s.TaxRate
	}
	if s.MaxGroupSize > 0 {
		eff.MaxGroupSize = s.MaxGroupSize
	}
	if s.AdvanceBookingDays >= 0 {
		eff.AdvanceDays = s.AdvanceBookingDays
	}
	return eff
}

// ParseBookingDate accepts a calendar date or an RFC3339 timestamp and
// normalizes it to midnight UTC of that day.
func ParseBookingDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// prepare runs the shared front half of every booking path: tour lookup,
// group size and lead-time checks, and the server-side price quote.
func (s *Service) prepare(ctx context.Context, payload models.InsertBooking) (*models.Tour, time.Time, PriceQuote, effectiveSettings, error) {
	var zero PriceQuote

	tour, err := s.Store.GetTour(ctx, payload.TourID)
	if err != nil {
		return nil, time.Time{}, zero, effectiveSettings{}, err
	}
	if tour == nil || !tour.IsActive {
		return nil, time.Time{}, zero, effectiveSettings{}, ErrTourNotFound
	}

	settings, err := s.Store.GetSettings(ctx)
	if err != nil {
		return nil, time.Time{}, zero, effectiveSettings{}, err
	}
	eff := resolveSettings(settings)

	maxGroup := tour.MaxGroupSize
	if maxGroup <= 0 {
		maxGroup = eff.MaxGroupSize
	}
	if payload.NumberOfGuests > maxGroup {
		return nil, time.Time{}, zero, effectiveSettings{}, fmt.Errorf("%w: party of %d exceeds group limit of %d", storage.ErrCapacityExceeded, payload.NumberOfGuests, maxGroup)
	}

	date, err := ParseBookingDate(payload.BookingDate)
	if err != nil {
		return nil, time.Time{}, zero, effectiveSettings{}, err
	}
	earliest := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, eff.AdvanceDays)
	if date.Before(earliest) {
		return nil, time.Time{}, zero, effectiveSettings{}, fmt.Errorf("%w: bookings require %d days notice", ErrInvalidDate, eff.AdvanceDays)
	}

	quote, err := Quote(tour.Price, payload.NumberOfGuests, eff.TaxRate)
	if err != nil {
		return nil, time.Time{}, zero, effectiveSettings{}, err
	}

	return tour, date, quote, eff, nil
}

func newBooking(payload models.InsertBooking, date time.Time, total string, status models.BookingStatus, ps models.PaymentStatus) *models.Booking {
	now := time.Now()
	return &models.Booking{
		ID:              uuid.NewString(),
		TourID:          payload.TourID,
		CustomerName:    payload.CustomerName,
		CustomerEmail:   payload.CustomerEmail,
		CustomerPhone:   payload.CustomerPhone,
		BookingDate:     date,
		NumberOfGuests:  payload.NumberOfGuests,
		TotalAmount:     total,
		Status:          status,
		SpecialRequests: payload.SpecialRequests,
		PaymentStatus:   ps,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *Service) event(b *models.Booking, paymentID string) events.BookingEvent {
	return events.BookingEvent{
		BookingID:     b.ID,
		TourID:        b.TourID,
		CustomerEmail: b.CustomerEmail,
		BookingDate:   b.BookingDate.Format("2006-01-02"),
		Guests:        b.NumberOfGuests,
		TotalAmount:   b.TotalAmount,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		PaymentID:     paymentID,
	}
}

// Create dispatches on the presence of card details: with a card the
// booking is charged and only persisted on success; without one a pending
// booking is stored for later payment.
func (s *Service) Create(ctx context.Context, payload models.InsertBooking) (*models.Booking, error) {
	if payload.Card != nil {
		return s.Checkout(ctx, payload)
	}
	return s.CreatePending(ctx, payload)
}

// CreatePending stores an unpaid booking.
func (s *Service) CreatePending(ctx context.Context, payload models.InsertBooking) (*models.Booking, error) {
	_, date, quote, _, err := s.prepare(ctx, payload)
	if err != nil {
		return nil, err
	}

	b := newBooking(payload, date, quote.TotalString(), models.BookingPending, models.PaymentPending)
	if err := s.Store.CreateBookingChecked(ctx, b, s.DailyCapacity); err != nil {
		return nil, err
	}

	if err := s.Events.PublishBookingCreated(ctx, s.event(b, "")); err != nil {
		s.Log.Warn("KAFKA", fmt.Sprintf("Failed to publish booking created: %v", err))
	}
	return b, nil
}

// Checkout charges the card for the recomputed total and persists the
// booking only when the charge succeeds.
func (s *Service) Checkout(ctx context.Context, payload models.InsertBooking) (*models.Booking, error) {
	_, date, quote, eff, err := s.prepare(ctx, payload)
	if err != nil {
		return nil, err
	}

	cfg, ok := payment.ConfigFromSettings(eff.Raw)
	if !ok {
		return nil, payment.ErrNotConfigured
	}

	if payload.IdempotencyKey != "" {
		claimed, err := s.Idempotency.Claim(ctx, payload.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return nil, ErrDuplicateRequest
		}
	}

	charger := s.NewCharger(cfg)
	result, err := charger.CreatePayment(ctx, models.CloverChargeRequest{
		Amount:   quote.Cents(),
		Currency: "usd",
		Source:   *payload.Card,
		Billing:  payload.Billing,
		Metadata: map[string]string{"tour_id": payload.TourID},
	}, payload.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	if !result.Success {
		s.Log.LogPayment("CHARGE", "", fmt.Sprintf("Checkout declined for %s", payload.CustomerEmail))
		s.saveIdempotentResult(ctx, payload.IdempotencyKey, models.PaymentResponse{Success: false, Error: result.Error})
		if err := s.Events.PublishPaymentFailed(ctx, events.BookingEvent{
			CustomerEmail: payload.CustomerEmail,
			BookingDate:   date.Format("2006-01-02"),
			Guests:        payload.NumberOfGuests,
			TotalAmount:   quote.TotalString(),
			PaymentStatus: models.PaymentFailed,
		}); err != nil {
			s.Log.Warn("KAFKA", fmt.Sprintf("Failed to publish payment failed: %v", err))
		}
		return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, result.Error)
	}

	b := newBooking(payload, date, quote.TotalString(), models.BookingConfirmed, models.PaymentPaid)
	b.CloverPaymentID = result.PaymentID

	if err := s.Store.CreateBookingChecked(ctx, b, s.DailyCapacity); err != nil {
		// The card was charged but the date filled up between the quote and
		// the insert. Reverse the charge best effort before reporting.
		if errors.Is(err, storage.ErrCapacityExceeded) {
			if _, refundErr := charger.RefundPayment(ctx, result.PaymentID, quote.Cents()); refundErr != nil {
				s.Log.Error("PAYMENT", fmt.Sprintf("Failed to refund %s after capacity rejection: %v", result.PaymentID, refundErr))
			}
		}
		return nil, err
	}

	s.saveIdempotentResult(ctx, payload.IdempotencyKey, models.PaymentResponse{Success: true, PaymentID: result.PaymentID})

	if err := s.Events.PublishBookingCreated(ctx, s.event(b, result.PaymentID)); err != nil {
		s.Log.Warn("KAFKA", fmt.Sprintf("Failed to publish booking created: %v", err))
	}
	if err := s.Events.PublishPaymentSucceeded(ctx, s.event(b, result.PaymentID)); err != nil {
		s.Log.Warn("KAFKA", fmt.Sprintf("Failed to publish payment succeeded: %v", err))
	}
	return b, nil
}

// AdminCreate records a booking taken over the phone or in person. Payment
// is assumed collected out of band, so it lands confirmed and paid.
func (s *Service) AdminCreate(ctx context.Context, payload models.InsertBooking) (*models.Booking, error) {
	_, date, quote, _, err := s.prepare(ctx, payload)
	if err != nil {
		return nil, err
	}

	b := newBooking(payload, date, quote.TotalString(), models.BookingConfirmed, models.PaymentPaid)
	if err := s.Store.CreateBookingChecked(ctx, b, s.DailyCapacity); err != nil {
		return nil, err
	}

	if err := s.Events.PublishBookingCreated(ctx, s.event(b, "")); err != nil {
		s.Log.Warn("KAFKA", fmt.Sprintf("Failed to publish booking created: %v", err))
	}
	return b, nil
}

// Availability reports how many guests remain bookable on a date.
type Availability struct {
	Date      string `json:"date"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Remaining int    `json:"remaining"`
	Available bool   `json:"available"`
}

func (s *Service) CheckAvailability(ctx context.Context, date time.Time) (*Availability, error) {
	booked, err := s.Store.GuestsOnDate(ctx, date)
	if err != nil {
		return nil, err
	}

	remaining := s.DailyCapacity - booked
	if remaining < 0 {
		remaining = 0
	}
	return &Availability{
		Date:      date.Format("2006-01-02"),
		Capacity:  s.DailyCapacity,
		Booked:    booked,
		Remaining: remaining,
		Available: remaining > 0,
	}, nil
}

// CheckInQR renders the encrypted check-in code for a booking.
func (s *Service) CheckInQR(ctx context.Context, bookingID string) ([]byte, error) {
	b, err := s.Store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return s.QR.GenerateCheckInQR(b)
}

// EstimateCustomTour prices a bespoke request: a per-guest base rate by
// tour type plus a flat amount per requested activity, with tax applied at
// the configured rate. The figure is a non-binding estimate.
func (s *Service) EstimateCustomTour(ctx context.Context, payload models.InsertCustomTour) (string, error) {
	settings, err := s.Store.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	eff := resolveSettings(settings)

	baseRates := map[models.TourType]string{
		models.TourTypeDay:    "149.00",
		models.TourTypeNight:  "189.00",
		models.TourTypeCustom: "225.00",
	}
	base, ok := baseRates[payload.TourType]
	if !ok {
		base = baseRates[models.TourTypeCustom]
	}

	rate, err := decimal.NewFromString(base)
	if err != nil {
		return "", err
	}
	perActivity := decimal.NewFromInt(25)
	perGuest := rate.Add(perActivity.Mul(decimal.NewFromInt(int64(len(payload.Activities)))))
	subtotal := perGuest.Mul(decimal.NewFromInt(int64(payload.GroupSize)))

	taxRate, err := decimal.NewFromString(eff.TaxRate)
	if err != nil {
		return "", err
	}
	tax := subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	return subtotal.Add(tax).StringFixed(2), nil
}

// ApplyWebhookEvent transitions a stored booking according to a verified
// provider notification.
func (s *Service) ApplyWebhookEvent(ctx context.Context, event *models.CloverWebhookEvent) error {
	if event.BookingID == "" {
		s.Log.Warn("WEBHOOK", fmt.Sprintf("Event %s carries no booking reference, ignored", event.Type))
		return nil
	}

	b, err := s.Store.GetBooking(ctx, event.BookingID)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrBookingNotFound
	}

	switch event.Type {
	case "payment.succeeded":
		if err := s.Store.UpdateBookingPayment(ctx, b.ID, models.PaymentPaid, models.BookingConfirmed, event.PaymentID); err != nil {
			return err
		}
		b.Status = models.BookingConfirmed
		b.PaymentStatus = models.PaymentPaid
		if err := s.Events.PublishPaymentSucceeded(ctx, s.event(b, event.PaymentID)); err != nil {
			s.Log.Warn("KAFKA", fmt.Sprintf("Failed to publish payment succeeded: %v", err))
		}
	case "payment.failed":
		if err := s.Store.UpdateBookingPayment(ctx, b.ID, models.PaymentFailed, models.BookingPending, event.PaymentID); err != nil {
			return err
		}
		b.PaymentStatus = models.PaymentFailed
		if err := s.Events.PublishPaymentFailed(ctx, s.event(b, event.PaymentID)); err != nil {
			s.Log.Warn("KAFKA", fmt.Sprintf("Failed to publish payment failed: %v", err))
		}
	case "payment.refunded":
		if err := s.Store.UpdateBookingPayment(ctx, b.ID, models.PaymentRefunded, models.BookingCancelled, event.PaymentID); err != nil {
			return err
		}
		b.Status = models.BookingCancelled
		b.PaymentStatus = models.PaymentRefunded
		if err := s.Events.PublishPaymentRefunded(ctx, s.event(b, event.PaymentID)); err != nil {
			s.Log.Warn("KAFKA", fmt.Sprintf("Failed to publish payment refunded: %v", err))
		}
	default:
		s.Log.Info("WEBHOOK", fmt.Sprintf("Unhandled event type: %s", event.Type))
	}
	return nil
}

// Pay charges a card outside the booking create flow, for pending bookings
// paid later. A bound booking overrides the client amount with its stored
// total.
func (s *Service) Pay(ctx context.Context, req models.PaymentRequest) (*models.PaymentResponse, error) {
	settings, err := s.Store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	cfg, ok := payment.ConfigFromSettings(settings)
	if !ok {
		return nil, payment.ErrNotConfigured
	}

	amount := req.Amount
	var bound *models.Booking
	if req.BookingID != "" {
		bound, err = s.Store.GetBooking(ctx, req.BookingID)
		if err != nil {
			return nil, err
		}
		if bound == nil {
			return nil, ErrBookingNotFound
		}
		amount, err = AmountCents(bound.TotalAmount)
		if err != nil {
			return nil, err
		}
	}

	if req.IdempotencyKey != "" {
		claimed, err := s.Idempotency.Claim(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if !claimed {
			if stored, err := s.Idempotency.GetResult(ctx, req.IdempotencyKey); err == nil && stored != nil {
				return stored, nil
			}
			return nil, ErrDuplicateRequest
		}
	}

	charger := s.NewCharger(cfg)
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}
	result, err := charger.CreatePayment(ctx, models.CloverChargeRequest{
		Amount:   amount,
		Currency: currency,
		Source:   *req.Card,
		Billing:  req.Billing,
	}, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	resp := models.PaymentResponse{
		Success:   result.Success,
		PaymentID: result.PaymentID,
		Error:     result.Error,
	}
	s.saveIdempotentResult(ctx, req.IdempotencyKey, resp)

	if bound != nil {
		if result.Success {
			if err := s.Store.UpdateBookingPayment(ctx, bound.ID, models.PaymentPaid, models.BookingConfirmed, result.PaymentID); err != nil {
				return nil, err
			}
			bound.Status = models.BookingConfirmed
			bound.PaymentStatus = models.PaymentPaid
			if err := s.Events.PublishPaymentSucceeded(ctx, s.event(bound, result.PaymentID)); err != nil {
				s.Log.Warn("KAFKA", fmt.Sprintf("Failed to publish payment succeeded: %v", err))
			}
		} else {
			if err := s.Store.UpdateBookingPayment(ctx, bound.ID, models.PaymentFailed, models.BookingPending, ""); err != nil {
				return nil, err
			}
		}
	}

	return &resp, nil
}

func (s *Service) saveIdempotentResult(ctx context.Context, key string, resp models.PaymentResponse) {
	if key == "" {
		return
	}
	if err := s.Idempotency.SaveResult(ctx, key, resp); err != nil {
		s.Log.Warn("REDIS", fmt.Sprintf("Failed to store payment result for key %s: %v", key, err))
	}
}
