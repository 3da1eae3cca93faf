package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID            string    `json:"id" bun:"id,pk"`
	TourID        string    `json:"tourId,omitempty" bun:"tour_id,nullzero"`
	CustomerName  string    `json:"customerName" bun:"customer_name,notnull"`
	CustomerEmail string    `json:"customerEmail" bun:"customer_email,notnull"`
	CustomerPhone string    `json:"customerPhone,omitempty" bun:"customer_phone,nullzero"`
	BookingDate   time.Time `json:"bookingDate" bun:"booking_date,notnull"`
	NumberOfGuests int      `json:"numberOfGuests" bun:"number_of_guests,notnull"`
	// TotalAmount is recomputed server-side from the tour price, guest count
	// and the Settings tax rate; client-supplied totals are ignored.
	TotalAmount     string        `json:"totalAmount" bun:"total_amount,notnull"`
	Status          BookingStatus `json:"status" bun:"status"`
	SpecialRequests string        `json:"specialRequests,omitempty" bun:"special_requests,nullzero"`
	CloverPaymentID string        `json:"cloverPaymentId,omitempty" bun:"clover_payment_id,nullzero"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" bun:"payment_status"`
	CreatedAt       time.Time     `json:"createdAt" bun:"created_at,notnull"`
	UpdatedAt       time.Time     `json:"updatedAt" bun:"updated_at,notnull"`
}

// InsertBooking is the public create payload. Status, payment status, total
// and identifiers are assigned by the server.
type InsertBooking struct {
	TourID          string `json:"tourId" validate:"required"`
	CustomerName    string `json:"customerName" validate:"required"`
	CustomerEmail   string `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string `json:"customerPhone"`
	BookingDate     string `json:"bookingDate" validate:"required"`
	NumberOfGuests  int    `json:"numberOfGuests" validate:"required,min=1,max=20"`
	SpecialRequests string `json:"specialRequests"`

	// Card is optional: when present the booking is charged and persisted
	// only on payment success; when absent a pending booking is created.
	Card    *CloverCard    `json:"card,omitempty" validate:"omitempty"`
	Billing *CloverBilling `json:"billing,omitempty"`

	// IdempotencyKey lets clients retry a checkout safely.
	IdempotencyKey string `json:"idempotencyKey"`
}
