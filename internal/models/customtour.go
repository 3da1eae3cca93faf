package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CustomTour is a quote request for a bespoke itinerary. It is not a
// confirmed booking and carries no payment.
type CustomTour struct {
	bun.BaseModel `bun:"table:custom_tours"`

	ID              string        `json:"id" bun:"id,pk"`
	CustomerName    string        `json:"customerName" bun:"customer_name,notnull"`
	CustomerEmail   string        `json:"customerEmail" bun:"customer_email,notnull"`
	CustomerPhone   string        `json:"customerPhone,omitempty" bun:"customer_phone,nullzero"`
	TourType        TourType      `json:"tourType" bun:"tour_type,notnull"`
	Activities      []string      `json:"activities" bun:"activities"`
	GroupSize       int           `json:"groupSize" bun:"group_size,notnull"`
	SpecialRequests string        `json:"specialRequests,omitempty" bun:"special_requests,nullzero"`
	EstimatedPrice  string        `json:"estimatedPrice,omitempty" bun:"estimated_price,nullzero"`
	Status          BookingStatus `json:"status" bun:"status"`
	CreatedAt       time.Time     `json:"createdAt" bun:"created_at,notnull"`
	UpdatedAt       time.Time     `json:"updatedAt" bun:"updated_at,notnull"`
}

type InsertCustomTour struct {
	CustomerName    string   `json:"customerName" validate:"required"`
	CustomerEmail   string   `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string   `json:"customerPhone"`
	TourType        TourType `json:"tourType" validate:"required,oneof=day night custom"`
	Activities      []string `json:"activities"`
	GroupSize       int      `json:"groupSize" validate:"required,min=1,max=50"`
	SpecialRequests string   `json:"specialRequests"`
}

// UpdateCustomTour is the admin-side mutation payload. Only status and the
// non-binding estimate can change after submission.
type UpdateCustomTour struct {
	Status         BookingStatus `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	EstimatedPrice string        `json:"estimatedPrice" validate:"omitempty,decimalamount"`
}
