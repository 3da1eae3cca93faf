package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TourType string

const (
	TourTypeDay    TourType = "day"
	TourTypeNight  TourType = "night"
	TourTypeCustom TourType = "custom"
)

type Tour struct {
	bun.BaseModel `bun:"table:tours"`

	ID          string    `json:"id" bun:"id,pk"`
	Name        string    `json:"name" bun:"name,notnull"`
	Description string    `json:"description,omitempty" bun:"description,nullzero"`
	Type        TourType  `json:"type" bun:"type,notnull"`
	// Price is a fixed-point decimal string, e.g. "149.00". All arithmetic
	// on it goes through shopspring/decimal; never parse it as float.
	Price        string    `json:"price" bun:"price,notnull"`
	Duration     int       `json:"duration" bun:"duration,notnull"`
	MaxGroupSize int       `json:"maxGroupSize" bun:"max_group_size"`
	ImageURL     string    `json:"imageUrl,omitempty" bun:"image_url,nullzero"`
	IsActive     bool      `json:"isActive" bun:"is_active"`
	CreatedAt    time.Time `json:"createdAt" bun:"created_at,notnull"`
	UpdatedAt    time.Time `json:"updatedAt" bun:"updated_at,notnull"`
}

// InsertTour is the subset of Tour a caller may supply on create. IDs and
// timestamps are server-assigned.
type InsertTour struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description"`
	Type         TourType `json:"type" validate:"required,oneof=day night custom"`
	Price        string   `json:"price" validate:"required,decimalamount"`
	Duration     int      `json:"duration" validate:"required,gt=0"`
	MaxGroupSize int      `json:"maxGroupSize" validate:"omitempty,min=1,max=50"`
	ImageURL     string   `json:"imageUrl" validate:"omitempty,url"`
	IsActive     *bool    `json:"isActive"`
}
