package models

import (
	"time"

	"github.com/uptrace/bun"
)

type CloverEnvironment string

const (
	CloverSandbox    CloverEnvironment = "sandbox"
	CloverProduction CloverEnvironment = "production"
)

// SettingsID is the fixed primary key of the singleton settings row. Every
// upsert targets this id so concurrent admin edits can never create a
// second row.
const SettingsID = "default"

type Settings struct {
	bun.BaseModel `bun:"table:settings"`

	ID                  string            `json:"id" bun:"id,pk"`
	CloverAppID         string            `json:"cloverAppId,omitempty" bun:"clover_app_id,nullzero"`
	CloverAPIToken      string            `json:"cloverApiToken,omitempty" bun:"clover_api_token,nullzero"`
	CloverEnvironment   CloverEnvironment `json:"cloverEnvironment" bun:"clover_environment"`
	BusinessName        string            `json:"businessName" bun:"business_name"`
	ContactEmail        string            `json:"contactEmail,omitempty" bun:"contact_email,nullzero"`
	PhoneNumber         string            `json:"phoneNumber,omitempty" bun:"phone_number,nullzero"`
	TaxRate             string            `json:"taxRate" bun:"tax_rate"`
	DefaultTourDuration int               `json:"defaultTourDuration" bun:"default_tour_duration"`
	MaxGroupSize        int               `json:"maxGroupSize" bun:"max_group_size"`
	AdvanceBookingDays  int               `json:"advanceBookingDays" bun:"advance_booking_days"`
	UpdatedAt           time.Time         `json:"updatedAt" bun:"updated_at,notnull"`
}

type UpsertSettings struct {
	CloverAppID         string            `json:"cloverAppId"`
	CloverAPIToken      string            `json:"cloverApiToken"`
	CloverEnvironment   CloverEnvironment `json:"cloverEnvironment" validate:"omitempty,oneof=sandbox production"`
	BusinessName        string            `json:"businessName"`
	ContactEmail        string            `json:"contactEmail" validate:"omitempty,email"`
	PhoneNumber         string            `json:"phoneNumber"`
	TaxRate             string            `json:"taxRate" validate:"omitempty,taxrate"`
	DefaultTourDuration int               `json:"defaultTourDuration" validate:"omitempty,gt=0"`
	MaxGroupSize        int               `json:"maxGroupSize" validate:"omitempty,min=1,max=50"`
	// AdvanceBookingDays is a pointer so an explicit 0 (same-day bookings
	// allowed) is distinguishable from the field being omitted.
	AdvanceBookingDays *int `json:"advanceBookingDays" validate:"omitempty,min=0,max=365"`
}
