package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID              string    `json:"id" bun:"id,pk"`
	Email           string    `json:"email,omitempty" bun:"email,nullzero"`
	FirstName       string    `json:"firstName,omitempty" bun:"first_name,nullzero"`
	LastName        string    `json:"lastName,omitempty" bun:"last_name,nullzero"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty" bun:"profile_image_url,nullzero"`
	IsAdmin         bool      `json:"isAdmin" bun:"is_admin"`
	CreatedAt       time.Time `json:"createdAt" bun:"created_at,notnull"`
	UpdatedAt       time.Time `json:"updatedAt" bun:"updated_at,notnull"`
}
