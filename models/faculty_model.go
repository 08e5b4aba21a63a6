package models

import (
	"time"

	"github.com/google/uuid"
)

type Faculty struct {
	UserID     uuid.UUID `gorm:"primary_key" json:"user_id"`
	Department *string   `gorm:"size:255" json:"department"`
	Office     *string   `gorm:"size:255" json:"office"`
	Status     string    `gorm:"size:20;not null;default:'active'" json:"status"`

	// SlotDurationMinutes overrides the system-wide slot duration when set.
	SlotDurationMinutes *int `json:"slot_duration_minutes"`

	User      User      `gorm:"foreignkey:UserID" json:"user"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
