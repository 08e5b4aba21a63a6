package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailabilityDay is one weekday row of a faculty's recurring weekly
// template. Slots for a calendar date are generated from the row whose
// Weekday matches that date.
type AvailabilityDay struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FacultyID uuid.UUID `gorm:"not null;index" json:"-"`
	Weekday   int       `gorm:"not null" json:"weekday"` // 0 = Sunday .. 6 = Saturday
	Active    bool      `gorm:"default:true" json:"active"`

	Windows []AvailabilityWindow `gorm:"foreignkey:AvailabilityDayID" json:"windows"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// AvailabilityWindow is an open interval within a day, clock times as
// "HH:MM". Windows within a day must not overlap and StartTime < EndTime.
type AvailabilityWindow struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AvailabilityDayID uuid.UUID `gorm:"not null;index" json:"-"`
	StartTime         string    `gorm:"size:5;not null" json:"start_time"`
	EndTime           string    `gorm:"size:5;not null" json:"end_time"`
}

func (d *AvailabilityDay) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (w *AvailabilityWindow) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
