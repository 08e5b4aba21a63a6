package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SlotStatusAvailable = "available"
	SlotStatusPending   = "pending"
	SlotStatusBooked    = "booked"
	SlotStatusCancelled = "cancelled"
	SlotStatusBlocked   = "blocked"
)

// Slot is the unit of reservation. Dates are "YYYY-MM-DD" and clock times
// "HH:MM" so that SQL string comparison orders them chronologically.
type Slot struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FacultyID uuid.UUID `gorm:"not null;uniqueIndex:idx_faculty_date_start" json:"faculty_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_faculty_date_start" json:"date"`
	StartTime string    `gorm:"size:5;not null;uniqueIndex:idx_faculty_date_start" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`

	Status   string `gorm:"size:20;not null;default:'available'" json:"status"`
	IsBooked bool   `gorm:"not null;default:false" json:"is_booked"`

	AppointmentID *uuid.UUID `json:"appointment_id"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (s *Slot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
