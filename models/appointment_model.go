package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AppointmentStatusPending    = "pending"
	AppointmentStatusApproved   = "approved"
	AppointmentStatusRejected   = "rejected"
	AppointmentStatusCancelled  = "cancelled"
	AppointmentStatusNoResponse = "no_response"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	StudentEmail string `gorm:"size:255;not null;index" json:"student_email"`
	StudentRegNo string `gorm:"size:30;not null" json:"student_reg_no"`
	StudentName  string `gorm:"size:255;not null" json:"student_name"`

	FacultyID uuid.UUID `gorm:"not null;index" json:"faculty_id"`
	TopicID   uuid.UUID `gorm:"not null" json:"topic_id"`

	Date      string `gorm:"size:10;not null;index" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	// Location fields record the geofence check attached to the booking
	// attempt, when one was performed.
	LocationLat      *float64 `json:"location_lat"`
	LocationLng      *float64 `json:"location_lng"`
	LocationVerified bool     `gorm:"default:false" json:"location_verified"`

	CancelledBy        *string    `gorm:"size:20" json:"cancelled_by"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason"`

	Faculty Faculty `gorm:"foreignkey:FacultyID" json:"faculty,omitempty"`
	Topic   Topic   `gorm:"foreignkey:TopicID" json:"topic,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the appointment can no longer change state.
func (a *Appointment) Terminal() bool {
	return a.Status != AppointmentStatusPending && a.Status != AppointmentStatusApproved
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
