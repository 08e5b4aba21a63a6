package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Geofence is a circular presence zone. A faculty may define several; the
// nearest active one governs a verification attempt.
type Geofence struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FacultyID uuid.UUID `gorm:"not null;index" json:"faculty_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`

	CenterLat    float64 `gorm:"not null" json:"center_lat"`
	CenterLng    float64 `gorm:"not null" json:"center_lng"`
	RadiusMeters float64 `gorm:"not null" json:"radius_meters"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	MaxAccuracyMeters     float64 `gorm:"not null;default:50" json:"max_accuracy_meters"`
	MaxLocationAgeSeconds int     `gorm:"not null;default:60" json:"max_location_age_seconds"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (g *Geofence) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
