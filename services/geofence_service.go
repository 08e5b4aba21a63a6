package services

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/kiprotich-dev/faculty_meet/database"
	"github.com/kiprotich-dev/faculty_meet/models"
)

const earthRadiusMeters = 6371000.0

// LocationSample is a device location reported with a booking attempt. It
// is never persisted beyond the appointment it was attached to.
type LocationSample struct {
	Lat            float64 `json:"lat" validate:"min=-90,max=90"`
	Lng            float64 `json:"lng" validate:"min=-180,max=180"`
	AccuracyMeters float64 `json:"accuracy_meters" validate:"min=0"`
	CapturedAtMs   int64   `json:"captured_at_ms" validate:"required"`
}

// VerificationResult describes the outcome of a geofence check.
type VerificationResult struct {
	Required       bool      `json:"required"`
	Verified       bool      `json:"verified"`
	GeofenceID     uuid.UUID `json:"geofence_id,omitempty"`
	GeofenceName   string    `json:"geofence_name,omitempty"`
	DistanceMeters float64   `json:"distance_meters,omitempty"`
	Relaxed        bool      `json:"relaxed,omitempty"`
	Warning        string    `json:"warning,omitempty"`
}

// Haversine returns the great-circle distance in meters between two
// coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// VerifyLocation checks a sample against the faculty's active geofences.
// With no active geofence, verification is not required and the result
// carries Required=false. Otherwise the nearest zone governs the attempt.
func VerifyLocation(facultyID uuid.UUID, sample LocationSample, now time.Time) (*VerificationResult, error) {
	var zones []models.Geofence
	err := database.DB.
		Where("faculty_id = ? AND is_active = ?", facultyID, true).
		Order("created_at asc").
		Find(&zones).Error
	if err != nil {
		return nil, err
	}

	if len(zones) == 0 {
		return &VerificationResult{Required: false, Verified: false}, nil
	}

	nearest := zones[0]
	nearestDist := Haversine(sample.Lat, sample.Lng, nearest.CenterLat, nearest.CenterLng)
	for _, zone := range zones[1:] {
		dist := Haversine(sample.Lat, sample.Lng, zone.CenterLat, zone.CenterLng)
		if dist < nearestDist {
			nearest = zone
			nearestDist = dist
		}
	}

	return verifyAgainstZone(nearest, sample, nearestDist, now)
}

// verifyAgainstZone applies the acceptance ladder against a single zone.
// Order matters: accuracy only disqualifies once both "inside" and
// "uncertainty overlap" have been ruled out.
func verifyAgainstZone(zone models.Geofence, sample LocationSample, distance float64, now time.Time) (*VerificationResult, error) {
	result := &VerificationResult{
		Required:       true,
		GeofenceID:     zone.ID,
		GeofenceName:   zone.Name,
		DistanceMeters: distance,
	}

	age := now.Sub(time.UnixMilli(sample.CapturedAtMs))
	if age > time.Duration(zone.MaxLocationAgeSeconds)*time.Second {
		return result, fmt.Errorf("%w: sample is %.0fs old, limit is %ds",
			ErrStaleLocation, age.Seconds(), zone.MaxLocationAgeSeconds)
	}

	if distance <= zone.RadiusMeters {
		result.Verified = true
		if sample.AccuracyMeters > zone.MaxAccuracyMeters {
			result.Warning = fmt.Sprintf("accepted inside zone despite low accuracy (%.0fm reported, %.0fm allowed)",
				sample.AccuracyMeters, zone.MaxAccuracyMeters)
		}
		return result, nil
	}

	if distance-zone.RadiusMeters <= sample.AccuracyMeters {
		result.Verified = true
		result.Relaxed = true
		result.Warning = "accepted on GPS uncertainty overlapping the zone boundary"
		return result, nil
	}

	if sample.AccuracyMeters > zone.MaxAccuracyMeters {
		return result, fmt.Errorf("%w: %.0fm required, %.0fm reported",
			ErrInsufficientAccuracy, zone.MaxAccuracyMeters, sample.AccuracyMeters)
	}

	return result, fmt.Errorf("%w: %.0fm from %q, zone radius %.0fm",
		ErrOutsideZone, distance, zone.Name, zone.RadiusMeters)
}
