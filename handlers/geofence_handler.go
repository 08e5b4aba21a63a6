package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kiprotich-dev/faculty_meet/database"
	"github.com/kiprotich-dev/faculty_meet/models"
	"github.com/kiprotich-dev/faculty_meet/services"
)

type GeofenceRequest struct {
	Name         string  `json:"name" validate:"required"`
	CenterLat    float64 `json:"center_lat" validate:"min=-90,max=90"`
	CenterLng    float64 `json:"center_lng" validate:"min=-180,max=180"`
	RadiusMeters float64 `json:"radius_meters" validate:"required,min=10,max=10000"`
	IsActive     *bool   `json:"is_active,omitempty"`

	MaxAccuracyMeters     *float64 `json:"max_accuracy_meters" validate:"omitempty,min=1,max=1000"`
	MaxLocationAgeSeconds *int     `json:"max_location_age_seconds" validate:"omitempty,min=5,max=3600"`
}

func GetMyGeofences(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	var zones []models.Geofence
	database.DB.
		Where("faculty_id = ?", facultyID).
		Order("created_at asc").
		Find(&zones)

	return c.JSON(zones)
}

func CreateGeofence(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	var req GeofenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	zone := models.Geofence{
		FacultyID:    facultyID,
		Name:         req.Name,
		CenterLat:    req.CenterLat,
		CenterLng:    req.CenterLng,
		RadiusMeters: req.RadiusMeters,
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	} else {
		zone.IsActive = true
	}
	if req.MaxAccuracyMeters != nil {
		zone.MaxAccuracyMeters = *req.MaxAccuracyMeters
	} else {
		zone.MaxAccuracyMeters = 50
	}
	if req.MaxLocationAgeSeconds != nil {
		zone.MaxLocationAgeSeconds = *req.MaxLocationAgeSeconds
	} else {
		zone.MaxLocationAgeSeconds = 60
	}

	if err := database.DB.Create(&zone).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create geofence"})
	}

	return c.Status(fiber.StatusCreated).JSON(zone)
}

func UpdateGeofence(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	zoneID, err := uuid.Parse(c.Params("geofenceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid geofence id"})
	}

	var zone models.Geofence
	if err := database.DB.First(&zone, "id = ? AND faculty_id = ?", zoneID, facultyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Geofence not found"})
	}

	var req GeofenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	zone.Name = req.Name
	zone.CenterLat = req.CenterLat
	zone.CenterLng = req.CenterLng
	zone.RadiusMeters = req.RadiusMeters
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}
	if req.MaxAccuracyMeters != nil {
		zone.MaxAccuracyMeters = *req.MaxAccuracyMeters
	}
	if req.MaxLocationAgeSeconds != nil {
		zone.MaxLocationAgeSeconds = *req.MaxLocationAgeSeconds
	}

	if err := database.DB.Save(&zone).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update geofence"})
	}
	return c.JSON(zone)
}

func DeleteGeofence(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	zoneID, err := uuid.Parse(c.Params("geofenceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid geofence id"})
	}

	res := database.DB.Where("id = ? AND faculty_id = ?", zoneID, facultyID).Delete(&models.Geofence{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete geofence"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Geofence not found"})
	}

	return c.JSON(fiber.Map{"message": "Geofence deleted"})
}

type VerifyLocationRequest struct {
	FacultyID string                  `json:"faculty_id" validate:"required,uuid"`
	Location  services.LocationSample `json:"location" validate:"required"`
}

// VerifyLocation lets a client pre-check its position before attempting a
// booking. The booking path re-runs the same check; this endpoint only
// saves the student a failed attempt.
func VerifyLocation(c *fiber.Ctx) error {
	var req VerifyLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	facultyID, _ := uuid.Parse(req.FacultyID)
	result, err := services.VerifyLocation(facultyID, req.Location, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrStaleLocation) ||
			errors.Is(err, services.ErrInsufficientAccuracy) ||
			errors.Is(err, services.ErrOutsideZone) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":        err.Error(),
				"verification": result,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Verification failed"})
	}

	return c.JSON(fiber.Map{"verification": result})
}
