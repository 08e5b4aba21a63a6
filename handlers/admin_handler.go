package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kiprotich-dev/faculty_meet/database"
	"github.com/kiprotich-dev/faculty_meet/models"
	"github.com/kiprotich-dev/faculty_meet/services"
	"gorm.io/gorm"
)

func ListAllAppointments(c *fiber.Ctx) error {
	query := database.DB.
		Preload("Faculty.User").
		Preload("Topic")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	query.Order("date desc, start_time desc").Find(&appointments)

	return c.JSON(appointments)
}

// TriggerSweep runs the expiration sweep on demand, outside the cron
// schedule.
func TriggerSweep(c *fiber.Ctx) error {
	expired, err := services.SweepExpiredAppointments(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Sweep failed"})
	}

	return c.JSON(fiber.Map{
		"message": "Sweep completed",
		"expired": expired,
	})
}

// TriggerSweepOne checks a single appointment. Re-checking an
// already-terminal appointment is a no-op, not an error.
func TriggerSweepOne(c *fiber.Ctx) error {
	appointmentID, err := uuid.Parse(c.Params("appointmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment id"})
	}

	expired, err := services.ExpireAppointment(appointmentID, time.Now())
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Expiration check failed"})
	}

	return c.JSON(fiber.Map{
		"appointment_id": appointmentID,
		"expired":        expired,
	})
}

type PromoteFacultyRequest struct {
	UserID              string  `json:"user_id" validate:"required,uuid"`
	Department          *string `json:"department"`
	Office              *string `json:"office"`
	SlotDurationMinutes *int    `json:"slot_duration_minutes" validate:"omitempty,min=15,max=240"`
}

// PromoteToFaculty flips a user to the faculty role and creates their
// profile row.
func PromoteToFaculty(c *fiber.Ctx) error {
	var req PromoteFacultyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID, _ := uuid.Parse(req.UserID)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("role", "faculty").Error; err != nil {
			return err
		}
		faculty := models.Faculty{
			UserID:              userID,
			Department:          req.Department,
			Office:              req.Office,
			SlotDurationMinutes: req.SlotDurationMinutes,
			Status:              "active",
		}
		return tx.Create(&faculty).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to promote user"})
	}

	return c.JSON(fiber.Map{"message": "User promoted to faculty"})
}
