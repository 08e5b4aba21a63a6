package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kiprotich-dev/faculty_meet/database"
	"github.com/kiprotich-dev/faculty_meet/models"
	"github.com/kiprotich-dev/faculty_meet/services"
	"github.com/kiprotich-dev/faculty_meet/utils"
)

func GetFacultyAppointments(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	query := database.DB.
		Preload("Topic").
		Where("faculty_id = ?", facultyID)

	if date := c.Query("date"); date != "" {
		if _, err := utils.ParseDate(date); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date query parameter must be YYYY-MM-DD"})
		}
		query = query.Where("date = ?", date)
	}

	var appointments []models.Appointment
	query.Order("date desc, start_time asc").Find(&appointments)

	return c.JSON(appointments)
}

func GetPendingAppointments(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	var appointments []models.Appointment
	database.DB.
		Preload("Topic").
		Where("faculty_id = ? AND status = ?", facultyID, models.AppointmentStatusPending).
		Order("date asc, start_time asc").
		Find(&appointments)

	return c.JSON(appointments)
}

func ApproveAppointment(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	appointmentID, err := uuid.Parse(c.Params("appointmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment id"})
	}

	appointment, err := services.ApproveAppointment(appointmentID, facultyID)
	if err != nil {
		return transitionErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Appointment approved.",
		"appointment": appointment,
	})
}

type RejectAppointmentRequest struct {
	Reason string `json:"reason,omitempty"`
}

func RejectAppointment(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	appointmentID, err := uuid.Parse(c.Params("appointmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment id"})
	}

	var req RejectAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		req.Reason = ""
	}

	appointment, err := services.RejectAppointment(appointmentID, facultyID, req.Reason)
	if err != nil {
		return transitionErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Appointment rejected. The slot has been released.",
		"appointment": appointment,
	})
}

func CancelAppointmentByFaculty(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	appointmentID, err := uuid.Parse(c.Params("appointmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment id"})
	}

	var req CancelBookingRequest
	if err := c.BodyParser(&req); err != nil {
		req.Reason = ""
	}

	appointment, err := services.CancelByFaculty(appointmentID, facultyID, req.Reason, time.Now())
	if err != nil {
		return transitionErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Appointment cancelled. The slot has been released.",
		"appointment": appointment,
	})
}
