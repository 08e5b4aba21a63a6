package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kiprotich-dev/faculty_meet/database"
	"github.com/kiprotich-dev/faculty_meet/models"
	"github.com/kiprotich-dev/faculty_meet/services"
	"github.com/kiprotich-dev/faculty_meet/utils"
	"gorm.io/gorm"
)

type CreateBookingRequest struct {
	FacultyID string `json:"faculty_id" validate:"required,uuid"`
	TopicID   string `json:"topic_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`

	Location *services.LocationSample `json:"location,omitempty"`
}

func CreateBooking(c *fiber.Ctx) error {
	claims := currentUserClaims(c)
	studentEmail, _ := claims["email"].(string)
	studentName, _ := claims["full_name"].(string)
	studentRegNo, _ := claims["student_id"].(string)

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if _, err := utils.ParseDate(req.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}
	if _, err := utils.ParseClock(req.StartTime); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_time must be HH:MM"})
	}
	if _, err := utils.ParseClock(req.EndTime); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_time must be HH:MM"})
	}

	facultyID, _ := uuid.Parse(req.FacultyID)
	topicID, _ := uuid.Parse(req.TopicID)

	var topic models.Topic
	err := database.DB.First(&topic, "id = ? AND faculty_id = ? AND is_active = ?", topicID, facultyID, true).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Topic not found for this faculty member"})
	}

	appointment, verification, err := services.BookSlot(services.BookingInput{
		FacultyID:    facultyID,
		TopicID:      topicID,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		StudentEmail: studentEmail,
		StudentRegNo: studentRegNo,
		StudentName:  studentName,
		Location:     req.Location,
	}, time.Now())
	if err != nil {
		return bookingErrorResponse(c, err, verification)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Meeting request submitted and awaiting approval.",
		"appointment":  appointment,
		"verification": verification,
	})
}

// bookingErrorResponse maps each rejection class in the booking pipeline
// to its HTTP status. Slot races are a conflict the client retries with a
// fresh list; geofence failures need a new sample or a walk.
func bookingErrorResponse(c *fiber.Ctx, err error, verification *services.VerificationResult) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrSlotUnavailable):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrDailyLimitExceeded),
		errors.Is(err, services.ErrTimeConflict):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrLocationRequired),
		errors.Is(err, services.ErrStaleLocation),
		errors.Is(err, services.ErrInsufficientAccuracy),
		errors.Is(err, services.ErrOutsideZone):
		status = fiber.StatusForbidden
	}

	payload := fiber.Map{"error": err.Error()}
	if verification != nil {
		payload["verification"] = verification
	}
	return c.Status(status).JSON(payload)
}

func GetMyBookings(c *fiber.Ctx) error {
	claims := currentUserClaims(c)
	studentEmail, _ := claims["email"].(string)

	var appointments []models.Appointment
	database.DB.
		Preload("Faculty.User").
		Preload("Topic").
		Where("student_email = ?", studentEmail).
		Order("date desc, start_time desc").
		Find(&appointments)

	return c.JSON(appointments)
}

type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

func CancelMyBooking(c *fiber.Ctx) error {
	claims := currentUserClaims(c)
	studentEmail, _ := claims["email"].(string)

	appointmentID, err := uuid.Parse(c.Params("appointmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment id"})
	}

	var req CancelBookingRequest
	if err := c.BodyParser(&req); err != nil {
		req.Reason = ""
	}

	appointment, err := services.CancelByStudent(appointmentID, studentEmail, req.Reason, time.Now())
	if err != nil {
		return transitionErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Appointment cancelled. The slot has been released.",
		"appointment": appointment,
	})
}

func transitionErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrCancelWindowClosed):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update appointment"})
}
