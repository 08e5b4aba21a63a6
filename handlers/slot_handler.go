package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kiprotich-dev/faculty_meet/models"
	"github.com/kiprotich-dev/faculty_meet/services"
	"github.com/kiprotich-dev/faculty_meet/utils"
)

// GetFacultySlots materializes and returns the slots for a faculty member
// on a given date. Generation is idempotent, so hitting this repeatedly
// for the same date is safe.
func GetFacultySlots(c *fiber.Ctx) error {
	facultyID, err := uuid.Parse(c.Params("facultyId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid faculty id"})
	}

	date := c.Query("date")
	if _, err := utils.ParseDate(date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date query parameter must be YYYY-MM-DD"})
	}

	slots, err := services.GenerateSlots(facultyID, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load slots"})
	}

	available := make([]models.Slot, 0, len(slots))
	for _, slot := range slots {
		if slot.Status == models.SlotStatusAvailable && !slot.IsBooked {
			available = append(available, slot)
		}
	}

	return c.JSON(fiber.Map{
		"date":  date,
		"slots": available,
	})
}
