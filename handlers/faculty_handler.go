package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/kiprotich-dev/faculty_meet/database"
	"github.com/kiprotich-dev/faculty_meet/models"
	"github.com/kiprotich-dev/faculty_meet/services"
	"github.com/kiprotich-dev/faculty_meet/utils"
	"gorm.io/gorm"
)

func ListFaculties(c *fiber.Ctx) error {
	var faculties []models.Faculty
	database.DB.
		Preload("User").
		Where("status = ?", "active").
		Find(&faculties)

	return c.JSON(faculties)
}

func GetFacultyTopics(c *fiber.Ctx) error {
	facultyID, err := uuid.Parse(c.Params("facultyId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid faculty id"})
	}

	var topics []models.Topic
	database.DB.
		Where("faculty_id = ? AND is_active = ?", facultyID, true).
		Order("name asc").
		Find(&topics)

	return c.JSON(topics)
}

type FacultyProfileRequest struct {
	Department          *string `json:"department"`
	Office              *string `json:"office"`
	SlotDurationMinutes *int    `json:"slot_duration_minutes" validate:"omitempty,min=15,max=240"`
}

func GetMyFacultyProfile(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	var faculty models.Faculty
	if err := database.DB.Preload("User").First(&faculty, "user_id = ?", facultyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Faculty profile not found"})
	}
	return c.JSON(faculty)
}

func UpdateMyFacultyProfile(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	var req FacultyProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var faculty models.Faculty
	if err := database.DB.First(&faculty, "user_id = ?", facultyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Faculty profile not found"})
	}

	if req.Department != nil {
		faculty.Department = req.Department
	}
	if req.Office != nil {
		faculty.Office = req.Office
	}
	if req.SlotDurationMinutes != nil {
		faculty.SlotDurationMinutes = req.SlotDurationMinutes
	}

	if err := database.DB.Save(&faculty).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	return c.JSON(faculty)
}

type TemplateWindowRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type TemplateDayRequest struct {
	Weekday int                     `json:"weekday" validate:"min=0,max=6"`
	Active  bool                    `json:"active"`
	Windows []TemplateWindowRequest `json:"windows" validate:"dive"`
}

type WeeklyTemplateRequest struct {
	Days []TemplateDayRequest `json:"days" validate:"required,dive"`
}

func GetMyAvailability(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	var days []models.AvailabilityDay
	database.DB.
		Preload("Windows").
		Where("faculty_id = ?", facultyID).
		Order("weekday asc").
		Find(&days)

	return c.JSON(days)
}

// SetMyAvailability replaces the faculty member's weekly template and
// prunes future slots the new template no longer generates. Slots that
// are pending or booked survive the prune untouched.
func SetMyAvailability(c *fiber.Ctx) error {
	facultyID := currentUserID(c)

	var req WeeklyTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	for _, day := range req.Days {
		if err := validateWindows(day.Windows); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var dayIDs []uuid.UUID
		if err := tx.Model(&models.AvailabilityDay{}).
			Where("faculty_id = ?", facultyID).
			Pluck("id", &dayIDs).Error; err != nil {
			return err
		}
		if len(dayIDs) > 0 {
			if err := tx.Where("availability_day_id IN ?", dayIDs).Delete(&models.AvailabilityWindow{}).Error; err != nil {
				return err
			}
			if err := tx.Where("faculty_id = ?", facultyID).Delete(&models.AvailabilityDay{}).Error; err != nil {
				return err
			}
		}

		for _, day := range req.Days {
			row := models.AvailabilityDay{
				FacultyID: facultyID,
				Weekday:   day.Weekday,
				Active:    day.Active,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			for _, window := range day.Windows {
				w := models.AvailabilityWindow{
					AvailabilityDayID: row.ID,
					StartTime:         window.StartTime,
					EndTime:           window.EndTime,
				}
				if err := tx.Create(&w).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save availability"})
	}

	today := time.Now().Format(utils.DateLayout)
	if err := services.PruneTemplateSlots(facultyID, today); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Availability saved but pruning stale slots failed"})
	}

	return c.JSON(fiber.Map{"message": "Availability updated"})
}

// validateWindows enforces parseable clock times, start < end, and no
// overlap between windows of the same day.
func validateWindows(windows []TemplateWindowRequest) error {
	type span struct{ start, end int }
	spans := make([]span, 0, len(windows))

	for _, window := range windows {
		start, err := utils.ParseClock(window.StartTime)
		if err != nil {
			return err
		}
		end, err := utils.ParseClock(window.EndTime)
		if err != nil {
			return err
		}
		if start >= end {
			return errors.New("window start time must be before end time")
		}
		for _, other := range spans {
			if utils.Overlaps(start, end, other.start, other.end) {
				return errors.New("windows within a day must not overlap")
			}
		}
		spans = append(spans, span{start, end})
	}
	return nil
}

// currentUserID pulls the authenticated user's id out of the JWT claims.
func currentUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	id, _ := uuid.Parse(claims["user_id"].(string))
	return id
}

func currentUserClaims(c *fiber.Ctx) jwt.MapClaims {
	token := c.Locals("user").(*jwt.Token)
	return token.Claims.(jwt.MapClaims)
}
