package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	config "github.com/kiprotich-dev/faculty_meet/configs"
	"github.com/kiprotich-dev/faculty_meet/database"
	"github.com/kiprotich-dev/faculty_meet/models"
	"github.com/kiprotich-dev/faculty_meet/utils"
	"gorm.io/gorm"
)

const minSlotDurationMinutes = 15

// SlotDurationFor resolves the effective slot length for a faculty member:
// their own override when set, else the system-wide setting, never below
// the 15 minute floor.
func SlotDurationFor(faculty *models.Faculty) int {
	duration := config.ConfigInt("SLOT_DURATION_MINUTES", 30)
	if faculty != nil && faculty.SlotDurationMinutes != nil {
		duration = *faculty.SlotDurationMinutes
	}
	if duration < minSlotDurationMinutes {
		duration = minSlotDurationMinutes
	}
	return duration
}

// GenerateSlots materializes the slots for a faculty member on one date
// from their weekly availability template. It is idempotent: already
// persisted pairs are skipped, and a duplicate-key failure from a
// concurrent generator is treated as that generator having won a benign
// race. The returned list is every slot for the date, ordered by start.
func GenerateSlots(facultyID uuid.UUID, date string) ([]models.Slot, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, err
	}

	var faculty models.Faculty
	if err := database.DB.First(&faculty, "user_id = ?", facultyID).Error; err != nil {
		return nil, err
	}

	var template models.AvailabilityDay
	err = database.DB.Preload("Windows").
		Where("faculty_id = ? AND weekday = ? AND active = ?", facultyID, int(day.Weekday()), true).
		First(&template).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil {
		duration := SlotDurationFor(&faculty)
		pairs, err := expandTemplate(template.Windows, duration)
		if err != nil {
			return nil, err
		}

		var existing []models.Slot
		if err := database.DB.Where("faculty_id = ? AND date = ?", facultyID, date).Find(&existing).Error; err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(existing))
		for _, slot := range existing {
			seen[slot.StartTime+"-"+slot.EndTime] = true
		}

		for _, pair := range pairs {
			if seen[pair[0]+"-"+pair[1]] {
				continue
			}
			slot := models.Slot{
				FacultyID: facultyID,
				Date:      date,
				StartTime: pair[0],
				EndTime:   pair[1],
				Status:    models.SlotStatusAvailable,
			}
			if err := database.DB.Create(&slot).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					continue
				}
				return nil, err
			}
		}
	}

	var slots []models.Slot
	err = database.DB.
		Where("faculty_id = ? AND date = ?", facultyID, date).
		Order("start_time asc").
		Find(&slots).Error
	return slots, err
}

// expandTemplate turns the day's windows into duration-sized
// (start, end) clock pairs. A trailing partial slot that would cross the
// window end is dropped.
func expandTemplate(windows []models.AvailabilityWindow, duration int) ([][2]string, error) {
	var pairs [][2]string
	for _, window := range windows {
		startMin, err := utils.ParseClock(window.StartTime)
		if err != nil {
			return nil, err
		}
		endMin, err := utils.ParseClock(window.EndTime)
		if err != nil {
			return nil, err
		}
		if startMin >= endMin {
			return nil, fmt.Errorf("availability window %s-%s is inverted", window.StartTime, window.EndTime)
		}
		for cursor := startMin; cursor+duration <= endMin; cursor += duration {
			pairs = append(pairs, [2]string{utils.FormatClock(cursor), utils.FormatClock(cursor + duration)})
		}
	}
	return pairs, nil
}

// PruneTemplateSlots removes available, unbooked slots on or after
// fromDate that the current template no longer generates. Pending and
// booked slots are never touched, whatever the template now says.
func PruneTemplateSlots(facultyID uuid.UUID, fromDate string) error {
	var faculty models.Faculty
	if err := database.DB.First(&faculty, "user_id = ?", facultyID).Error; err != nil {
		return err
	}
	duration := SlotDurationFor(&faculty)

	var dates []string
	err := database.DB.Model(&models.Slot{}).
		Distinct("date").
		Where("faculty_id = ? AND date >= ? AND status = ? AND is_booked = ?",
			facultyID, fromDate, models.SlotStatusAvailable, false).
		Pluck("date", &dates).Error
	if err != nil {
		return err
	}

	for _, date := range dates {
		day, err := utils.ParseDate(date)
		if err != nil {
			log.Printf("Skipping prune for malformed slot date %q: %v", date, err)
			continue
		}

		valid := make(map[string]bool)
		var template models.AvailabilityDay
		err = database.DB.Preload("Windows").
			Where("faculty_id = ? AND weekday = ? AND active = ?", facultyID, int(day.Weekday()), true).
			First(&template).Error
		if err == nil {
			pairs, err := expandTemplate(template.Windows, duration)
			if err != nil {
				return err
			}
			for _, pair := range pairs {
				valid[pair[0]+"-"+pair[1]] = true
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var candidates []models.Slot
		err = database.DB.
			Where("faculty_id = ? AND date = ? AND status = ? AND is_booked = ?",
				facultyID, date, models.SlotStatusAvailable, false).
			Find(&candidates).Error
		if err != nil {
			return err
		}

		for _, slot := range candidates {
			if valid[slot.StartTime+"-"+slot.EndTime] {
				continue
			}
			// Conditional delete so a reservation racing the prune wins.
			err := database.DB.
				Where("id = ? AND status = ? AND is_booked = ?", slot.ID, models.SlotStatusAvailable, false).
				Delete(&models.Slot{}).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}
