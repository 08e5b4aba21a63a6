package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kiprotich-dev/faculty_meet/database"
	"github.com/kiprotich-dev/faculty_meet/models"
	"github.com/kiprotich-dev/faculty_meet/notifications"
	"github.com/kiprotich-dev/faculty_meet/utils"
	"github.com/kiprotich-dev/faculty_meet/websocket"
	"gorm.io/gorm"
)

// BookingInput is everything the booking path needs. Identity fields are
// opaque strings supplied by the authentication boundary.
type BookingInput struct {
	FacultyID    uuid.UUID
	TopicID      uuid.UUID
	Date         string
	StartTime    string
	EndTime      string
	StudentEmail string
	StudentRegNo string
	StudentName  string
	Location     *LocationSample
}

var activeStatuses = []string{models.AppointmentStatusPending, models.AppointmentStatusApproved}

// CheckStudentConflicts rejects a booking attempt when the student already
// holds an active appointment with the same faculty that day, or any
// active appointment overlapping the requested time. Both checks are
// advisory pre-filters; the atomic slot reservation stays the final
// arbiter.
func CheckStudentConflicts(studentEmail string, facultyID uuid.UUID, date, startTime, endTime string) error {
	var sameDayCount int64
	err := database.DB.Model(&models.Appointment{}).
		Where("student_email = ? AND faculty_id = ? AND date = ? AND status IN ?",
			studentEmail, facultyID, date, activeStatuses).
		Count(&sameDayCount).Error
	if err != nil {
		return err
	}
	if sameDayCount > 0 {
		return ErrDailyLimitExceeded
	}

	reqStart, err := utils.ParseClock(startTime)
	if err != nil {
		return err
	}
	reqEnd, err := utils.ParseClock(endTime)
	if err != nil {
		return err
	}

	var sameDay []models.Appointment
	err = database.DB.
		Where("student_email = ? AND date = ? AND status IN ?", studentEmail, date, activeStatuses).
		Find(&sameDay).Error
	if err != nil {
		return err
	}

	for _, other := range sameDay {
		otherStart, err := utils.ParseClock(other.StartTime)
		if err != nil {
			continue
		}
		otherEnd, err := utils.ParseClock(other.EndTime)
		if err != nil {
			continue
		}
		if utils.Overlaps(reqStart, reqEnd, otherStart, otherEnd) {
			return ErrTimeConflict
		}
	}
	return nil
}

// reserveSlot is the single compare-and-swap the whole booking path hangs
// on: one conditional UPDATE that only matches a slot still available and
// unbooked, flipping it to pending+booked in the same statement. Under
// concurrent identical requests exactly one caller sees a matched row.
func reserveSlot(facultyID uuid.UUID, date, startTime string) (*models.Slot, error) {
	res := database.DB.Model(&models.Slot{}).
		Where("faculty_id = ? AND date = ? AND start_time = ? AND status = ? AND is_booked = ?",
			facultyID, date, startTime, models.SlotStatusAvailable, false).
		Updates(map[string]interface{}{
			"status":    models.SlotStatusPending,
			"is_booked": true,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrSlotUnavailable
	}

	var slot models.Slot
	err := database.DB.
		Where("faculty_id = ? AND date = ? AND start_time = ?", facultyID, date, startTime).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// releaseSlot returns a reserved slot to the pool and detaches its
// appointment.
func releaseSlot(tx *gorm.DB, slotID uuid.UUID) error {
	return tx.Model(&models.Slot{}).
		Where("id = ?", slotID).
		Updates(map[string]interface{}{
			"status":         models.SlotStatusAvailable,
			"is_booked":      false,
			"appointment_id": nil,
		}).Error
}

// releaseAppointmentSlot releases whichever slot is bound to the
// appointment.
func releaseAppointmentSlot(tx *gorm.DB, appointmentID uuid.UUID) error {
	return tx.Model(&models.Slot{}).
		Where("appointment_id = ?", appointmentID).
		Updates(map[string]interface{}{
			"status":         models.SlotStatusAvailable,
			"is_booked":      false,
			"appointment_id": nil,
		}).Error
}

// BookSlot runs the full booking pipeline: conflict checks, geofence
// verification, atomic reservation, appointment creation. If the
// appointment cannot be created after the slot was won, the reservation is
// compensated back to available.
func BookSlot(input BookingInput, now time.Time) (*models.Appointment, *VerificationResult, error) {
	if err := CheckStudentConflicts(input.StudentEmail, input.FacultyID, input.Date, input.StartTime, input.EndTime); err != nil {
		return nil, nil, err
	}

	verification, err := verifyBookingLocation(input, now)
	if err != nil {
		return nil, verification, err
	}

	slot, err := reserveSlot(input.FacultyID, input.Date, input.StartTime)
	if err != nil {
		return nil, verification, err
	}

	appointment := models.Appointment{
		StudentEmail: input.StudentEmail,
		StudentRegNo: input.StudentRegNo,
		StudentName:  input.StudentName,
		FacultyID:    input.FacultyID,
		TopicID:      input.TopicID,
		Date:         slot.Date,
		StartTime:    slot.StartTime,
		EndTime:      slot.EndTime,
		Status:       models.AppointmentStatusPending,
	}
	if input.Location != nil {
		appointment.LocationLat = &input.Location.Lat
		appointment.LocationLng = &input.Location.Lng
	}
	if verification != nil {
		appointment.LocationVerified = verification.Verified
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&appointment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Slot{}).
			Where("id = ?", slot.ID).
			Update("appointment_id", appointment.ID).Error
	})
	if err != nil {
		// The slot was won but the appointment could not be written.
		// Best-effort compensation so the slot is not stranded.
		if revertErr := releaseSlot(database.DB, slot.ID); revertErr != nil {
			log.Printf("🔥 ALERT: failed to revert slot %s after booking failure: %v (original: %v)",
				slot.ID, revertErr, err)
		}
		return nil, verification, fmt.Errorf("failed to create appointment: %w", err)
	}

	go notifications.NotifyAppointmentEvent(notifications.EventAppointmentCreated, appointment)
	websocket.PublishAppointmentEvent(notifications.EventAppointmentCreated, appointment)

	return &appointment, verification, nil
}

// verifyBookingLocation gates the booking on physical presence when the
// faculty has active geofences. With no active zone any booking proceeds
// unverified.
func verifyBookingLocation(input BookingInput, now time.Time) (*VerificationResult, error) {
	if input.Location != nil {
		return VerifyLocation(input.FacultyID, *input.Location, now)
	}

	var zoneCount int64
	err := database.DB.Model(&models.Geofence{}).
		Where("faculty_id = ? AND is_active = ?", input.FacultyID, true).
		Count(&zoneCount).Error
	if err != nil {
		return nil, err
	}
	if zoneCount > 0 {
		return &VerificationResult{Required: true}, ErrLocationRequired
	}
	return &VerificationResult{Required: false}, nil
}
