package services

import (
	"time"

	"github.com/google/uuid"
	config "github.com/kiprotich-dev/faculty_meet/configs"
	"github.com/kiprotich-dev/faculty_meet/database"
	"github.com/kiprotich-dev/faculty_meet/models"
	"github.com/kiprotich-dev/faculty_meet/notifications"
	"github.com/kiprotich-dev/faculty_meet/utils"
	"github.com/kiprotich-dev/faculty_meet/websocket"
	"gorm.io/gorm"
)

// CancelledByStudent / CancelledByFaculty are the recorded actors on a
// cancellation.
const (
	CancelledByStudent = "student"
	CancelledByFaculty = "faculty"
)

// CancelLeadTime is how much notice a student must give before the
// appointment start.
func CancelLeadTime() time.Duration {
	return time.Duration(config.ConfigInt("CANCEL_LEAD_HOURS", 2)) * time.Hour
}

// ApproveAppointment moves a pending appointment to approved and binds its
// slot as booked. Only the owning faculty member may approve.
func ApproveAppointment(appointmentID, facultyID uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := database.DB.First(&appointment, "id = ? AND faculty_id = ?", appointmentID, facultyID).Error; err != nil {
		return nil, err
	}
	if appointment.Status != models.AppointmentStatusPending {
		return nil, ErrInvalidTransition
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", appointmentID, models.AppointmentStatusPending).
			Update("status", models.AppointmentStatusApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return tx.Model(&models.Slot{}).
			Where("appointment_id = ?", appointmentID).
			Update("status", models.SlotStatusBooked).Error
	})
	if err != nil {
		return nil, err
	}

	appointment.Status = models.AppointmentStatusApproved
	go notifications.NotifyAppointmentEvent(notifications.EventAppointmentApproved, appointment)
	websocket.PublishAppointmentEvent(notifications.EventAppointmentApproved, appointment)
	return &appointment, nil
}

// RejectAppointment moves a pending appointment to rejected and returns
// its slot to the pool. The optional reason is kept on the record.
func RejectAppointment(appointmentID, facultyID uuid.UUID, reason string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := database.DB.First(&appointment, "id = ? AND faculty_id = ?", appointmentID, facultyID).Error; err != nil {
		return nil, err
	}
	if appointment.Status != models.AppointmentStatusPending {
		return nil, ErrInvalidTransition
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": models.AppointmentStatusRejected}
		if reason != "" {
			updates["cancellation_reason"] = reason
		}
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", appointmentID, models.AppointmentStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return releaseAppointmentSlot(tx, appointmentID)
	})
	if err != nil {
		return nil, err
	}

	appointment.Status = models.AppointmentStatusRejected
	go notifications.NotifyAppointmentEvent(notifications.EventAppointmentRejected, appointment)
	websocket.PublishAppointmentEvent(notifications.EventAppointmentRejected, appointment)
	return &appointment, nil
}

// CancelByStudent cancels the student's own pending or approved
// appointment, provided the start is still more than the lead time away.
func CancelByStudent(appointmentID uuid.UUID, studentEmail, reason string, now time.Time) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := database.DB.First(&appointment, "id = ? AND student_email = ?", appointmentID, studentEmail).Error; err != nil {
		return nil, err
	}
	if appointment.Terminal() {
		return nil, ErrInvalidTransition
	}

	start, err := utils.CombineDateTime(appointment.Date, appointment.StartTime)
	if err != nil {
		return nil, err
	}
	if start.Sub(now) <= CancelLeadTime() {
		return nil, ErrCancelWindowClosed
	}

	return cancel(&appointment, CancelledByStudent, reason, now)
}

// CancelByFaculty cancels a pending or approved appointment on the
// faculty side, any time before the appointment start.
func CancelByFaculty(appointmentID, facultyID uuid.UUID, reason string, now time.Time) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := database.DB.First(&appointment, "id = ? AND faculty_id = ?", appointmentID, facultyID).Error; err != nil {
		return nil, err
	}
	if appointment.Terminal() {
		return nil, ErrInvalidTransition
	}

	start, err := utils.CombineDateTime(appointment.Date, appointment.StartTime)
	if err != nil {
		return nil, err
	}
	if !start.After(now) {
		return nil, ErrCancelWindowClosed
	}

	return cancel(&appointment, CancelledByFaculty, reason, now)
}

func cancel(appointment *models.Appointment, by, reason string, now time.Time) (*models.Appointment, error) {
	priorStatus := appointment.Status

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       models.AppointmentStatusCancelled,
			"cancelled_by": by,
			"cancelled_at": now,
		}
		if reason != "" {
			updates["cancellation_reason"] = reason
		}
		// Keyed on the status we read so a racing transition loses cleanly.
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", appointment.ID, priorStatus).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return releaseAppointmentSlot(tx, appointment.ID)
	})
	if err != nil {
		return nil, err
	}

	appointment.Status = models.AppointmentStatusCancelled
	appointment.CancelledBy = &by
	appointment.CancelledAt = &now
	if reason != "" {
		appointment.CancellationReason = &reason
	}

	go notifications.NotifyAppointmentEvent(notifications.EventAppointmentCancelled, *appointment)
	websocket.PublishAppointmentEvent(notifications.EventAppointmentCancelled, *appointment)
	return appointment, nil
}
