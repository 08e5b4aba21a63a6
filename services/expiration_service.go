package services

import (
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

// SweepExpiredAppointments retires every pending appointment whose
// scheduled start is strictly before now: each becomes no_response and
// its slot returns to the pool. Individual failures are logged and the
// batch continues. Returns how many appointments were expired.
func SweepExpiredAppointments(now time.Time) (int, error) {
	today := now.Format(utils.DateLayout)
	clock := now.Format(utils.ClockLayout)

	var stale []models.Appointment
	err := database.DB.
		Where("status = ? AND (date < ? OR (date = ? AND start_time < ?))",
			models.AppointmentStatusPending, today, today, clock).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, appointment := range stale {
		didExpire, err := ExpireAppointment(appointment.ID, now)
		if err != nil {
			log.Printf("Failed to expire appointment %s: %v", appointment.ID, err)
			continue
		}
		if didExpire {
			expired++
		}
	}
	return expired, nil
}

// ExpireAppointment is the on-demand single-appointment check. It is
// idempotent: an already-terminal appointment is a no-op, as is a pending
// one whose start has not yet passed. Returns whether a transition
// happened.
func ExpireAppointment(appointmentID uuid.UUID, now time.Time) (bool, error) {
	var appointment models.Appointment
	if err := database.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		return false, err
	}

	if appointment.Status != models.AppointmentStatusPending {
		return false, nil
	}

	start, err := utils.CombineDateTime(appointment.Date, appointment.StartTime)
	if err != nil {
		return false, err
	}
	if !start.Before(now) {
		return false, nil
	}

	transitioned := false
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", appointmentID, models.AppointmentStatusPending).
			Update("status", models.AppointmentStatusNoResponse)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent sweep or faculty action got there first.
			return nil
		}
		transitioned = true
		return releaseAppointmentSlot(tx, appointmentID)
	})
	if err != nil || !transitioned {
		return false, err
	}

	appointment.Status = models.AppointmentStatusNoResponse
	go notifications.NotifyAppointmentEvent(notifications.EventAppointmentExpired, appointment)
	websocket.PublishAppointmentEvent(notifications.EventAppointmentExpired, appointment)
	return true, nil
}
