package notifications

import (
	"fmt"
	"log"

	"github.com/kiprotich-dev/faculty_meet/database"
	"github.com/kiprotich-dev/faculty_meet/models"
)

// Appointment lifecycle events. Downstream collaborators (email, calendar
// integration) key off these; delivery is fire-and-forget and never blocks
// the transition that produced the event.
const (
	EventAppointmentCreated   = "appointment.created"
	EventAppointmentApproved  = "appointment.approved"
	EventAppointmentRejected  = "appointment.rejected"
	EventAppointmentCancelled = "appointment.cancelled"
	EventAppointmentExpired   = "appointment.expired"
)

// NotifyAppointmentEvent emails both parties about a lifecycle event,
// carrying the appointment snapshot. Intended to run on its own goroutine.
func NotifyAppointmentEvent(event string, appointment models.Appointment) {
	var facultyUser models.User
	err := database.DB.First(&facultyUser, "id = ?", appointment.FacultyID).Error
	if err != nil {
		log.Printf("Cannot notify %s for appointment %s: faculty lookup failed: %v",
			event, appointment.ID, err)
		return
	}

	when := fmt.Sprintf("%s at %s", appointment.Date, appointment.StartTime)

	var studentSubject, studentBody, facultySubject, facultyBody string
	switch event {
	case EventAppointmentCreated:
		studentSubject = "Meeting Request Submitted"
		studentBody = fmt.Sprintf("<h1>Request Submitted</h1><p>Your meeting request with %s for %s is awaiting approval.</p>", facultyUser.FullName, when)
		facultySubject = "New Meeting Request"
		facultyBody = fmt.Sprintf("<h1>New Request</h1><p>%s has requested a meeting on %s. Please approve or reject it from your dashboard.</p>", appointment.StudentName, when)
	case EventAppointmentApproved:
		studentSubject = "Meeting Request Approved"
		studentBody = fmt.Sprintf("<h1>Approved</h1><p>%s approved your meeting on %s.</p>", facultyUser.FullName, when)
	case EventAppointmentRejected:
		studentSubject = "Meeting Request Declined"
		studentBody = fmt.Sprintf("<h1>Declined</h1><p>%s declined your meeting request for %s.</p>", facultyUser.FullName, when)
	case EventAppointmentCancelled:
		studentSubject = "Meeting Cancelled"
		studentBody = fmt.Sprintf("<h1>Cancelled</h1><p>The meeting on %s has been cancelled.</p>", when)
		facultySubject = "Meeting Cancelled"
		facultyBody = fmt.Sprintf("<h1>Cancelled</h1><p>The meeting with %s on %s has been cancelled.</p>", appointment.StudentName, when)
	case EventAppointmentExpired:
		studentSubject = "Meeting Request Expired"
		studentBody = fmt.Sprintf("<h1>No Response</h1><p>Your meeting request for %s was not answered in time and has been closed. Please book another slot.</p>", when)
	default:
		log.Printf("Unknown appointment event %q, skipping notification", event)
		return
	}

	if studentSubject != "" {
		SendEmail(appointment.StudentName, appointment.StudentEmail, studentSubject, studentBody)
	}
	if facultySubject != "" {
		SendEmail(facultyUser.FullName, facultyUser.Email, facultySubject, facultyBody)
	}
}
