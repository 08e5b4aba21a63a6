package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiprotich-dev/faculty_meet/models"
	"github.com/kiprotich-dev/faculty_meet/utils"
)

// bookFixture books one slot and returns the created appointment.
func bookFixture(t *testing.T, facultyID, topicID uuid.UUID, email string) *models.Appointment {
	t.Helper()
	appointment, _, err := BookSlot(bookingInput(facultyID, topicID, email), time.Now())
	if err != nil {
		t.Fatalf("BookSlot fixture: %v", err)
	}
	return appointment
}

func TestApproveBindsSlot(t *testing.T) {
	newTestDB(t)
	defer waitNotifications()
	facultyID := seedFaculty(t, nil)
	topicID := seedTopic(t, facultyID)
	slot := seedSlot(t, facultyID, mondayDate, "09:00", "09:15")

	appointment := bookFixture(t, facultyID, topicID, "student@university.edu")

	approved, err := ApproveAppointment(appointment.ID, facultyID)
	if err != nil {
		t.Fatalf("ApproveAppointment: %v", err)
	}
	if approved.Status != models.AppointmentStatusApproved {
		t.Errorf("status = %s, want approved", approved.Status)
	}

	got := reloadSlot(t, slot.ID)
	if got.Status != models.SlotStatusBooked || !got.IsBooked {
		t.Errorf("slot = %s/booked=%v, want booked/true", got.Status, got.IsBooked)
	}
}

func TestRejectReleasesSlot(t *testing.T) {
	newTestDB(t)
	defer waitNotifications()
	facultyID := seedFaculty(t, nil)
	topicID := seedTopic(t, facultyID)
	slot := seedSlot(t, facultyID, mondayDate, "09:00", "09:15")

	appointment := bookFixture(t, facultyID, topicID, "student@university.edu")

	rejected, err := RejectAppointment(appointment.ID, facultyID, "out of office")
	if err != nil {
		t.Fatalf("RejectAppointment: %v", err)
	}
	if rejected.Status != models.AppointmentStatusRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}

	got := reloadSlot(t, slot.ID)
	if got.Status != models.SlotStatusAvailable || got.IsBooked || got.AppointmentID != nil {
		t.Errorf("slot not released: %s/booked=%v", got.Status, got.IsBooked)
	}

	stored := reloadAppointment(t, appointment.ID)
	if stored.CancellationReason == nil || *stored.CancellationReason != "out of office" {
		t.Error("rejection reason not recorded")
	}
}

// Terminality: once terminal, every further transition fails with
// ErrInvalidTransition and the record is unchanged.
func TestTerminalStatesAreImmutable(t *testing.T) {
	newTestDB(t)
	defer waitNotifications()
	facultyID := seedFaculty(t, nil)
	topicID := seedTopic(t, facultyID)
	seedSlot(t, facultyID, mondayDate, "09:00", "09:15")

	appointment := bookFixture(t, facultyID, topicID, "student@university.edu")
	if _, err := RejectAppointment(appointment.ID, facultyID, ""); err != nil {
		t.Fatalf("RejectAppointment: %v", err)
	}
	before := reloadAppointment(t, appointment.ID)

	if _, err := ApproveAppointment(appointment.ID, facultyID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("approve after reject: got %v, want ErrInvalidTransition", err)
	}
	if _, err := RejectAppointment(appointment.ID, facultyID, "again"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("double reject: got %v, want ErrInvalidTransition", err)
	}
	if _, err := CancelByStudent(appointment.ID, "student@university.edu", "", time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel after reject: got %v, want ErrInvalidTransition", err)
	}
	if _, err := CancelByFaculty(appointment.ID, facultyID, "", time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("faculty cancel after reject: got %v, want ErrInvalidTransition", err)
	}

	after := reloadAppointment(t, appointment.ID)
	if after.Status != before.Status || !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("terminal appointment was mutated by a failed transition")
	}
}

// Round trip: reserve, reject, slot is available again, and a different
// student can book it.
func TestSlotRoundTrip(t *testing.T) {
	newTestDB(t)
	defer waitNotifications()
	facultyID := seedFaculty(t, nil)
	topicID := seedTopic(t, facultyID)
	slot := seedSlot(t, facultyID, mondayDate, "09:00", "09:15")

	first := bookFixture(t, facultyID, topicID, "first@university.edu")
	if _, err := RejectAppointment(first.ID, facultyID, ""); err != nil {
		t.Fatalf("RejectAppointment: %v", err)
	}

	if got := reloadSlot(t, slot.ID); got.Status != models.SlotStatusAvailable {
		t.Fatalf("slot = %s after rejection, want available", got.Status)
	}

	second := bookFixture(t, facultyID, topicID, "second@university.edu")
	got := reloadSlot(t, slot.ID)
	if got.AppointmentID == nil || *got.AppointmentID != second.ID {
		t.Error("slot not rebound to the second student's appointment")
	}
}

func TestStudentCancelLeadTime(t *testing.T) {
	newTestDB(t)
	defer waitNotifications()
	facultyID := seedFaculty(t, nil)
	topicID := seedTopic(t, facultyID)
	now := time.Now()

	// Starts in 90 minutes: inside the 2 hour lead window.
	soon := now.Add(90 * time.Minute)
	seedSlot(t, facultyID, soon.Format(utils.DateLayout), soon.Format(utils.ClockLayout), soon.Add(15*time.Minute).Format(utils.ClockLayout))
	input := bookingInput(facultyID, topicID, "student@university.edu")
	input.Date = soon.Format(utils.DateLayout)
	input.StartTime = soon.Format(utils.ClockLayout)
	input.EndTime = soon.Add(15 * time.Minute).Format(utils.ClockLayout)
	appointment, _, err := BookSlot(input, now)
	if err != nil {
		t.Fatalf("BookSlot: %v", err)
	}

	if _, err := CancelByStudent(appointment.ID, "student@university.edu", "", now); !errors.Is(err, ErrCancelWindowClosed) {
		t.Fatalf("got %v, want ErrCancelWindowClosed", err)
	}

	// Well before the lead window the student may cancel.
	farFaculty := seedFaculty(t, nil)
	farTopic := seedTopic(t, farFaculty)
	far := now.Add(48 * time.Hour)
	slot := seedSlot(t, farFaculty, far.Format(utils.DateLayout), far.Format(utils.ClockLayout), far.Add(15*time.Minute).Format(utils.ClockLayout))
	input = bookingInput(farFaculty, farTopic, "student@university.edu")
	input.Date = far.Format(utils.DateLayout)
	input.StartTime = far.Format(utils.ClockLayout)
	input.EndTime = far.Add(15 * time.Minute).Format(utils.ClockLayout)
	appointment, _, err = BookSlot(input, now)
	if err != nil {
		t.Fatalf("BookSlot: %v", err)
	}

	cancelled, err := CancelByStudent(appointment.ID, "student@university.edu", "schedule clash", now)
	if err != nil {
		t.Fatalf("CancelByStudent: %v", err)
	}
	if cancelled.CancelledBy == nil || *cancelled.CancelledBy != CancelledByStudent {
		t.Error("cancelled_by not recorded as student")
	}
	if got := reloadSlot(t, slot.ID); got.Status != models.SlotStatusAvailable {
		t.Errorf("slot = %s after cancellation, want available", got.Status)
	}
}

func TestFacultyCancelAfterStart(t *testing.T) {
	newTestDB(t)
	defer waitNotifications()
	facultyID := seedFaculty(t, nil)
	topicID := seedTopic(t, facultyID)
	seedSlot(t, facultyID, mondayDate, "09:00", "09:15")

	appointment := bookFixture(t, facultyID, topicID, "student@university.edu")

	// mondayDate is long past relative to this "now".
	now, err := utils.CombineDateTime("2027-01-01", "12:00")
	if err != nil {
		t.Fatalf("CombineDateTime: %v", err)
	}
	if _, err := CancelByFaculty(appointment.ID, facultyID, "", now); !errors.Is(err, ErrCancelWindowClosed) {
		t.Fatalf("got %v, want ErrCancelWindowClosed", err)
	}
}
