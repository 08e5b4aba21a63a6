package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiprotich-dev/faculty_meet/database"
	"github.com/kiprotich-dev/faculty_meet/models"
)

func bookingInput(facultyID, topicID uuid.UUID, email string) BookingInput {
	return BookingInput{
		FacultyID:    facultyID,
		TopicID:      topicID,
		Date:         mondayDate,
		StartTime:    "09:00",
		EndTime:      "09:15",
		StudentEmail: email,
		StudentRegNo: "SC/001/21",
		StudentName:  "Test Student",
	}
}

func TestBookSlotHappyPath(t *testing.T) {
	newTestDB(t)
	defer waitNotifications()
	facultyID := seedFaculty(t, nil)
	topicID := seedTopic(t, facultyID)
	slot := seedSlot(t, facultyID, mondayDate, "09:00", "09:15")

	appointment, verification, err := BookSlot(bookingInput(facultyID, topicID, "student@university.edu"), time.Now())
	if err != nil {
		t.Fatalf("BookSlot: %v", err)
	}
	if appointment.Status != models.AppointmentStatusPending {
		t.Errorf("appointment status = %s, want pending", appointment.Status)
	}
	if verification.Required {
		t.Error("verification must not be required without geofences")
	}

	got := reloadSlot(t, slot.ID)
	if got.Status != models.SlotStatusPending || !got.IsBooked {
		t.Errorf("slot = %s/booked=%v, want pending/true", got.Status, got.IsBooked)
	}
	if got.AppointmentID == nil || *got.AppointmentID != appointment.ID {
		t.Error("slot not bound to the created appointment")
	}
}

// Mutual exclusion: N concurrent attempts on one slot, exactly one wins
// and the rest fail with ErrSlotUnavailable.
func TestBookSlotMutualExclusion(t *testing.T) {
	newTestDB(t)
	defer waitNotifications()
	facultyID := seedFaculty(t, nil)
	topicID := seedTopic(t, facultyID)
	seedSlot(t, facultyID, mondayDate, "09:00", "09:15")

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("student%d@university.edu", i)
			_, _, errs[i] = BookSlot(bookingInput(facultyID, topicID, email), time.Now())
		}(i)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotUnavailable):
			losses++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != attempts-1 {
		t.Errorf("wins=%d losses=%d, want 1 and %d", wins, losses, attempts-1)
	}
}

func TestBookSlotDailyFacultyLimit(t *testing.T) {
	newTestDB(t)
	defer waitNotifications()
	facultyID := seedFaculty(t, nil)
	topicID := seedTopic(t, facultyID)
	seedSlot(t, facultyID, mondayDate, "09:00", "09:15")
	seedSlot(t, facultyID, mondayDate, "11:00", "11:15")

	if _, _, err := BookSlot(bookingInput(facultyID, topicID, "student@university.edu"), time.Now()); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	second := bookingInput(facultyID, topicID, "student@university.edu")
	second.StartTime, second.EndTime = "11:00", "11:15"
	_, _, err := BookSlot(second, time.Now())
	if !errors.Is(err, ErrDailyLimitExceeded) {
		t.Fatalf("got %v, want ErrDailyLimitExceeded", err)
	}
}

// Overlap symmetry: [09:00,09:15) vs [09:10,09:25) conflicts across
// faculties; a touching interval does not.
func TestCheckStudentConflictsOverlap(t *testing.T) {
	newTestDB(t)
	defer waitNotifications()
	facultyA := seedFaculty(t, nil)
	facultyB := seedFaculty(t, nil)
	topicA := seedTopic(t, facultyA)
	seedSlot(t, facultyA, mondayDate, "09:00", "09:15")

	if _, _, err := BookSlot(bookingInput(facultyA, topicA, "student@university.edu"), time.Now()); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	err := CheckStudentConflicts("student@university.edu", facultyB, mondayDate, "09:10", "09:25")
	if !errors.Is(err, ErrTimeConflict) {
		t.Fatalf("overlapping interval: got %v, want ErrTimeConflict", err)
	}

	err = CheckStudentConflicts("student@university.edu", facultyB, mondayDate, "09:15", "09:30")
	if err != nil {
		t.Fatalf("touching interval must not conflict, got %v", err)
	}

	// Terminal appointments never conflict.
	database.DB.Model(&models.Appointment{}).
		Where("student_email = ?", "student@university.edu").
		Update("status", models.AppointmentStatusRejected)
	err = CheckStudentConflicts("student@university.edu", facultyB, mondayDate, "09:10", "09:25")
	if err != nil {
		t.Fatalf("rejected appointment must not conflict, got %v", err)
	}
}

func TestBookSlotGeofenceGate(t *testing.T) {
	newTestDB(t)
	defer waitNotifications()
	facultyID := seedFaculty(t, nil)
	topicID := seedTopic(t, facultyID)
	seedSlot(t, facultyID, mondayDate, "09:00", "09:15")

	zone := models.Geofence{
		FacultyID: facultyID, Name: "Office", IsActive: true,
		CenterLat: 0, CenterLng: 0, RadiusMeters: 100,
		MaxAccuracyMeters: 50, MaxLocationAgeSeconds: 60,
	}
	if err := database.DB.Create(&zone).Error; err != nil {
		t.Fatalf("failed to create zone: %v", err)
	}

	now := time.Now()

	// No sample at all: location is required.
	_, _, err := BookSlot(bookingInput(facultyID, topicID, "a@university.edu"), now)
	if !errors.Is(err, ErrLocationRequired) {
		t.Fatalf("got %v, want ErrLocationRequired", err)
	}

	// Far away with tight accuracy: outside the zone.
	input := bookingInput(facultyID, topicID, "a@university.edu")
	far := freshSample(latOffsetForMeters(500), 0, 10, now)
	input.Location = &far
	_, _, err = BookSlot(input, now)
	if !errors.Is(err, ErrOutsideZone) {
		t.Fatalf("got %v, want ErrOutsideZone", err)
	}

	// Inside: booking goes through and the check is recorded.
	inside := freshSample(latOffsetForMeters(20), 0, 10, now)
	input.Location = &inside
	appointment, verification, err := BookSlot(input, now)
	if err != nil {
		t.Fatalf("BookSlot inside zone: %v", err)
	}
	if !verification.Verified {
		t.Error("expected verified result")
	}
	if !appointment.LocationVerified {
		t.Error("appointment must record the verified location check")
	}
}
