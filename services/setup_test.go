package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiprotich-dev/faculty_meet/database"
	"github.com/kiprotich-dev/faculty_meet/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB points the global handle at a fresh in-memory database.
// A single open connection keeps every in-memory query on the same
// database and serializes concurrent writers the way a real server's
// store would arbitrate them.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction:                   true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Faculty{},
		&models.Topic{},
		&models.AvailabilityDay{},
		&models.AvailabilityWindow{},
		&models.Slot{},
		&models.Appointment{},
		&models.Geofence{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	database.DB = db
	return db
}

func seedFaculty(t *testing.T, slotDuration *int) uuid.UUID {
	t.Helper()

	user := models.User{
		FullName: "Dr. Test Faculty",
		Email:    "faculty-" + uuid.NewString() + "@university.edu",
		Password: "x",
		Role:     "faculty",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed faculty user: %v", err)
	}

	faculty := models.Faculty{
		UserID:              user.ID,
		Status:              "active",
		SlotDurationMinutes: slotDuration,
	}
	if err := database.DB.Create(&faculty).Error; err != nil {
		t.Fatalf("failed to seed faculty profile: %v", err)
	}
	return user.ID
}

func seedTopic(t *testing.T, facultyID uuid.UUID) uuid.UUID {
	t.Helper()

	topic := models.Topic{FacultyID: facultyID, Name: "Project consultation", IsActive: true}
	if err := database.DB.Create(&topic).Error; err != nil {
		t.Fatalf("failed to seed topic: %v", err)
	}
	return topic.ID
}

func seedTemplateDay(t *testing.T, facultyID uuid.UUID, weekday int, windows [][2]string) {
	t.Helper()

	day := models.AvailabilityDay{FacultyID: facultyID, Weekday: weekday, Active: true}
	if err := database.DB.Create(&day).Error; err != nil {
		t.Fatalf("failed to seed availability day: %v", err)
	}
	for _, window := range windows {
		w := models.AvailabilityWindow{
			AvailabilityDayID: day.ID,
			StartTime:         window[0],
			EndTime:           window[1],
		}
		if err := database.DB.Create(&w).Error; err != nil {
			t.Fatalf("failed to seed availability window: %v", err)
		}
	}
}

func seedSlot(t *testing.T, facultyID uuid.UUID, date, start, end string) models.Slot {
	t.Helper()

	slot := models.Slot{
		FacultyID: facultyID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    models.SlotStatusAvailable,
	}
	if err := database.DB.Create(&slot).Error; err != nil {
		t.Fatalf("failed to seed slot: %v", err)
	}
	return slot
}

func reloadSlot(t *testing.T, id uuid.UUID) models.Slot {
	t.Helper()

	var slot models.Slot
	if err := database.DB.First(&slot, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload slot %s: %v", id, err)
	}
	return slot
}

func reloadAppointment(t *testing.T, id uuid.UUID) models.Appointment {
	t.Helper()

	var appointment models.Appointment
	if err := database.DB.First(&appointment, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload appointment %s: %v", id, err)
	}
	return appointment
}

func intPtr(v int) *int { return &v }

// waitNotifications gives fire-and-forget notification goroutines a
// moment to finish against the test database before it is replaced.
func waitNotifications() { time.Sleep(10 * time.Millisecond) }
