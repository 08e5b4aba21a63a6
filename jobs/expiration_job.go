package jobs

import (
	"log"
	"time"

	"github.com/kiprotich-dev/faculty_meet/services"
)

// ExpirePendingAppointments is the cron body for the expiration sweep.
// Overlapping runs are harmless: every transition inside the sweep is a
// terminal, idempotent state change.
func ExpirePendingAppointments() {
	log.Println("Running job: ExpirePendingAppointments...")

	expired, err := services.SweepExpiredAppointments(time.Now())
	if err != nil {
		log.Printf("Error sweeping expired appointments: %v", err)
		return
	}

	if expired == 0 {
		log.Println("No expired pending appointments found.")
		return
	}

	log.Printf("Closed %d unanswered appointment(s) as no_response.", expired)
}
