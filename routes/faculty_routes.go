package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kiprotich-dev/faculty_meet/handlers"
	"github.com/kiprotich-dev/faculty_meet/middleware"
)

func FacultyRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	faculty := api.Group("/faculty", middleware.Protected(), middleware.FacultyRequired())

	profile := faculty.Group("/profile")
	profile.Get("/me", handlers.GetMyFacultyProfile)
	profile.Put("/me", handlers.UpdateMyFacultyProfile)

	availability := faculty.Group("/availability")
	availability.Get("", handlers.GetMyAvailability)
	availability.Put("", handlers.SetMyAvailability)

	appointments := faculty.Group("/appointments")
	appointments.Get("", handlers.GetFacultyAppointments)
	appointments.Get("/pending", handlers.GetPendingAppointments)
	appointments.Put("/:appointmentId/approve", handlers.ApproveAppointment)
	appointments.Put("/:appointmentId/reject", handlers.RejectAppointment)
	appointments.Put("/:appointmentId/cancel", handlers.CancelAppointmentByFaculty)

	geofences := faculty.Group("/geofences")
	geofences.Get("", handlers.GetMyGeofences)
	geofences.Post("", handlers.CreateGeofence)
	geofences.Put("/:geofenceId", handlers.UpdateGeofence)
	geofences.Delete("/:geofenceId", handlers.DeleteGeofence)
}
