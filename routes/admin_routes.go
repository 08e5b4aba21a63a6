package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kiprotich-dev/faculty_meet/handlers"
	"github.com/kiprotich-dev/faculty_meet/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/appointments", handlers.ListAllAppointments)
	admin.Post("/faculties/promote", handlers.PromoteToFaculty)
	admin.Post("/expiration/sweep", handlers.TriggerSweep)
	admin.Post("/expiration/sweep/:appointmentId", handlers.TriggerSweepOne)
}
