package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kiprotich-dev/faculty_meet/handlers"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/faculties", handlers.ListFaculties)
	api.Get("/faculties/:facultyId/topics", handlers.GetFacultyTopics)
	api.Get("/faculties/:facultyId/slots", handlers.GetFacultySlots)
	api.Post("/geofence/verify", handlers.VerifyLocation)
}
