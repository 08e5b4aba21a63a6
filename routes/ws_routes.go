package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kiprotich-dev/faculty_meet/handlers"
	"github.com/kiprotich-dev/faculty_meet/middleware"
)

func WebSocketRoutes(app *fiber.App) {
	app.Use("/ws/faculty", middleware.Protected(), middleware.FacultyRequired(), handlers.WebSocketUpgrade)
	app.Get("/ws/faculty", handlers.FacultyDashboardSocket())
}
