package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kiprotich-dev/faculty_meet/handlers"
	"github.com/kiprotich-dev/faculty_meet/middleware"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", handlers.GetMyBookings)
	booking.Post("", handlers.CreateBooking)
	booking.Put("/:appointmentId/cancel", handlers.CancelMyBooking)
}
