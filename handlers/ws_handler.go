package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	ws "github.com/kiprotich-dev/faculty_meet/websocket"
)

// WebSocketUpgrade gates the upgrade and stashes the faculty id for the
// connection handler.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("faculty_id", currentUserID(c))
	return c.Next()
}

// FacultyDashboardSocket registers the connection with the event hub and
// holds it open until the client goes away. Events are pushed by the hub;
// inbound frames are only read to detect disconnects.
func FacultyDashboardSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		facultyID := conn.Locals("faculty_id").(uuid.UUID)

		client := &ws.Client{FacultyID: facultyID, Conn: conn}
		ws.Register <- client
		defer func() {
			ws.Unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
