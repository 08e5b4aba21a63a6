package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/kiprotich-dev/faculty_meet/models"
)

// Client is one faculty dashboard connection.
type Client struct {
	FacultyID uuid.UUID
	Conn      *websocket.Conn
}

// AppointmentEvent is pushed to the affected faculty's open dashboard
// connection on every lifecycle transition.
type AppointmentEvent struct {
	Type        string             `json:"type"`
	Appointment models.Appointment `json:"appointment"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex

var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Events = make(chan AppointmentEvent, 64)

// PublishAppointmentEvent queues an event for the hub. Drops the event
// rather than block a state transition when the hub is saturated.
func PublishAppointmentEvent(eventType string, appointment models.Appointment) {
	select {
	case Events <- AppointmentEvent{Type: eventType, Appointment: appointment}:
	default:
		log.Printf("Event hub full, dropping %s for appointment %s", eventType, appointment.ID)
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Faculty dashboard connected: %s", client.FacultyID)
			clientsMu.Lock()
			clients[client.FacultyID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Faculty dashboard disconnected: %s", client.FacultyID)
			clientsMu.Lock()
			if conn, ok := clients[client.FacultyID]; ok && conn == client.Conn {
				delete(clients, client.FacultyID)
			}
			clientsMu.Unlock()
		case event := <-Events:
			clientsMu.RLock()
			conn, ok := clients[event.Appointment.FacultyID]
			clientsMu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("Error pushing event to faculty %s: %v", event.Appointment.FacultyID, err)
				conn.Close()
				clientsMu.Lock()
				delete(clients, event.Appointment.FacultyID)
				clientsMu.Unlock()
			}
		}
	}
}
