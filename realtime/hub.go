package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type EventType string

const (
	ReportCreated EventType = "report_created"
	ReportUpdated EventType = "report_updated"
)

// Event is one report change pushed to subscribed clients. ReporterEmail and
// AssignedTo are routing metadata for filter matching and are not serialized.
type Event struct {
	Type   EventType   `json:"type"`
	Report interface{} `json:"report"`

	ReporterEmail string `json:"-"`
	AssignedTo    string `json:"-"`
}

// Filter selects which report events a client receives. Admins and government
// users watch everything; technicians watch their queue; public users watch
// reports they submitted.
type Filter struct {
	All           bool
	ReporterEmail string
	AssignedTo    string
}

func (f Filter) Matches(ev Event) bool {
	if f.All {
		return true
	}
	if f.ReporterEmail != "" && f.ReporterEmail == ev.ReporterEmail {
		return true
	}
	if f.AssignedTo != "" && f.AssignedTo == ev.AssignedTo {
		return true
	}
	return false
}

type Client struct {
	UserID string
	Filter Filter
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
}

type Hub struct {
	Clients    map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

var GlobalHub *Hub

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	log.Println("WebSocket hub started")

	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = struct{}{}
			h.mu.Unlock()
			log.Printf("User %s connected (Total: %d)", client.UserID, len(h.Clients))

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				log.Printf("User %s disconnected (Total: %d)", client.UserID, len(h.Clients))
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast delivers the event to every client whose filter matches. Slow
// clients are skipped rather than blocked on.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.Clients {
		if !client.Filter.Matches(ev) {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.Printf("Failed to send to user %s", client.UserID)
		}
	}
}

// SendToUsers delivers an arbitrary message to specific users, regardless of
// their filters. Used for notification pushes.
func (h *Hub) SendToUsers(userIDs []string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}

	targets := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		targets[id] = true
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.Clients {
		if !targets[client.UserID] {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.Printf("Failed to send to user %s", client.UserID)
		}
	}
}

func InitHub() {
	GlobalHub = NewHub()
	go GlobalHub.Run()
}
