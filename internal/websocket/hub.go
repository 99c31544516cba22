package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"dogwalk-tracker/internal/models"
)

// FixSink receives fixes and geolocation failures reported by the page
type FixSink interface {
	Publish(fix models.Fix) int
	ReportError(err error)
}

// VisibilityListener is told when the page is hidden or shown
type VisibilityListener interface {
	SetVisibility(ctx context.Context, visible bool) models.TrackSnapshot
}

// Hub maintains active WebSocket connections and broadcasts state pushes
type Hub struct {
	// Registered clients (client ID -> Client)
	clients map[string]*Client

	// Outbound messages for every client
	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	fixes      FixSink
	visibility VisibilityListener

	mu sync.RWMutex
}

// Envelope is the shape of every pushed message
type Envelope struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Attach sets where inbound fixes and visibility changes go. Call before Run.
func (h *Hub) Attach(fixes FixSink, visibility VisibilityListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fixes = fixes
	h.visibility = visibility
}

func (h *Hub) sinks() (FixSink, VisibilityListener) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.fixes, h.visibility
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Printf("✅ [WEBSOCKET] Client CONNECTED")
			log.Printf("   Client ID: %s", client.ID)
			log.Printf("   Total connected clients: %d", total)
			log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
				log.Printf("🔴 [WEBSOCKET] Client DISCONNECTED")
				log.Printf("   Client ID: %s", client.ID)
				log.Printf("   Remaining connected clients: %d", len(h.clients))
				log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client buffer full, disconnect
					close(client.send)
					delete(h.clients, id)
					log.Printf("⚠️ Client buffer full, disconnecting: %s", id)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) addClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) removeClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues an event for every connected client. It never blocks: when
// the queue is full the event is dropped.
func (h *Hub) Publish(eventType string, data interface{}) {
	payload, err := json.Marshal(Envelope{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("❌ Failed to marshal %s message: %v", eventType, err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		log.Printf("⚠️ Broadcast queue full, dropping %s message", eventType)
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetStats reports hub state for diagnostics
func (h *Hub) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"clients":         h.GetClientCount(),
		"queued_messages": len(h.broadcast),
	}
}
