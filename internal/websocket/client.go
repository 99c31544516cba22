package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"dogwalk-tracker/internal/models"
	"dogwalk-tracker/internal/tracking"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 2048
)

// Client represents a WebSocket client connection
type Client struct {
	ID   string
	conn *websocket.Conn
	hub  *Hub
	send chan []byte
}

// IncomingMessage represents a message from the page
type IncomingMessage struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type geolocationErrorData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type visibilityData struct {
	Visible bool `json:"visible"`
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   uuid.New().String(),
		conn: conn,
		hub:  hub,
		send: make(chan []byte, 256),
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		c.hub.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Invalid message format: %v", err)
			continue
		}

		c.handle(msg)
	}
}

func (c *Client) handle(msg IncomingMessage) {
	fixes, visibility := c.hub.sinks()

	switch msg.Type {
	case "ping":
		response, _ := json.Marshal(Envelope{
			Type:      "pong",
			Timestamp: time.Now().Format(time.RFC3339),
		})
		select {
		case c.send <- response:
		default:
		}

	case "fix":
		var fix models.Fix
		if err := json.Unmarshal(msg.Data, &fix); err != nil {
			log.Printf("❌ Invalid fix payload: %v", err)
			return
		}
		if fixes != nil {
			fixes.Publish(fix)
		}

	case "geolocation_error":
		var data geolocationErrorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			log.Printf("❌ Invalid geolocation_error payload: %v", err)
			return
		}
		if fixes != nil {
			fixes.ReportError(tracking.GeolocationError(data.Code, data.Message))
		}

	case "visibility":
		var data visibilityData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			log.Printf("❌ Invalid visibility payload: %v", err)
			return
		}
		if visibility != nil {
			visibility.SetVisibility(context.Background(), data.Visible)
		}

	default:
		log.Printf("⚠️  Unknown message type: %s", msg.Type)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
