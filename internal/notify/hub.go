// Package notify delivers workflow events to connected admin dashboards.
// Dispatch is strictly post-commit and best effort: the workflow transaction
// has already committed by the time anything here runs, so a dispatch outage
// can neither block nor roll back an inventory or rack change.
package notify

import (
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Hub maintains the set of active dashboard clients and broadcasts events
type Hub struct {
	// Registered clients map: session ID -> Client
	clients map[string]*Client

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Broadcast payloads fanned out to all clients
	broadcast chan []byte

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.SessionID]; ok {
				close(old.send)
				delete(h.clients, client.SessionID)
			}
			h.clients[client.SessionID] = client
			h.mu.Unlock()
			log.WithField("session", client.SessionID).Debug("dashboard connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.SessionID]; ok {
				delete(h.clients, client.SessionID)
				close(client.send)
			}
			h.mu.Unlock()
			log.WithField("session", client.SessionID).Debug("dashboard disconnected")

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full or client dead; drop, never block.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast fans an event out to every connected dashboard
func (h *Hub) Broadcast(event interface{}) {
	jsonMsg, err := json.Marshal(event)
	if err != nil {
		log.Warnf("Error marshaling event: %v", err)
		return
	}
	select {
	case h.broadcast <- jsonMsg:
	default:
		log.Warn("broadcast buffer full, dropping event")
	}
}
