package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EventType defines the SSE event name.
type EventType string

const (
	EventOrderCreated        EventType = "order.created"
	EventOrderStatusChanged  EventType = "order.status_changed"
	EventOrderPaymentChanged EventType = "order.payment_changed"
	EventInventoryUpdated    EventType = "inventory.updated"
)

// StoreEvent is the payload broadcast to a store's dashboard clients.
type StoreEvent struct {
	Event         EventType `json:"event"`
	StoreID       string    `json:"storeId"`
	OrderID       string    `json:"orderId,omitempty"`
	Status        string    `json:"status,omitempty"`
	PaymentStatus string    `json:"paymentStatus,omitempty"`
	TotalAmount   *float64  `json:"totalAmount,omitempty"`
	InventoryID   string    `json:"inventoryId,omitempty"`
	Quantity      *float64  `json:"quantity,omitempty"`
	IsLowStock    *bool     `json:"isLowStock,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Client represents a connected dashboard client of one store.
type Client struct {
	ID      string
	StoreID string
	Events  chan []byte
}

// Hub manages SSE client connections and broadcasts.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client for storeID and returns it for streaming.
func (h *Hub) Register(clientID, storeID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		ID:      clientID,
		StoreID: storeID,
		Events:  make(chan []byte, 64),
	}
	h.clients[clientID] = c
	log.Info().Str("client_id", clientID).Str("store_id", storeID).Int("total_clients", len(h.clients)).Msg("SSE client connected")
	return c
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// Broadcast sends an event to the clients of event.StoreID.
// Non-blocking: drops message if client buffer is full.
func (h *Hub) Broadcast(event *StoreEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if c.StoreID != event.StoreID {
			continue
		}
		select {
		case c.Events <- data:
		default:
			log.Warn().Str("client_id", c.ID).Msg("SSE client buffer full, dropping event")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
