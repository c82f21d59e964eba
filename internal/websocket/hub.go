package websocket

import (
	"encoding/json"
	"sync"
)

// TransactionEvent is pushed to every connected dashboard after a
// transaction commits.
type TransactionEvent struct {
	Type          string `json:"type"`
	TransactionID int64  `json:"transaction_id"`
	CashBoxID     int64  `json:"cashbox_id"`
	CashBoxName   string `json:"cashbox_name"`
	CustomerName  string `json:"customer_name"`
	Direction     string `json:"direction"`
	Amount        string `json:"amount"`
	CurrencyCode  string `json:"currency_code"`
	Balance       string `json:"balance"`
}

// Hub fans transaction events out to all connected clients. The office
// dashboard is shared, so there is no per-user routing.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) BroadcastTransaction(event TransactionEvent) {
	event.Type = "transaction_created"
	payload, _ := json.Marshal(event)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
		}
	}
}
