package ws

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub fans events out to connected clients. Every client belongs to
// one tenant; an event published for a tenant reaches only that
// tenant's sockets.
type Hub struct {
	clients    map[*Client]bool
	publish    chan tenantMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

type tenantMessage struct {
	tenantID uuid.UUID
	payload  []byte
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		publish:    make(chan tenantMessage, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS connected | tenant=%s total_clients=%d", client.tenantID, total)
			}

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS disconnected | total_clients=%d", total)
			}

		case msg := <-h.publish:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				if c.tenantID == msg.tenantID {
					targets = append(targets, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- msg.payload:
				default:
					// Slow consumer; drop the connection, not the hub.
					h.unregister <- client
				}
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Publish is fire-and-forget: a full buffer drops the event with a
// log line rather than blocking the pipeline.
func (h *Hub) Publish(tenantID uuid.UUID, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.publish <- tenantMessage{tenantID: tenantID, payload: payload}:
	default:
		if h.logger != nil {
			h.logger.Printf("WS publish dropped | reason=buffer_full tenant=%s", tenantID)
		}
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
