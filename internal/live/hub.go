package live

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lumenshop/storefront/internal/domain/model"
)

// OrderEvent is the payload pushed to live subscribers whenever an order
// changes state. Subscribers always receive the latest state; there is no
// replay.
type OrderEvent struct {
	Number         string    `json:"number"`
	Status         string    `json:"status"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	Total          float64   `json:"total"`
	UpdatedAt      time.Time `json:"updated_at"`

	userID int64
}

// Subscription is one client's view of the order feed. Close must be called
// when the client disconnects.
type Subscription struct {
	C <-chan OrderEvent

	hub    *Hub
	client *client
	once   sync.Once
}

// Close detaches the subscription from the hub.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s.client)
	})
}

type client struct {
	userID int64
	admin  bool
	send   chan OrderEvent
}

// Hub fans order events out to websocket subscribers. Customers see their own
// orders; admins see everything. Slow consumers have events dropped rather
// than blocking publishers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
	logger  *slog.Logger
}

const subscriberBuffer = 16

// NewHub constructs an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{clients: make(map[*client]struct{}), logger: logger}
}

// Subscribe registers a listener for order events visible to userID.
func (h *Hub) Subscribe(userID int64, admin bool) *Subscription {
	c := &client{userID: userID, admin: admin, send: make(chan OrderEvent, subscriberBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c.send)
	} else {
		h.clients[c] = struct{}{}
	}
	return &Subscription{C: c.send, hub: h, client: c}
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// PublishOrder delivers the order's latest state to matching subscribers.
func (h *Hub) PublishOrder(order model.Order) {
	event := OrderEvent{
		Number:         order.Number,
		Status:         string(order.Status),
		TrackingNumber: order.TrackingNumber,
		Total:          order.Total,
		UpdatedAt:      order.UpdatedAt,
		userID:         order.UserID,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.admin && c.userID != event.userID {
			continue
		}
		select {
		case c.send <- event:
		default:
			h.logger.Warn("dropping order event for slow subscriber",
				slog.String("order", event.Number), slog.Int64("user", c.userID))
		}
	}
}

// CloseAll disconnects every subscriber, typically on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
