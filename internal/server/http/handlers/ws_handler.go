package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lumenshop/storefront/internal/live"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// OrderFeedHandler streams order state changes over a websocket. Customers
// receive events for their own orders; admins receive all events.
type OrderFeedHandler struct {
	hub      *live.Hub
	users    UserProvider
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewOrderFeedHandler constructs OrderFeedHandler.
func NewOrderFeedHandler(hub *live.Hub, users UserProvider, logger *slog.Logger) *OrderFeedHandler {
	return &OrderFeedHandler{
		hub:    hub,
		users:  users,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Subscribe handles GET /api/user/orders/live.
func (h *OrderFeedHandler) Subscribe(c *gin.Context) {
	userID := CurrentUserID(c)
	user, err := h.users.User(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote an error response.
		return
	}

	sub := h.hub.Subscribe(userID, user.IsAdmin)
	go h.writePump(conn, sub)
	h.readPump(conn, sub)
}

func (h *OrderFeedHandler) writePump(conn *websocket.Conn, sub *live.Subscription) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug("order feed write failed", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pings are answered and a close frame ends
// the subscription.
func (h *OrderFeedHandler) readPump(conn *websocket.Conn, sub *live.Subscription) {
	defer func() {
		sub.Close()
		conn.Close()
	}()
	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
