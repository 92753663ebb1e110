// Package ws bridges the notification bus onto dashboard WebSocket
// connections. Each connection owns one bus subscription; dropping the
// connection tears down only that subscription and never touches other
// subscribers or in-flight mutations.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"netcontrol/internal/bootstrap/logging"
	"netcontrol/internal/errs"
	"netcontrol/internal/infrastructure/bus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	chatRoom = "chat"
)

type Handler struct {
	bus      bus.Bus
	upgrader websocket.Upgrader
}

func NewHandler(b bus.Bus) *Handler {
	return &Handler{
		bus: b,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logCtx := logging.WithAttrs(r.Context(), slog.String("component", "transport.ws"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(logCtx, "websocket upgrade failed", slog.Any("err", errs.Loggable(err)))
		return
	}

	sub := h.bus.Subscribe(256)
	c := &client{
		conn: conn,
		sub:  sub,
		bus:  h.bus,
		name: r.URL.Query().Get("name"),
	}
	if c.name == "" {
		c.name = "operator"
	}

	go c.writePump()
	c.readPump(logCtx)
}

// inboundMessage is what a dashboard sends upstream: room membership
// changes and chat text. Everything else arrives over HTTP.
type inboundMessage struct {
	Action string `json:"action"`
	Room   string `json:"room"`
	Msg    string `json:"msg"`
}

type client struct {
	conn *websocket.Conn
	sub  *bus.Subscription
	bus  bus.Bus
	name string
}

// readPump consumes membership and chat messages until the connection
// drops, then releases the subscription.
func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.sub.Close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg inboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn(ctx, "websocket closed unexpectedly", slog.Any("err", errs.Loggable(err)))
			}
			return
		}

		room := msg.Room
		if room == "" {
			room = chatRoom
		}

		switch msg.Action {
		case "joined":
			c.sub.Join(room)
			c.announce(ctx, "status", room, c.name+" has entered the room.")
		case "left":
			c.sub.Leave(room)
			c.announce(ctx, "status", room, c.name+" has left the room.")
		case "text":
			c.announce(ctx, "message", room, c.name+": "+msg.Msg)
		}
	}
}

// writePump serializes bus deliveries onto the socket and keeps the
// connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.sub.Events():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) announce(ctx context.Context, eventType, room, text string) {
	err := c.bus.Publish(ctx, busEvent(eventType, room, text))
	if err != nil {
		logging.Warn(ctx, "chat publish failed", slog.Any("err", errs.Loggable(err)))
	}
}
