package event

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MrJamesThe3rd/innledger/internal/auth"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Callers authenticate with the token query parameter.
	CheckOrigin: func(*http.Request) bool { return true },
}

// client relays one topic subscription to a websocket connection.
type client struct {
	conn        *websocket.Conn
	events      <-chan Event
	unsubscribe func()
}

// readPump only watches for the peer going away.
func (c *client) readPump() {
	defer func() {
		c.unsubscribe()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read failed", "error", err)
			}

			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.events:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			msg, err := json.Marshal(ev)
			if err != nil {
				slog.Error("failed to encode event", "topic", ev.Type, "error", err)
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// ServeWS upgrades the request and streams events of the topic named in the
// "topic" query parameter (default ledger.posted). The caller authenticates with
// the "token" query parameter.
func ServeWS(hub *Hub, secret string, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	token := q.Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	if _, err := auth.ValidateToken(secret, token); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	topic := TopicLedgerPosted
	if raw := q.Get("topic"); raw != "" {
		topic = Topic(raw)
	}

	if !topic.Valid() {
		http.Error(w, "unknown topic", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	events, unsubscribe := hub.Subscribe(topic)

	c := &client{conn: conn, events: events, unsubscribe: unsubscribe}

	go c.writePump()
	go c.readPump()
}
