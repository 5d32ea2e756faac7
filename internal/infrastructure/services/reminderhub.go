// Package services provides infrastructure services.
package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/orris-inc/subtrack/internal/infrastructure/pubsub"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = (pongWait * 9) / 10
	sendBuffer   = 32
)

// WSConn is a websocket client of the reminder hub.
type WSConn struct {
	ID          string
	UserSID     string
	Send        chan []byte
	ConnectedAt time.Time

	conn   *websocket.Conn
	closed atomic.Bool
}

// TrySend queues data for the client. Returns false if the client is gone or
// too slow to keep up.
func (c *WSConn) TrySend(data []byte) (sent bool) {
	if c.closed.Load() {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			sent = false
		}
	}()

	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *WSConn) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.Send)
	}
}

// ReminderHub pushes reminder events to connected websocket clients.
type ReminderHub struct {
	conns   map[string]*WSConn
	connsMu sync.RWMutex

	maxConnsPerUser int
	upgrader        websocket.Upgrader

	shutdown atomic.Bool
	logger   logger.Interface
}

type ReminderHubConfig struct {
	MaxConnsPerUser int // default 5
	AllowedOrigins  []string
}

func NewReminderHub(log logger.Interface, config *ReminderHubConfig) *ReminderHub {
	maxConns := 5
	var origins []string
	if config != nil {
		if config.MaxConnsPerUser > 0 {
			maxConns = config.MaxConnsPerUser
		}
		origins = config.AllowedOrigins
	}

	return &ReminderHub{
		conns:           make(map[string]*WSConn),
		maxConnsPerUser: maxConns,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
		logger: log,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(r *http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// ServeWS upgrades the request and blocks until the client disconnects.
func (h *ReminderHub) ServeWS(w http.ResponseWriter, r *http.Request, userSID string) {
	if h.shutdown.Load() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	if h.countUserConns(userSID) >= h.maxConnsPerUser {
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	c := &WSConn{
		ID:          uuid.NewString(),
		UserSID:     userSID,
		Send:        make(chan []byte, sendBuffer),
		ConnectedAt: time.Now(),
		conn:        ws,
	}
	h.register(c)
	defer h.unregister(c)

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *ReminderHub) register(c *WSConn) {
	h.connsMu.Lock()
	h.conns[c.ID] = c
	total := len(h.conns)
	h.connsMu.Unlock()

	h.logger.Infow("websocket client connected",
		"conn_id", c.ID,
		"user_sid", c.UserSID,
		"total", total,
	)
}

func (h *ReminderHub) unregister(c *WSConn) {
	h.connsMu.Lock()
	delete(h.conns, c.ID)
	h.connsMu.Unlock()
	c.Close()

	h.logger.Infow("websocket client disconnected", "conn_id", c.ID)
}

func (h *ReminderHub) countUserConns(userSID string) int {
	h.connsMu.RLock()
	defer h.connsMu.RUnlock()

	n := 0
	for _, c := range h.conns {
		if c.UserSID == userSID {
			n++
		}
	}
	return n
}

// readLoop only drains control frames; clients never send data.
func (h *ReminderHub) readLoop(c *WSConn) {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debugw("websocket read error", "conn_id", c.ID, "error", err)
			}
			return
		}
	}
}

func (h *ReminderHub) writeLoop(c *WSConn) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

// Broadcast sends the event to every connected client. Slow clients miss it.
func (h *ReminderHub) Broadcast(event pubsub.ReminderEvent) int {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("failed to marshal reminder event", "error", err)
		return 0
	}

	h.connsMu.RLock()
	targets := make([]*WSConn, 0, len(h.conns))
	for _, c := range h.conns {
		targets = append(targets, c)
	}
	h.connsMu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if c.TrySend(data) {
			delivered++
		} else {
			h.logger.Debugw("dropped reminder event for slow client", "conn_id", c.ID)
		}
	}
	return delivered
}

// HandleEvent adapts Broadcast to pubsub.ReminderEventHandler.
func (h *ReminderHub) HandleEvent(_ context.Context, event pubsub.ReminderEvent) {
	h.Broadcast(event)
}

func (h *ReminderHub) ConnCount() int {
	h.connsMu.RLock()
	defer h.connsMu.RUnlock()
	return len(h.conns)
}

// Shutdown closes every client. Safe to call more than once.
func (h *ReminderHub) Shutdown() {
	if !h.shutdown.CompareAndSwap(false, true) {
		return
	}

	h.connsMu.Lock()
	for _, c := range h.conns {
		c.Close()
	}
	h.conns = make(map[string]*WSConn)
	h.connsMu.Unlock()

	h.logger.Infow("reminder hub shutdown")
}
