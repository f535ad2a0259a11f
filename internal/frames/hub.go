// Package frames fans rendered overlay frames out to live subscribers.
package frames

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/scoreboard-overlay/internal/logging"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = pongWait * 9 / 10
	readLimit  = 512
)

// Frame is one rendered overlay document.
type Frame struct {
	Seq        uint64    `json:"seq"`
	StateSeq   uint64    `json:"state_seq"`
	RenderedAt time.Time `json:"rendered_at"`
	HTML       string    `json:"html"`
}

// Hub keeps the latest frame and a set of subscribers. Each subscriber holds
// at most one pending frame; a subscriber that falls behind only ever sees
// the newest frame, so Publish never blocks.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	subs   map[chan Frame]struct{}
	latest *Frame
	closed bool
}

// NewHub constructs an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subs: make(map[chan Frame]struct{}),
	}
}

// Publish records f as the latest frame and offers it to every subscriber.
func (h *Hub) Publish(f Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.latest = &f
	for ch := range h.subs {
		offer(ch, f)
	}
}

func offer(ch chan Frame, f Frame) {
	select {
	case ch <- f:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- f:
	default:
	}
}

// Latest returns the most recently published frame.
func (h *Hub) Latest() (Frame, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil {
		return Frame{}, false
	}
	return *h.latest, true
}

// Subscribe registers a subscriber. The latest frame, if any, is delivered
// first. The channel is closed by cancel or by Close.
func (h *Hub) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, 1)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if h.latest != nil {
		ch <- *h.latest
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber. Later publishes are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

// ServeHTTP upgrades the request to a WebSocket and streams frames as JSON
// messages until the client goes away. Anything the client sends is ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(h.logger, "websocket upgrade failed", "error", err)
		return
	}
	feed, cancel := h.Subscribe()
	defer cancel()
	defer conn.Close()

	logger := logging.FromContext(r.Context(), h.logger)
	logging.Debug(logger, "frame subscriber connected", slog.Int(logging.FieldCount, h.Subscribers()))

	gone := make(chan struct{})
	go h.drain(conn, gone)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-gone:
			logging.Debug(logger, "frame subscriber disconnected")
			return
		case f, ok := <-feed:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(f); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// drain reads and discards client messages so control frames are processed,
// and closes gone when the connection fails.
func (h *Hub) drain(conn *websocket.Conn, gone chan<- struct{}) {
	defer close(gone)
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
