// Package feed pushes dashboard summaries to websocket subscribers.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/contractdesk/internal/dashboard"
	"github.com/wonny/contractdesk/pkg/logger"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 8
	refreshWait  = 15 * time.Second
)

// Message types
const (
	TypeSummary  = "summary"
	TypeExpiring = "expiring"
)

// Message is one frame sent to subscribers
type Message struct {
	Type   string    `json:"type"`
	SentAt time.Time `json:"sentAt"`
	Data   any       `json:"data"`
}

// Summarizer produces the summary pushed on every refresh
type Summarizer interface {
	Summary(ctx context.Context, q dashboard.Query) (*dashboard.Summary, error)
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks subscribers and fans messages out to them. A subscriber whose
// buffer is full is dropped rather than blocking the broadcast.
type Hub struct {
	upgrader websocket.Upgrader
	source   Summarizer
	logger   *logger.Logger

	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	closed      bool
}

// NewHub creates a hub that refreshes from source
func NewHub(source Summarizer, log *logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		source:      source,
		logger:      log.Component("feed"),
		subscribers: make(map[*subscriber]struct{}),
	}
}

// ServeHTTP upgrades the request and sends the current summary right away
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(sub) {
		_ = conn.Close()
		return
	}

	go h.writeLoop(sub)
	go h.readLoop(sub)

	if frame, err := h.summaryFrame(r.Context()); err == nil {
		h.deliver(sub, frame)
	} else {
		h.logger.WithError(err).Warn("initial summary failed")
	}
}

// Count returns the number of connected subscribers
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Broadcast sends msg to every subscriber
func (h *Hub) Broadcast(msg Message) {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	frame, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithError(err).Error("failed to encode feed message")
		return
	}

	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		h.deliver(sub, frame)
	}
}

// Refresh recomputes the default summary and broadcasts it
func (h *Hub) Refresh(ctx context.Context) error {
	if h.Count() == 0 {
		return nil
	}
	summary, err := h.source.Summary(ctx, dashboard.DefaultQuery())
	if err != nil {
		return err
	}
	h.Broadcast(Message{Type: TypeSummary, Data: summary})
	return nil
}

// Changed refreshes subscribers in the background after a write
func (h *Hub) Changed() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshWait)
		defer cancel()
		if err := h.Refresh(ctx); err != nil {
			h.logger.WithError(err).Warn("feed refresh failed")
		}
	}()
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for sub := range h.subscribers {
		close(sub.send)
		delete(h.subscribers, sub)
	}
}

func (h *Hub) summaryFrame(ctx context.Context) ([]byte, error) {
	summary, err := h.source.Summary(ctx, dashboard.DefaultQuery())
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: TypeSummary, SentAt: time.Now(), Data: summary})
}

func (h *Hub) register(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subscribers[sub] = struct{}{}
	h.logger.WithField("subscribers", len(h.subscribers)).Debug("subscriber joined")
	return true
}

// unregister closes sub.send exactly once
func (h *Hub) unregister(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub.send)
	}
}

func (h *Hub) deliver(sub *subscriber, frame []byte) {
	h.mu.RLock()
	_, ok := h.subscribers[sub]
	if ok {
		select {
		case sub.send <- frame:
			h.mu.RUnlock()
			return
		default:
		}
	}
	h.mu.RUnlock()

	if ok {
		h.logger.Warn("dropping slow subscriber")
		h.unregister(sub)
	}
}

func (h *Hub) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = sub.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.unregister(sub)
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(sub)
				return
			}
		}
	}
}

// readLoop only services control frames; subscribers never send data
func (h *Hub) readLoop(sub *subscriber) {
	defer h.unregister(sub)

	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}
