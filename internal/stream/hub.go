// Package stream pushes alert change events to connected dashboards over a
// websocket so open pages refresh without polling.
package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type Event struct {
	Kind    string `json:"kind"` // created | updated | deleted
	AlertID string `json:"alert_id"`
}

type Hub struct {
	Logger     *zap.Logger
	BufferSize int

	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewHub(logger *zap.Logger, bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Hub{
		Logger:     logger,
		BufferSize: bufferSize,
		subs:       map[chan Event]struct{}{},
	}
}

// Publish fans the event out to every subscriber. A subscriber whose buffer
// is full is skipped; it will catch up on its next full reload.
func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (h *Hub) subscribe() chan Event {
	ch := make(chan Event, h.BufferSize)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan Event) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// Serve upgrades the request and streams events until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Debug("ws accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	// The hub never expects inbound data; CloseRead keeps control frames
	// processed and cancels the context when the peer goes away.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-ch:
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, conn, evt)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
