package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func subscribers(h *Hub) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestServeDeliversAndUnregistersOnClose(t *testing.T) {
	h := NewHub(zap.NewNop(), 4)
	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	waitFor(t, "subscription", func() bool { return subscribers(h) == 1 })

	h.Publish(Event{Kind: "created", AlertID: "a1"})
	var evt Event
	if err := wsjson.Read(ctx, conn, &evt); err != nil {
		t.Fatalf("read: %v", err)
	}
	if evt.Kind != "created" || evt.AlertID != "a1" {
		t.Fatalf("got event %+v", evt)
	}

	// A clean client close must unwind Serve and drop the hub registration
	// without waiting for the next published event.
	conn.Close(websocket.StatusNormalClosure, "")
	waitFor(t, "unsubscribe", func() bool { return subscribers(h) == 0 })
}

func TestPublishSkipsFullBuffers(t *testing.T) {
	h := NewHub(zap.NewNop(), 1)
	ch := h.subscribe()
	defer h.unsubscribe(ch)

	h.Publish(Event{Kind: "created", AlertID: "a1"})
	h.Publish(Event{Kind: "created", AlertID: "a2"})

	if got := len(ch); got != 1 {
		t.Fatalf("buffered %d events, want 1", got)
	}
}
