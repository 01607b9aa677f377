package httpapi

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventhub/internal/hub"
)

func TestEventsStreamDeliversPublishedEvents(t *testing.T) {
	h := hub.New()
	t.Cleanup(func() { _ = h.Close() })
	srv := httptest.NewServer(NewMux(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events?category=Damage&buffer=4")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	if !readUntil(t, reader, "event: subscribed") {
		t.Fatalf("never saw the subscribed handshake")
	}

	preq, err := http.Post(srv.URL+"/publish", "application/json",
		strings.NewReader(`{"category":"Damage","payload":{"amount":10}}`))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	preq.Body.Close()

	if !readUntil(t, reader, `"amount":10`) {
		t.Fatalf("never received the published event")
	}
}

// readUntil scans SSE lines until one contains want, bounded by a deadline.
func readUntil(t *testing.T, reader *bufio.Reader, want string) bool {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				errs <- err
				return
			}
			lines <- line
		}
	}()
	for {
		select {
		case line := <-lines:
			if strings.Contains(line, want) {
				return true
			}
		case err := <-errs:
			t.Logf("stream ended: %v", err)
			return false
		case <-time.After(time.Until(deadline)):
			return false
		}
	}
}

func TestEventsStreamDetachesOnDisconnect(t *testing.T) {
	h := hub.New()
	t.Cleanup(func() { _ = h.Close() })
	srv := httptest.NewServer(NewMux(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events?category=Damage")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	reader := bufio.NewReader(resp.Body)
	if !readUntil(t, reader, "event: subscribed") {
		t.Fatalf("never saw the subscribed handshake")
	}
	if got := h.Bus().Subscribers("Damage"); got != 1 {
		t.Fatalf("expected 1 subscriber while connected, got %d", got)
	}

	resp.Body.Close()

	deadline := time.Now().Add(5 * time.Second)
	for h.Bus().Active() {
		if time.Now().After(deadline) {
			t.Fatalf("subscription leaked after client disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
