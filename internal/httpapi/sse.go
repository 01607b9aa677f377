package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"eventhub/internal/hub"
	"eventhub/pkg/bus"
)

// serveEvents streams one category's events as Server-Sent Events. The
// subscription is attached when the client connects and detached when it
// goes away, so a dropped connection cannot leak a registry entry.
func serveEvents(svc Service, w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		writeJSONError(w, http.StatusBadRequest, "category query parameter is required")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub, err := svc.Attach(bus.Type(category), parseBuffer(r))
	if err != nil {
		if hub.IsInvalidCategory(err) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer func() {
		if err := svc.Detach(sub.ID()); err != nil && !hub.IsSubscriptionNotFound(err) {
			if zlog != nil {
				zlog.Warn().Err(err).Str("subscription", sub.ID()).Msg("detach failed")
			} else {
				log.Printf("detach %s failed: %v", sub.ID(), err)
			}
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Announce the subscription id so clients can correlate with /stats.
	fmt.Fprintf(w, "event: subscribed\ndata: %q\n\n", sub.ID())
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sub.Done():
			return
		case msg := <-sub.Events():
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Tag, data)
			flusher.Flush()
		}
	}
}
