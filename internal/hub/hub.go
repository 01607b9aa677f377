package hub

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"eventhub/pkg/bus"
	"eventhub/pkg/types"
)

// Message is the event type the hub publishes for remotely submitted events.
// The category is an explicit tag supplied at publish time; the payload is
// opaque JSON passed through untouched.
type Message struct {
	Tag        bus.Type        `json:"category"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
}

// Category implements bus.Event.
func (m Message) Category() bus.Type { return m.Tag }

// Defaults applied when corresponding Config fields are unset.
const defaultBuffer = 16

// Config encapsulates all tunables for Hub construction.
type Config struct {
	// Bus to publish on. A private bus is created when nil, which keeps test
	// hubs isolated from the process-wide Default bus.
	Bus *bus.Bus
	// Buffer is the per-subscription channel depth used when Attach is called
	// with a non-positive buffer.
	Buffer int
}

// Hub owns a bus and the set of remote subscriptions attached to it.
type Hub struct {
	mu     sync.Mutex
	bus    *bus.Bus
	subs   map[string]*Subscription
	buffer int
	log    *zerolog.Logger
}

// New constructs a Hub with default configuration.
func New() *Hub { return NewWithConfig(Config{}) }

// NewWithConfig constructs a Hub from Config.
func NewWithConfig(cfg Config) *Hub {
	h := &Hub{
		bus:    cfg.Bus,
		subs:   make(map[string]*Subscription),
		buffer: cfg.Buffer,
	}
	if h.bus == nil {
		h.bus = bus.New()
	}
	if h.buffer <= 0 {
		h.buffer = defaultBuffer
	}
	return h
}

// SetLogger installs a structured logger used by the hub and its bus.
func (h *Hub) SetLogger(l zerolog.Logger) {
	h.mu.Lock()
	h.log = &l
	h.mu.Unlock()
	h.bus.SetLogger(l)
}

// Bus exposes the underlying bus so in-process code can subscribe its own
// observers next to the remote ones.
func (h *Hub) Bus() *bus.Bus { return h.bus }

// Publish validates the category, publishes a Message on the bus and reports
// how many subscribers the category had at publish time.
func (h *Hub) Publish(category bus.Type, payload json.RawMessage) (int, error) {
	if strings.TrimSpace(string(category)) == "" {
		return 0, invalidCategoryError{category: string(category)}
	}
	n := h.bus.Subscribers(category)
	h.bus.Publish(Message{Tag: category, Payload: payload, ReceivedAt: time.Now()})
	return n, nil
}

// Attach creates a subscription for category with the given channel buffer
// (hub default when non-positive), runs its OnInit hook and subscribes it.
func (h *Hub) Attach(category bus.Type, buffer int) (*Subscription, error) {
	if strings.TrimSpace(string(category)) == "" {
		return nil, invalidCategoryError{category: string(category)}
	}
	if buffer <= 0 {
		buffer = h.buffer
	}
	s := &Subscription{
		id:       uuid.NewString(),
		category: category,
		ch:       make(chan Message, buffer),
		done:     make(chan struct{}),
	}
	s.OnInit()
	h.mu.Lock()
	h.subs[s.id] = s
	log := h.log
	h.mu.Unlock()
	h.bus.Subscribe(category, s)
	if log != nil {
		log.Info().Str("subscription", s.id).Str("category", string(category)).Int("buffer", buffer).Msg("subscription attached")
	}
	return s, nil
}

// Detach unsubscribes the subscription with the given id and runs its
// OnDestroy hook.
func (h *Hub) Detach(id string) error {
	h.mu.Lock()
	s, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	log := h.log
	h.mu.Unlock()
	if !ok {
		return subscriptionNotFoundError{id: id}
	}
	h.bus.Unsubscribe(s.category, s)
	s.OnDestroy()
	if log != nil {
		log.Info().Str("subscription", id).Str("category", string(s.category)).Msg("subscription detached")
	}
	return nil
}

// Stats snapshots subscriber counts per category and per-subscription
// delivery counters.
func (h *Hub) Stats() types.Stats {
	out := types.Stats{Categories: map[string]int{}}
	for _, t := range h.bus.Categories() {
		out.Categories[string(t)] = h.bus.Subscribers(t)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		out.Subscriptions = append(out.Subscriptions, types.SubscriptionStats{
			ID:         s.id,
			Category:   string(s.category),
			Delivered:  s.delivered.Load(),
			Dropped:    s.dropped.Load(),
			AttachedAt: s.attachedAt,
		})
	}
	sort.Slice(out.Subscriptions, func(i, j int) bool {
		return out.Subscriptions[i].ID < out.Subscriptions[j].ID
	})
	return out
}

// Close detaches every live subscription, aggregating any failures.
func (h *Hub) Close() error {
	h.mu.Lock()
	ids := make([]string, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	h.mu.Unlock()
	var result *multierror.Error
	for _, id := range ids {
		if err := h.Detach(id); err != nil && !IsSubscriptionNotFound(err) {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
