package bus

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Type identifies an event category. Tags are plain strings so embedders can
// declare them as constants next to their event definitions.
type Type string

// Event is a value routed by the bus. Category must be a pure function of the
// event definition: every value of one logical event kind returns the same
// tag. The bus never retains a published event; it is only guaranteed valid
// for the duration of the Publish call.
type Event interface {
	Category() Type
}

// Observer receives events for the categories it is subscribed to. The
// observer value doubles as its registry handle and is compared with ==, so
// subscribe a comparable value (a pointer, typically) and pass the same one to
// Unsubscribe. The bus holds a non-owning reference: it never keeps an
// observer alive, and the owner must unsubscribe before discarding it.
type Observer interface {
	OnNotify(Event)
}

// Lifecycle is an optional companion to Observer. The component that owns an
// observer calls OnInit when it creates it and OnDestroy when it tears it
// down. The bus itself never invokes either hook.
type Lifecycle interface {
	OnInit()
	OnDestroy()
}

type funcObserver struct {
	fn func(Event)
}

func (o *funcObserver) OnNotify(e Event) { o.fn(e) }

// ObserverFunc adapts a function to the Observer interface. Every call
// allocates a distinct handle; keep the returned value if you need to
// unsubscribe it later.
func ObserverFunc(fn func(Event)) Observer { return &funcObserver{fn: fn} }

// Bus routes published events to the observers subscribed to their category.
// All methods are safe for concurrent use. The zero value is ready to use.
//
// The registry is demand-driven: the category map is allocated on the first
// Subscribe and released again once the last subscriber detaches, so an idle
// bus holds no memory.
type Bus struct {
	mu        sync.RWMutex
	observers map[Type][]Observer // nil while no subscriptions are outstanding
	log       *zerolog.Logger     // nil disables diagnostics
}

// Option configures a Bus created by New.
type Option func(*Bus)

// WithLogger installs a structured logger for bus diagnostics (duplicate
// subscribes, unsubscribes of unknown handles). Diagnostics are off by
// default.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Bus) { b.log = &l }
}

// New constructs a Bus.
func New(opts ...Option) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetLogger installs a structured logger used for bus diagnostics.
func (b *Bus) SetLogger(l zerolog.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = &l
}

// Subscribe registers handle for events of category t, appending it to the
// end of the category's list so notification order matches registration
// order. Subscribing a handle that is already present is a no-op: it almost
// always means an Unsubscribe was missed elsewhere, so it is logged at warn
// level rather than silently doubling deliveries.
func (b *Bus) Subscribe(t Type, handle Observer) {
	if handle == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.observers == nil {
		b.observers = make(map[Type][]Observer)
	}
	list := b.observers[t]
	for _, o := range list {
		if o == handle {
			duplicateSubscribesTotal.Inc()
			if b.log != nil {
				b.log.Warn().Str("category", string(t)).Msg("observer already subscribed; missed an Unsubscribe?")
			}
			return
		}
	}
	b.observers[t] = append(list, handle)
	subscriberGauge.WithLabelValues(string(t)).Inc()
}

// Unsubscribe removes handle from category t. It is safe to call at any time:
// an unknown handle or a bus with no subscriptions at all is a logged no-op,
// never an error. Removing the last subscriber of a category drops the
// category entry, and removing the last subscription on the bus releases the
// registry entirely.
func (b *Bus) Unsubscribe(t Type, handle Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.observers == nil {
		missedUnsubscribesTotal.Inc()
		if b.log != nil {
			b.log.Warn().Str("category", string(t)).Msg("unsubscribe on an empty registry")
		}
		return
	}
	list := b.observers[t]
	idx := -1
	for i, o := range list {
		if o == handle {
			idx = i
			break
		}
	}
	if idx < 0 {
		missedUnsubscribesTotal.Inc()
		if b.log != nil {
			b.log.Warn().Str("category", string(t)).Msg("observer not subscribed to category; possible leak")
		}
		return
	}
	b.observers[t] = append(list[:idx], list[idx+1:]...)
	subscriberGauge.WithLabelValues(string(t)).Dec()
	if len(b.observers[t]) == 0 {
		delete(b.observers, t)
		subscriberGauge.DeleteLabelValues(string(t))
	}
	if len(b.observers) == 0 {
		// Last subscription gone: return to the uninitialized state so an
		// idle bus costs nothing.
		b.observers = nil
	}
}

// Publish delivers e to every observer of its category, synchronously and in
// registration order. Publishing with no matching subscribers is a no-op.
//
// Fan-out iterates a snapshot of the subscriber list, so observers may call
// Subscribe or Unsubscribe from inside OnNotify; such changes take effect on
// the next Publish, not the one in flight.
func (b *Bus) Publish(e Event) {
	if e == nil {
		return
	}
	t := e.Category()
	b.mu.RLock()
	list := b.observers[t]
	if len(list) == 0 {
		b.mu.RUnlock()
		droppedPublishesTotal.Inc()
		return
	}
	snapshot := make([]Observer, len(list))
	copy(snapshot, list)
	b.mu.RUnlock()

	publishesTotal.WithLabelValues(string(t)).Inc()
	for _, o := range snapshot {
		b.notify(o, e)
	}
}

// notify delivers one event and keeps a panicking observer from aborting the
// rest of the fan-out.
func (b *Bus) notify(o Observer, e Event) {
	defer func() {
		if r := recover(); r != nil {
			observerPanicsTotal.Inc()
			b.mu.RLock()
			log := b.log
			b.mu.RUnlock()
			if log != nil {
				log.Error().Str("category", string(e.Category())).Interface("panic", r).Msg("observer panicked during notify")
			}
		}
	}()
	o.OnNotify(e)
	deliveriesTotal.WithLabelValues(string(e.Category())).Inc()
}

// Active reports whether the bus holds any subscriptions at all.
func (b *Bus) Active() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.observers != nil
}

// Subscribers returns the number of observers subscribed to category t.
func (b *Bus) Subscribers(t Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.observers[t])
}

// Categories returns the categories with at least one subscriber, sorted for
// stable output.
func (b *Bus) Categories() []Type {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.observers) == 0 {
		return nil
	}
	out := make([]Type, 0, len(b.observers))
	for t := range b.observers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
