package hub

import (
	"sync"
	"sync/atomic"
	"time"

	"eventhub/pkg/bus"
)

// Subscription is the bus observer backing one remote subscriber. Events are
// handed over through a buffered channel with a non-blocking send: when the
// buffer is full the event is dropped and counted, keeping the synchronous
// bus fan-out decoupled from reader speed.
//
// Subscription implements bus.Observer and bus.Lifecycle. The Hub, as its
// owner, calls OnInit on attach and OnDestroy on detach; the bus never does.
type Subscription struct {
	id       string
	category bus.Type
	ch       chan Message
	done     chan struct{}

	delivered  atomic.Uint64
	dropped    atomic.Uint64
	attachedAt time.Time

	closeOnce sync.Once
}

// ID returns the subscription's opaque identifier.
func (s *Subscription) ID() string { return s.id }

// Category returns the category this subscription is attached to.
func (s *Subscription) Category() bus.Type { return s.category }

// Events returns the channel events are delivered on. The channel is never
// closed; readers should select on Done as well.
func (s *Subscription) Events() <-chan Message { return s.ch }

// Done is closed when the subscription has been detached.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// OnNotify implements bus.Observer.
func (s *Subscription) OnNotify(e bus.Event) {
	msg, ok := e.(Message)
	if !ok {
		// Locally published event types are not forwarded to remote readers.
		return
	}
	select {
	case s.ch <- msg:
		s.delivered.Add(1)
	default:
		s.dropped.Add(1)
		subscriptionDropsTotal.WithLabelValues(string(s.category)).Inc()
	}
}

// OnInit implements bus.Lifecycle.
func (s *Subscription) OnInit() { s.attachedAt = time.Now() }

// OnDestroy implements bus.Lifecycle. Closing done tells readers the
// subscription is gone; the event channel itself stays open because a fan-out
// snapshotted before the detach may still deliver into it.
func (s *Subscription) OnDestroy() {
	s.closeOnce.Do(func() { close(s.done) })
}
