// Package bus implements a synchronous, category-keyed publish/subscribe
// dispatcher. Observers subscribe to a category tag; producers publish event
// values that carry their own tag; the bus delivers each event to every
// observer of its category, in registration order, on the publishing
// goroutine.
//
// The package is structured into small files by concern:
//
//   - bus.go: core types (Type, Event, Observer) and the Bus registry with
//     Subscribe/Unsubscribe/Publish.
//   - default.go: the process-wide Default bus and package-level wrappers.
//   - metrics.go: Prometheus collectors for publishes, deliveries and
//     subscriber counts.
//
// A minimal producer/consumer pair looks like:
//
//	const Damage = bus.Type("damage")
//
//	type DamageEvent struct{ Amount int }
//
//	func (DamageEvent) Category() bus.Type { return Damage }
//
//	obs := bus.ObserverFunc(func(e bus.Event) {
//	    fmt.Println("took", e.(DamageEvent).Amount)
//	})
//	b := bus.New()
//	b.Subscribe(Damage, obs)
//	b.Publish(DamageEvent{Amount: 10})
//	b.Unsubscribe(Damage, obs)
//
// Delivery is fire-and-forget: Publish has no return value and the bus does
// not collect per-observer results. An observer that panics is recovered and
// logged so the remaining observers still receive the event.
package bus
