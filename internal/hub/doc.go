// Package hub adapts the synchronous bus to remote embedders. It owns a
// bus.Bus, turns HTTP publishes into bus events, and bridges bus fan-out into
// per-subscription buffered channels so a slow remote reader can never stall
// the publishing goroutine.
//
//   - hub.go: core Hub type, Publish/Attach/Detach/Stats/Close.
//   - subscription.go: Subscription observer with its delivery channel.
//   - errors.go: error types and Is* helpers for HTTP status mapping.
package hub
