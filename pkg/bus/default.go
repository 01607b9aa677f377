package bus

import "github.com/rs/zerolog"

// Default is the process-wide bus used by the package-level functions. Code
// that wants isolated lifetimes (tests, embedders running several independent
// event domains) should construct its own Bus with New instead.
var Default = New()

// Subscribe registers handle for category t on the Default bus.
func Subscribe(t Type, handle Observer) { Default.Subscribe(t, handle) }

// Unsubscribe removes handle from category t on the Default bus.
func Unsubscribe(t Type, handle Observer) { Default.Unsubscribe(t, handle) }

// Publish delivers e to subscribers of its category on the Default bus.
func Publish(e Event) { Default.Publish(e) }

// SetLogger installs a structured logger for Default bus diagnostics.
func SetLogger(l zerolog.Logger) { Default.SetLogger(l) }
