// Package types holds the JSON payload types shared by the HTTP API and its
// clients.
package types

import "encoding/json"

// PublishRequest is the body of POST /publish.
type PublishRequest struct {
	// Event category the payload is published under.
	// example: Damage
	Category string `json:"category"`
	// Opaque JSON payload handed to every subscriber of the category.
	// example: {"amount":10}
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PublishResponse reports the fan-out size of a publish.
type PublishResponse struct {
	// Number of subscribers the category had at publish time.
	// example: 2
	Delivered int `json:"delivered"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
