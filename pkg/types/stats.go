package types

import "time"

// Stats is the hub snapshot returned by GET /stats.
type Stats struct {
	// Subscriber count per active category.
	Categories map[string]int `json:"categories"`
	// One entry per live remote subscription.
	Subscriptions []SubscriptionStats `json:"subscriptions"`
}

// SubscriptionStats describes one remote subscription.
type SubscriptionStats struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Delivered  uint64    `json:"delivered"`
	Dropped    uint64    `json:"dropped"`
	AttachedAt time.Time `json:"attached_at"`
}
