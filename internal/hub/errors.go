package hub

// invalidCategoryError signals a publish or attach with an unusable category
// tag, for 400 mapping.
type invalidCategoryError struct{ category string }

func (e invalidCategoryError) Error() string { return "invalid category: " + e.category }

// IsInvalidCategory reports whether err indicates a bad category tag.
func IsInvalidCategory(err error) bool {
	_, ok := err.(invalidCategoryError)
	return ok
}

// subscriptionNotFoundError signals a detach for an unknown subscription id,
// for 404 mapping.
type subscriptionNotFoundError struct{ id string }

func (e subscriptionNotFoundError) Error() string { return "subscription not found: " + e.id }

// IsSubscriptionNotFound reports whether err indicates an unknown
// subscription id.
func IsSubscriptionNotFound(err error) bool {
	_, ok := err.(subscriptionNotFoundError)
	return ok
}
