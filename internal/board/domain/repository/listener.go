package repository

import "lostfound-board/internal/board/domain/model"

// ChangeListener is the push side of the store boundary: a stream of
// document change events per collection. ChatSync drives its live view from
// it; the realtime hub is the in-process implementation.
type ChangeListener interface {
	// Listen registers a subscriber channel for one collection's change
	// events. The channel must be buffered by the caller; slow subscribers
	// have ticks dropped rather than blocking publishers.
	Listen(collection, subscriberID string, events chan<- model.ChangeEvent) error

	// Cancel removes the subscription. Cancelling an unknown subscriber is
	// not an error.
	Cancel(collection, subscriberID string)
}
