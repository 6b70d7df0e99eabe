package registry

import "time"

type EventType string

const (
	Added   EventType = "added"
	Changed EventType = "changed"
	Removed EventType = "removed"
)

// Event is delivered to subscribers. For Removed, Descriptor holds the last
// known state of the service.
type Event struct {
	Type       EventType
	ID         string
	Descriptor Descriptor
	Timestamp  time.Time
}

// Listener receives events synchronously on the goroutine that caused them.
// It must not modify the same service it is being notified about from
// within the call.
type Listener func(Event)

// Filter is a condition document matched against descriptor properties,
// e.g. {"interface": "storage", "ranking": {"$gt": 10}}. An empty filter
// matches everything.
type Filter = map[string]interface{}

// Source is what views need from a registry.
type Source interface {
	Lookup(filter Filter) ([]Descriptor, error)
	Subscribe(filter Filter, listener Listener) (*Subscription, error)
}
