package events

import "time"

// Topics published by the stores.
const (
	TopicUserUpdated    = "user.updated"
	TopicMatchesUpdated = "matches.updated"
	TopicStatsUpdated   = "stats.updated"
)

// Event is a store change notification. Payload is the store's new state.
type Event struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// Publisher receives store change notifications. Publish must not block the caller.
type Publisher interface {
	Publish(event Event)
}

// Discard drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}

// OrDiscard returns p, or Discard when p is nil.
func OrDiscard(p Publisher) Publisher {
	if p == nil {
		return Discard
	}
	return p
}
