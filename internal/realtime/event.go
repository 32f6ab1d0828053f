package realtime

import (
	"context"
	"encoding/json"
)

// Event names pushed to clients.
const (
	EventVoteSubmitted   = "vote-submitted"
	EventSettingsUpdate  = "settings-update"
	EventNewAnnouncement = "new-announcement"
)

// Event is the frame written to every websocket client.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// Publisher fans an event out to connected clients.
type Publisher interface {
	Publish(ctx context.Context, name string, data interface{}) error
}

// Encode builds the wire frame for an event.
func Encode(name string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Name: name, Data: raw})
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
