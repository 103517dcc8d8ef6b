package events

import "time"

// Event is the envelope every cross-service event implements. Payloads
// are flat maps so consumers in other languages can decode them without
// sharing types.
type Event interface {
	// EventType returns the event code, e.g. "DOCUMENT_COMPLETED".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// BaseEvent is the concrete envelope the typed constructors build on.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string { return e.Type }

func (e BaseEvent) Payload() map[string]interface{} { return e.Data }

func (e BaseEvent) Timestamp() time.Time { return e.OccurredAt }
