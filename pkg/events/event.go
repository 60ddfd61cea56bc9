package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DATASET_INGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewDatasetIngested is emitted after both dataset pools of a session have
// been replaced. The consumer reacts by launching the external indexer.
func NewDatasetIngested(sessionID string) Event {
	return BaseEvent{
		Type:       "DATASET_INGESTED",
		Data:       map[string]interface{}{"session_id": sessionID},
		OccurredAt: time.Now(),
	}
}
