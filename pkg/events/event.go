package events

import "time"

const (
	TypeTableSelected     = "TABLE_SELECTED"
	TypeQuestionAnswered  = "QUESTION_ANSWERED"
	TypeRecoveryCompleted = "RECOVERY_COMPLETED"
)

// Event defines the contract for all activity events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TABLE_SELECTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
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
