package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a chat session expired or never existed.
var ErrSessionNotFound = errors.New("chat session not found")

// Session is one table selection together with its chat context. The context
// is rebuilt whenever the selected table changes.
type Session struct {
	ID        uuid.UUID `json:"id"`
	TableID   string    `json:"table_id"`
	TableName string    `json:"table_name"`

	// Context is the system message sent with every question.
	Context string `json:"context"`

	RecordCount     int    `json:"record_count"`
	Recovered       bool   `json:"recovered"`
	RecoveryMethod  string `json:"recovery_method,omitempty"`
	RecoveryStatus  string `json:"recovery_status,omitempty"`
	RecoverySummary string `json:"recovery_summary,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
