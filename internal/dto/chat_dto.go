package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	TableId string `json:"table_id" validate:"required"`
}

type SelectTableRequest struct {
	Id      uuid.UUID `json:"-"`
	TableId string    `json:"table_id" validate:"required"`
}

type SessionResponse struct {
	Id              uuid.UUID `json:"id"`
	TableId         string    `json:"table_id"`
	TableName       string    `json:"table_name"`
	RecordCount     int       `json:"record_count"`
	ContextLength   int       `json:"context_length"`
	Recovered       bool      `json:"recovered"`
	RecoveryMethod  string    `json:"recovery_method,omitempty"`
	RecoveryStatus  string    `json:"recovery_status,omitempty"`
	RecoverySummary string    `json:"recovery_summary,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type AskRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Question  string    `json:"question" validate:"required,max=4000"`
}

type AskResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	TableName string    `json:"table_name"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	AskedAt   time.Time `json:"asked_at"`
}
