package contract

import (
	"context"

	"ai-tablechat-be/pkg/store"

	"github.com/google/uuid"
)

// ISessionRepository keeps chat sessions for their time to live.
type ISessionRepository interface {
	Save(ctx context.Context, session *store.Session) error
	// Get returns store.ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, id uuid.UUID) (*store.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
