package memory

import (
	"context"
	"time"

	"ai-tablechat-be/internal/repository/contract"
	"ai-tablechat-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.ISessionRepository = (*SessionRepository)(nil)

// NewSessionRepository keeps sessions for ttl and purges expired ones every
// ttl/6.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, ttl/6),
	}
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	stored := *session
	r.cache.Set(session.ID.String(), &stored, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*store.Session, error) {
	if x, found := r.cache.Get(id.String()); found {
		session := *x.(*store.Session)
		return &session, nil
	}
	return nil, store.ErrSessionNotFound
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.cache.Delete(id.String())
	return nil
}
