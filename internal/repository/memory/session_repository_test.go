package memory

import (
	"context"
	"testing"
	"time"

	"ai-tablechat-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)
	session := &store.Session{ID: uuid.New(), TableID: "tbl1", Context: "Table: People\nData: []"}

	require.NoError(t, repo.Save(ctx, session))

	got, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session, got)

	// Callers get a copy.
	got.TableID = "changed"
	again, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "tbl1", again.TableID)

	require.NoError(t, repo.Delete(ctx, session.ID))
	_, err = repo.Get(ctx, session.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(20 * time.Millisecond)
	session := &store.Session{ID: uuid.New()}
	require.NoError(t, repo.Save(ctx, session))

	time.Sleep(40 * time.Millisecond)
	_, err := repo.Get(ctx, session.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}
