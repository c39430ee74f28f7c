package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-tablechat-be/internal/dto"
	"ai-tablechat-be/internal/pkg/logger"
	"ai-tablechat-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAsker struct {
	sessions map[uuid.UUID]string
}

func (a fakeAsker) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	table, ok := a.sessions[req.SessionId]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return &dto.AskResponse{SessionId: req.SessionId, TableName: table, Question: req.Question, Answer: "42"}, nil
}

func readFrame(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case data := <-c.Send:
		var f Frame
		require.NoError(t, json.Unmarshal(data, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
	}
	return Frame{}
}

func newHubWithClients(t *testing.T, sessionID uuid.UUID, n int) (*Hub, []*Client) {
	t.Helper()
	hub := NewHub(fakeAsker{sessions: map[uuid.UUID]string{sessionID: "People"}}, nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	clients := make([]*Client, 0, n)
	for i := 0; i < n; i++ {
		c := &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, 4)}
		require.True(t, hub.Register(c))
		clients = append(clients, c)
	}
	require.Eventually(t, func() bool { return hub.Connections(sessionID) == n }, time.Second, 10*time.Millisecond)
	return hub, clients
}

func TestHub_AnswerIsBroadcastToSession(t *testing.T) {
	sessionID := uuid.New()
	hub, clients := newHubWithClients(t, sessionID, 2)

	hub.ask(context.Background(), clients[0], "  What is the answer?  ")

	for _, c := range clients {
		f := readFrame(t, c)
		assert.Equal(t, FrameAnswer, f.Type)
		require.NotNil(t, f.Data)
		assert.Equal(t, "42", f.Data.Answer)
		assert.Equal(t, "What is the answer?", f.Data.Question)
	}
}

func TestHub_ErrorsOnlyReachAsker(t *testing.T) {
	hub, clients := newHubWithClients(t, uuid.New(), 2)

	hub.ask(context.Background(), clients[0], "   ")
	f := readFrame(t, clients[0])
	assert.Equal(t, FrameError, f.Type)
	assert.Equal(t, "question is required", f.Message)
	assert.Empty(t, clients[1].Send)

	// Session unknown to the asker.
	hub.ask(context.Background(), clients[0], "hello")
	f = readFrame(t, clients[0])
	assert.Equal(t, FrameError, f.Type)
	assert.Equal(t, store.ErrSessionNotFound.Error(), f.Message)
}

func TestHub_Unregister(t *testing.T) {
	sessionID := uuid.New()
	hub, clients := newHubWithClients(t, sessionID, 1)

	hub.Unregister(clients[0])
	require.Eventually(t, func() bool { return hub.Connections(sessionID) == 0 }, time.Second, 10*time.Millisecond)

	_, open := <-clients[0].Send
	assert.False(t, open)
}

func TestHub_StopReleasesClients(t *testing.T) {
	sessionID := uuid.New()
	hub := NewHub(fakeAsker{sessions: map[uuid.UUID]string{sessionID: "People"}}, nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, 4)}
	require.True(t, hub.Register(c))
	require.Eventually(t, func() bool { return hub.Connections(sessionID) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	// The pumps see a closed Send channel.
	_, open := <-c.Send
	assert.False(t, open)
	assert.Zero(t, hub.Connections(sessionID))

	returned := make(chan struct{})
	go func() {
		hub.Unregister(c)
		assert.False(t, hub.Register(&Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, 1)}))
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("register or unregister blocked after stop")
	}

	// Late answers for a released client are dropped.
	assert.NotPanics(t, func() { hub.ask(context.Background(), c, "still there?") })
}
