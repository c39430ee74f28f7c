package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"ai-tablechat-be/internal/dto"
	"ai-tablechat-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	hubModule    = "Hub"
	clusterTopic = "tablechat:ws"
)

// Asker answers a question in a chat session.
type Asker interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
}

// Frame is the JSON message written back to websocket clients.
type Frame struct {
	Type    string           `json:"type"`
	Data    *dto.AskResponse `json:"data,omitempty"`
	Message string           `json:"message,omitempty"`
}

const (
	FrameAnswer = "answer"
	FrameError  = "error"
)

// Hub tracks websocket clients per chat session. Answers are fanned out to
// every connection of the session, across instances when Redis is set.
type Hub struct {
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns.
	done chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out. May be nil.
	rdb        *redis.Client
	instanceID string

	asker  Asker
	logger logger.ILogger
}

func NewHub(asker Asker, rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		asker:      asker,
		logger:     log,
	}
}

// Run serves register and unregister requests until ctx is done. On exit
// every client's Send channel is closed so its pumps wind down.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info(hubModule, "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.SessionID]
			for i, c := range clients {
				if c == client {
					h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.SessionID]) == 0 {
				delete(h.clients, client.SessionID)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	close(h.done)
	for id, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, id)
	}
}

// Register adds a client. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client. It returns immediately once the hub has stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Connections returns the number of local connections for a session.
func (h *Hub) Connections(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) ask(ctx context.Context, c *Client, question string) {
	question = strings.TrimSpace(question)
	if question == "" {
		h.reply(c, Frame{Type: FrameError, Message: "question is required"})
		return
	}

	res, err := h.asker.Ask(ctx, &dto.AskRequest{SessionId: c.SessionID, Question: question})
	if err != nil {
		h.logger.Warn(hubModule, "Failed to answer websocket question", map[string]interface{}{
			"session_id": c.SessionID,
			"error":      err.Error(),
		})
		h.reply(c, Frame{Type: FrameError, Message: err.Error()})
		return
	}
	h.Broadcast(ctx, c.SessionID, Frame{Type: FrameAnswer, Data: res})
}

// reply sends a frame to a single connection if it is still registered.
func (h *Hub) reply(c *Client, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.registered(c) {
		return
	}
	select {
	case c.Send <- data:
	default:
		h.logger.Warn(hubModule, "Client Send buffer full, dropping message", map[string]interface{}{"session_id": c.SessionID})
	}
}

// Broadcast sends a frame to every connection of the session.
func (h *Hub) Broadcast(ctx context.Context, sessionID uuid.UUID, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	h.deliver(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{
			Origin:    h.instanceID,
			SessionID: sessionID.String(),
			Message:   data,
		})
		if err := h.rdb.Publish(ctx, clusterTopic, payload).Err(); err != nil {
			h.logger.Warn(hubModule, "Failed to publish websocket frame", map[string]interface{}{"error": err.Error()})
		}
	}
}

// registered must be called with h.mu held.
func (h *Hub) registered(c *Client) bool {
	for _, rc := range h.clients[c.SessionID] {
		if rc == c {
			return true
		}
	}
	return false
}

func (h *Hub) deliver(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn(hubModule, "Client Send buffer full, dropping message", map[string]interface{}{"session_id": sessionID})
		}
	}
}

type clusterMessage struct {
	Origin    string          `json:"origin"`
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterTopic)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		var msg *redis.Message
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			msg = m
		}

		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn(hubModule, "Invalid cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}
		sessionID, err := uuid.Parse(payload.SessionID)
		if err != nil {
			continue
		}
		h.deliver(sessionID, payload.Message)
	}
}
