package websocket

import (
	"ai-tablechat-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type ChatHandler struct {
	hub      *Hub
	sessions func(ctx *fiber.Ctx, id uuid.UUID) error
}

// NewChatHandler builds the websocket chat endpoint. sessionExists must return
// an error when the session is unknown.
func NewChatHandler(hub *Hub, sessionExists func(ctx *fiber.Ctx, id uuid.UUID) error) *ChatHandler {
	return &ChatHandler{hub: hub, sessions: sessionExists}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	ws := r.Group("/ws")
	ws.Use(protected)
	ws.Get("/chat/:id", h.upgrade, websocket.New(h.serve))
}

func (h *ChatHandler) upgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "invalid session id"))
	}
	if err := h.sessions(ctx, id); err != nil {
		return err
	}
	ctx.Locals("session_id", id)
	return ctx.Next()
}

// serve runs the pumps for one connection.
func (h *ChatHandler) serve(c *websocket.Conn) {
	id, _ := c.Locals("session_id").(uuid.UUID)
	client := &Client{Hub: h.hub, Conn: c, SessionID: id, Send: make(chan []byte, 16)}
	if !h.hub.Register(client) {
		c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		return
	}

	go client.writePump()
	client.readPump()
}
