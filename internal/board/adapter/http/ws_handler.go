package http

import (
	"context"
	"time"

	"lostfound-board/internal/board/usecase"
	"lostfound-board/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebSocketHandler streams the viewer's live conversation list. Every frame
// is the complete current list; clients replace their state with each frame
// instead of merging.
type WebSocketHandler struct {
	chat *usecase.ChatSync
	log  logger.Logger
}

// NewWebSocketHandler creates the websocket handler over the chat layer.
func NewWebSocketHandler(chat *usecase.ChatSync, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		chat: chat,
		log:  log.WithComponent("WebSocketHandler"),
	}
}

// RegisterRoutes mounts the websocket endpoint at the given path. auth must
// run before the upgrade so the viewer identity lands in Locals.
func (h *WebSocketHandler) RegisterRoutes(router fiber.Router, path string, auth fiber.Handler) {
	router.Use(path, auth, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get(path, websocket.New(h.handleConnection))
}

type conversationFrame struct {
	Type          string      `json:"type"`
	Conversations interface{} `json:"conversations"`
}

func (h *WebSocketHandler) handleConnection(conn *websocket.Conn) {
	viewer, _ := conn.Locals(localsUserID).(string)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.log.Info("WebSocket connection established", zap.String("viewerID", viewer))

	views, err := h.chat.Subscribe(ctx, viewer)
	if err != nil {
		h.log.Error("Subscription failed", zap.String("viewerID", viewer), zap.Error(err))
		conn.WriteJSON(fiber.Map{"error": err.Error()})
		conn.Close()
		return
	}
	defer h.chat.Unsubscribe(viewer)

	// Reader goroutine: its only job is detecting the client going away.
	go func() {
		defer cancel()
		for {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Warn("WebSocket read error", zap.String("viewerID", viewer), zap.Error(err))
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("WebSocket connection closing", zap.String("viewerID", viewer))
			return
		case list, ok := <-views:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(conversationFrame{Type: "conversations", Conversations: list}); err != nil {
				h.log.Warn("WebSocket write failed", zap.String("viewerID", viewer), zap.Error(err))
				return
			}
		}
	}
}
