// Package http exposes the board over a fiber HTTP API.
package http

import (
	"strconv"

	"lostfound-board/internal/board/domain/model"
	"lostfound-board/internal/board/usecase"
	"lostfound-board/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// BoardHandler carries the HTTP surface for items, conversations and
// messages.
type BoardHandler struct {
	items         *usecase.ItemUsecase
	conversations *usecase.ConversationResolver
	chat          *usecase.ChatSync
	log           logger.Logger
}

// NewBoardHandler creates the HTTP handler over the board usecases.
func NewBoardHandler(
	items *usecase.ItemUsecase,
	conversations *usecase.ConversationResolver,
	chat *usecase.ChatSync,
	log logger.Logger,
) *BoardHandler {
	return &BoardHandler{
		items:         items,
		conversations: conversations,
		chat:          chat,
		log:           log.WithComponent("BoardHandler"),
	}
}

// RegisterRoutes mounts every route under the given router. auth must be the
// RequireAuth middleware; read-only item routes stay public.
func (h *BoardHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	api := router.Group("/api/v1")

	items := api.Group("/items")
	items.Get("/", h.listItems)
	items.Get("/search", h.searchItems)
	items.Get("/mine", auth, h.listMyItems)
	items.Post("/", auth, h.postItem)
	items.Get("/:id", h.getItem)
	items.Get("/:id/matches", h.itemMatches)
	items.Post("/:id/resolve", auth, h.resolveItem)
	items.Delete("/:id", auth, h.deleteItem)

	conversations := api.Group("/conversations", auth)
	conversations.Get("/", h.listConversations)
	conversations.Post("/", h.openConversation)
	conversations.Get("/:id/messages", h.listMessages)
	conversations.Post("/:id/messages", h.sendMessage)
	conversations.Post("/:id/read", h.markRead)
}

type itemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Status      string   `json:"status"`
	ImageURLs   []string `json:"imageUrls"`
}

type postItemResponse struct {
	Item    model.Item            `json:"item"`
	Matches []model.MatchCandidate `json:"matches"`
}

func (h *BoardHandler) postItem(c *fiber.Ctx) error {
	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	item := model.Item{
		Title:       req.Title,
		Description: req.Description,
		Category:    model.ParseCategory(req.Category),
		Location:    req.Location,
		Status:      model.ParseItemStatus(req.Status),
		OwnerID:     viewerID(c),
		OwnerName:   viewerName(c),
		ImageURLs:   req.ImageURLs,
	}

	saved, matches, err := h.items.Post(c.UserContext(), item)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(postItemResponse{Item: saved, Matches: matches})
}

func (h *BoardHandler) listItems(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.items.List(c.UserContext(), c.Query("category"), c.Query("status"), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *BoardHandler) searchItems(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.items.Search(c.UserContext(), c.Query("q"), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *BoardHandler) listMyItems(c *fiber.Ctx) error {
	items, err := h.items.ListByOwner(c.UserContext(), viewerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *BoardHandler) getItem(c *fiber.Ctx) error {
	item, err := h.items.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (h *BoardHandler) itemMatches(c *fiber.Ctx) error {
	matches, err := h.items.Matches(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"matches": matches})
}

func (h *BoardHandler) resolveItem(c *fiber.Ctx) error {
	if err := h.items.Resolve(c.UserContext(), c.Params("id"), viewerID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BoardHandler) deleteItem(c *fiber.Ctx) error {
	if err := h.items.Delete(c.UserContext(), c.Params("id"), viewerID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type openConversationRequest struct {
	ItemID      string `json:"itemId"`
	OtherUserID string `json:"otherUserId"`
}

func (h *BoardHandler) openConversation(c *fiber.Ctx) error {
	var req openConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ItemID == "" || req.OtherUserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "itemId and otherUserId are required"})
	}

	id, err := h.conversations.GetOrCreate(c.UserContext(), req.ItemID, viewerID(c), req.OtherUserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"conversationId": id})
}

func (h *BoardHandler) listConversations(c *fiber.Ctx) error {
	views, err := h.chat.Views(c.UserContext(), viewerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"conversations": views})
}

func (h *BoardHandler) listMessages(c *fiber.Ctx) error {
	messages, err := h.chat.Messages(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"messages": messages})
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (h *BoardHandler) sendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	id, err := h.chat.SendMessage(c.UserContext(), c.Params("id"), viewerID(c), viewerName(c), req.Text)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"messageId": id})
}

func (h *BoardHandler) markRead(c *fiber.Ctx) error {
	if err := h.chat.MarkRead(c.UserContext(), c.Params("id"), viewerID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
