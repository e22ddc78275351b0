package handlers

import (
	"context"
	"errors"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/services"
	assistantws "github.com/Ayush-kumar-28/Mentorverse-sub001/internal/websocket"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/pkg/utils"
)

type assistantChatService interface {
	SendMessage(ctx context.Context, userID int64, content string) (*services.AssistantExchange, error)
	GetConversation(ctx context.Context, userID int64, limit int) (*models.AssistantConversation, []models.AssistantMessage, error)
}

type AssistantHandler struct {
	service   assistantChatService
	hub       *assistantws.Hub
	jwtSecret string
}

func NewAssistantHandler(service assistantChatService, hub *assistantws.Hub, jwtSecret string) *AssistantHandler {
	return &AssistantHandler{service: service, hub: hub, jwtSecret: jwtSecret}
}

type assistantMessageRequest struct {
	Content string `json:"content"`
}

func (h *AssistantHandler) GetConversation(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	_, limit := parsePagination(c)

	conversation, messages, err := h.service.GetConversation(c.Context(), userID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch conversation"})
	}

	return c.JSON(fiber.Map{
		"conversation": conversation,
		"messages":     messages,
	})
}

func (h *AssistantHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req assistantMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	exchange, err := h.service.SendMessage(c.Context(), userID, req.Content)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": validationErr.Error(), "field": validationErr.Field})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to send message"})
	}

	return c.Status(fiber.StatusCreated).JSON(exchange)
}

// WebSocketAuth gates the upgrade route. Browsers cannot set an Authorization
// header on a websocket dial, so the token rides a query parameter.
func (h *AssistantHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	claims, err := utils.ValidateToken(token, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

func (h *AssistantHandler) HandleWebSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("user_id").(string)
		if !ok || userID == "" {
			_ = conn.Close()
			return
		}

		client := assistantws.NewClient(h.hub, conn, userID)
		h.hub.Register(client)

		go client.WritePump()
		client.ReadPump(h.service)
	})
}
