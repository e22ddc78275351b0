package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/repository"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/services"
)

type doubtBoardService interface {
	CreateDoubt(ctx context.Context, authorID int64, role string, input services.CreateDoubtInput) (*models.Doubt, error)
	ListDoubts(ctx context.Context, filter repository.DoubtListFilter) ([]models.Doubt, int, error)
	GetDoubt(ctx context.Context, doubtID int64) (*models.DoubtDetail, error)
	AnswerDoubt(ctx context.Context, mentorID int64, role string, doubtID int64, body string) (*models.DoubtAnswer, error)
	ResolveDoubt(ctx context.Context, actorID, doubtID int64) (*models.Doubt, error)
}

type DoubtHandler struct {
	service doubtBoardService
}

func NewDoubtHandler(service doubtBoardService) *DoubtHandler {
	return &DoubtHandler{service: service}
}

type createDoubtRequest struct {
	Title string  `json:"title"`
	Body  string  `json:"body"`
	Topic *string `json:"topic"`
}

type answerDoubtRequest struct {
	Body string `json:"body"`
}

func (h *DoubtHandler) CreateDoubt(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	role, _ := c.Locals("role").(string)

	var req createDoubtRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	doubt, err := h.service.CreateDoubt(c.Context(), actorID, role, services.CreateDoubtInput{
		Title: req.Title,
		Body:  req.Body,
		Topic: req.Topic,
	})
	if err != nil {
		return mapDoubtError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"doubt": doubt})
}

func (h *DoubtHandler) ListDoubts(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	status := c.Query("status")
	switch status {
	case "", models.DoubtStatusOpen, models.DoubtStatusAnswered, models.DoubtStatusResolved:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status filter"})
	}

	var authorID int64
	if c.Query("mine") == "true" {
		actorID, err := parseActorID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
		authorID = actorID
	}

	doubts, total, err := h.service.ListDoubts(c.Context(), repository.DoubtListFilter{
		AuthorID: authorID,
		Topic:    c.Query("topic"),
		Status:   status,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list doubts"})
	}

	return c.JSON(fiber.Map{
		"doubts":     doubts,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *DoubtHandler) GetDoubt(c *fiber.Ctx) error {
	doubtID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || doubtID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid doubt id"})
	}

	detail, err := h.service.GetDoubt(c.Context(), doubtID)
	if err != nil {
		return mapDoubtError(c, err)
	}

	return c.JSON(fiber.Map{"doubt": detail})
}

func (h *DoubtHandler) AnswerDoubt(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	role, _ := c.Locals("role").(string)

	doubtID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || doubtID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid doubt id"})
	}

	var req answerDoubtRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	answer, err := h.service.AnswerDoubt(c.Context(), actorID, role, doubtID, req.Body)
	if err != nil {
		return mapDoubtError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"answer": answer})
}

func (h *DoubtHandler) ResolveDoubt(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	doubtID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || doubtID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid doubt id"})
	}

	doubt, err := h.service.ResolveDoubt(c.Context(), actorID, doubtID)
	if err != nil {
		return mapDoubtError(c, err)
	}

	return c.JSON(fiber.Map{"doubt": doubt})
}

func mapDoubtError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	var policyErr *services.PolicyError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.As(err, &policyErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": policyErr.Reason})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Doubt not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process doubt request"})
	}
}
