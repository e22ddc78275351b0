package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/repository"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/services"
)

type SessionHandler struct {
	service sessionSchedulerService
}

type sessionSchedulerService interface {
	BookSession(ctx context.Context, menteeID int64, input services.BookSessionInput) (*models.SessionDetail, error)
	ListSessions(ctx context.Context, actorID int64, role string, filter repository.SessionListFilter) ([]models.SessionDetail, int, error)
	GetSession(ctx context.Context, actorID int64, role string, sessionID int64) (*models.SessionDetail, error)
	CancelSession(ctx context.Context, actorID int64, role string, sessionID int64, reason *string) (*services.CancelResult, error)
	RescheduleSession(ctx context.Context, actorID int64, role string, sessionID int64, input services.RescheduleSessionInput) (*models.SessionDetail, error)
	SubmitFeedback(ctx context.Context, actorID int64, role string, sessionID int64, rating int, review *string) (*models.SessionFeedback, error)
	UpdateStatus(ctx context.Context, actorID int64, role string, sessionID int64, requestedStatus string) (*models.SessionDetail, error)
}

func NewSessionHandler(service *services.SchedulerService) *SessionHandler {
	return &SessionHandler{service: service}
}

var listableSessionStatuses = map[string]struct{}{
	models.SessionStatusScheduled:   {},
	models.SessionStatusConfirmed:   {},
	models.SessionStatusInProgress:  {},
	models.SessionStatusCompleted:   {},
	models.SessionStatusCancelled:   {},
	models.SessionStatusNoShow:      {},
	models.SessionStatusRescheduled: {},
}

type bookSessionRequest struct {
	MentorID        int64   `json:"mentor_id"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	ScheduledStart  string  `json:"scheduled_start"`
	DurationMinutes int     `json:"duration_minutes"`
}

type cancelSessionRequest struct {
	Reason *string `json:"reason"`
}

type rescheduleSessionRequest struct {
	NewScheduledStart string  `json:"new_scheduled_start"`
	Reason            *string `json:"reason"`
}

type sessionFeedbackRequest struct {
	Rating int     `json:"rating"`
	Review *string `json:"review"`
}

type updateSessionStatusRequest struct {
	Status string `json:"status"`
}

func (h *SessionHandler) BookSession(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleMentee {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	menteeID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req bookSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	scheduledStart, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledStart))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "scheduled_start must be a valid RFC3339 timestamp", "field": "scheduled_start"})
	}

	detail, err := h.service.BookSession(c.Context(), menteeID, services.BookSessionInput{
		MentorID:        req.MentorID,
		Title:           req.Title,
		Description:     req.Description,
		ScheduledStart:  scheduledStart,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": detail})
}

func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != models.RoleMentee && role != models.RoleMentor) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	status := strings.TrimSpace(c.Query("status"))
	if status != "" {
		if _, ok := listableSessionStatuses[status]; !ok {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "status is not a valid session status", "field": "status"})
		}
	}

	var from, to time.Time
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		if from, err = time.Parse(time.RFC3339, raw); err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "from must be a valid RFC3339 timestamp", "field": "from"})
		}
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		if to, err = time.Parse(time.RFC3339, raw); err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "to must be a valid RFC3339 timestamp", "field": "to"})
		}
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "to must be after from", "field": "to"})
	}

	page, limit := parsePagination(c)

	sessions, total, err := h.service.ListSessions(c.Context(), actorID, role, repository.SessionListFilter{
		Status: status,
		From:   from,
		To:     to,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{
		"sessions":   sessions,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	role, actorID, sessionID, ok := sessionRequestContext(c)
	if !ok {
		return nil
	}

	session, err := h.service.GetSession(c.Context(), actorID, role, sessionID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) CancelSession(c *fiber.Ctx) error {
	role, actorID, sessionID, ok := sessionRequestContext(c)
	if !ok {
		return nil
	}

	var req cancelSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	result, err := h.service.CancelSession(c.Context(), actorID, role, sessionID, req.Reason)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{
		"session":       result.Session,
		"refund_amount": result.RefundAmount,
	})
}

func (h *SessionHandler) RescheduleSession(c *fiber.Ctx) error {
	role, actorID, sessionID, ok := sessionRequestContext(c)
	if !ok {
		return nil
	}

	var req rescheduleSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	newStart, err := time.Parse(time.RFC3339, strings.TrimSpace(req.NewScheduledStart))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "new_scheduled_start must be a valid RFC3339 timestamp", "field": "new_scheduled_start"})
	}

	session, err := h.service.RescheduleSession(c.Context(), actorID, role, sessionID, services.RescheduleSessionInput{
		NewScheduledStart: newStart,
		Reason:            req.Reason,
	})
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) SubmitFeedback(c *fiber.Ctx) error {
	role, actorID, sessionID, ok := sessionRequestContext(c)
	if !ok {
		return nil
	}

	var req sessionFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	feedback, err := h.service.SubmitFeedback(c.Context(), actorID, role, sessionID, req.Rating, req.Review)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"feedback": feedback})
}

func (h *SessionHandler) UpdateStatus(c *fiber.Ctx) error {
	role, actorID, sessionID, ok := sessionRequestContext(c)
	if !ok {
		return nil
	}

	var req updateSessionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	session, err := h.service.UpdateStatus(c.Context(), actorID, role, sessionID, req.Status)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}

// sessionRequestContext validates identity and the id param, writing the
// error response itself when the request is unusable.
func sessionRequestContext(c *fiber.Ctx) (role string, actorID, sessionID int64, ok bool) {
	role, roleOK := c.Locals("role").(string)
	if !roleOK || (role != models.RoleMentee && role != models.RoleMentor) {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		return "", 0, 0, false
	}

	actorID, err := parseActorID(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		return "", 0, 0, false
	}

	sessionID, err = strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || sessionID <= 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
		return "", 0, 0, false
	}

	return role, actorID, sessionID, true
}

func mapSessionError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError
	var policyErr *services.PolicyError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "Requested time conflicts with another session",
			"conflicts": conflictErr.Conflicts,
		})
	case errors.As(err, &policyErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": policyErr.Reason})
	case errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status is not a valid transition target"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrMentorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentor not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process session request"})
	}
}
