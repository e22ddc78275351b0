package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/repository"
)

type mentorDirectory interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	ListMentors(ctx context.Context, filter repository.MentorListFilter) ([]models.Profile, int, error)
}

type mentorMatcher interface {
	GetMatchedMentors(ctx context.Context, menteeProfile *models.Profile, limit int) ([]models.MentorWithScore, error)
}

type mentorAvailability interface {
	WeeklyAvailability(ctx context.Context, mentorID int64) []models.AvailabilitySlot
}

type MentorHandler struct {
	profileRepo  mentorDirectory
	matching     mentorMatcher
	availability mentorAvailability
}

func NewMentorHandler(
	profileRepo mentorDirectory,
	matching mentorMatcher,
	availability mentorAvailability,
) *MentorHandler {
	return &MentorHandler{
		profileRepo:  profileRepo,
		matching:     matching,
		availability: availability,
	}
}

func (h *MentorHandler) ListMentors(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	maxRate, err := parseOptionalFloat(c.Query("max_rate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid max_rate"})
	}
	minRating, err := parseOptionalFloat(c.Query("min_rating"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid min_rating"})
	}

	mentors, total, err := h.profileRepo.ListMentors(c.Context(), repository.MentorListFilter{
		Expertise: c.Query("expertise"),
		MaxRate:   maxRate,
		MinRating: minRating,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list mentors"})
	}

	return c.JSON(fiber.Map{
		"mentors":    mentors,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

// RecommendedMentors scores the directory against the caller's goals and
// budget. Mentee only, since scoring needs a mentee profile.
func (h *MentorHandler) RecommendedMentors(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if role, _ := c.Locals("role").(string); role != models.RoleMentee {
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"error": "Only mentees can request recommendations"})
	}

	_, limit := parsePagination(c)

	menteeProfile, err := h.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	matched, err := h.matching.GetMatchedMentors(c.Context(), menteeProfile, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to compute recommendations"})
	}

	return c.JSON(fiber.Map{"mentors": matched})
}

func (h *MentorHandler) GetMentorDetail(c *fiber.Ctx) error {
	mentorID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || mentorID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mentor id"})
	}

	profile, err := h.profileRepo.GetByUserID(c.Context(), mentorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentor not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch mentor"})
	}
	if profile.Role != models.RoleMentor {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentor not found"})
	}

	return c.JSON(fiber.Map{
		"mentor":       profile,
		"availability": h.availability.WeeklyAvailability(c.Context(), mentorID),
	})
}

func parseOptionalFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 0, errors.New("invalid value")
	}
	return value, nil
}
