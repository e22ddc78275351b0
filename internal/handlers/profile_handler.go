package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/repository"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/services"
)

const (
	maxNameLength     = 120
	maxHeadlineLength = 160
	maxBioLength      = 2000
	maxExpertiseTags  = 20
	maxGoalTags       = 10
)

type profileReadService interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}

type profileUpdateService interface {
	UpdateProfile(ctx context.Context, userID int64, input repository.UpdateProfileInput) (*models.Profile, error)
}

type ProfileHandler struct {
	profileRepo profileReadService
	service     profileUpdateService
}

func NewProfileHandler(profileRepo profileReadService, service profileUpdateService) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo, service: service}
}

type updateProfileRequest struct {
	FullName        *string   `json:"full_name"`
	AvatarURL       *string   `json:"avatar_url"`
	Headline        *string   `json:"headline"`
	Bio             *string   `json:"bio"`
	Expertise       *[]string `json:"expertise"`
	Goals           *[]string `json:"goals"`
	ExperienceYears *int      `json:"experience_years"`
	HourlyRate      *float64  `json:"hourly_rate"`
	Currency        *string   `json:"currency"`
	MaxHourlyRate   *float64  `json:"max_hourly_rate"`
}

func (h *ProfileHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{
		"profile":               profile,
		"completion_percentage": services.CompletionPercentage(profile),
	})
}

func (h *ProfileHandler) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	role, _ := c.Locals("role").(string)

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if msg := validateProfileUpdate(&req, role); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	profile, err := h.service.UpdateProfile(c.Context(), userID, repository.UpdateProfileInput{
		FullName:        req.FullName,
		AvatarURL:       req.AvatarURL,
		Headline:        req.Headline,
		Bio:             req.Bio,
		Expertise:       req.Expertise,
		Goals:           req.Goals,
		ExperienceYears: req.ExperienceYears,
		HourlyRate:      req.HourlyRate,
		Currency:        req.Currency,
		MaxHourlyRate:   req.MaxHourlyRate,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"profile":               profile,
		"completion_percentage": services.CompletionPercentage(profile),
	})
}

func validateProfileUpdate(req *updateProfileRequest, role string) string {
	if req.FullName != nil && len(strings.TrimSpace(*req.FullName)) > maxNameLength {
		return "Full name is too long"
	}
	if req.Headline != nil && len(*req.Headline) > maxHeadlineLength {
		return "Headline is too long"
	}
	if req.Bio != nil && len(*req.Bio) > maxBioLength {
		return "Bio is too long"
	}
	if req.Expertise != nil && len(*req.Expertise) > maxExpertiseTags {
		return "Too many expertise tags"
	}
	if req.Goals != nil && len(*req.Goals) > maxGoalTags {
		return "Too many goals"
	}
	if req.ExperienceYears != nil && (*req.ExperienceYears < 0 || *req.ExperienceYears > 80) {
		return "Experience years out of range"
	}
	if req.HourlyRate != nil && *req.HourlyRate <= 0 {
		return "Hourly rate must be positive"
	}
	if req.MaxHourlyRate != nil && *req.MaxHourlyRate <= 0 {
		return "Max hourly rate must be positive"
	}
	if req.Currency != nil && len(*req.Currency) != 3 {
		return "Currency must be a 3-letter code"
	}

	switch role {
	case models.RoleMentee:
		if req.HourlyRate != nil || req.Headline != nil || req.Expertise != nil || req.ExperienceYears != nil {
			return "Mentor fields cannot be set on a mentee profile"
		}
	case models.RoleMentor:
		if req.Goals != nil || req.MaxHourlyRate != nil {
			return "Mentee fields cannot be set on a mentor profile"
		}
	}

	return ""
}
