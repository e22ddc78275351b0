package services

import (
	"context"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/repository"
)

type ProfileUpdater interface {
	UpdatePartial(ctx context.Context, userID int64, input repository.UpdateProfileInput) (*models.Profile, error)
	MarkOnboardingComplete(ctx context.Context, userID int64) (*models.Profile, error)
}

type ProfileService struct {
	profileRepo ProfileUpdater
}

func NewProfileService(profileRepo ProfileUpdater) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) UpdateProfile(
	ctx context.Context,
	userID int64,
	input repository.UpdateProfileInput,
) (*models.Profile, error) {
	profile, err := s.profileRepo.UpdatePartial(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	if !profile.OnboardingComplete && CompletionPercentage(profile) == 100 {
		return s.profileRepo.MarkOnboardingComplete(ctx, userID)
	}
	return profile, nil
}

// CompletionPercentage reports how much of the role's relevant fields a
// profile has filled in.
func CompletionPercentage(profile *models.Profile) int {
	if profile == nil {
		return 0
	}

	var filled, total int
	count := func(present bool) {
		total++
		if present {
			filled++
		}
	}

	count(profile.FullName != nil && *profile.FullName != "")
	count(profile.Bio != nil && *profile.Bio != "")
	count(profile.AvatarURL != nil && *profile.AvatarURL != "")

	switch profile.Role {
	case models.RoleMentor:
		count(profile.Headline != nil && *profile.Headline != "")
		count(profile.Expertise != nil && len(*profile.Expertise) > 0)
		count(profile.ExperienceYears != nil)
		count(profile.HourlyRate != nil && *profile.HourlyRate > 0)
	case models.RoleMentee:
		count(profile.Goals != nil && len(*profile.Goals) > 0)
		count(profile.MaxHourlyRate != nil && *profile.MaxHourlyRate > 0)
	}

	if total == 0 {
		return 0
	}
	return filled * 100 / total
}
