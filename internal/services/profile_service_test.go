package services

import (
	"context"
	"testing"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/repository"
)

type stubProfileUpdater struct {
	updated        *models.Profile
	markedComplete bool
}

func (s *stubProfileUpdater) UpdatePartial(
	ctx context.Context,
	userID int64,
	input repository.UpdateProfileInput,
) (*models.Profile, error) {
	return s.updated, nil
}

func (s *stubProfileUpdater) MarkOnboardingComplete(ctx context.Context, userID int64) (*models.Profile, error) {
	s.markedComplete = true
	profile := *s.updated
	profile.OnboardingComplete = true
	return &profile, nil
}

func completeMentorProfile() *models.Profile {
	return &models.Profile{
		Role:            models.RoleMentor,
		FullName:        strPtr("Asha Rao"),
		Bio:             strPtr("Backend engineer"),
		AvatarURL:       strPtr("https://example.com/a.png"),
		Headline:        strPtr("Staff engineer"),
		Expertise:       strsPtr([]string{"backend"}),
		ExperienceYears: intPtr(8),
		HourlyRate:      floatPtr(90),
	}
}

func TestCompletionPercentage(t *testing.T) {
	if got := CompletionPercentage(nil); got != 0 {
		t.Errorf("nil profile = %d, want 0", got)
	}

	empty := &models.Profile{Role: models.RoleMentor}
	if got := CompletionPercentage(empty); got != 0 {
		t.Errorf("empty mentor = %d, want 0", got)
	}

	if got := CompletionPercentage(completeMentorProfile()); got != 100 {
		t.Errorf("complete mentor = %d, want 100", got)
	}

	partial := completeMentorProfile()
	partial.HourlyRate = nil
	if got := CompletionPercentage(partial); got != 85 {
		t.Errorf("mentor missing rate = %d, want 85", got)
	}

	mentee := &models.Profile{
		Role:          models.RoleMentee,
		FullName:      strPtr("Ira"),
		Bio:           strPtr("Learning Go"),
		AvatarURL:     strPtr("https://example.com/i.png"),
		Goals:         strsPtr([]string{"career_growth"}),
		MaxHourlyRate: floatPtr(50),
	}
	if got := CompletionPercentage(mentee); got != 100 {
		t.Errorf("complete mentee = %d, want 100", got)
	}
}

func TestUpdateProfileMarksOnboardingComplete(t *testing.T) {
	stub := &stubProfileUpdater{updated: completeMentorProfile()}
	service := NewProfileService(stub)

	profile, err := service.UpdateProfile(context.Background(), 1, repository.UpdateProfileInput{})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if !stub.markedComplete {
		t.Error("expected onboarding to be marked complete")
	}
	if !profile.OnboardingComplete {
		t.Error("returned profile should reflect completed onboarding")
	}
}

func TestUpdateProfileLeavesIncompleteOnboarding(t *testing.T) {
	incomplete := completeMentorProfile()
	incomplete.Headline = nil

	stub := &stubProfileUpdater{updated: incomplete}
	service := NewProfileService(stub)

	profile, err := service.UpdateProfile(context.Background(), 1, repository.UpdateProfileInput{})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if stub.markedComplete {
		t.Error("onboarding should not be marked complete")
	}
	if profile.OnboardingComplete {
		t.Error("returned profile should not claim completed onboarding")
	}
}

func TestUpdateProfileSkipsAlreadyOnboarded(t *testing.T) {
	done := completeMentorProfile()
	done.OnboardingComplete = true

	stub := &stubProfileUpdater{updated: done}
	service := NewProfileService(stub)

	if _, err := service.UpdateProfile(context.Background(), 1, repository.UpdateProfileInput{}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if stub.markedComplete {
		t.Error("already onboarded profile should not be re-marked")
	}
}
