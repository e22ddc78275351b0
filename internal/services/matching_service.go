package services

import (
	"context"
	"sort"
	"strings"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
)

type mentorLister interface {
	ListAllMentors(ctx context.Context) ([]models.Profile, error)
}

type MatchingService struct {
	profileRepo mentorLister
}

func NewMatchingService(profileRepo mentorLister) *MatchingService {
	return &MatchingService{profileRepo: profileRepo}
}

func (s *MatchingService) GetMatchedMentors(
	ctx context.Context,
	menteeProfile *models.Profile,
	limit int,
) ([]models.MentorWithScore, error) {
	mentors, err := s.profileRepo.ListAllMentors(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.MentorWithScore, 0, len(mentors))
	for _, mentor := range mentors {
		matched = append(matched, models.MentorWithScore{
			Profile:    mentor,
			MatchScore: calculateMatchScore(menteeProfile, &mentor),
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].MatchScore == matched[j].MatchScore {
			return floatValue(matched[i].Rating) > floatValue(matched[j].Rating)
		}
		return matched[i].MatchScore > matched[j].MatchScore
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

func calculateMatchScore(menteeProfile *models.Profile, mentor *models.Profile) int {
	score := 0
	goalTags := goalAliases(menteeProfile)
	mentorExpertise := normalizeValues(mentor.Expertise)

	for _, aliases := range goalTags {
		for _, alias := range aliases {
			if _, ok := mentorExpertise[alias]; ok {
				score += 40
				break
			}
		}
	}

	if floatValue(mentor.Rating) > 4.0 {
		score += 20
	}
	if intValue(mentor.ExperienceYears) > 3 {
		score += 15
	}
	if budget := menteeBudget(menteeProfile); budget > 0 && floatValue(mentor.HourlyRate) <= budget {
		score += 15
	}

	return score
}

func goalAliases(menteeProfile *models.Profile) map[string][]string {
	goals := sliceValue(nil)
	if menteeProfile != nil {
		goals = sliceValue(menteeProfile.Goals)
	}

	mapped := make(map[string][]string, len(goals))
	for _, goal := range goals {
		switch normalize(goal) {
		case "web_development", "web_dev", "frontend", "backend":
			mapped["web_development"] = []string{"web_development", "frontend", "backend", "fullstack"}
		case "data_science", "machine_learning", "ml":
			mapped["data_science"] = []string{"data_science", "machine_learning", "statistics"}
		case "interview_prep", "interviews":
			mapped["interview_prep"] = []string{"interview_prep", "systems_design", "algorithms"}
		case "career_growth", "career":
			mapped["career_growth"] = []string{"career_growth", "leadership", "management"}
		default:
			if key := normalize(goal); key != "" {
				mapped[key] = []string{key}
			}
		}
	}

	return mapped
}

func normalizeValues(values *[]string) map[string]struct{} {
	normalized := make(map[string]struct{})
	for _, value := range sliceValue(values) {
		if key := normalize(value); key != "" {
			normalized[key] = struct{}{}
		}
	}
	return normalized
}

func normalize(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.ReplaceAll(value, " ", "_")
	value = strings.ReplaceAll(value, "-", "_")
	return value
}

func sliceValue(values *[]string) []string {
	if values == nil {
		return nil
	}
	return *values
}

func floatValue(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func intValue(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func menteeBudget(menteeProfile *models.Profile) float64 {
	if menteeProfile == nil {
		return 0
	}
	return floatValue(menteeProfile.MaxHourlyRate)
}
