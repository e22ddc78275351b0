package models

import "time"

// Profile is the single role-tagged profile row shared by mentees and
// mentors. Mentee-only and mentor-only fields stay nil for the other role.
type Profile struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	Role               string    `json:"role"`
	FullName           *string   `json:"full_name"`
	AvatarURL          *string   `json:"avatar_url"`
	Headline           *string   `json:"headline"`
	Bio                *string   `json:"bio"`
	Expertise          *[]string `json:"expertise"`
	Goals              *[]string `json:"goals"`
	ExperienceYears    *int      `json:"experience_years"`
	HourlyRate         *float64  `json:"hourly_rate"`
	Currency           *string   `json:"currency"`
	MaxHourlyRate      *float64  `json:"max_hourly_rate"`
	Rating             *float64  `json:"rating"`
	TotalSessions      int       `json:"total_sessions"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type MentorWithScore struct {
	Profile
	MatchScore int `json:"match_score"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// AvailabilitySlot is a generated stand-in for real mentor availability.
type AvailabilitySlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
