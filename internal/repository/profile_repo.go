package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
)

const profileColumns = `id, user_id, role, full_name, avatar_url, headline, bio, expertise, goals,
	   experience_years, hourly_rate, currency, max_hourly_rate, rating, total_sessions,
	   onboarding_complete, created_at, updated_at`

type UpdateProfileInput struct {
	FullName        *string
	AvatarURL       *string
	Headline        *string
	Bio             *string
	Expertise       *[]string
	Goals           *[]string
	ExperienceYears *int
	HourlyRate      *float64
	Currency        *string
	MaxHourlyRate   *float64
}

type MentorListFilter struct {
	Expertise string
	MaxRate   float64
	MinRating float64
	Limit     int
	Offset    int
}

// ProfileRepository serves both roles from one table; callers pass the role
// where a query must be scoped to it.
type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) CreateEmpty(ctx context.Context, userID int64, role string) error {
	query := `INSERT INTO profiles (user_id, role) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, role)
	return err
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM profiles
		WHERE user_id = $1
	`, profileColumns)

	return r.scanOne(r.db.QueryRow(ctx, query, userID))
}

func (r *ProfileRepository) UpdatePartial(
	ctx context.Context,
	userID int64,
	input UpdateProfileInput,
) (*models.Profile, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{userID}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.FullName != nil {
		appendSet("full_name", *input.FullName)
	}
	if input.AvatarURL != nil {
		appendSet("avatar_url", *input.AvatarURL)
	}
	if input.Headline != nil {
		appendSet("headline", *input.Headline)
	}
	if input.Bio != nil {
		appendSet("bio", *input.Bio)
	}
	if input.Expertise != nil {
		appendSet("expertise", *input.Expertise)
	}
	if input.Goals != nil {
		appendSet("goals", *input.Goals)
	}
	if input.ExperienceYears != nil {
		appendSet("experience_years", *input.ExperienceYears)
	}
	if input.HourlyRate != nil {
		appendSet("hourly_rate", *input.HourlyRate)
	}
	if input.Currency != nil {
		appendSet("currency", *input.Currency)
	}
	if input.MaxHourlyRate != nil {
		appendSet("max_hourly_rate", *input.MaxHourlyRate)
	}

	query := fmt.Sprintf(`
		UPDATE profiles
		SET %s
		WHERE user_id = $1
		RETURNING %s
	`, strings.Join(sets, ", "), profileColumns)

	return r.scanOne(r.db.QueryRow(ctx, query, args...))
}

func (r *ProfileRepository) MarkOnboardingComplete(ctx context.Context, userID int64) (*models.Profile, error) {
	query := fmt.Sprintf(`
		UPDATE profiles
		SET onboarding_complete = TRUE, updated_at = NOW()
		WHERE user_id = $1
		RETURNING %s
	`, profileColumns)

	return r.scanOne(r.db.QueryRow(ctx, query, userID))
}

func (r *ProfileRepository) IncrementTotalSessions(ctx context.Context, userID int64) error {
	query := `
		UPDATE profiles
		SET total_sessions = total_sessions + 1, updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no profile for user %d", userID)
	}
	return nil
}

func (r *ProfileRepository) ListMentors(
	ctx context.Context,
	filter MentorListFilter,
) ([]models.Profile, int, error) {
	args := []any{}
	whereParts := []string{"role = 'mentor'", "onboarding_complete = TRUE"}

	if expertise := strings.TrimSpace(filter.Expertise); expertise != "" {
		args = append(args, expertise)
		whereParts = append(whereParts, fmt.Sprintf("$%d = ANY(expertise)", len(args)))
	}
	if filter.MaxRate > 0 {
		args = append(args, filter.MaxRate)
		whereParts = append(whereParts, fmt.Sprintf("hourly_rate <= $%d", len(args)))
	}
	if filter.MinRating > 0 {
		args = append(args, filter.MinRating)
		whereParts = append(whereParts, fmt.Sprintf("rating >= $%d", len(args)))
	}

	where := strings.Join(whereParts, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM profiles WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM profiles
		WHERE %s
		ORDER BY rating DESC NULLS LAST, total_sessions DESC, id ASC
		LIMIT $%d OFFSET $%d
	`, profileColumns, where, limitPos, offsetPos)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		profile, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, *profile)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *ProfileRepository) ListAllMentors(ctx context.Context) ([]models.Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM profiles
		WHERE role = 'mentor' AND onboarding_complete = TRUE
		ORDER BY id ASC
	`, profileColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		profile, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ProfileRepository) scanOne(row rowScanner) (*models.Profile, error) {
	var profile models.Profile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Role,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Headline,
		&profile.Bio,
		&profile.Expertise,
		&profile.Goals,
		&profile.ExperienceYears,
		&profile.HourlyRate,
		&profile.Currency,
		&profile.MaxHourlyRate,
		&profile.Rating,
		&profile.TotalSessions,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
