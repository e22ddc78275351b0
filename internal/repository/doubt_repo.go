package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
)

type CreateDoubtInput struct {
	AuthorID int64
	Title    string
	Body     string
	Topic    *string
}

type DoubtListFilter struct {
	AuthorID int64
	Topic    string
	Status   string
	Limit    int
	Offset   int
}

type DoubtRepository struct {
	db DBTX
}

func NewDoubtRepository(db DBTX) *DoubtRepository {
	return &DoubtRepository{db: db}
}

func (r *DoubtRepository) Create(ctx context.Context, input CreateDoubtInput) (*models.Doubt, error) {
	query := `
		INSERT INTO doubts (author_id, title, body, topic, status)
		VALUES ($1, $2, $3, $4, 'open')
		RETURNING id, author_id, title, body, topic, status, created_at, updated_at
	`

	var doubt models.Doubt
	err := r.db.QueryRow(ctx, query, input.AuthorID, input.Title, input.Body, input.Topic).Scan(
		&doubt.ID,
		&doubt.AuthorID,
		&doubt.Title,
		&doubt.Body,
		&doubt.Topic,
		&doubt.Status,
		&doubt.CreatedAt,
		&doubt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doubt, nil
}

func (r *DoubtRepository) GetByID(ctx context.Context, doubtID int64) (*models.Doubt, error) {
	query := `
		SELECT id, author_id, title, body, topic, status, created_at, updated_at
		FROM doubts
		WHERE id = $1
	`

	var doubt models.Doubt
	err := r.db.QueryRow(ctx, query, doubtID).Scan(
		&doubt.ID,
		&doubt.AuthorID,
		&doubt.Title,
		&doubt.Body,
		&doubt.Topic,
		&doubt.Status,
		&doubt.CreatedAt,
		&doubt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doubt, nil
}

func (r *DoubtRepository) List(
	ctx context.Context,
	filter DoubtListFilter,
) ([]models.Doubt, int, error) {
	args := []any{}
	whereParts := []string{"TRUE"}

	if filter.AuthorID > 0 {
		args = append(args, filter.AuthorID)
		whereParts = append(whereParts, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if topic := strings.TrimSpace(filter.Topic); topic != "" {
		args = append(args, topic)
		whereParts = append(whereParts, fmt.Sprintf("topic = $%d", len(args)))
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}

	where := strings.Join(whereParts, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM doubts WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT id, author_id, title, body, topic, status, created_at, updated_at
		FROM doubts
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, limitPos, offsetPos)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	doubts := make([]models.Doubt, 0)
	for rows.Next() {
		var doubt models.Doubt
		if err := rows.Scan(
			&doubt.ID,
			&doubt.AuthorID,
			&doubt.Title,
			&doubt.Body,
			&doubt.Topic,
			&doubt.Status,
			&doubt.CreatedAt,
			&doubt.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		doubts = append(doubts, doubt)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return doubts, total, nil
}

func (r *DoubtRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	doubtID int64,
	currentStatus string,
	nextStatus string,
) (*models.Doubt, error) {
	query := `
		UPDATE doubts
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, author_id, title, body, topic, status, created_at, updated_at
	`

	var doubt models.Doubt
	err := r.db.QueryRow(ctx, query, doubtID, currentStatus, nextStatus).Scan(
		&doubt.ID,
		&doubt.AuthorID,
		&doubt.Title,
		&doubt.Body,
		&doubt.Topic,
		&doubt.Status,
		&doubt.CreatedAt,
		&doubt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doubt, nil
}

func (r *DoubtRepository) CreateAnswer(
	ctx context.Context,
	doubtID int64,
	mentorID int64,
	body string,
) (*models.DoubtAnswer, error) {
	query := `
		INSERT INTO doubt_answers (doubt_id, mentor_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, doubt_id, mentor_id, body, created_at
	`

	var answer models.DoubtAnswer
	err := r.db.QueryRow(ctx, query, doubtID, mentorID, body).Scan(
		&answer.ID,
		&answer.DoubtID,
		&answer.MentorID,
		&answer.Body,
		&answer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *DoubtRepository) ListAnswers(
	ctx context.Context,
	doubtID int64,
) ([]models.DoubtAnswer, error) {
	query := `
		SELECT id, doubt_id, mentor_id, body, created_at
		FROM doubt_answers
		WHERE doubt_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, doubtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make([]models.DoubtAnswer, 0)
	for rows.Next() {
		var answer models.DoubtAnswer
		if err := rows.Scan(
			&answer.ID,
			&answer.DoubtID,
			&answer.MentorID,
			&answer.Body,
			&answer.CreatedAt,
		); err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return answers, nil
}
