package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/repository"
)

type DoubtService struct {
	doubtRepo *repository.DoubtRepository
}

func NewDoubtService(doubtRepo *repository.DoubtRepository) *DoubtService {
	return &DoubtService{doubtRepo: doubtRepo}
}

type CreateDoubtInput struct {
	Title string
	Body  string
	Topic *string
}

func (s *DoubtService) CreateDoubt(
	ctx context.Context,
	authorID int64,
	role string,
	input CreateDoubtInput,
) (*models.Doubt, error) {
	if role != models.RoleMentee {
		return nil, ErrForbidden
	}
	if title := strings.TrimSpace(input.Title); title == "" {
		return nil, &ValidationError{Field: "title", Message: "is required"}
	} else if len(title) > maxTitleLength {
		return nil, &ValidationError{Field: "title", Message: "must be at most 200 characters"}
	}
	if body := strings.TrimSpace(input.Body); body == "" {
		return nil, &ValidationError{Field: "body", Message: "is required"}
	} else if len(body) > maxDescriptionLength {
		return nil, &ValidationError{Field: "body", Message: "must be at most 2000 characters"}
	}

	return s.doubtRepo.Create(ctx, repository.CreateDoubtInput{
		AuthorID: authorID,
		Title:    strings.TrimSpace(input.Title),
		Body:     strings.TrimSpace(input.Body),
		Topic:    input.Topic,
	})
}

func (s *DoubtService) ListDoubts(
	ctx context.Context,
	filter repository.DoubtListFilter,
) ([]models.Doubt, int, error) {
	return s.doubtRepo.List(ctx, filter)
}

func (s *DoubtService) GetDoubt(ctx context.Context, doubtID int64) (*models.DoubtDetail, error) {
	doubt, err := s.doubtRepo.GetByID(ctx, doubtID)
	if err != nil {
		return nil, err
	}

	answers, err := s.doubtRepo.ListAnswers(ctx, doubtID)
	if err != nil {
		return nil, err
	}

	return &models.DoubtDetail{Doubt: *doubt, Answers: answers}, nil
}

func (s *DoubtService) AnswerDoubt(
	ctx context.Context,
	mentorID int64,
	role string,
	doubtID int64,
	body string,
) (*models.DoubtAnswer, error) {
	if role != models.RoleMentor {
		return nil, ErrForbidden
	}
	if trimmed := strings.TrimSpace(body); trimmed == "" {
		return nil, &ValidationError{Field: "body", Message: "is required"}
	} else if len(trimmed) > maxDescriptionLength {
		return nil, &ValidationError{Field: "body", Message: "must be at most 2000 characters"}
	}

	doubt, err := s.doubtRepo.GetByID(ctx, doubtID)
	if err != nil {
		return nil, err
	}
	if doubt.Status == models.DoubtStatusResolved {
		return nil, &PolicyError{Reason: "resolved doubts no longer accept answers"}
	}

	answer, err := s.doubtRepo.CreateAnswer(ctx, doubtID, mentorID, strings.TrimSpace(body))
	if err != nil {
		return nil, err
	}

	if doubt.Status == models.DoubtStatusOpen {
		if _, err := s.doubtRepo.UpdateStatusIfCurrent(
			ctx,
			doubtID,
			models.DoubtStatusOpen,
			models.DoubtStatusAnswered,
		); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	return answer, nil
}

func (s *DoubtService) ResolveDoubt(
	ctx context.Context,
	actorID int64,
	doubtID int64,
) (*models.Doubt, error) {
	doubt, err := s.doubtRepo.GetByID(ctx, doubtID)
	if err != nil {
		return nil, err
	}
	if doubt.AuthorID != actorID {
		return nil, ErrForbidden
	}
	if doubt.Status == models.DoubtStatusResolved {
		return nil, &PolicyError{Reason: "doubt is already resolved"}
	}

	resolved, err := s.doubtRepo.UpdateStatusIfCurrent(
		ctx,
		doubtID,
		doubt.Status,
		models.DoubtStatusResolved,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &PolicyError{Reason: "doubt changed concurrently, retry"}
		}
		return nil, err
	}
	return resolved, nil
}
