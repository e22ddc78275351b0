package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/repository"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/services"
)

type stubDoubtService struct {
	createFn  func(ctx context.Context, authorID int64, role string, input services.CreateDoubtInput) (*models.Doubt, error)
	listFn    func(ctx context.Context, filter repository.DoubtListFilter) ([]models.Doubt, int, error)
	getFn     func(ctx context.Context, doubtID int64) (*models.DoubtDetail, error)
	answerFn  func(ctx context.Context, mentorID int64, role string, doubtID int64, body string) (*models.DoubtAnswer, error)
	resolveFn func(ctx context.Context, actorID, doubtID int64) (*models.Doubt, error)
}

func (s *stubDoubtService) CreateDoubt(ctx context.Context, authorID int64, role string, input services.CreateDoubtInput) (*models.Doubt, error) {
	return s.createFn(ctx, authorID, role, input)
}

func (s *stubDoubtService) ListDoubts(ctx context.Context, filter repository.DoubtListFilter) ([]models.Doubt, int, error) {
	return s.listFn(ctx, filter)
}

func (s *stubDoubtService) GetDoubt(ctx context.Context, doubtID int64) (*models.DoubtDetail, error) {
	return s.getFn(ctx, doubtID)
}

func (s *stubDoubtService) AnswerDoubt(ctx context.Context, mentorID int64, role string, doubtID int64, body string) (*models.DoubtAnswer, error) {
	return s.answerFn(ctx, mentorID, role, doubtID, body)
}

func (s *stubDoubtService) ResolveDoubt(ctx context.Context, actorID, doubtID int64) (*models.Doubt, error) {
	return s.resolveFn(ctx, actorID, doubtID)
}

func newDoubtTestApp(service *stubDoubtService, userID, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	})

	h := &DoubtHandler{service: service}
	app.Post("/doubts", h.CreateDoubt)
	app.Get("/doubts", h.ListDoubts)
	app.Get("/doubts/:id", h.GetDoubt)
	app.Post("/doubts/:id/answers", h.AnswerDoubt)
	app.Post("/doubts/:id/resolve", h.ResolveDoubt)
	return app
}

func TestCreateDoubtSuccess(t *testing.T) {
	service := &stubDoubtService{
		createFn: func(ctx context.Context, authorID int64, role string, input services.CreateDoubtInput) (*models.Doubt, error) {
			if authorID != 5 || role != models.RoleMentee {
				t.Errorf("unexpected author %d role %q", authorID, role)
			}
			return &models.Doubt{ID: 9, AuthorID: authorID, Title: input.Title, Status: models.DoubtStatusOpen}, nil
		},
	}
	app := newDoubtTestApp(service, "5", models.RoleMentee)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/doubts",
		`{"title": "Slices vs arrays", "body": "When does append allocate?"}`))
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	doubt := body["doubt"].(map[string]any)
	if doubt["status"] != models.DoubtStatusOpen {
		t.Errorf("status = %v, want open", doubt["status"])
	}
}

func TestCreateDoubtMentorForbidden(t *testing.T) {
	service := &stubDoubtService{
		createFn: func(ctx context.Context, authorID int64, role string, input services.CreateDoubtInput) (*models.Doubt, error) {
			return nil, services.ErrForbidden
		},
	}
	app := newDoubtTestApp(service, "5", models.RoleMentor)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/doubts", `{"title": "t", "body": "b"}`))
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestListDoubtsInvalidStatus(t *testing.T) {
	service := &stubDoubtService{}
	app := newDoubtTestApp(service, "5", models.RoleMentee)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/doubts?status=closed", nil))
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListDoubtsMineFilter(t *testing.T) {
	service := &stubDoubtService{
		listFn: func(ctx context.Context, filter repository.DoubtListFilter) ([]models.Doubt, int, error) {
			if filter.AuthorID != 5 {
				t.Errorf("author filter = %d, want 5", filter.AuthorID)
			}
			return []models.Doubt{}, 0, nil
		},
	}
	app := newDoubtTestApp(service, "5", models.RoleMentee)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/doubts?mine=true", nil))
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGetDoubtNotFound(t *testing.T) {
	service := &stubDoubtService{
		getFn: func(ctx context.Context, doubtID int64) (*models.DoubtDetail, error) {
			return nil, pgx.ErrNoRows
		},
	}
	app := newDoubtTestApp(service, "5", models.RoleMentee)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/doubts/404", nil))
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestResolveDoubtAlreadyResolved(t *testing.T) {
	service := &stubDoubtService{
		resolveFn: func(ctx context.Context, actorID, doubtID int64) (*models.Doubt, error) {
			return nil, &services.PolicyError{Reason: "doubt is already resolved"}
		},
	}
	app := newDoubtTestApp(service, "5", models.RoleMentee)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/doubts/9/resolve", ``))
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnswerDoubtValidation(t *testing.T) {
	service := &stubDoubtService{
		answerFn: func(ctx context.Context, mentorID int64, role string, doubtID int64, body string) (*models.DoubtAnswer, error) {
			return nil, &services.ValidationError{Field: "body", Message: "is required"}
		},
	}
	app := newDoubtTestApp(service, "5", models.RoleMentor)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/doubts/9/answers", `{"body": ""}`))
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["field"] != "body" {
		t.Errorf("field = %v, want body", body["field"])
	}
}
