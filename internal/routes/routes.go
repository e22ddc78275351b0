package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/handlers"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/middleware"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Profile   *handlers.ProfileHandler
	Mentor    *handlers.MentorHandler
	Session   *handlers.SessionHandler
	Doubt     *handlers.DoubtHandler
	Assistant *handlers.AssistantHandler
}

func Register(app *fiber.App, jwtSecret string, h Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	v1 := api.Group("/v1", middleware.AuthRequired(jwtSecret))

	v1.Get("/auth/me", h.Auth.Me)

	v1.Get("/profiles/me", h.Profile.GetMyProfile)
	v1.Patch("/profiles/me", h.Profile.UpdateMyProfile)

	v1.Get("/mentors", h.Mentor.ListMentors)
	v1.Get("/mentors/recommended", h.Mentor.RecommendedMentors)
	v1.Get("/mentors/:id", h.Mentor.GetMentorDetail)

	v1.Post("/sessions", h.Session.BookSession)
	v1.Get("/sessions", h.Session.ListSessions)
	v1.Get("/sessions/:id", h.Session.GetSession)
	v1.Post("/sessions/:id/cancel", h.Session.CancelSession)
	v1.Post("/sessions/:id/reschedule", h.Session.RescheduleSession)
	v1.Post("/sessions/:id/feedback", h.Session.SubmitFeedback)
	v1.Patch("/sessions/:id/status", h.Session.UpdateStatus)

	v1.Post("/doubts", h.Doubt.CreateDoubt)
	v1.Get("/doubts", h.Doubt.ListDoubts)
	v1.Get("/doubts/:id", h.Doubt.GetDoubt)
	v1.Post("/doubts/:id/answers", h.Doubt.AnswerDoubt)
	v1.Post("/doubts/:id/resolve", h.Doubt.ResolveDoubt)

	v1.Get("/assistant/conversation", h.Assistant.GetConversation)
	v1.Post("/assistant/messages", h.Assistant.SendMessage)

	app.Get("/ws/assistant", h.Assistant.WebSocketAuth, h.Assistant.HandleWebSocket())
}
