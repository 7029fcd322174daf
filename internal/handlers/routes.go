package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *AuthHandler
	Resume    *ResumeHandler
	ATS       *ATSHandler
	Interview *InterviewHandler
	Realtime  *RealtimeHandler
	Coach     *CoachHandler
}

// endpoints is listed by the root route.
var endpoints = []string{
	"POST /api/auth/register",
	"POST /api/auth/login",
	"GET /api/auth/me",
	"POST /api/resumes/upload",
	"GET /api/resumes",
	"POST /api/ats/analyze",
	"GET /api/ats/analyses",
	"GET /api/ats/analyses/:id",
	"DELETE /api/ats/analyses/:id",
	"POST /api/interview/sessions",
	"GET /api/interview/sessions",
	"GET /api/interview/sessions/:id",
	"POST /api/interview/sessions/:id/answer",
	"POST /api/interview/sessions/:id/complete",
	"DELETE /api/interview/sessions/:id",
	"POST /api/interview/realtime/create",
	"GET /api/interview/realtime/ws/:token",
	"GET /api/interview/realtime/session/:token",
	"POST /api/interview/realtime/end/:token",
	"DELETE /api/interview/realtime/session/:token",
	"POST /api/career-coach",
}

func SetupRoutes(app *fiber.App, h *Handlers) {
	api := app.Group("/api")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.HandleRegister)
	auth.Post("/login", h.Auth.HandleLogin)
	auth.Get("/me", h.Auth.RequireAuth, h.Auth.HandleMe)

	resumes := api.Group("/resumes", h.Auth.RequireAuth)
	resumes.Post("/upload", h.Resume.HandleUpload)
	resumes.Get("/", h.Resume.HandleList)

	ats := api.Group("/ats", h.Auth.RequireAuth)
	ats.Post("/analyze", h.ATS.HandleAnalyze)
	ats.Get("/analyses", h.ATS.HandleList)
	ats.Get("/analyses/:id", h.ATS.HandleGet)
	ats.Delete("/analyses/:id", h.ATS.HandleDelete)

	// The WebSocket route is authorized by its session token alone.
	api.Get("/interview/realtime/ws/:token", h.Realtime.RequireUpgrade, h.Realtime.HandleWebSocket())

	realtime := api.Group("/interview/realtime", h.Auth.RequireAuth)
	realtime.Post("/create", h.Realtime.HandleCreate)
	realtime.Get("/session/:token", h.Realtime.HandleStatus)
	realtime.Post("/end/:token", h.Realtime.HandleEnd)
	realtime.Delete("/session/:token", h.Realtime.HandleDelete)

	sessions := api.Group("/interview/sessions", h.Auth.RequireAuth)
	sessions.Post("/", h.Interview.HandleCreate)
	sessions.Get("/", h.Interview.HandleList)
	sessions.Get("/:id", h.Interview.HandleGet)
	sessions.Post("/:id/answer", h.Interview.HandleAnswer)
	sessions.Post("/:id/complete", h.Interview.HandleComplete)
	sessions.Delete("/:id", h.Interview.HandleDelete)

	api.Post("/career-coach", h.Coach.HandleAdvise)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "HireMind API",
			"version":   "1.0.0",
			"endpoints": endpoints,
		})
	})
}
