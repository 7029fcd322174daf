package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiremind/internal/models"
	"alfredoptarigan/hiremind/internal/services"
)

type InterviewHandler struct {
	interviewService services.InterviewService
}

func NewInterviewHandler(interviewService services.InterviewService) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
	}
}

// HandleCreate handles POST /interview/sessions
func (h *InterviewHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	session, err := h.interviewService.CreateSession(c.UserContext(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.NewInterviewSessionResponse(session))
}

// HandleList handles GET /interview/sessions
func (h *InterviewHandler) HandleList(c *fiber.Ctx) error {
	sessions, err := h.interviewService.ListSessions(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	response := make([]models.InterviewSessionResponse, len(sessions))
	for i := range sessions {
		response[i] = models.NewInterviewSessionResponse(&sessions[i])
	}
	return c.JSON(response)
}

// HandleGet handles GET /interview/sessions/:id
func (h *InterviewHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	session, err := h.interviewService.GetSession(id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewInterviewSessionResponse(session))
}

// HandleAnswer handles POST /interview/sessions/:id/answer
func (h *InterviewHandler) HandleAnswer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req models.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	question, err := h.interviewService.SubmitAnswer(c.UserContext(), id, currentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(question)
}

// HandleComplete handles POST /interview/sessions/:id/complete
func (h *InterviewHandler) HandleComplete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	feedback, err := h.interviewService.CompleteSession(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Interview session completed successfully",
		"feedback": feedback,
	})
}

// HandleDelete handles DELETE /interview/sessions/:id
func (h *InterviewHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.interviewService.DeleteSession(id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Interview session deleted successfully",
	})
}
