package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiremind/internal/models"
	"alfredoptarigan/hiremind/internal/services"
)

type CoachHandler struct {
	coachService services.CareerCoachService
}

func NewCoachHandler(coachService services.CareerCoachService) *CoachHandler {
	return &CoachHandler{
		coachService: coachService,
	}
}

// HandleAdvise handles POST /career-coach
func (h *CoachHandler) HandleAdvise(c *fiber.Ctx) error {
	var req models.CareerCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	reply, err := h.coachService.Advise(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.CareerCoachResponse{Response: reply})
}
