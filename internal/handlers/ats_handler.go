package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiremind/internal/models"
	"alfredoptarigan/hiremind/internal/services"
)

type ATSHandler struct {
	analysisService services.AnalysisService
}

func NewATSHandler(analysisService services.AnalysisService) *ATSHandler {
	return &ATSHandler{
		analysisService: analysisService,
	}
}

// HandleAnalyze handles POST /ats/analyze. The analysis runs in the background.
func (h *ATSHandler) HandleAnalyze(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume file provided.",
		})
	}

	analysis, err := h.analysisService.Submit(currentUserID(c), &services.AnalysisRequest{
		File:           file,
		JobTitle:       c.FormValue("job_title"),
		JobDescription: c.FormValue("job_description"),
		Company:        c.FormValue("company"),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(models.AnalyzeResponse{
		ID:     analysis.ID,
		Status: analysis.Status,
	})
}

// HandleList handles GET /ats/analyses
func (h *ATSHandler) HandleList(c *fiber.Ctx) error {
	analyses, err := h.analysisService.List(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(analyses)
}

// HandleGet handles GET /ats/analyses/:id
func (h *ATSHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	analysis, err := h.analysisService.Get(id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(analysis)
}

// HandleDelete handles DELETE /ats/analyses/:id
func (h *ATSHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.analysisService.Delete(id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Analysis deleted successfully",
	})
}
