package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiremind/internal/services"
)

type ResumeHandler struct {
	resumeService services.ResumeService
}

func NewResumeHandler(resumeService services.ResumeService) *ResumeHandler {
	return &ResumeHandler{
		resumeService: resumeService,
	}
}

// HandleUpload handles POST /resumes/upload
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume file provided. Please upload 'file' as a PDF or DOCX document.",
		})
	}

	resume, err := h.resumeService.Upload(currentUserID(c), file)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resume)
}

// HandleList handles GET /resumes
func (h *ResumeHandler) HandleList(c *fiber.Ctx) error {
	resumes, err := h.resumeService.List(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resumes)
}
