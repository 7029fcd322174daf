package services

import (
	"fmt"
	"mime/multipart"
	"strings"

	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/models"
	"alfredoptarigan/hiremind/internal/repositories"
)

// AnalysisRequest is an ATS submission: the resume file plus the job it is
// scored against.
type AnalysisRequest struct {
	File           *multipart.FileHeader
	JobTitle       string
	JobDescription string
	Company        string
}

// AnalysisService queues ATS analyses and serves their results.
type AnalysisService interface {
	Submit(userID uint, req *AnalysisRequest) (*models.AnalysisResult, error)
	List(userID uint) ([]models.AnalysisResult, error)
	Get(id, userID uint) (*models.AnalysisResult, error)
	Delete(id, userID uint) error
}

type analysisService struct {
	analysisRepo  repositories.AnalysisRepository
	resumeRepo    repositories.ResumeRepository
	resumeService ResumeService
	worker        Worker
}

func NewAnalysisService(
	analysisRepo repositories.AnalysisRepository,
	resumeRepo repositories.ResumeRepository,
	resumeService ResumeService,
	worker Worker,
) AnalysisService {
	return &analysisService{
		analysisRepo:  analysisRepo,
		resumeRepo:    resumeRepo,
		resumeService: resumeService,
		worker:        worker,
	}
}

// Submit stores the resume and job description, records a queued analysis
// and hands it to the worker.
func (s *analysisService) Submit(userID uint, req *AnalysisRequest) (*models.AnalysisResult, error) {
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.JobDescription = strings.TrimSpace(req.JobDescription)
	if req.JobTitle == "" {
		return nil, fmt.Errorf("%w: job_title is required", models.ErrInvalidInput)
	}
	if req.JobDescription == "" {
		return nil, fmt.Errorf("%w: job_description is required", models.ErrInvalidInput)
	}

	resume, err := s.resumeService.Upload(userID, req.File)
	if err != nil {
		return nil, err
	}

	jd := &models.JobDescription{
		Title:           req.JobTitle,
		Company:         strings.TrimSpace(req.Company),
		DescriptionText: req.JobDescription,
	}
	if err := s.resumeRepo.CreateJobDescription(jd); err != nil {
		return nil, err
	}

	analysis := &models.AnalysisResult{
		UserID:           userID,
		ResumeID:         resume.ID,
		JobDescriptionID: jd.ID,
		Status:           models.StatusQueued,
	}
	if err := s.analysisRepo.Create(analysis); err != nil {
		return nil, err
	}

	s.worker.EnqueueJob(analysis.ID)
	logger.Logger.WithField("analysis_id", analysis.ID).Info("📥 ATS analysis queued")

	return analysis, nil
}

func (s *analysisService) List(userID uint) ([]models.AnalysisResult, error) {
	return s.analysisRepo.FindByUser(userID)
}

func (s *analysisService) Get(id, userID uint) (*models.AnalysisResult, error) {
	return s.analysisRepo.FindByIDForUser(id, userID)
}

func (s *analysisService) Delete(id, userID uint) error {
	return s.analysisRepo.Delete(id, userID)
}
