package services

import (
	"fmt"
	"mime/multipart"

	"github.com/sirupsen/logrus"

	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/models"
	"alfredoptarigan/hiremind/internal/repositories"
)

// ResumeService stores uploaded resumes together with their extracted text.
type ResumeService interface {
	Upload(userID uint, file *multipart.FileHeader) (*models.Resume, error)
	List(userID uint) ([]models.Resume, error)
}

type resumeService struct {
	resumeRepo  repositories.ResumeRepository
	storage     StorageService
	parser      DocumentParserService
	maxFileSize int64
}

func NewResumeService(
	resumeRepo repositories.ResumeRepository,
	storage StorageService,
	parser DocumentParserService,
	maxFileSize int64,
) ResumeService {
	return &resumeService{
		resumeRepo:  resumeRepo,
		storage:     storage,
		parser:      parser,
		maxFileSize: maxFileSize,
	}
}

// Upload saves the file, extracts its text and records it. The stored file
// is removed when a later step fails.
func (s *resumeService) Upload(userID uint, file *multipart.FileHeader) (*models.Resume, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: file is required", models.ErrInvalidInput)
	}
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return nil, fmt.Errorf("%w: file too large, max size: %d bytes", models.ErrInvalidInput, s.maxFileSize)
	}

	stored, err := s.storage.SaveFile(file)
	if err != nil {
		return nil, err
	}

	text, err := s.parser.ExtractText(stored.Path)
	if err != nil {
		s.discard(stored)
		return nil, fmt.Errorf("failed to extract text from resume: %w", err)
	}

	resume := &models.Resume{
		UserID:           userID,
		Filename:         stored.Filename,
		OriginalFileName: file.Filename,
		FilePath:         stored.Path,
		ExtractedText:    text,
		FileSize:         stored.Size,
		MimeType:         stored.MimeType,
	}
	if err := s.resumeRepo.Create(resume); err != nil {
		s.discard(stored)
		return nil, err
	}

	logger.Logger.WithFields(logrus.Fields{
		"resume_id": resume.ID,
		"user_id":   userID,
		"chars":     len(text),
	}).Info("📄 Resume uploaded")

	return resume, nil
}

func (s *resumeService) List(userID uint) ([]models.Resume, error) {
	return s.resumeRepo.FindByUser(userID)
}

func (s *resumeService) discard(stored *StoredFile) {
	if err := s.storage.DeleteFile(stored.Filename); err != nil {
		logger.Logger.Warnf("⚠️  Failed to remove uploaded file %s: %v", stored.Filename, err)
	}
}
