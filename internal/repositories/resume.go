package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"alfredoptarigan/hiremind/internal/models"
)

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByID(id, userID uint) (*models.Resume, error)
	FindByUser(userID uint) ([]models.Resume, error)
	CreateJobDescription(jd *models.JobDescription) error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// Create implements ResumeRepository.
func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// FindByID implements ResumeRepository. Resumes of other users are not found.
func (r *resumeRepository) FindByID(id, userID uint) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&resume).Error; err != nil {
		return nil, notFoundOr(err, "resume")
	}
	return &resume, nil
}

// FindByUser implements ResumeRepository.
func (r *resumeRepository) FindByUser(userID uint) ([]models.Resume, error) {
	var resumes []models.Resume
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("failed to find resumes: %w", err)
	}
	return resumes, nil
}

// CreateJobDescription implements ResumeRepository.
func (r *resumeRepository) CreateJobDescription(jd *models.JobDescription) error {
	if err := r.db.Create(jd).Error; err != nil {
		return fmt.Errorf("failed to create job description: %w", err)
	}
	return nil
}
