package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"alfredoptarigan/hiremind/internal/models"
)

type AnalysisRepository interface {
	Create(analysis *models.AnalysisResult) error
	FindByID(id uint) (*models.AnalysisResult, error)
	FindByIDForUser(id, userID uint) (*models.AnalysisResult, error)
	FindByUser(userID uint) ([]models.AnalysisResult, error)
	UpdateStatus(id uint, status models.AnalysisStatus) error
	UpdateResult(id uint, result *AnalysisUpdateData) error
	UpdateError(id uint, errorMsg string) error
	FindPendingJobs(limit int) ([]models.AnalysisResult, error)
	Delete(id, userID uint) error
}

type AnalysisUpdateData struct {
	ATSScore        float64
	KeywordMatches  []string
	MissingKeywords []string
	Suggestions     []string
	Strengths       []string
	Weaknesses      []string
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(analysis *models.AnalysisResult) error {
	if err := r.db.Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

// FindByID loads the analysis with its resume and job description for the worker.
func (r *analysisRepository) FindByID(id uint) (*models.AnalysisResult, error) {
	var analysis models.AnalysisResult
	err := r.db.Preload("Resume").Preload("JobDescription").
		Where("id = ?", id).
		First(&analysis).Error
	if err != nil {
		return nil, notFoundOr(err, "analysis")
	}
	return &analysis, nil
}

func (r *analysisRepository) FindByIDForUser(id, userID uint) (*models.AnalysisResult, error) {
	var analysis models.AnalysisResult
	err := r.db.Preload("JobDescription").
		Where("id = ? AND user_id = ?", id, userID).
		First(&analysis).Error
	if err != nil {
		return nil, notFoundOr(err, "analysis")
	}
	return &analysis, nil
}

func (r *analysisRepository) FindByUser(userID uint) ([]models.AnalysisResult, error) {
	var analyses []models.AnalysisResult
	err := r.db.Preload("JobDescription").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&analyses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find analyses: %w", err)
	}
	return analyses, nil
}

func (r *analysisRepository) UpdateStatus(id uint, status models.AnalysisStatus) error {
	result := r.db.Model(&models.AnalysisResult{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis %d: %w", id, models.ErrNotFound)
	}

	return nil
}

func (r *analysisRepository) UpdateResult(id uint, data *AnalysisUpdateData) error {
	score := data.ATSScore
	result := r.db.Model(&models.AnalysisResult{ID: id}).
		Select("status", "ats_score", "keyword_matches", "missing_keywords", "suggestions", "strengths", "weaknesses", "updated_at").
		Updates(&models.AnalysisResult{
			Status:          models.StatusCompleted,
			ATSScore:        &score,
			KeywordMatches:  data.KeywordMatches,
			MissingKeywords: data.MissingKeywords,
			Suggestions:     data.Suggestions,
			Strengths:       data.Strengths,
			Weaknesses:      data.Weaknesses,
			UpdatedAt:       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis %d: %w", id, models.ErrNotFound)
	}

	return nil
}

func (r *analysisRepository) UpdateError(id uint, errorMsg string) error {
	result := r.db.Model(&models.AnalysisResult{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis %d: %w", id, models.ErrNotFound)
	}

	return nil
}

func (r *analysisRepository) FindPendingJobs(limit int) ([]models.AnalysisResult, error) {
	var analyses []models.AnalysisResult
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&analyses).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return analyses, nil
}

func (r *analysisRepository) Delete(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.AnalysisResult{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete analysis: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis %d: %w", id, models.ErrNotFound)
	}
	return nil
}
