package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"alfredoptarigan/hiremind/internal/models"
)

type InterviewRepository interface {
	CreateSession(session *models.InterviewSession) error
	CreateQuestions(questions []models.InterviewQuestion) error
	FindSession(id, userID uint) (*models.InterviewSession, error)
	FindSessionsByUser(userID uint) ([]models.InterviewSession, error)
	FindQuestion(id, sessionID uint) (*models.InterviewQuestion, error)
	SaveAnswer(question *models.InterviewQuestion) error
	IncrementAnswered(sessionID uint) error
	SetTotalQuestions(sessionID uint, total int) error
	Complete(sessionID uint, overallScore *float64, feedback string, completedAt time.Time) error
	DeleteSession(id, userID uint) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) CreateSession(session *models.InterviewSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create interview session: %w", err)
	}
	return nil
}

func (r *interviewRepository) CreateQuestions(questions []models.InterviewQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	if err := r.db.Create(&questions).Error; err != nil {
		return fmt.Errorf("failed to create interview questions: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindSession(id, userID uint) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Where("id = ? AND user_id = ?", id, userID).First(&session).Error
	if err != nil {
		return nil, notFoundOr(err, "interview session")
	}
	return &session, nil
}

func (r *interviewRepository) FindSessionsByUser(userID uint) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := r.db.Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find interview sessions: %w", err)
	}
	return sessions, nil
}

func (r *interviewRepository) FindQuestion(id, sessionID uint) (*models.InterviewQuestion, error) {
	var question models.InterviewQuestion
	if err := r.db.Where("id = ? AND session_id = ?", id, sessionID).First(&question).Error; err != nil {
		return nil, notFoundOr(err, "interview question")
	}
	return &question, nil
}

func (r *interviewRepository) SaveAnswer(question *models.InterviewQuestion) error {
	result := r.db.Model(question).
		Select("user_answer", "ai_feedback", "score", "strengths", "improvements", "answered_at").
		Updates(question)
	if result.Error != nil {
		return fmt.Errorf("failed to save answer: %w", result.Error)
	}
	return nil
}

func (r *interviewRepository) IncrementAnswered(sessionID uint) error {
	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ?", sessionID).
		UpdateColumn("questions_answered", gorm.Expr("questions_answered + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to update answered count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("interview session %d: %w", sessionID, models.ErrNotFound)
	}
	return nil
}

func (r *interviewRepository) SetTotalQuestions(sessionID uint, total int) error {
	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ?", sessionID).
		Update("total_questions", total)
	if result.Error != nil {
		return fmt.Errorf("failed to update total questions: %w", result.Error)
	}
	return nil
}

// Complete marks the session completed and stores its feedback JSON.
func (r *interviewRepository) Complete(sessionID uint, overallScore *float64, feedback string, completedAt time.Time) error {
	updates := map[string]interface{}{
		"status":       models.InterviewCompleted,
		"feedback":     feedback,
		"completed_at": completedAt,
	}
	if overallScore != nil {
		updates["overall_score"] = *overallScore
	}

	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ?", sessionID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to complete interview session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("interview session %d: %w", sessionID, models.ErrNotFound)
	}
	return nil
}

func (r *interviewRepository) DeleteSession(id, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.InterviewSession{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete interview session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("interview session %d: %w", id, models.ErrNotFound)
		}
		if err := tx.Where("session_id = ?", id).Delete(&models.InterviewQuestion{}).Error; err != nil {
			return fmt.Errorf("failed to delete interview questions: %w", err)
		}
		return nil
	})
}
