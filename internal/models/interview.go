package models

import "time"

type InterviewStatus string

const (
	InterviewActive    InterviewStatus = "active"
	InterviewCompleted InterviewStatus = "completed"
)

type InterviewSession struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"index;not null" json:"user_id"`
	ResumeID          *uint           `json:"resume_id,omitempty"`
	SessionType       string          `gorm:"type:text;not null" json:"session_type"`
	Status            InterviewStatus `gorm:"not null;default:'active'" json:"status"`
	TotalQuestions    int             `json:"total_questions"`
	QuestionsAnswered int             `json:"questions_answered"`
	OverallScore      *float64        `json:"overall_score,omitempty"`
	Feedback          *string         `gorm:"type:text" json:"-"`
	StartedAt         time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"started_at"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`

	Questions []InterviewQuestion `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

type InterviewQuestion struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SessionID    uint       `gorm:"index;not null" json:"session_id"`
	QuestionText string     `gorm:"type:text;not null" json:"question_text"`
	QuestionType string     `gorm:"type:text" json:"question_type"`
	UserAnswer   *string    `gorm:"type:text" json:"user_answer,omitempty"`
	AIFeedback   *string    `gorm:"type:text" json:"ai_feedback,omitempty"`
	Score        *float64   `json:"score,omitempty"`
	Strengths    []string   `gorm:"type:text;serializer:json" json:"strengths"`
	Improvements []string   `gorm:"type:text;serializer:json" json:"improvements"`
	AskedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"asked_at"`
	AnsweredAt   *time.Time `json:"answered_at,omitempty"`
}

func (InterviewQuestion) TableName() string {
	return "interview_questions"
}

// Answered reports whether the question already has an answer.
func (q *InterviewQuestion) Answered() bool {
	return q.UserAnswer != nil
}
