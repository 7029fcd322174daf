package models

import "time"

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// AnalysisResult is one ATS scoring of a resume against a job description.
// List columns are stored as JSON text.
type AnalysisResult struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"index;not null" json:"user_id"`
	ResumeID         uint           `gorm:"not null" json:"resume_id"`
	JobDescriptionID uint           `gorm:"not null" json:"job_description_id"`
	Status           AnalysisStatus `gorm:"not null;default:'queued'" json:"status"`
	ATSScore         *float64       `json:"ats_score,omitempty"`
	KeywordMatches   []string       `gorm:"type:text;serializer:json" json:"keyword_matches"`
	MissingKeywords  []string       `gorm:"type:text;serializer:json" json:"missing_keywords"`
	Suggestions      []string       `gorm:"type:text;serializer:json" json:"suggestions"`
	Strengths        []string       `gorm:"type:text;serializer:json" json:"strengths"`
	Weaknesses       []string       `gorm:"type:text;serializer:json" json:"weaknesses"`
	ErrorMessage     *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Resume         Resume         `gorm:"foreignKey:ResumeID" json:"-"`
	JobDescription JobDescription `gorm:"foreignKey:JobDescriptionID" json:"job_description"`
}

func (AnalysisResult) TableName() string {
	return "analysis_results"
}
