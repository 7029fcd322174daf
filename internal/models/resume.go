package models

import "time"

type Resume struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	FilePath         string    `gorm:"type:text" json:"-"`
	ExtractedText    string    `gorm:"type:text" json:"extracted_text"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `gorm:"type:text" json:"mime_type"`
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Resume) TableName() string {
	return "resumes"
}

type JobDescription struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"type:text;not null" json:"title"`
	Company         string    `gorm:"type:text" json:"company"`
	DescriptionText string    `gorm:"type:text;not null" json:"description_text"`
	Requirements    string    `gorm:"type:text" json:"requirements"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (JobDescription) TableName() string {
	return "job_descriptions"
}
