package models

import (
	"encoding/json"
	"time"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AnalyzeResponse struct {
	ID     uint           `json:"id"`
	Status AnalysisStatus `json:"status"`
}

type CreateInterviewRequest struct {
	SessionType string `json:"session_type"`
	ResumeID    *uint  `json:"resume_id"`
}

type AnswerRequest struct {
	QuestionID uint   `json:"question_id"`
	UserAnswer string `json:"user_answer"`
}

// InterviewSessionResponse exposes the stored feedback JSON verbatim.
type InterviewSessionResponse struct {
	InterviewSession
	Feedback json.RawMessage `json:"feedback,omitempty"`
}

func NewInterviewSessionResponse(s *InterviewSession) InterviewSessionResponse {
	resp := InterviewSessionResponse{InterviewSession: *s}
	if s.Feedback != nil && json.Valid([]byte(*s.Feedback)) {
		resp.Feedback = json.RawMessage(*s.Feedback)
	}
	return resp
}

type RealtimeCreateRequest struct {
	SessionType string `json:"session_type"`
	ResumeID    *uint  `json:"resume_id"`
	ResumeText  string `json:"resume_text"`
}

type RealtimeCreateResponse struct {
	SessionToken string `json:"session_token"`
	SessionID    uint   `json:"session_id"`
	WebsocketURL string `json:"websocket_url"`
}

type CareerCoachRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
	UserMessage    string `json:"user_message"`
}

type CareerCoachResponse struct {
	Response string `json:"response"`
}

// InterviewCompletedMessage is published to the broker when an interview finishes.
type InterviewCompletedMessage struct {
	SessionID      uint      `json:"session_id"`
	UserID         uint      `json:"user_id"`
	SessionType    string    `json:"session_type"`
	OverallScore   float64   `json:"overall_score"`
	TotalResponses int       `json:"total_responses"`
	CompletedAt    time.Time `json:"completed_at"`
}
