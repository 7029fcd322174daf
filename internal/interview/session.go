package interview

import (
	"time"
)

type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryTechnical  Category = "technical"
	CategoryBehavioral Category = "behavioral"
)

// ParseCategory validates a session_type value. An empty value means general.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case "":
		return CategoryGeneral, nil
	case CategoryGeneral, CategoryTechnical, CategoryBehavioral:
		return Category(s), nil
	default:
		return "", ErrInvalidCategory
	}
}

type Status string

const (
	StatusCreated   Status = "created"
	StatusReady     Status = "ready"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Evaluation is the result of scoring one answer.
type Evaluation struct {
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// Turn is one entry of the conversation history.
type Turn struct {
	Role       Role        `json:"role"`
	Content    string      `json:"content"`
	Timestamp  time.Time   `json:"timestamp"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

// Session is the in-memory state of one real-time interview. It is owned by
// the Store and only mutated on the session's owner goroutine.
type Session struct {
	Token       string
	SessionID   uint
	OwnerID     uint
	Category    Category
	ResumeText  string
	Questions   []string
	Cursor      int
	History     []Turn
	Status      Status
	StartedAt   time.Time
	CompletedAt *time.Time
	Feedback    *FinalFeedback
}

// UserTurns returns the number of user turns in the history.
func (s *Session) UserTurns() int {
	n := 0
	for _, t := range s.History {
		if t.Role == RoleUser {
			n++
		}
	}
	return n
}

// Exhausted reports whether every prepared question has been asked.
func (s *Session) Exhausted() bool {
	return s.Cursor >= len(s.Questions)
}

// nextQuestion returns questions[cursor] and advances the cursor.
func (s *Session) nextQuestion() (string, bool) {
	if s.Exhausted() {
		return "", false
	}
	q := s.Questions[s.Cursor]
	s.Cursor++
	return q, true
}

func (s *Session) appendTurn(role Role, content string, at time.Time) *Turn {
	s.History = append(s.History, Turn{
		Role:      role,
		Content:   content,
		Timestamp: at,
	})
	return &s.History[len(s.History)-1]
}

// lastAssistantTurn returns the most recent assistant turn before index i.
func (s *Session) lastAssistantTurn(before int) *Turn {
	for i := before - 1; i >= 0; i-- {
		if s.History[i].Role == RoleAssistant {
			return &s.History[i]
		}
	}
	return nil
}

func (s *Session) clone() *Session {
	cp := *s
	cp.Questions = append([]string(nil), s.Questions...)
	cp.History = make([]Turn, len(s.History))
	copy(cp.History, s.History)
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		cp.CompletedAt = &t
	}
	if s.Feedback != nil {
		fb := *s.Feedback
		cp.Feedback = &fb
	}
	return &cp
}
