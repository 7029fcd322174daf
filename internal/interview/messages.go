package interview

import (
	"encoding/json"
	"fmt"
	"time"
)

// Inbound is a message received from the interview client. The set of
// implementations is closed: ConnectionReady, UserText, UserAudio,
// RequestNextQuestion and EndInterview.
type Inbound interface {
	inbound()
}

type ConnectionReady struct{}

type UserText struct {
	Text string
}

type UserAudio struct {
	AudioData       json.RawMessage
	TranscribedText string
	IsFinal         bool
}

type RequestNextQuestion struct{}

type EndInterview struct{}

func (ConnectionReady) inbound()     {}
func (UserText) inbound()            {}
func (UserAudio) inbound()           {}
func (RequestNextQuestion) inbound() {}
func (EndInterview) inbound()        {}

type inboundEnvelope struct {
	Type            string          `json:"type"`
	Text            string          `json:"text"`
	AudioData       json.RawMessage `json:"audio_data"`
	TranscribedText string          `json:"transcribed_text"`
	IsFinal         bool            `json:"is_final"`
}

// DecodeInbound parses a client frame. Unknown types decode to nil with no error.
func DecodeInbound(data []byte) (Inbound, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}

	switch env.Type {
	case "connection_ready":
		return ConnectionReady{}, nil
	case "user_text":
		return UserText{Text: env.Text}, nil
	case "user_audio":
		return UserAudio{
			AudioData:       env.AudioData,
			TranscribedText: env.TranscribedText,
			IsFinal:         env.IsFinal,
		}, nil
	case "request_next_question":
		return RequestNextQuestion{}, nil
	case "end_interview":
		return EndInterview{}, nil
	default:
		return nil, nil
	}
}

// Event is a message pushed to the interview client.
type Event interface {
	EventType() string
}

type AIMessageEvent struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type TypingIndicatorEvent struct {
	Type     string `json:"type"`
	IsTyping bool   `json:"is_typing"`
}

type SessionStatusEvent struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type InterviewCompletedEvent struct {
	Type     string         `json:"type"`
	Feedback *FinalFeedback `json:"feedback"`
	Message  string         `json:"message"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e AIMessageEvent) EventType() string          { return e.Type }
func (e TypingIndicatorEvent) EventType() string    { return e.Type }
func (e SessionStatusEvent) EventType() string      { return e.Type }
func (e InterviewCompletedEvent) EventType() string { return e.Type }
func (e ErrorEvent) EventType() string              { return e.Type }

func NewAIMessage(content string, at time.Time) AIMessageEvent {
	return AIMessageEvent{Type: "ai_message", Content: content, Timestamp: at.UTC().Format(time.RFC3339Nano)}
}

func NewTypingIndicator(isTyping bool) TypingIndicatorEvent {
	return TypingIndicatorEvent{Type: "typing_indicator", IsTyping: isTyping}
}

func NewSessionStatus(status Status, message string) SessionStatusEvent {
	return SessionStatusEvent{Type: "session_status", Status: string(status), Message: message}
}

func NewInterviewCompleted(feedback *FinalFeedback) InterviewCompletedEvent {
	return InterviewCompletedEvent{
		Type:     "interview_completed",
		Feedback: feedback,
		Message:  "Thank you for your time! The interview has been completed.",
	}
}

func NewError(message string) ErrorEvent {
	return ErrorEvent{Type: "error", Message: message}
}
