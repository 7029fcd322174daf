package interview

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"alfredoptarigan/hiremind/internal/logger"
)

// minUserTextLength is the shortest user text that gets a reply.
const minUserTextLength = 5

const (
	DefaultIdleTimeout  = 10 * time.Minute
	DefaultWriteTimeout = 10 * time.Second
	DefaultRetention    = 30 * time.Minute
	DefaultMaxHistory   = 200
)

// CompletionHandler is notified once with a snapshot of a session that has
// just been completed.
type CompletionHandler interface {
	OnCompleted(ctx context.Context, s *Session) error
}

type ManagerConfig struct {
	// IdleTimeout bounds the wait for the next client message. Zero disables it.
	IdleTimeout time.Duration
	// WriteTimeout bounds each write to the client. Zero disables it.
	WriteTimeout time.Duration
	// Retention is how long a completed session stays queryable before it
	// is dropped. Zero keeps it until explicitly cleaned up.
	Retention time.Duration
	// MaxHistory caps the number of turns kept per session. Zero disables it.
	MaxHistory int
}

// StatusView is the status-query projection of a session.
type StatusView struct {
	Status               Status    `json:"status"`
	CurrentQuestionIndex int       `json:"current_question_index"`
	TotalQuestions       int       `json:"total_questions"`
	ConversationLength   int       `json:"conversation_length"`
	StartedAt            time.Time `json:"started_at"`
}

// Manager runs real-time interviews: it owns the session store and the live
// connections, and routes client messages to the conversation policy.
type Manager struct {
	store      *Store
	policy     *Policy
	feedback   FeedbackGenerator
	completion CompletionHandler
	conns      *connRegistry
	cfg        ManagerConfig
	now        func() time.Time
}

// NewManager wires a manager. completion may be nil.
func NewManager(store *Store, policy *Policy, feedback FeedbackGenerator, completion CompletionHandler, cfg ManagerConfig) *Manager {
	return &Manager{
		store:      store,
		policy:     policy,
		feedback:   feedback,
		completion: completion,
		conns:      newConnRegistry(cfg.WriteTimeout),
		cfg:        cfg,
		now:        time.Now,
	}
}

// CreateSession prepares the questions for a new interview and returns its token.
func (m *Manager) CreateSession(ownerID, sessionID uint, category Category, resumeText string) (string, error) {
	token, err := m.store.Create(ownerID, sessionID, category, resumeText)
	if err != nil {
		return "", err
	}

	logger.Logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"user_id":    ownerID,
		"category":   category,
	}).Info("🎙️  Real-time interview session created")
	return token, nil
}

// Session returns a copy of the session state.
func (m *Manager) Session(ctx context.Context, token string) (*Session, error) {
	return m.store.Get(ctx, token)
}

// Status returns the status-query view of a session.
func (m *Manager) Status(ctx context.Context, token string) (*StatusView, error) {
	var view StatusView
	err := m.store.Do(ctx, token, func(s *Session) error {
		view = StatusView{
			Status:               s.Status,
			CurrentQuestionIndex: s.Cursor,
			TotalQuestions:       len(s.Questions),
			ConversationLength:   len(s.History),
			StartedAt:            s.StartedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Serve drives one client connection until it closes or goes idle. It
// returns ErrSessionNotFound when token does not name a live session.
func (m *Manager) Serve(ctx context.Context, token string, conn Conn) error {
	log := logger.Logger.WithField("token", token)

	if _, err := m.store.Get(ctx, token); err != nil {
		_ = conn.WriteJSON(NewError("Invalid session token"))
		return err
	}

	lc := m.conns.register(token, conn)
	defer m.conns.unregister(token, lc)

	log.Info("🔌 Interview connection opened")
	m.send(token, NewAIMessage(greeting, m.now()))

	for {
		if m.cfg.IdleTimeout > 0 {
			if err := conn.SetReadDeadline(m.now().Add(m.cfg.IdleTimeout)); err != nil {
				log.Debugf("Failed to set read deadline: %v", err)
			}
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Debugf("Interview connection closed: %v", err)
			return nil
		}

		msg, err := DecodeInbound(data)
		if err != nil {
			m.send(token, NewError("Invalid message format"))
			continue
		}
		if msg == nil {
			continue
		}

		if err := m.Handle(ctx, token, msg); err != nil {
			m.reportError(token, err)
			if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrStoreClosed) {
				return err
			}
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

// Handle applies one client message to the session.
func (m *Manager) Handle(ctx context.Context, token string, msg Inbound) error {
	switch msg := msg.(type) {
	case UserText:
		return m.handleUserText(ctx, token, msg.Text)
	case UserAudio:
		if strings.TrimSpace(msg.TranscribedText) == "" {
			return nil
		}
		return m.handleUserText(ctx, token, msg.TranscribedText)
	case ConnectionReady:
		return m.handleConnectionReady(ctx, token)
	case RequestNextQuestion:
		return m.askNextQuestion(ctx, token)
	case EndInterview:
		_, err := m.EndInterview(ctx, token)
		return err
	default:
		return nil
	}
}

func (m *Manager) handleUserText(ctx context.Context, token, text string) error {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minUserTextLength {
		return nil
	}

	return m.store.Do(ctx, token, func(s *Session) error {
		if s.Status == StatusCompleted {
			return ErrSessionCompleted
		}
		if m.cfg.MaxHistory > 0 && len(s.History)+2 > m.cfg.MaxHistory {
			return ErrHistoryLimit
		}

		m.send(token, NewTypingIndicator(true))
		now := m.now().UTC()
		reply := m.policy.Respond(s, text, now)
		m.send(token, NewAIMessage(reply, now))
		m.send(token, NewTypingIndicator(false))
		return nil
	})
}

func (m *Manager) handleConnectionReady(ctx context.Context, token string) error {
	return m.store.Do(ctx, token, func(s *Session) error {
		if s.Status == StatusCompleted {
			return ErrSessionCompleted
		}
		s.Status = StatusActive
		m.send(token, NewSessionStatus(StatusActive, "Connection established. Interview starting..."))
		return nil
	})
}

// askNextQuestion asks questions[cursor] without consulting the policy. Once
// the questions are exhausted it repeats the wrap-up line and changes nothing.
func (m *Manager) askNextQuestion(ctx context.Context, token string) error {
	return m.store.Do(ctx, token, func(s *Session) error {
		if s.Status == StatusCompleted {
			return ErrSessionCompleted
		}

		now := m.now().UTC()
		q, ok := s.nextQuestion()
		if !ok {
			m.send(token, NewAIMessage(wrapUpLine, now))
			return nil
		}
		s.appendTurn(RoleAssistant, q, now)
		m.send(token, NewAIMessage(q, now))
		return nil
	})
}

// EndInterview completes the session and pushes the final feedback. Ending a
// completed session re-sends the stored feedback.
func (m *Manager) EndInterview(ctx context.Context, token string) (*FinalFeedback, error) {
	var (
		feedback  *FinalFeedback
		completed *Session
	)

	err := m.store.Do(ctx, token, func(s *Session) error {
		if s.Status == StatusCompleted {
			feedback = s.Feedback
			m.send(token, NewInterviewCompleted(feedback))
			return nil
		}

		now := m.now().UTC()
		fb, err := m.feedback.Generate(ctx, s, now)
		if err != nil {
			logger.Logger.WithField("token", token).Errorf("❌ Failed to generate final feedback: %v", err)
			fb = DegradedFeedback(err)
		}

		s.Status = StatusCompleted
		s.CompletedAt = &now
		s.Feedback = fb

		feedback = fb
		completed = s.clone()
		m.send(token, NewInterviewCompleted(fb))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed != nil {
		logger.Logger.WithFields(logrus.Fields{
			"session_id":    completed.SessionID,
			"overall_score": feedback.OverallScore,
		}).Info("✅ Real-time interview completed")

		if m.completion != nil {
			if err := m.completion.OnCompleted(ctx, completed); err != nil {
				logger.Logger.WithField("session_id", completed.SessionID).Warnf("⚠️  Completion hook failed: %v", err)
			}
		}

		if m.cfg.Retention > 0 {
			time.AfterFunc(m.cfg.Retention, func() { m.Cleanup(token) })
		}
	}

	return feedback, nil
}

// Cleanup drops the session and closes its connection.
func (m *Manager) Cleanup(token string) {
	m.conns.remove(token)
	m.store.Cleanup(token)
}

// Close stops every session.
func (m *Manager) Close() {
	m.store.Close()
}

func (m *Manager) send(token string, ev Event) {
	_ = m.conns.send(token, ev)
}

func (m *Manager) reportError(token string, err error) {
	switch {
	case errors.Is(err, ErrSessionCompleted),
		errors.Is(err, ErrHistoryLimit),
		errors.Is(err, ErrSessionNotFound):
		m.send(token, NewError(capitalize(err.Error())))
	default:
		logger.Logger.WithField("token", token).Errorf("❌ Failed to handle interview message: %v", err)
		m.send(token, NewError("Failed to process message"))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
