package interview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store maps session tokens to live sessions. Every session is owned by a
// single goroutine; all reads and writes of its state are sent to that
// goroutine as closures, so concurrent connections for one token never race.
type Store struct {
	bank          QuestionBank
	questionCount int
	now           func() time.Time

	mu       sync.RWMutex
	sessions map[string]*owner
	closed   bool
}

type owner struct {
	session *Session
	ops     chan func(*Session)
	done    chan struct{}
	once    sync.Once
}

func (o *owner) run() {
	for {
		select {
		case op := <-o.ops:
			op(o.session)
		case <-o.done:
			return
		}
	}
}

func (o *owner) stop() {
	o.once.Do(func() { close(o.done) })
}

// NewStore creates an empty store generating questionCount questions per session.
func NewStore(bank QuestionBank, questionCount int) *Store {
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}
	return &Store{
		bank:          bank,
		questionCount: questionCount,
		now:           time.Now,
		sessions:      make(map[string]*owner),
	}
}

// Create generates the session's questions and registers it under a new token.
func (s *Store) Create(ownerID, sessionID uint, category Category, resumeText string) (string, error) {
	sess := &Session{
		Token:      uuid.NewString(),
		SessionID:  sessionID,
		OwnerID:    ownerID,
		Category:   category,
		ResumeText: resumeText,
		Status:     StatusCreated,
		StartedAt:  s.now().UTC(),
	}

	sess.Questions = s.bank.Generate(category, resumeText, s.questionCount)
	sess.Status = StatusReady

	o := &owner{
		session: sess,
		ops:     make(chan func(*Session)),
		done:    make(chan struct{}),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrStoreClosed
	}
	s.sessions[sess.Token] = o
	go o.run()

	return sess.Token, nil
}

// Do runs fn against the session on its owner goroutine and returns fn's error.
func (s *Store) Do(ctx context.Context, token string, fn func(*Session) error) error {
	o, err := s.lookup(token)
	if err != nil {
		return err
	}

	result := make(chan error, 1)
	op := func(sess *Session) {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("session operation panicked: %v", r)
			}
		}()
		result <- fn(sess)
	}

	select {
	case o.ops <- op:
	case <-o.done:
		return ErrSessionNotFound
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get returns a copy of the session state.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	var snapshot *Session
	err := s.Do(ctx, token, func(sess *Session) error {
		snapshot = sess.clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Cleanup drops the session and stops its owner goroutine.
func (s *Store) Cleanup(token string) {
	s.mu.Lock()
	o, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if ok {
		o.stop()
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops every owner goroutine. The store rejects new sessions afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	owners := s.sessions
	s.sessions = make(map[string]*owner)
	s.closed = true
	s.mu.Unlock()

	for _, o := range owners {
		o.stop()
	}
}

func (s *Store) lookup(token string) (*owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.sessions[token]
	if !ok {
		if s.closed {
			return nil, ErrStoreClosed
		}
		return nil, ErrSessionNotFound
	}
	return o, nil
}
