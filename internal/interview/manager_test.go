package interview

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeConn struct {
	in chan []byte

	mu     sync.Mutex
	out    []map[string]interface{}
	closed bool
}

func newFakeConn(frames ...string) *fakeConn {
	c := &fakeConn{in: make(chan []byte, len(frames))}
	for _, f := range frames {
		c.in <- []byte(f)
	}
	close(c.in)
	return c
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	data, ok := <-c.in
	if !ok {
		return 0, nil, io.EOF
	}
	return 1, data, nil
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	c.out = append(c.out, m)
	return nil
}

func (c *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) events() []map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]map[string]interface{}(nil), c.out...)
}

func (c *fakeConn) types() []string {
	var types []string
	for _, ev := range c.events() {
		types = append(types, ev["type"].(string))
	}
	return types
}

type recordingCompletion struct {
	mu       sync.Mutex
	sessions []*Session
}

func (r *recordingCompletion) OnCompleted(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, s)
	return nil
}

type failingFeedback struct{}

func (failingFeedback) Generate(context.Context, *Session, time.Time) (*FinalFeedback, error) {
	return nil, errors.New("model unavailable")
}

func newTestManager(t *testing.T, cfg ManagerConfig) (*Manager, *recordingCompletion) {
	t.Helper()
	completion := &recordingCompletion{}
	m := NewManager(
		NewStore(NewQuestionBank(), DefaultQuestionCount),
		NewPolicy(NewEvaluator(), 7),
		NewFeedbackGenerator(nil),
		completion,
		cfg,
	)
	t.Cleanup(m.Close)
	return m, completion
}

func TestServeFullInterview(t *testing.T) {
	m, completion := newTestManager(t, ManagerConfig{})
	ctx := context.Background()

	token, err := m.CreateSession(1, 10, CategoryGeneral, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	status, err := m.Status(ctx, token)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Status != StatusReady || status.TotalQuestions != 5 || status.CurrentQuestionIndex != 0 {
		t.Fatalf("unexpected initial status: %+v", status)
	}

	conn := newFakeConn(
		`{"type":"connection_ready"}`,
		`{"type":"user_text","text":"Hi, I'm Jane"}`,
		`{"type":"end_interview"}`,
	)
	if err := m.Serve(ctx, token, conn); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	want := []string{
		"ai_message",
		"session_status",
		"typing_indicator",
		"ai_message",
		"typing_indicator",
		"interview_completed",
	}
	got := conn.types()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("event order = %v, want %v", got, want)
	}

	events := conn.events()
	if events[0]["content"] != greeting {
		t.Errorf("first message = %v, want greeting", events[0]["content"])
	}
	if events[2]["is_typing"] != true || events[4]["is_typing"] != false {
		t.Error("typing indicators out of order")
	}

	s, err := m.Session(ctx, token)
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}
	if !strings.Contains(events[3]["content"].(string), s.Questions[0]) {
		t.Errorf("reply %q does not ask the first question", events[3]["content"])
	}
	if s.Status != StatusCompleted || s.Cursor != 1 {
		t.Errorf("status = %s cursor = %d", s.Status, s.Cursor)
	}
	if s.Feedback == nil || s.Feedback.OverallScore < 0 || s.Feedback.OverallScore > 10 {
		t.Fatalf("unexpected feedback: %+v", s.Feedback)
	}
	if s.Feedback.TotalResponses != s.UserTurns() {
		t.Errorf("total responses = %d, user turns = %d", s.Feedback.TotalResponses, s.UserTurns())
	}
	if len(completion.sessions) != 1 {
		t.Errorf("completion hook called %d times, want 1", len(completion.sessions))
	}
}

func TestServeInvalidToken(t *testing.T) {
	m, _ := newTestManager(t, ManagerConfig{})
	conn := newFakeConn()

	err := m.Serve(context.Background(), "missing", conn)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	events := conn.events()
	if len(events) != 1 || events[0]["type"] != "error" || events[0]["message"] != "Invalid session token" {
		t.Errorf("unexpected events: %v", events)
	}
}

func TestServeIgnoresUnknownAndShortMessages(t *testing.T) {
	m, _ := newTestManager(t, ManagerConfig{})
	ctx := context.Background()
	token, _ := m.CreateSession(1, 1, CategoryGeneral, "")

	conn := newFakeConn(
		`{"type":"ping"}`,
		`{"type":"user_text","text":"  hey  "}`,
		`{"type":"user_audio","transcribed_text":""}`,
		`not json`,
	)
	if err := m.Serve(ctx, token, conn); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	events := conn.events()
	if len(events) != 2 {
		t.Fatalf("expected greeting and one error, got %v", events)
	}
	if events[1]["type"] != "error" || events[1]["message"] != "Invalid message format" {
		t.Errorf("unexpected error event: %v", events[1])
	}

	s, _ := m.Session(ctx, token)
	if len(s.History) != 0 || s.Cursor != 0 {
		t.Errorf("state changed: history %d cursor %d", len(s.History), s.Cursor)
	}
}

func TestUserAudioUsesTranscription(t *testing.T) {
	m, _ := newTestManager(t, ManagerConfig{})
	ctx := context.Background()
	token, _ := m.CreateSession(1, 1, CategoryGeneral, "")

	if err := m.Handle(ctx, token, UserAudio{TranscribedText: "I'm a backend engineer"}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	s, _ := m.Session(ctx, token)
	if len(s.History) != 2 || s.History[0].Content != "I'm a backend engineer" {
		t.Errorf("unexpected history: %+v", s.History)
	}
}

func TestRequestNextQuestionIsIdempotentWhenExhausted(t *testing.T) {
	m, _ := newTestManager(t, ManagerConfig{})
	ctx := context.Background()
	token, _ := m.CreateSession(1, 1, CategoryTechnical, "")

	for i := 0; i < DefaultQuestionCount; i++ {
		if err := m.Handle(ctx, token, RequestNextQuestion{}); err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
	}
	before, _ := m.Session(ctx, token)
	if before.Cursor != DefaultQuestionCount || len(before.History) != DefaultQuestionCount {
		t.Fatalf("cursor = %d history = %d", before.Cursor, len(before.History))
	}

	for i := 0; i < 2; i++ {
		if err := m.Handle(ctx, token, RequestNextQuestion{}); err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
	}
	after, _ := m.Session(ctx, token)
	if after.Cursor != before.Cursor || len(after.History) != len(before.History) {
		t.Errorf("wrap-up changed state: cursor %d history %d", after.Cursor, len(after.History))
	}
}

func TestCompletedSessionRejectsMessages(t *testing.T) {
	m, completion := newTestManager(t, ManagerConfig{})
	ctx := context.Background()
	token, _ := m.CreateSession(1, 1, CategoryGeneral, "")

	first, err := m.EndInterview(ctx, token)
	if err != nil {
		t.Fatalf("EndInterview failed: %v", err)
	}

	if err := m.Handle(ctx, token, UserText{Text: "one more thing"}); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("expected ErrSessionCompleted, got %v", err)
	}
	if err := m.Handle(ctx, token, RequestNextQuestion{}); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("expected ErrSessionCompleted, got %v", err)
	}

	second, err := m.EndInterview(ctx, token)
	if err != nil {
		t.Fatalf("second EndInterview failed: %v", err)
	}
	if second.Summary != first.Summary || second.OverallScore != first.OverallScore {
		t.Errorf("feedback changed: %+v vs %+v", second, first)
	}
	if len(completion.sessions) != 1 {
		t.Errorf("completion hook called %d times, want 1", len(completion.sessions))
	}
}

func TestEndInterviewDegradesOnFeedbackFailure(t *testing.T) {
	m := NewManager(
		NewStore(NewQuestionBank(), DefaultQuestionCount),
		NewPolicy(NewEvaluator(), 1),
		failingFeedback{},
		nil,
		ManagerConfig{},
	)
	defer m.Close()
	ctx := context.Background()
	token, _ := m.CreateSession(1, 1, CategoryGeneral, "")

	fb, err := m.EndInterview(ctx, token)
	if err != nil {
		t.Fatalf("EndInterview failed: %v", err)
	}
	if !strings.HasPrefix(fb.Error, "Failed to generate feedback") {
		t.Errorf("error = %q", fb.Error)
	}

	s, _ := m.Session(ctx, token)
	if s.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", s.Status)
	}
}

func TestHistoryLimit(t *testing.T) {
	m, _ := newTestManager(t, ManagerConfig{MaxHistory: 4})
	ctx := context.Background()
	token, _ := m.CreateSession(1, 1, CategoryGeneral, "")

	for i := 0; i < 2; i++ {
		if err := m.Handle(ctx, token, UserText{Text: "a reasonable answer"}); err != nil {
			t.Fatalf("Handle %d failed: %v", i, err)
		}
	}
	if err := m.Handle(ctx, token, UserText{Text: "a reasonable answer"}); !errors.Is(err, ErrHistoryLimit) {
		t.Errorf("expected ErrHistoryLimit, got %v", err)
	}
}

func TestCleanupClosesConnection(t *testing.T) {
	m, _ := newTestManager(t, ManagerConfig{})
	ctx := context.Background()
	token, _ := m.CreateSession(1, 1, CategoryGeneral, "")

	conn := &fakeConn{in: make(chan []byte)}
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx, token, conn) }()

	deadline := time.Now().Add(2 * time.Second)
	for m.conns.get(token) == nil {
		if time.Now().After(deadline) {
			t.Fatal("connection was never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	m.Cleanup(token)
	close(conn.in)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}

	if !conn.closed {
		t.Error("expected the connection to be closed")
	}
	if _, err := m.Session(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRegisterReplacesConnection(t *testing.T) {
	r := newConnRegistry(0)
	first := &fakeConn{}
	second := &fakeConn{}

	old := r.register("tok", first)
	current := r.register("tok", second)

	if !first.closed {
		t.Error("expected the previous connection to be closed")
	}

	r.unregister("tok", old)
	if r.get("tok") != current {
		t.Error("stale unregister removed the live connection")
	}

	r.unregister("tok", current)
	if r.get("tok") != nil {
		t.Error("expected no connection after unregister")
	}
}

// stalledConn is a client that never reads: writes block until the write
// deadline passes.
type stalledConn struct {
	mu       sync.Mutex
	deadline time.Time
	writing  chan struct{}
	once     sync.Once
}

func newStalledConn() *stalledConn {
	return &stalledConn{writing: make(chan struct{})}
}

func (c *stalledConn) ReadMessage() (int, []byte, error) {
	select {}
}

func (c *stalledConn) WriteJSON(interface{}) error {
	c.once.Do(func() { close(c.writing) })

	c.mu.Lock()
	deadline := c.deadline
	c.mu.Unlock()
	if deadline.IsZero() {
		select {}
	}
	time.Sleep(time.Until(deadline))
	return errors.New("i/o timeout")
}

func (c *stalledConn) SetReadDeadline(time.Time) error { return nil }

func (c *stalledConn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
	return nil
}

func (c *stalledConn) Close() error { return nil }

func TestStalledClientDoesNotBlockSession(t *testing.T) {
	m, _ := newTestManager(t, ManagerConfig{WriteTimeout: 50 * time.Millisecond})
	token, _ := m.CreateSession(1, 1, CategoryGeneral, "")

	conn := newStalledConn()
	m.conns.register(token, conn)

	go func() { _ = m.Handle(context.Background(), token, UserText{Text: "Hi, I'm Jane"}) }()

	select {
	case <-conn.writing:
	case <-time.After(2 * time.Second):
		t.Fatal("no write reached the connection")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := m.Status(ctx, token); err != nil {
		t.Fatalf("Status while a write is stalled: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := m.EndInterview(context.Background(), token)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("EndInterview failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("EndInterview blocked behind a stalled write")
	}

	if m.conns.get(token) != nil {
		t.Error("expected the stalled connection to be dropped")
	}
}

func TestCompletedSessionExpiresAfterRetention(t *testing.T) {
	m, _ := newTestManager(t, ManagerConfig{Retention: 20 * time.Millisecond})
	ctx := context.Background()
	token, _ := m.CreateSession(1, 1, CategoryGeneral, "")

	if _, err := m.EndInterview(ctx, token); err != nil {
		t.Fatalf("EndInterview failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, err := m.Session(ctx, token)
		if errors.Is(err, ErrSessionNotFound) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("completed session still present, last error %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestActiveSessionIsNotExpired(t *testing.T) {
	m, _ := newTestManager(t, ManagerConfig{Retention: 10 * time.Millisecond})
	ctx := context.Background()
	token, _ := m.CreateSession(1, 1, CategoryGeneral, "")

	time.Sleep(50 * time.Millisecond)
	if _, err := m.Session(ctx, token); err != nil {
		t.Errorf("active session was dropped: %v", err)
	}
}
