package services

import (
	"fmt"
	"sync"
	"time"

	"alfredoptarigan/hiremind/internal/models"
)

type fakeUserRepo struct {
	users  []*models.User
	nextID uint
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", models.ErrNotFound)
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", models.ErrNotFound)
}

func (r *fakeUserRepo) ExistsByEmailOrUsername(email, username string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type fakeResumeRepo struct {
	resumes []*models.Resume
	jds     []*models.JobDescription
}

func (r *fakeResumeRepo) Create(resume *models.Resume) error {
	resume.ID = uint(len(r.resumes) + 1)
	r.resumes = append(r.resumes, resume)
	return nil
}

func (r *fakeResumeRepo) FindByID(id, userID uint) (*models.Resume, error) {
	for _, res := range r.resumes {
		if res.ID == id && res.UserID == userID {
			return res, nil
		}
	}
	return nil, fmt.Errorf("resume not found: %w", models.ErrNotFound)
}

func (r *fakeResumeRepo) FindByUser(userID uint) ([]models.Resume, error) {
	var out []models.Resume
	for _, res := range r.resumes {
		if res.UserID == userID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *fakeResumeRepo) CreateJobDescription(jd *models.JobDescription) error {
	jd.ID = uint(len(r.jds) + 1)
	r.jds = append(r.jds, jd)
	return nil
}

type fakeInterviewRepo struct {
	mu               sync.Mutex
	sessions         map[uint]*models.InterviewSession
	questions        map[uint]*models.InterviewQuestion
	nextSession      uint
	nextQuestion     uint
	failQuestions    bool
	completeFeedback map[uint]string
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{
		sessions:         make(map[uint]*models.InterviewSession),
		questions:        make(map[uint]*models.InterviewQuestion),
		completeFeedback: make(map[uint]string),
	}
}

func (r *fakeInterviewRepo) CreateSession(session *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSession++
	session.ID = r.nextSession
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now()
	}
	stored := *session
	r.sessions[session.ID] = &stored
	return nil
}

func (r *fakeInterviewRepo) CreateQuestions(questions []models.InterviewQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failQuestions {
		return fmt.Errorf("failed to create interview questions: boom")
	}
	for i := range questions {
		r.nextQuestion++
		questions[i].ID = r.nextQuestion
		q := questions[i]
		r.questions[q.ID] = &q
	}
	return nil
}

func (r *fakeInterviewRepo) FindSession(id, userID uint) (*models.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return nil, fmt.Errorf("interview session not found: %w", models.ErrNotFound)
	}
	out := *s
	out.Questions = nil
	for qid := uint(1); qid <= r.nextQuestion; qid++ {
		if q, ok := r.questions[qid]; ok && q.SessionID == id {
			out.Questions = append(out.Questions, *q)
		}
	}
	return &out, nil
}

func (r *fakeInterviewRepo) FindSessionsByUser(userID uint) ([]models.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.InterviewSession
	for id := r.nextSession; id >= 1; id-- {
		if s, ok := r.sessions[id]; ok && s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeInterviewRepo) FindQuestion(id, sessionID uint) (*models.InterviewQuestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok || q.SessionID != sessionID {
		return nil, fmt.Errorf("interview question not found: %w", models.ErrNotFound)
	}
	out := *q
	return &out, nil
}

func (r *fakeInterviewRepo) SaveAnswer(question *models.InterviewQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := *question
	r.questions[question.ID] = &q
	return nil
}

func (r *fakeInterviewRepo) IncrementAnswered(sessionID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return models.ErrNotFound
	}
	s.QuestionsAnswered++
	return nil
}

func (r *fakeInterviewRepo) SetTotalQuestions(sessionID uint, total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return models.ErrNotFound
	}
	s.TotalQuestions = total
	return nil
}

func (r *fakeInterviewRepo) Complete(sessionID uint, overallScore *float64, feedback string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return models.ErrNotFound
	}
	s.Status = models.InterviewCompleted
	s.OverallScore = overallScore
	s.Feedback = &feedback
	s.CompletedAt = &completedAt
	r.completeFeedback[sessionID] = feedback
	return nil
}

func (r *fakeInterviewRepo) DeleteSession(id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return fmt.Errorf("interview session %d: %w", id, models.ErrNotFound)
	}
	delete(r.sessions, id)
	for qid, q := range r.questions {
		if q.SessionID == id {
			delete(r.questions, qid)
		}
	}
	return nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func (p *recordingPublisher) Publish(exchange string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.messages == nil {
		p.messages = make(map[string][][]byte)
	}
	p.messages[exchange] = append(p.messages[exchange], body)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) count(exchange string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages[exchange])
}
