package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiremind/internal/interview"
	"alfredoptarigan/hiremind/internal/models"
	"alfredoptarigan/hiremind/internal/services"
)

const validToken = "valid-token"

type fakeAuthService struct{}

func (fakeAuthService) Register(req *models.RegisterRequest) (*models.User, error) {
	if req.Email == "taken@example.com" {
		return nil, fmt.Errorf("email or username already registered: %w", models.ErrAlreadyExists)
	}
	return &models.User{ID: 2, Email: req.Email, Username: req.Username, IsActive: true}, nil
}

func (fakeAuthService) Authenticate(email, password string) (*models.TokenResponse, error) {
	if password != "secret-password" {
		return nil, models.ErrUnauthorized
	}
	return &models.TokenResponse{AccessToken: validToken, TokenType: "bearer"}, nil
}

func (fakeAuthService) CurrentUser(token string) (*models.User, error) {
	if token != validToken {
		return nil, models.ErrUnauthorized
	}
	return &models.User{ID: 1, Email: "jane@example.com", Username: "jane", IsActive: true}, nil
}

func (fakeAuthService) IssueToken(uint) (string, error) { return validToken, nil }

func (fakeAuthService) ParseToken(token string) (uint, error) {
	if token != validToken {
		return 0, models.ErrUnauthorized
	}
	return 1, nil
}

type fakeResumeService struct{}

func (fakeResumeService) Upload(userID uint, file *multipart.FileHeader) (*models.Resume, error) {
	if !strings.HasSuffix(file.Filename, ".pdf") {
		return nil, models.ErrUnsupportedFileType
	}
	return &models.Resume{ID: 5, UserID: userID, OriginalFileName: file.Filename, ExtractedText: "text"}, nil
}

func (fakeResumeService) List(userID uint) ([]models.Resume, error) {
	return []models.Resume{{ID: 5, UserID: userID}}, nil
}

type fakeAnalysisService struct {
	submitted *services.AnalysisRequest
	deleted   uint
}

func (s *fakeAnalysisService) Submit(userID uint, req *services.AnalysisRequest) (*models.AnalysisResult, error) {
	if req.JobDescription == "" {
		return nil, fmt.Errorf("%w: job_description is required", models.ErrInvalidInput)
	}
	s.submitted = req
	return &models.AnalysisResult{ID: 11, UserID: userID, Status: models.StatusQueued}, nil
}

func (s *fakeAnalysisService) List(userID uint) ([]models.AnalysisResult, error) {
	return []models.AnalysisResult{{ID: 11, UserID: userID, Status: models.StatusQueued}}, nil
}

func (s *fakeAnalysisService) Get(id, userID uint) (*models.AnalysisResult, error) {
	if id != 11 {
		return nil, fmt.Errorf("analysis not found: %w", models.ErrNotFound)
	}
	score := 72.5
	return &models.AnalysisResult{ID: id, UserID: userID, Status: models.StatusCompleted, ATSScore: &score}, nil
}

func (s *fakeAnalysisService) Delete(id, userID uint) error {
	if id != 11 {
		return fmt.Errorf("analysis %d: %w", id, models.ErrNotFound)
	}
	s.deleted = id
	return nil
}

type fakeInterviewService struct{}

func (fakeInterviewService) CreateSession(_ context.Context, userID uint, req *models.CreateInterviewRequest) (*models.InterviewSession, error) {
	if req.SessionType == "bogus" {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, interview.ErrInvalidCategory)
	}
	return &models.InterviewSession{
		ID:             3,
		UserID:         userID,
		SessionType:    req.SessionType,
		Status:         models.InterviewActive,
		TotalQuestions: 1,
		Questions:      []models.InterviewQuestion{{ID: 1, SessionID: 3, QuestionText: "Tell me about yourself."}},
	}, nil
}

func (fakeInterviewService) ListSessions(userID uint) ([]models.InterviewSession, error) {
	feedback := `{"overall_score":7}`
	return []models.InterviewSession{{ID: 3, UserID: userID, Status: models.InterviewCompleted, Feedback: &feedback}}, nil
}

func (fakeInterviewService) GetSession(id, userID uint) (*models.InterviewSession, error) {
	if id != 3 {
		return nil, fmt.Errorf("interview session not found: %w", models.ErrNotFound)
	}
	return &models.InterviewSession{ID: id, UserID: userID}, nil
}

func (fakeInterviewService) SubmitAnswer(_ context.Context, sessionID, _ uint, req *models.AnswerRequest) (*models.InterviewQuestion, error) {
	if req.QuestionID == 1 {
		return nil, models.ErrAlreadyAnswered
	}
	score := 5.0
	return &models.InterviewQuestion{ID: req.QuestionID, SessionID: sessionID, UserAnswer: &req.UserAnswer, Score: &score}, nil
}

func (fakeInterviewService) CompleteSession(_ context.Context, _, _ uint) (*interview.FinalFeedback, error) {
	return nil, models.ErrSessionCompleted
}

func (fakeInterviewService) DeleteSession(_, _ uint) error { return nil }

type fakeRealtimeService struct{}

func (fakeRealtimeService) Create(_ context.Context, _ uint, _ *models.RealtimeCreateRequest) (*models.RealtimeCreateResponse, error) {
	return &models.RealtimeCreateResponse{SessionToken: "tok", SessionID: 9, WebsocketURL: "/api/interview/realtime/ws/tok"}, nil
}

func (fakeRealtimeService) Status(_ context.Context, _ uint, token string) (*interview.StatusView, error) {
	if token != "tok" {
		return nil, interview.ErrSessionNotFound
	}
	return &interview.StatusView{Status: interview.StatusActive, TotalQuestions: 5, StartedAt: time.Now()}, nil
}

func (fakeRealtimeService) End(_ context.Context, _ uint, token string) (*interview.FinalFeedback, error) {
	if token != "tok" {
		return nil, interview.ErrSessionNotFound
	}
	return &interview.FinalFeedback{OverallScore: 6.5}, nil
}

func (fakeRealtimeService) Delete(_ context.Context, _ uint, token string) error {
	if token != "tok" {
		return interview.ErrSessionNotFound
	}
	return nil
}

type fakeCoachService struct{}

func (fakeCoachService) Advise(_ context.Context, req models.CareerCoachRequest) (string, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return "", fmt.Errorf("%w: user_message is required", models.ErrInvalidInput)
	}
	return "Quantify your impact.", nil
}

func newTestApp(analyses *fakeAnalysisService) *fiber.App {
	app := fiber.New()
	SetupRoutes(app, &Handlers{
		Auth:      NewAuthHandler(fakeAuthService{}),
		Resume:    NewResumeHandler(fakeResumeService{}),
		ATS:       NewATSHandler(analyses),
		Interview: NewInterviewHandler(fakeInterviewService{}),
		Realtime:  NewRealtimeHandler(fakeRealtimeService{}, nil),
		Coach:     NewCoachHandler(fakeCoachService{}),
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	_ = json.Unmarshal(body, &out)
	return resp.StatusCode, out
}

func jsonRequest(method, path, body string, authed bool) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+validToken)
	}
	return req
}

func multipartRequest(t *testing.T, path, filename string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	_, _ = part.Write([]byte("%PDF-1.4 fake"))
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+validToken)
	return req
}

func TestHealth(t *testing.T) {
	app := newTestApp(&fakeAnalysisService{})

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if status != fiber.StatusOK || body["status"] != "healthy" {
		t.Errorf("health = %d %v", status, body)
	}

	status, body = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	if status != fiber.StatusOK || body["message"] != "HireMind API" {
		t.Errorf("root = %d %v", status, body)
	}
}

func TestAuthRoutes(t *testing.T) {
	app := newTestApp(&fakeAnalysisService{})

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"register", jsonRequest(http.MethodPost, "/api/auth/register", `{"email":"new@example.com","username":"newbie","password":"password1"}`, false), fiber.StatusCreated},
		{"register conflict", jsonRequest(http.MethodPost, "/api/auth/register", `{"email":"taken@example.com","username":"x","password":"password1"}`, false), fiber.StatusConflict},
		{"register bad payload", jsonRequest(http.MethodPost, "/api/auth/register", `{`, false), fiber.StatusBadRequest},
		{"login", jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"jane@example.com","password":"secret-password"}`, false), fiber.StatusOK},
		{"login wrong password", jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"jane@example.com","password":"nope"}`, false), fiber.StatusUnauthorized},
		{"me", jsonRequest(http.MethodGet, "/api/auth/me", "", true), fiber.StatusOK},
		{"me without token", jsonRequest(http.MethodGet, "/api/auth/me", "", false), fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status, body := doRequest(t, app, tt.req); status != tt.status {
				t.Errorf("status = %d, want %d (%v)", status, tt.status, body)
			}
		})
	}
}

func TestLoginReturnsBearerToken(t *testing.T) {
	app := newTestApp(&fakeAnalysisService{})

	status, body := doRequest(t, app, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"jane@example.com","password":"secret-password"}`, false))
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["access_token"] != validToken || body["token_type"] != "bearer" {
		t.Errorf("unexpected token body: %v", body)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(&fakeAnalysisService{})

	req := httptest.NewRequest(http.MethodGet, "/api/resumes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	status, body := doRequest(t, app, req)
	if status != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
	if body["error"] != "Could not validate credentials" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestResumeUpload(t *testing.T) {
	app := newTestApp(&fakeAnalysisService{})

	status, body := doRequest(t, app, multipartRequest(t, "/api/resumes/upload", "cv.pdf", nil))
	if status != fiber.StatusCreated || body["original_filename"] != "cv.pdf" {
		t.Errorf("upload = %d %v", status, body)
	}

	status, _ = doRequest(t, app, multipartRequest(t, "/api/resumes/upload", "cv.txt", nil))
	if status != fiber.StatusBadRequest {
		t.Errorf("unsupported upload status = %d, want 400", status)
	}
}

func TestATSAnalyze(t *testing.T) {
	analyses := &fakeAnalysisService{}
	app := newTestApp(analyses)

	status, body := doRequest(t, app, multipartRequest(t, "/api/ats/analyze", "cv.pdf", map[string]string{
		"job_title":       "Backend Engineer",
		"job_description": "Go and PostgreSQL",
		"company":         "Acme",
	}))
	if status != fiber.StatusAccepted {
		t.Fatalf("status = %d, want 202 (%v)", status, body)
	}
	if body["status"] != "queued" || body["id"] != float64(11) {
		t.Errorf("unexpected body: %v", body)
	}
	if analyses.submitted == nil || analyses.submitted.JobTitle != "Backend Engineer" || analyses.submitted.Company != "Acme" {
		t.Errorf("unexpected submission: %+v", analyses.submitted)
	}

	status, _ = doRequest(t, app, multipartRequest(t, "/api/ats/analyze", "cv.pdf", map[string]string{"job_title": "x"}))
	if status != fiber.StatusBadRequest {
		t.Errorf("missing description status = %d, want 400", status)
	}
}

func TestATSAnalyses(t *testing.T) {
	analyses := &fakeAnalysisService{}
	app := newTestApp(analyses)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"list", http.MethodGet, "/api/ats/analyses", fiber.StatusOK},
		{"get", http.MethodGet, "/api/ats/analyses/11", fiber.StatusOK},
		{"get missing", http.MethodGet, "/api/ats/analyses/12", fiber.StatusNotFound},
		{"get bad id", http.MethodGet, "/api/ats/analyses/abc", fiber.StatusBadRequest},
		{"delete", http.MethodDelete, "/api/ats/analyses/11", fiber.StatusOK},
		{"delete missing", http.MethodDelete, "/api/ats/analyses/99", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status, body := doRequest(t, app, jsonRequest(tt.method, tt.path, "", true)); status != tt.status {
				t.Errorf("status = %d, want %d (%v)", status, tt.status, body)
			}
		})
	}
	if analyses.deleted != 11 {
		t.Errorf("deleted = %d, want 11", analyses.deleted)
	}
}

func TestInterviewRoutes(t *testing.T) {
	app := newTestApp(&fakeAnalysisService{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"create", http.MethodPost, "/api/interview/sessions", `{"session_type":"technical"}`, fiber.StatusCreated},
		{"create invalid type", http.MethodPost, "/api/interview/sessions", `{"session_type":"bogus"}`, fiber.StatusBadRequest},
		{"get", http.MethodGet, "/api/interview/sessions/3", "", fiber.StatusOK},
		{"get missing", http.MethodGet, "/api/interview/sessions/4", "", fiber.StatusNotFound},
		{"answer", http.MethodPost, "/api/interview/sessions/3/answer", `{"question_id":2,"user_answer":"I led the migration."}`, fiber.StatusOK},
		{"answer twice", http.MethodPost, "/api/interview/sessions/3/answer", `{"question_id":1,"user_answer":"again"}`, fiber.StatusBadRequest},
		{"complete finished", http.MethodPost, "/api/interview/sessions/3/complete", "", fiber.StatusConflict},
		{"delete", http.MethodDelete, "/api/interview/sessions/3", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status, body := doRequest(t, app, jsonRequest(tt.method, tt.path, tt.body, true)); status != tt.status {
				t.Errorf("status = %d, want %d (%v)", status, tt.status, body)
			}
		})
	}
}

func TestInterviewListExposesFeedback(t *testing.T) {
	app := newTestApp(&fakeAnalysisService{})

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/interview/sessions", "", true), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var sessions []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions))
	}
	feedback, ok := sessions[0]["feedback"].(map[string]interface{})
	if !ok || feedback["overall_score"] != float64(7) {
		t.Errorf("feedback = %v", sessions[0]["feedback"])
	}
}

func TestRealtimeRoutes(t *testing.T) {
	app := newTestApp(&fakeAnalysisService{})

	status, body := doRequest(t, app, jsonRequest(http.MethodPost, "/api/interview/realtime/create", `{"session_type":"general"}`, true))
	if status != fiber.StatusCreated || body["session_token"] != "tok" || body["websocket_url"] != "/api/interview/realtime/ws/tok" {
		t.Errorf("create = %d %v", status, body)
	}

	status, body = doRequest(t, app, jsonRequest(http.MethodGet, "/api/interview/realtime/session/tok", "", true))
	if status != fiber.StatusOK || body["status"] != "active" || body["total_questions"] != float64(5) {
		t.Errorf("status = %d %v", status, body)
	}

	status, body = doRequest(t, app, jsonRequest(http.MethodPost, "/api/interview/realtime/end/tok", "", true))
	if status != fiber.StatusOK || body["success"] != true {
		t.Errorf("end = %d %v", status, body)
	}

	status, _ = doRequest(t, app, jsonRequest(http.MethodPost, "/api/interview/realtime/end/missing", "", true))
	if status != fiber.StatusNotFound {
		t.Errorf("end missing = %d, want 404", status)
	}

	status, _ = doRequest(t, app, jsonRequest(http.MethodDelete, "/api/interview/realtime/session/tok", "", true))
	if status != fiber.StatusOK {
		t.Errorf("delete = %d, want 200", status)
	}

	status, _ = doRequest(t, app, jsonRequest(http.MethodGet, "/api/interview/realtime/session/tok", "", false))
	if status != fiber.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", status)
	}
}

func TestRealtimeWebSocketRequiresUpgrade(t *testing.T) {
	app := newTestApp(&fakeAnalysisService{})

	status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/interview/realtime/ws/tok", nil))
	if status != fiber.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", status)
	}
}

func TestCareerCoach(t *testing.T) {
	app := newTestApp(&fakeAnalysisService{})

	status, body := doRequest(t, app, jsonRequest(http.MethodPost, "/api/career-coach", `{"resume_text":"cv","job_description":"jd","user_message":"How do I improve?"}`, false))
	if status != fiber.StatusOK || body["response"] != "Quantify your impact." {
		t.Errorf("coach = %d %v", status, body)
	}

	status, _ = doRequest(t, app, jsonRequest(http.MethodPost, "/api/career-coach", `{"user_message":"  "}`, false))
	if status != fiber.StatusBadRequest {
		t.Errorf("empty message status = %d, want 400", status)
	}
}
