package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"alfredoptarigan/hiremind/internal/interview"
	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/models"
	"alfredoptarigan/hiremind/internal/repositories"
)

// InterviewService runs the turn-based, database-backed interview flow.
type InterviewService interface {
	CreateSession(ctx context.Context, userID uint, req *models.CreateInterviewRequest) (*models.InterviewSession, error)
	ListSessions(userID uint) ([]models.InterviewSession, error)
	GetSession(id, userID uint) (*models.InterviewSession, error)
	SubmitAnswer(ctx context.Context, sessionID, userID uint, req *models.AnswerRequest) (*models.InterviewQuestion, error)
	CompleteSession(ctx context.Context, sessionID, userID uint) (*interview.FinalFeedback, error)
	DeleteSession(id, userID uint) error
}

type interviewService struct {
	interviewRepo repositories.InterviewRepository
	resumeRepo    repositories.ResumeRepository
	bank          interview.QuestionBank
	evaluator     interview.Evaluator
	feedback      interview.FeedbackGenerator
	questionCount int
	now           func() time.Time
}

func NewInterviewService(
	interviewRepo repositories.InterviewRepository,
	resumeRepo repositories.ResumeRepository,
	bank interview.QuestionBank,
	evaluator interview.Evaluator,
	feedback interview.FeedbackGenerator,
	questionCount int,
) InterviewService {
	if questionCount <= 0 {
		questionCount = interview.DefaultQuestionCount
	}
	return &interviewService{
		interviewRepo: interviewRepo,
		resumeRepo:    resumeRepo,
		bank:          bank,
		evaluator:     evaluator,
		feedback:      feedback,
		questionCount: questionCount,
		now:           time.Now,
	}
}

func (s *interviewService) CreateSession(ctx context.Context, userID uint, req *models.CreateInterviewRequest) (*models.InterviewSession, error) {
	category, err := interview.ParseCategory(req.SessionType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	resumeText, err := resumeTextFor(s.resumeRepo, req.ResumeID, userID)
	if err != nil {
		return nil, err
	}

	texts := s.bank.Generate(category, resumeText, s.questionCount)

	session := &models.InterviewSession{
		UserID:         userID,
		ResumeID:       req.ResumeID,
		SessionType:    string(category),
		Status:         models.InterviewActive,
		TotalQuestions: len(texts),
		StartedAt:      s.now().UTC(),
	}
	if err := s.interviewRepo.CreateSession(session); err != nil {
		return nil, err
	}

	questions := make([]models.InterviewQuestion, len(texts))
	for i, text := range texts {
		questions[i] = models.InterviewQuestion{
			SessionID:    session.ID,
			QuestionText: text,
			QuestionType: string(category),
			Strengths:    []string{},
			Improvements: []string{},
			AskedAt:      session.StartedAt,
		}
	}
	if err := s.interviewRepo.CreateQuestions(questions); err != nil {
		if delErr := s.interviewRepo.DeleteSession(session.ID, userID); delErr != nil {
			logger.Logger.WithField("session_id", session.ID).Warnf("⚠️  Failed to remove incomplete session: %v", delErr)
		}
		return nil, fmt.Errorf("failed to generate interview questions: %w", err)
	}
	session.Questions = questions

	logger.Logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"user_id":    userID,
		"category":   category,
	}).Info("📝 Interview session created")

	return session, nil
}

func (s *interviewService) ListSessions(userID uint) ([]models.InterviewSession, error) {
	return s.interviewRepo.FindSessionsByUser(userID)
}

func (s *interviewService) GetSession(id, userID uint) (*models.InterviewSession, error) {
	return s.interviewRepo.FindSession(id, userID)
}

func (s *interviewService) SubmitAnswer(ctx context.Context, sessionID, userID uint, req *models.AnswerRequest) (*models.InterviewQuestion, error) {
	answer := strings.TrimSpace(req.UserAnswer)
	if answer == "" {
		return nil, fmt.Errorf("%w: user_answer is required", models.ErrInvalidInput)
	}

	session, err := s.interviewRepo.FindSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.InterviewActive {
		return nil, models.ErrSessionCompleted
	}

	question, err := s.interviewRepo.FindQuestion(req.QuestionID, sessionID)
	if err != nil {
		return nil, err
	}
	if question.Answered() {
		return nil, models.ErrAlreadyAnswered
	}

	eval := s.evaluator.Evaluate(question.QuestionText, answer, interview.Category(question.QuestionType))
	now := s.now().UTC()

	question.UserAnswer = &answer
	question.AIFeedback = &eval.Feedback
	question.Score = &eval.Score
	question.Strengths = eval.Strengths
	question.Improvements = eval.Improvements
	question.AnsweredAt = &now

	if err := s.interviewRepo.SaveAnswer(question); err != nil {
		return nil, err
	}
	if err := s.interviewRepo.IncrementAnswered(sessionID); err != nil {
		return nil, err
	}

	if session.QuestionsAnswered+1 >= session.TotalQuestions {
		if _, err := s.CompleteSession(ctx, sessionID, userID); err != nil {
			return nil, fmt.Errorf("failed to complete interview session: %w", err)
		}
	}

	return question, nil
}

// CompleteSession closes an active session and stores its feedback. A
// feedback failure is stored as an error payload instead of failing the call.
func (s *interviewService) CompleteSession(ctx context.Context, sessionID, userID uint) (*interview.FinalFeedback, error) {
	session, err := s.interviewRepo.FindSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.InterviewActive {
		return nil, models.ErrSessionCompleted
	}

	now := s.now().UTC()
	fb, err := s.feedback.Generate(ctx, transcriptOf(session), now)
	if err != nil {
		fb = interview.DegradedFeedback(err)
	} else {
		fb.Summary = performanceSummary(fb)
	}

	var overall *float64
	if fb.Error == "" && fb.TotalResponses > 0 {
		overall = &fb.OverallScore
	}

	encoded, err := fb.Encode()
	if err != nil {
		fb = interview.DegradedFeedback(err)
		overall = nil
		encoded = fmt.Sprintf(`{"error":%q}`, fb.Error)
	}

	if err := s.interviewRepo.Complete(sessionID, overall, encoded, now); err != nil {
		return nil, err
	}

	logger.Logger.WithFields(logrus.Fields{
		"session_id":    sessionID,
		"overall_score": fb.OverallScore,
	}).Info("✅ Interview session completed")

	return fb, nil
}

func (s *interviewService) DeleteSession(id, userID uint) error {
	return s.interviewRepo.DeleteSession(id, userID)
}

// transcriptOf replays the answered questions as a conversation so the
// shared feedback aggregation can score them.
func transcriptOf(session *models.InterviewSession) *interview.Session {
	transcript := &interview.Session{
		SessionID: session.ID,
		OwnerID:   session.UserID,
		Category:  interview.Category(session.SessionType),
		Status:    interview.StatusActive,
		StartedAt: session.StartedAt,
	}

	for _, q := range session.Questions {
		transcript.Questions = append(transcript.Questions, q.QuestionText)
		if !q.Answered() {
			continue
		}

		transcript.History = append(transcript.History, interview.Turn{
			Role:      interview.RoleAssistant,
			Content:   q.QuestionText,
			Timestamp: q.AskedAt,
		})

		answer := interview.Turn{
			Role:    interview.RoleUser,
			Content: *q.UserAnswer,
		}
		if q.AnsweredAt != nil {
			answer.Timestamp = *q.AnsweredAt
		}
		if q.Score != nil {
			eval := &interview.Evaluation{
				Score:        *q.Score,
				Strengths:    q.Strengths,
				Improvements: q.Improvements,
			}
			if q.AIFeedback != nil {
				eval.Feedback = *q.AIFeedback
			}
			answer.Evaluation = eval
		}
		transcript.History = append(transcript.History, answer)
	}
	return transcript
}

// performanceSummary keeps a written summary when one was produced and
// otherwise describes the score band.
func performanceSummary(fb *interview.FinalFeedback) string {
	if fb.TotalResponses == 0 {
		return "No questions were answered."
	}
	if fb.Summary != "" && fb.Summary != interview.DefaultSummary(fb.TotalResponses) {
		return fb.Summary
	}

	switch {
	case fb.OverallScore >= 8:
		return "Outstanding interview performance with strong, well-articulated responses."
	case fb.OverallScore >= 6:
		return "Solid interview performance with room for minor improvements."
	case fb.OverallScore >= 4:
		return "Adequate performance with several areas for improvement."
	default:
		return "Performance indicates significant preparation needed for future interviews."
	}
}

// resumeTextFor loads the extracted text of the caller's resume, if one was named.
func resumeTextFor(repo repositories.ResumeRepository, resumeID *uint, userID uint) (string, error) {
	if resumeID == nil {
		return "", nil
	}
	resume, err := repo.FindByID(*resumeID, userID)
	if err != nil {
		return "", err
	}
	return resume.ExtractedText, nil
}
