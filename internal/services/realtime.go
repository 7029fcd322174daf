package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"alfredoptarigan/hiremind/internal/interview"
	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/models"
	"alfredoptarigan/hiremind/internal/repositories"
)

const realtimeWebsocketPath = "/api/interview/realtime/ws/"

// RealtimeService creates and controls real-time interviews on behalf of
// their owners.
type RealtimeService interface {
	Create(ctx context.Context, userID uint, req *models.RealtimeCreateRequest) (*models.RealtimeCreateResponse, error)
	Status(ctx context.Context, userID uint, token string) (*interview.StatusView, error)
	End(ctx context.Context, userID uint, token string) (*interview.FinalFeedback, error)
	Delete(ctx context.Context, userID uint, token string) error
}

type realtimeService struct {
	manager       *interview.Manager
	interviewRepo repositories.InterviewRepository
	resumeRepo    repositories.ResumeRepository
}

func NewRealtimeService(
	manager *interview.Manager,
	interviewRepo repositories.InterviewRepository,
	resumeRepo repositories.ResumeRepository,
) RealtimeService {
	return &realtimeService{
		manager:       manager,
		interviewRepo: interviewRepo,
		resumeRepo:    resumeRepo,
	}
}

func (s *realtimeService) Create(ctx context.Context, userID uint, req *models.RealtimeCreateRequest) (*models.RealtimeCreateResponse, error) {
	category, err := interview.ParseCategory(req.SessionType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	resumeText := req.ResumeText
	if req.ResumeID != nil {
		if resumeText, err = resumeTextFor(s.resumeRepo, req.ResumeID, userID); err != nil {
			return nil, err
		}
	}

	record := &models.InterviewSession{
		UserID:      userID,
		ResumeID:    req.ResumeID,
		SessionType: string(category),
		Status:      models.InterviewActive,
	}
	if err := s.interviewRepo.CreateSession(record); err != nil {
		return nil, err
	}

	token, err := s.manager.CreateSession(userID, record.ID, category, resumeText)
	if err != nil {
		s.discard(record)
		return nil, fmt.Errorf("failed to create interview session: %w", err)
	}

	sess, err := s.manager.Session(ctx, token)
	if err != nil {
		s.manager.Cleanup(token)
		s.discard(record)
		return nil, err
	}
	if err := s.interviewRepo.SetTotalQuestions(record.ID, len(sess.Questions)); err != nil {
		logger.Logger.WithField("session_id", record.ID).Warnf("⚠️  Failed to record question count: %v", err)
	}

	return &models.RealtimeCreateResponse{
		SessionToken: token,
		SessionID:    record.ID,
		WebsocketURL: realtimeWebsocketPath + token,
	}, nil
}

func (s *realtimeService) discard(record *models.InterviewSession) {
	if err := s.interviewRepo.DeleteSession(record.ID, record.UserID); err != nil {
		logger.Logger.WithField("session_id", record.ID).Warnf("⚠️  Failed to remove interview session: %v", err)
	}
}

func (s *realtimeService) Status(ctx context.Context, userID uint, token string) (*interview.StatusView, error) {
	if err := s.authorize(ctx, userID, token); err != nil {
		return nil, err
	}
	return s.manager.Status(ctx, token)
}

func (s *realtimeService) End(ctx context.Context, userID uint, token string) (*interview.FinalFeedback, error) {
	if err := s.authorize(ctx, userID, token); err != nil {
		return nil, err
	}
	return s.manager.EndInterview(ctx, token)
}

func (s *realtimeService) Delete(ctx context.Context, userID uint, token string) error {
	if err := s.authorize(ctx, userID, token); err != nil {
		return err
	}
	s.manager.Cleanup(token)
	return nil
}

// authorize hides sessions of other users behind ErrSessionNotFound.
func (s *realtimeService) authorize(ctx context.Context, userID uint, token string) error {
	sess, err := s.manager.Session(ctx, token)
	if err != nil {
		return err
	}
	if sess.OwnerID != userID {
		return interview.ErrSessionNotFound
	}
	return nil
}

type completionRecorder struct {
	interviewRepo repositories.InterviewRepository
	publisher     Publisher
	exchange      string
}

// NewCompletionRecorder persists the final feedback of a completed real-time
// interview and publishes an interview-completed event.
func NewCompletionRecorder(interviewRepo repositories.InterviewRepository, publisher Publisher, exchange string) interview.CompletionHandler {
	return &completionRecorder{
		interviewRepo: interviewRepo,
		publisher:     publisher,
		exchange:      exchange,
	}
}

func (c *completionRecorder) OnCompleted(ctx context.Context, s *interview.Session) error {
	if s.Feedback == nil || s.CompletedAt == nil {
		return errors.New("session has no final feedback")
	}

	encoded, err := s.Feedback.Encode()
	if err != nil {
		return err
	}

	var overall *float64
	if s.Feedback.Error == "" && s.Feedback.TotalResponses > 0 {
		score := s.Feedback.OverallScore
		overall = &score
	}
	if err := c.interviewRepo.Complete(s.SessionID, overall, encoded, *s.CompletedAt); err != nil {
		return err
	}

	if c.publisher == nil {
		return nil
	}

	body, err := json.Marshal(models.InterviewCompletedMessage{
		SessionID:      s.SessionID,
		UserID:         s.OwnerID,
		SessionType:    string(s.Category),
		OverallScore:   s.Feedback.OverallScore,
		TotalResponses: s.Feedback.TotalResponses,
		CompletedAt:    *s.CompletedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode completion event: %w", err)
	}
	if err := c.publisher.Publish(c.exchange, body); err != nil {
		return err
	}

	logger.Logger.WithFields(logrus.Fields{
		"session_id": s.SessionID,
		"exchange":   c.exchange,
	}).Debug("📤 Interview completion published")
	return nil
}
