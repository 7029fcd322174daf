package services

import (
	"context"
	"fmt"
	"strings"

	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/models"
)

const (
	coachTemperature  = 0.7
	coachContextLimit = 3
)

type CareerCoachService interface {
	Advise(ctx context.Context, req models.CareerCoachRequest) (string, error)
}

type careerCoachService struct {
	gemini        GeminiService
	index         QdrantService
	promptBuilder *PromptBuilder
	maxRetries    int
}

// NewCareerCoachService builds the coach. index may be nil, in which case
// replies are generated without reference guidance.
func NewCareerCoachService(gemini GeminiService, index QdrantService, maxRetries int) CareerCoachService {
	return &careerCoachService{
		gemini:        gemini,
		index:         index,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

func (s *careerCoachService) Advise(ctx context.Context, req models.CareerCoachRequest) (string, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return "", fmt.Errorf("%w: user_message is required", models.ErrInvalidInput)
	}

	reference := FormatRAGContext(s.retrieve(ctx, req))
	prompt := s.promptBuilder.BuildCareerCoachPrompt(req.ResumeText, req.JobDescription, reference, req.UserMessage)

	text, err := s.gemini.GenerateTextWithRetry(ctx, prompt, coachTemperature, s.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to get career advice: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// retrieve looks up reference guidance. Failures only cost context.
func (s *careerCoachService) retrieve(ctx context.Context, req models.CareerCoachRequest) []SearchResult {
	if s.index == nil {
		return nil
	}

	query := s.promptBuilder.BuildRetrievalQuery(req.UserMessage, req.JobDescription)
	embedding, err := s.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		logger.Logger.Warnf("⚠️  Failed to embed coach query: %v", err)
		return nil
	}

	results, err := s.index.SearchSimilar(ctx, embedding, "", coachContextLimit)
	if err != nil {
		logger.Logger.Warnf("⚠️  Failed to search reference guidance: %v", err)
		return nil
	}
	return results
}
