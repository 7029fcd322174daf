package services

import (
	"context"
	"fmt"
	"strings"

	"alfredoptarigan/hiremind/internal/interview"
)

type summaryWriter struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

// NewInterviewSummaryWriter returns an interview.SummaryWriter backed by Gemini.
func NewInterviewSummaryWriter(gemini GeminiService, maxRetries int) interview.SummaryWriter {
	return &summaryWriter{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

func (w *summaryWriter) WriteSummary(ctx context.Context, category interview.Category, feedback *interview.FinalFeedback, history []interview.Turn) (string, error) {
	prompt := w.promptBuilder.BuildInterviewSummaryPrompt(category, feedback, history)

	text, err := w.gemini.GenerateTextWithRetry(ctx, prompt, 0.4, w.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to write interview summary: %w", err)
	}
	return strings.TrimSpace(text), nil
}
