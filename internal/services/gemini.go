package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"alfredoptarigan/hiremind/internal/logger"
)

// ErrLLMUnavailable is returned when no Gemini API key is configured.
var ErrLLMUnavailable = errors.New("language model is not configured")

// maxEmbeddingInput bounds the characters sent for one embedding (~10000 tokens).
const maxEmbeddingInput = 40000

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

type geminiService struct {
	client       *genai.Client
	modelName    string
	embedModel   string
	retryBackoff time.Duration
}

// NewGeminiService returns a client for modelName. An empty apiKey yields a
// service whose calls fail with ErrLLMUnavailable.
func NewGeminiService(apiKey, modelName string, retryBackoff time.Duration) (GeminiService, error) {
	if apiKey == "" {
		logger.Logger.Warn("⚠️  GEMINI_API_KEY not set, language model features are disabled")
		return &geminiService{modelName: modelName}, nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:       client,
		modelName:    modelName,
		embedModel:   "text-embedding-004",
		retryBackoff: retryBackoff,
	}, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if g.client == nil {
		return nil, ErrLLMUnavailable
	}

	runes := []rune(text)
	if len(runes) > maxEmbeddingInput {
		text = string(runes[:maxEmbeddingInput])
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	if g.client == nil {
		return "", ErrLLMUnavailable
	}

	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 2048,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		logger.Logger.Errorf("❌ Gemini API error: %v", err)
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		if len(resp.Candidates) > 0 {
			logger.Logger.Debugf("Gemini returned %d candidates without text, finish reason %q",
				len(resp.Candidates), resp.Candidates[0].FinishReason)
		}
		return "", fmt.Errorf("no text content in response")
	}

	logger.Logger.Debug("📊 Gemini response received")
	return text, nil
}

// GenerateTextWithRetry implements GeminiService. Attempts are spaced by a
// doubling backoff.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	delay := g.retryBackoff

	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := g.GenerateText(ctx, prompt, temperature)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrLLMUnavailable) {
			return "", err
		}

		lastErr = err
		if attempt == maxRetries {
			break
		}

		logger.Logger.Warnf("⚠️  Attempt %d failed: %v. Retrying...", attempt, err)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
