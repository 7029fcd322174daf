package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/models"
	"alfredoptarigan/hiremind/internal/repositories"
)

// ATSService runs queued ATS analyses.
type ATSService interface {
	AnalyzeJob(ctx context.Context, analysisID uint) error
}

type atsService struct {
	analysisRepo  repositories.AnalysisRepository
	analyzer      *ATSAnalyzer
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

// NewATSService wires the job runner. gemini may be nil; strengths and
// weaknesses are then left empty.
func NewATSService(
	analysisRepo repositories.AnalysisRepository,
	analyzer *ATSAnalyzer,
	gemini GeminiService,
	maxRetries int,
) ATSService {
	return &atsService{
		analysisRepo:  analysisRepo,
		analyzer:      analyzer,
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

type resumeReview struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

func (s *atsService) AnalyzeJob(ctx context.Context, analysisID uint) error {
	if err := s.analysisRepo.UpdateStatus(analysisID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log := logger.Logger.WithField("analysis_id", analysisID)
	log.Info("🔄 Starting ATS analysis")

	analysis, err := s.analysisRepo.FindByID(analysisID)
	if err != nil {
		s.fail(analysisID, fmt.Sprintf("Analysis not found: %v", err))
		return fmt.Errorf("failed to get analysis: %w", err)
	}

	report, err := s.analyzer.Analyze(ctx, analysis.Resume.ExtractedText, analysis.JobDescription.DescriptionText)
	if err != nil {
		s.fail(analysisID, fmt.Sprintf("Failed to analyze resume: %v", err))
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	review := s.review(ctx, analysis, report)

	update := &repositories.AnalysisUpdateData{
		ATSScore:        report.Score,
		KeywordMatches:  report.MatchedKeywords,
		MissingKeywords: report.MissingKeywords,
		Suggestions:     report.Suggestions,
		Strengths:       review.Strengths,
		Weaknesses:      review.Weaknesses,
	}
	if err := s.analysisRepo.UpdateResult(analysisID, update); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	log.WithField("ats_score", report.Score).Info("✅ ATS analysis completed")
	return nil
}

// review asks the language model for strengths and weaknesses. Any failure
// leaves both lists empty.
func (s *atsService) review(ctx context.Context, analysis *models.AnalysisResult, report *ATSReport) resumeReview {
	empty := resumeReview{Strengths: []string{}, Weaknesses: []string{}}
	if s.gemini == nil {
		return empty
	}

	prompt := s.promptBuilder.BuildResumeReviewPrompt(
		analysis.Resume.ExtractedText,
		analysis.JobDescription.Title,
		analysis.JobDescription.DescriptionText,
		report,
	)
	response, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.3, s.maxRetries)
	if err != nil {
		logger.Logger.Warnf("⚠️  Resume review unavailable: %v", err)
		return empty
	}

	var review resumeReview
	if err := parseJSONResponse(response, &review); err != nil {
		logger.Logger.Warnf("⚠️  Failed to parse resume review: %v", err)
		return empty
	}
	review.Strengths = firstN(nonNil(review.Strengths), 5)
	review.Weaknesses = firstN(nonNil(review.Weaknesses), 5)
	return review
}

func (s *atsService) fail(analysisID uint, msg string) {
	if err := s.analysisRepo.UpdateError(analysisID, msg); err != nil {
		logger.Logger.WithField("analysis_id", analysisID).Errorf("❌ Failed to record analysis error: %v", err)
	}
}

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// extractJSON strips markdown fences and returns the outermost JSON object or array.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
