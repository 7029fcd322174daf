package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"alfredoptarigan/hiremind/internal/logger"
)

const (
	maxFeedbackItems    = 5
	defaultOverallScore = 5.0
)

// FinalFeedback is the aggregate pushed with interview_completed and stored
// on the interview_sessions row.
type FinalFeedback struct {
	OverallScore         float64  `json:"overall_score"`
	Summary              string   `json:"summary"`
	Strengths            []string `json:"strengths"`
	Improvements         []string `json:"improvements"`
	TotalResponses       int      `json:"total_responses"`
	ConversationDuration float64  `json:"conversation_duration"`
	Error                string   `json:"error,omitempty"`
}

// DegradedFeedback is the payload used when feedback generation fails.
func DegradedFeedback(err error) *FinalFeedback {
	return &FinalFeedback{
		Strengths:    []string{},
		Improvements: []string{},
		Error:        fmt.Sprintf("Failed to generate feedback: %v", err),
	}
}

// Encode serializes the feedback for storage.
func (f *FinalFeedback) Encode() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to encode feedback: %w", err)
	}
	return string(data), nil
}

// DecodeFeedback parses feedback previously produced by Encode.
func DecodeFeedback(data string) (*FinalFeedback, error) {
	var f FinalFeedback
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}
	return &f, nil
}

// SummaryWriter produces a narrative summary of a finished interview.
type SummaryWriter interface {
	WriteSummary(ctx context.Context, category Category, feedback *FinalFeedback, history []Turn) (string, error)
}

type FeedbackGenerator interface {
	Generate(ctx context.Context, s *Session, now time.Time) (*FinalFeedback, error)
}

type feedbackGenerator struct {
	writer SummaryWriter
}

// NewFeedbackGenerator returns the aggregate feedback generator. writer may be nil.
func NewFeedbackGenerator(writer SummaryWriter) FeedbackGenerator {
	return &feedbackGenerator{writer: writer}
}

// Generate implements FeedbackGenerator.
func (g *feedbackGenerator) Generate(ctx context.Context, s *Session, now time.Time) (*FinalFeedback, error) {
	fb := AggregateFeedback(s, now)
	if g.writer == nil || fb.TotalResponses == 0 {
		return fb, nil
	}

	summary, err := g.writer.WriteSummary(ctx, s.Category, fb, s.History)
	if err != nil {
		logger.Logger.WithField("session_id", s.SessionID).Warnf("⚠️  Failed to write interview summary, keeping default: %v", err)
		return fb, nil
	}
	if summary != "" {
		fb.Summary = summary
	}
	return fb, nil
}

// AggregateFeedback folds the evaluations attached to user turns into the
// final feedback.
func AggregateFeedback(s *Session, now time.Time) *FinalFeedback {
	var (
		responses    int
		scoreSum     float64
		evaluated    int
		strengths    = newOrderedSet(maxFeedbackItems)
		improvements = newOrderedSet(maxFeedbackItems)
	)

	for _, t := range s.History {
		if t.Role != RoleUser {
			continue
		}
		responses++
		if t.Evaluation == nil {
			continue
		}
		evaluated++
		scoreSum += t.Evaluation.Score
		strengths.add(t.Evaluation.Strengths...)
		improvements.add(t.Evaluation.Improvements...)
	}

	if responses == 0 {
		return &FinalFeedback{
			OverallScore: 0,
			Summary:      "No responses provided",
			Strengths:    []string{},
			Improvements: []string{},
		}
	}

	avg := defaultOverallScore
	if evaluated > 0 {
		avg = scoreSum / float64(evaluated)
	}

	return &FinalFeedback{
		OverallScore:         math.Round(avg*10) / 10,
		Summary:              DefaultSummary(responses),
		Strengths:            strengths.items,
		Improvements:         improvements.items,
		TotalResponses:       responses,
		ConversationDuration: now.Sub(s.StartedAt).Minutes(),
	}
}

// DefaultSummary is the summary used when no narrative summary was written.
func DefaultSummary(responses int) string {
	return fmt.Sprintf("Completed interview with %d responses", responses)
}

// orderedSet keeps first-seen order and stops accepting items at its limit.
type orderedSet struct {
	limit int
	seen  map[string]bool
	items []string
}

func newOrderedSet(limit int) *orderedSet {
	return &orderedSet{limit: limit, seen: make(map[string]bool), items: []string{}}
}

func (o *orderedSet) add(values ...string) {
	for _, v := range values {
		if len(o.items) >= o.limit {
			return
		}
		if o.seen[v] {
			continue
		}
		o.seen[v] = true
		o.items = append(o.items, v)
	}
}
