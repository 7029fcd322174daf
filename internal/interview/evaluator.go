package interview

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scoring policy constants. These are heuristics, not language understanding.
var (
	technicalKeywords  = []string{"implement", "algorithm", "optimize", "code", "system", "database", "api"}
	starBonusKeywords  = []string{"situation", "task", "action", "result", "challenge", "solution"}
	exampleMarkers     = []string{"example", "instance", "experience", "time when"}
	behavioralPositive = []string{"learned", "improved", "result", "outcome"}
	technicalPositive  = []string{"optimize", "efficient", "scalable"}
	starOutcomeMarkers = []string{"situation", "result", "outcome"}
	fillerWords        = []string{"um", "uh"}
)

const (
	maxStrengths    = 3
	maxImprovements = 3
	maxScore        = 10.0
	minScore        = 0.0
)

type scoreBucket struct {
	below    int
	score    float64
	feedback string
}

var scoreBuckets = []scoreBucket{
	{20, 2.0, "Your answer is quite brief. Try to provide more detail and specific examples to better demonstrate your experience and thought process."},
	{100, 5.0, "Good start! Consider adding more specific examples or details to make your answer more compelling and comprehensive."},
	{300, 7.0, "Well-structured answer with good detail. You've addressed the question effectively with relevant information."},
}

var topBucket = scoreBucket{score: 8.5, feedback: "Excellent comprehensive answer! You've provided detailed information with good structure and relevant examples."}

type Evaluator interface {
	Evaluate(question, answer string, category Category) Evaluation
}

type evaluator struct{}

func NewEvaluator() Evaluator {
	return &evaluator{}
}

// Evaluate implements Evaluator.
func (e *evaluator) Evaluate(question, answer string, category Category) Evaluation {
	answer = strings.TrimSpace(answer)
	length := utf8.RuneCountInString(answer)
	answerLower := strings.ToLower(answer)

	bucket := topBucket
	for _, b := range scoreBuckets {
		if length < b.below {
			bucket = b
			break
		}
	}

	score := bucket.score
	feedback := bucket.feedback

	switch category {
	case CategoryTechnical:
		if containsAny(answerLower, technicalKeywords) {
			score += 0.5
			feedback += " Good use of technical terminology."
		}
	case CategoryBehavioral:
		if containsAny(answerLower, starBonusKeywords) {
			score += 0.5
			feedback += " Good structure using specific examples."
		}
	}

	score = math.Max(minScore, math.Min(maxScore, score))
	score = math.Round(score*10) / 10

	return Evaluation{
		Score:        score,
		Feedback:     feedback,
		Strengths:    identifyStrengths(answerLower, length, category),
		Improvements: suggestImprovements(answerLower, length, category, score),
	}
}

func identifyStrengths(answerLower string, length int, category Category) []string {
	strengths := []string{}

	if length > 200 {
		strengths = append(strengths, "Comprehensive response with good detail")
	}
	if containsAny(answerLower, exampleMarkers) {
		strengths = append(strengths, "Used specific examples to illustrate points")
	}
	if category == CategoryBehavioral && containsAny(answerLower, behavioralPositive) {
		strengths = append(strengths, "Demonstrated learning and results-oriented thinking")
	}
	if category == CategoryTechnical && containsAny(answerLower, technicalPositive) {
		strengths = append(strengths, "Showed understanding of technical best practices")
	}

	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}
	return strengths
}

func suggestImprovements(answerLower string, length int, category Category, score float64) []string {
	improvements := []string{}

	if length < 100 {
		improvements = append(improvements, "Provide more detailed explanations and examples")
	}
	if category == CategoryBehavioral && !containsAny(answerLower, starOutcomeMarkers) {
		improvements = append(improvements, "Use the STAR method (Situation, Task, Action, Result) to structure your response")
	}
	if category == CategoryTechnical && score < 7 {
		improvements = append(improvements, "Include more technical details and explain your reasoning")
	}
	if containsWord(answerLower, fillerWords) {
		improvements = append(improvements, "Practice speaking more confidently with fewer filler words")
	}

	if len(improvements) > maxImprovements {
		improvements = improvements[:maxImprovements]
	}
	return improvements
}

// containsWord reports whether any of words appears as a whole word in text.
func containsWord(text string, words []string) bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}
