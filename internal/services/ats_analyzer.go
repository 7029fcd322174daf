package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/models"
)

// ATS scoring weights and thresholds.
const (
	skillWeight   = 0.6
	overallWeight = 0.4

	excellentThreshold = 85.0
	goodThreshold      = 65.0

	maxKeywords = 100
)

// Embedder turns text into a vector. GeminiService satisfies it.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ATSReport is the outcome of scoring one resume against one job description.
type ATSReport struct {
	Score           float64
	MatchedKeywords []string
	MissingKeywords []string
	Suggestions     []string
}

type ATSAnalyzer struct {
	embedder Embedder
}

// NewATSAnalyzer returns an analyzer. With a nil embedder similarity is
// computed lexically.
func NewATSAnalyzer(embedder Embedder) *ATSAnalyzer {
	return &ATSAnalyzer{embedder: embedder}
}

// Analyze scores resumeText against jobDescription.
func (a *ATSAnalyzer) Analyze(ctx context.Context, resumeText, jobDescription string) (*ATSReport, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("%w: resume text is empty", models.ErrInvalidInput)
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("%w: job description is empty", models.ErrInvalidInput)
	}

	cleanResume := PreprocessText(resumeText)
	cleanJob := PreprocessText(jobDescription)

	resumeKeywords := ExtractKeywords(cleanResume)
	jobKeywords := ExtractKeywords(cleanJob)

	skillSim := a.similarity(ctx, strings.Join(resumeKeywords, " "), strings.Join(jobKeywords, " "))
	overallSim := a.similarity(ctx, cleanResume, cleanJob)

	score := ATSScore(skillSim, overallSim)
	matched, missing := compareKeywords(resumeKeywords, jobKeywords)

	return &ATSReport{
		Score:           score,
		MatchedKeywords: matched,
		MissingKeywords: missing,
		Suggestions:     ATSSuggestions(score, missing),
	}, nil
}

func (a *ATSAnalyzer) similarity(ctx context.Context, text1, text2 string) float64 {
	if a.embedder != nil && text1 != "" && text2 != "" {
		sim, err := a.embeddingSimilarity(ctx, text1, text2)
		if err == nil {
			return sim
		}
		logger.Logger.Debugf("Embedding similarity unavailable, using lexical similarity: %v", err)
	}
	return LexicalSimilarity(text1, text2)
}

func (a *ATSAnalyzer) embeddingSimilarity(ctx context.Context, text1, text2 string) (float64, error) {
	v1, err := a.embedder.GenerateEmbedding(ctx, text1)
	if err != nil {
		return 0, err
	}
	v2, err := a.embedder.GenerateEmbedding(ctx, text2)
	if err != nil {
		return 0, err
	}
	if len(v1) != len(v2) {
		return 0, fmt.Errorf("embedding dimensions differ: %d vs %d", len(v1), len(v2))
	}

	var dot, n1, n2 float64
	for i := range v1 {
		dot += float64(v1[i]) * float64(v2[i])
		n1 += float64(v1[i]) * float64(v1[i])
		n2 += float64(v2[i]) * float64(v2[i])
	}
	if n1 == 0 || n2 == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(n1) * math.Sqrt(n2)), nil
}

// ATSScore combines the two similarities into a 0-100 score with two decimals.
func ATSScore(skillSim, overallSim float64) float64 {
	score := (skillWeight*skillSim + overallWeight*overallSim) * 100
	score = math.Max(0, math.Min(100, score))
	return math.Round(score*100) / 100
}

// ATSSuggestions returns the advice for a score.
func ATSSuggestions(score float64, missing []string) []string {
	switch {
	case score >= excellentThreshold:
		return []string{"Excellent match! Your resume is highly aligned with the job description."}
	case score >= goodThreshold:
		suggestions := []string{"Good match. Your resume aligns well, but could be tailored further."}
		if len(missing) > 0 {
			suggestions = append(suggestions, fmt.Sprintf("Consider incorporating keywords like: %s.", strings.Join(firstN(missing, 3), ", ")))
		}
		return suggestions
	default:
		suggestions := []string{"Needs improvement. Your resume is not a strong match for this role."}
		if len(missing) > 0 {
			suggestions = append(suggestions, fmt.Sprintf("Focus on adding relevant skills and keywords from the job description, such as: %s.", strings.Join(firstN(missing, 5), ", ")))
		}
		return suggestions
	}
}

// PreprocessText lowercases text and drops punctuation and stop words.
func PreprocessText(text string) string {
	return strings.Join(tokenize(text), " ")
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !isSymbolTerm(f) {
			f = strings.Trim(f, "+#")
		}
		if f == "" || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// isSymbolTerm keeps names such as c++ and c# that trimming would destroy.
func isSymbolTerm(s string) bool {
	return s == "c++" || s == "c#" || s == "f#"
}

// ExtractKeywords returns up to 100 unigrams and bigrams of preprocessed
// text, most frequent first, ties in order of first appearance.
func ExtractKeywords(cleanText string) []string {
	tokens := strings.Fields(cleanText)

	type candidate struct {
		term  string
		count int
		first int
	}
	index := make(map[string]*candidate)
	var order []*candidate

	add := func(term string, pos int) {
		if c, ok := index[term]; ok {
			c.count++
			return
		}
		c := &candidate{term: term, count: 1, first: pos}
		index[term] = c
		order = append(order, c)
	}

	for i, tok := range tokens {
		if len([]rune(tok)) < 2 && !isSymbolTerm(tok) {
			continue
		}
		add(tok, 2*i)
		if i+1 < len(tokens) {
			add(tok+" "+tokens[i+1], 2*i+1)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	keywords := make([]string, 0, maxKeywords)
	for _, c := range order {
		if len(keywords) == maxKeywords {
			break
		}
		keywords = append(keywords, c.term)
	}
	return keywords
}

// LexicalSimilarity is the cosine similarity of term-frequency vectors.
func LexicalSimilarity(text1, text2 string) float64 {
	tf1 := termFrequency(text1)
	tf2 := termFrequency(text2)
	if len(tf1) == 0 || len(tf2) == 0 {
		return 0
	}

	var dot, n1, n2 float64
	for term, c := range tf1 {
		n1 += c * c
		dot += c * tf2[term]
	}
	for _, c := range tf2 {
		n2 += c * c
	}
	return dot / (math.Sqrt(n1) * math.Sqrt(n2))
}

func termFrequency(text string) map[string]float64 {
	tf := make(map[string]float64)
	for _, tok := range strings.Fields(text) {
		tf[tok]++
	}
	return tf
}

// compareKeywords splits job keywords into those the resume has and those it lacks.
func compareKeywords(resumeKeywords, jobKeywords []string) (matched, missing []string) {
	have := make(map[string]bool, len(resumeKeywords))
	for _, k := range resumeKeywords {
		have[k] = true
	}

	matched = []string{}
	missing = []string{}
	for _, k := range jobKeywords {
		if have[k] {
			matched = append(matched, k)
		} else {
			missing = append(missing, k)
		}
	}
	return matched, missing
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

var stopWords = func() map[string]bool {
	words := strings.Fields(`a about above after again against all am an and any are as at be because been
before being below between both but by can could did do does doing down during each few for from
further had has have having he her here hers herself him himself his how i if in into is it its
itself just me more most my myself no nor not now of off on once only or other our ours ourselves
out over own same she should so some such than that the their theirs them themselves then there
these they this those through to too under until up very was we were what when where which while
who whom why will with would you your yours yourself yourselves also etc well within across per
via including include includes must may might shall us ability able using use used strong work`)
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}()
