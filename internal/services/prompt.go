package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/hiremind/internal/interview"
)

// maxTranscriptTurns bounds how much of an interview is quoted in a summary prompt.
const maxTranscriptTurns = 40

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCareerCoachPrompt creates the prompt for one career-coach reply
func (pb *PromptBuilder) BuildCareerCoachPrompt(resumeText, jobDescription, reference, userMessage string) string {
	return fmt.Sprintf(`You are an expert AI Career Coach. You will be given a user's resume and a job description as context.
Your task is to provide clear, constructive, and actionable advice to help the user achieve their career goals.
Analyze the resume in relation to the job description and answer the user's specific question.

RESUME:
---
%s
---

JOB DESCRIPTION:
---
%s
---

REFERENCE GUIDANCE:
%s

USER QUESTION:
%s

Answer in plain text. Be specific and reference the resume where it helps.`,
		orPlaceholder(resumeText), orPlaceholder(jobDescription), reference, userMessage)
}

// BuildInterviewSummaryPrompt creates the prompt for the narrative interview summary
func (pb *PromptBuilder) BuildInterviewSummaryPrompt(category interview.Category, feedback *interview.FinalFeedback, history []interview.Turn) string {
	if len(history) > maxTranscriptTurns {
		history = history[len(history)-maxTranscriptTurns:]
	}

	var transcript strings.Builder
	for _, turn := range history {
		speaker := "Interviewer"
		if turn.Role == interview.RoleUser {
			speaker = "Candidate"
		}
		fmt.Fprintf(&transcript, "%s: %s\n", speaker, strings.TrimSpace(turn.Content))
	}

	return fmt.Sprintf(`You are an experienced interviewer writing feedback after a %s mock interview.

TRANSCRIPT:
%s
SCORES:
- Overall score: %.1f / 10 across %d responses
- Observed strengths: %s
- Suggested improvements: %s

Write a concise summary (2-4 sentences) addressed to the candidate: what went well, what to work on next.
Return ONLY the summary text, no JSON format needed.`,
		category, transcript.String(), feedback.OverallScore, feedback.TotalResponses,
		joinOrNone(feedback.Strengths), joinOrNone(feedback.Improvements))
}

// BuildResumeReviewPrompt creates the prompt for resume strengths and weaknesses
func (pb *PromptBuilder) BuildResumeReviewPrompt(resumeText, jobTitle, jobDescription string, report *ATSReport) string {
	return fmt.Sprintf(`You are an expert HR recruiter reviewing a resume for a %s position.

JOB DESCRIPTION:
%s

RESUME:
%s

ATS RESULTS:
- Score: %.2f / 100
- Matched keywords: %s
- Missing keywords: %s

List the resume's main strengths and weaknesses for this role.

Return your response in the following JSON format:
{
  "strengths": ["<short sentence>", ...],
  "weaknesses": ["<short sentence>", ...]
}

Give at most 5 items per list. Be specific and reference the resume.`,
		orPlaceholder(jobTitle), jobDescription, resumeText, report.Score,
		joinOrNone(firstN(report.MatchedKeywords, 15)), joinOrNone(firstN(report.MissingKeywords, 15)))
}

// BuildRetrievalQuery creates the query used to look up reference guidance
func (pb *PromptBuilder) BuildRetrievalQuery(userMessage, jobDescription string) string {
	jd := strings.TrimSpace(jobDescription)
	if r := []rune(jd); len(r) > 300 {
		jd = string(r[:300])
	}
	if jd == "" {
		return userMessage
	}
	return fmt.Sprintf("%s\nRole context: %s", userMessage, jd)
}

// FormatRAGContext renders retrieved chunks for inclusion in a prompt
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return "No relevant context found."
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(not provided)"
	}
	return s
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none noted"
	}
	return strings.Join(items, "; ")
}
