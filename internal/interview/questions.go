package interview

import (
	"strings"
	"unicode/utf8"
)

// DefaultQuestionCount is the number of prepared questions per session.
const DefaultQuestionCount = 5

// minResumeLength is the resume length above which questions get personalized.
const minResumeLength = 100

var questionTemplates = map[Category][]string{
	CategoryGeneral: {
		"Tell me about yourself.",
		"Why are you interested in this position?",
		"What are your greatest strengths?",
		"What is your biggest weakness?",
		"Where do you see yourself in 5 years?",
		"Why should we hire you?",
		"Tell me about a challenging project you worked on.",
		"How do you handle stress and pressure?",
		"What motivates you at work?",
		"Do you have any questions for us?",
	},
	CategoryTechnical: {
		"Explain the difference between a list and a tuple in Python.",
		"What is the time complexity of binary search?",
		"How would you optimize a slow database query?",
		"Explain the concept of object-oriented programming.",
		"What is the difference between HTTP and HTTPS?",
		"How do you handle error handling in your code?",
		"Explain what APIs are and how they work.",
		"What is version control and why is it important?",
		"How would you approach debugging a complex issue?",
		"Explain the concept of cloud computing.",
	},
	CategoryBehavioral: {
		"Tell me about a time when you had to work with a difficult team member.",
		"Describe a situation where you had to meet a tight deadline.",
		"Give me an example of when you had to learn something new quickly.",
		"Tell me about a time when you made a mistake. How did you handle it?",
		"Describe a situation where you had to persuade others to see your point of view.",
		"Tell me about a time when you received constructive feedback.",
		"Give me an example of when you had to adapt to change.",
		"Describe a situation where you went above and beyond your job responsibilities.",
		"Tell me about a time when you had to resolve a conflict.",
		"Give me an example of when you showed leadership skills.",
	},
}

// resumeTrigger maps a set of resume substrings to one personalized question.
type resumeTrigger struct {
	keywords []string
	question string
}

var resumeTriggers = map[Category][]resumeTrigger{
	CategoryTechnical: {
		{[]string{"python"}, "I see you have Python experience. Can you walk me through a challenging Python project you've worked on?"},
		{[]string{"javascript", "react"}, "Tell me about your experience with frontend development and JavaScript frameworks."},
		{[]string{"database", "sql"}, "Describe your experience with database design and optimization."},
		{[]string{"api"}, "Can you explain how you've designed and implemented APIs in your previous work?"},
	},
	CategoryBehavioral: {
		{[]string{"manager", "lead"}, "I see you have leadership experience. Tell me about a time when you had to manage a team through a difficult project."},
		{[]string{"startup"}, "You've worked at a startup. How did you handle the fast-paced, changing environment?"},
		{[]string{"remote"}, "Tell me about your experience working remotely and how you stay productive."},
	},
	CategoryGeneral: {
		{[]string{"internship"}, "I see you completed an internship. What was the most valuable thing you learned during that experience?"},
		{[]string{"volunteer"}, "Tell me about your volunteer work and how it has shaped your professional goals."},
	},
}

type QuestionBank interface {
	Generate(category Category, resumeText string, count int) []string
}

type questionBank struct{}

func NewQuestionBank() QuestionBank {
	return &questionBank{}
}

// Generate implements QuestionBank.
func (b *questionBank) Generate(category Category, resumeText string, count int) []string {
	if count <= 0 {
		count = DefaultQuestionCount
	}

	templates, ok := questionTemplates[category]
	if !ok {
		category = CategoryGeneral
		templates = questionTemplates[CategoryGeneral]
	}

	var selected []string
	if utf8.RuneCountInString(resumeText) > minResumeLength {
		selected = personalize(category, resumeText, count/2)
	}

	for _, q := range templates {
		if len(selected) >= count {
			break
		}
		selected = append(selected, q)
	}

	return selected
}

func personalize(category Category, resumeText string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	resumeLower := strings.ToLower(resumeText)
	seen := make(map[string]bool)

	var personalized []string
	for _, trigger := range resumeTriggers[category] {
		if !containsAny(resumeLower, trigger.keywords) || seen[trigger.question] {
			continue
		}
		seen[trigger.question] = true
		personalized = append(personalized, trigger.question)
		if len(personalized) == limit {
			break
		}
	}

	return personalized
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func countContained(text string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			n++
		}
	}
	return n
}
