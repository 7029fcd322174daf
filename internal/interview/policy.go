package interview

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Follow-up policy constants.
const (
	followUpMaxLength   = 200
	followUpShortLength = 100
	minStarIndicators   = 2
)

var (
	vaguenessMarkers = []string{"kind of", "sort of", "maybe", "probably", "i guess", "not sure"}
	starIndicators   = []string{"situation", "task", "action", "result"}

	followUpPhrases = []string{
		"That's interesting! Could you elaborate on that a bit more?",
		"Can you give me a specific example of that?",
		"What was the outcome of that situation?",
		"How did you handle the challenges in that scenario?",
		"What did you learn from that experience?",
	}

	transitionPhrases = []string{
		"Great answer! Let's move on to the next question. ",
		"Thank you for sharing that. Now, ",
		"Excellent! I'd also like to know: ",
		"That's very insightful. Here's another question: ",
	}
)

const (
	introAcknowledgement = "Thank you for that introduction! "
	noQuestionsReply     = "Thank you for sharing. Let's dive into some questions."
	closingPrompt        = "Wonderful! Those were all my prepared questions. Is there anything else you'd like to share about your experience or qualifications? Or do you have any questions for me?"
	wrapUpLine           = "We've covered all the main questions. Do you have any questions for me?"
	greeting             = "Hello! I'm your AI interviewer. I'm excited to chat with you today. Let's start with an introduction - could you tell me a bit about yourself?"
)

// Policy decides what the interviewer says after each user turn.
type Policy struct {
	evaluator Evaluator

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPolicy returns a policy whose phrase choices are driven by seed.
func NewPolicy(evaluator Evaluator, seed uint64) *Policy {
	return &Policy{
		evaluator: evaluator,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Respond records the user turn, evaluates it against the previous
// assistant turn, appends the interviewer's reply and returns it.
func (p *Policy) Respond(s *Session, text string, now time.Time) string {
	s.appendTurn(RoleUser, text, now)
	userIdx := len(s.History) - 1
	first := s.UserTurns() == 1

	if !first {
		if prev := s.lastAssistantTurn(userIdx); prev != nil {
			eval := p.evaluator.Evaluate(prev.Content, text, s.Category)
			s.History[userIdx].Evaluation = &eval
		}
	}

	var reply string
	switch {
	case first:
		if q, ok := s.nextQuestion(); ok {
			reply = introAcknowledgement + q
		} else {
			reply = noQuestionsReply
		}
	case !s.Exhausted():
		if p.shouldFollowUp(text, s.Category) {
			reply = p.pick(followUpPhrases)
		} else {
			q, _ := s.nextQuestion()
			reply = p.pick(transitionPhrases) + q
		}
	default:
		reply = closingPrompt
	}

	s.appendTurn(RoleAssistant, reply, now)
	return reply
}

// shouldFollowUp reports whether answer is short and vague enough to probe.
func (p *Policy) shouldFollowUp(answer string, category Category) bool {
	length := utf8.RuneCountInString(answer)
	if length >= followUpMaxLength {
		return false
	}
	if length < followUpShortLength {
		return true
	}

	answerLower := strings.ToLower(answer)
	if containsAny(answerLower, vaguenessMarkers) {
		return true
	}
	if category == CategoryBehavioral && countContained(answerLower, starIndicators) < minStarIndicators {
		return true
	}
	return false
}

func (p *Policy) pick(phrases []string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return phrases[p.rng.IntN(len(phrases))]
}
