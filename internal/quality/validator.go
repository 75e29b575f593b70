// Package quality implements the local acceptance gate for generated
// question content. It is deterministic, synchronous, and does no I/O;
// invalid questions are dropped from the batch, never retried.
package quality

import (
	"fmt"
	"strings"

	"github.com/skillforge/skillforge-backend/internal/model"
)

// minQuestionTextLen is the minimum number of meaningful characters a
// question text must contain.
const minQuestionTextLen = 10

// hallucinationMarkers are phrases indicating a degenerate model response:
// self-referential disclaimers, apology language, unfilled placeholders.
// Matching is case-insensitive substring.
var hallucinationMarkers = []string{
	"as an ai",
	"as a language model",
	"i cannot",
	"i can't",
	"i'm sorry",
	"i am sorry",
	"i apologize",
	"[insert",
	"[placeholder",
	"[your",
	"<insert",
	"example.com",
	"lorem ipsum",
	"todo:",
	"xxx",
}

// Result is the outcome of validating one question.
type Result struct {
	Valid  bool
	Issues []string
}

// Validator screens generated questions for structural completeness and
// hallucination markers before anything is persisted or shown to a learner.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate applies every rule; a question is valid only when all pass.
func (v *Validator) Validate(q *model.Question) Result {
	var issues []string

	text := strings.TrimSpace(q.QuestionText)
	if meaningfulLen(text) < minQuestionTextLen {
		issues = append(issues, fmt.Sprintf("question text too short (min %d meaningful characters)", minQuestionTextLen))
	}

	lower := strings.ToLower(text)
	for _, marker := range hallucinationMarkers {
		if strings.Contains(lower, marker) {
			issues = append(issues, fmt.Sprintf("question text contains degenerate content marker %q", marker))
		}
	}

	switch q.Type {
	case model.TypeMCQ, model.TypeMultiSelect:
		issues = append(issues, v.checkChoices(q)...)
	case model.TypeCoding:
		if q.CodeSnippet == "" && !hasImperativeInstruction(lower) {
			issues = append(issues, "coding question has no code snippet and no imperative instruction")
		}
	case model.TypeFillBlank:
		if len(q.Blanks) == 0 {
			issues = append(issues, "fill_blank question has no blanks")
		}
	case model.TypeMatching:
		if len(q.MatchingPairs) == 0 {
			issues = append(issues, "matching question has no matching pairs")
		}
	}

	return Result{Valid: len(issues) == 0, Issues: issues}
}

// checkChoices enforces the option rules shared by mcq and multi_select:
// at least two distinct options, and every correct answer must actually be
// one of them.
func (v *Validator) checkChoices(q *model.Question) []string {
	var issues []string

	if len(q.Options) < 2 {
		issues = append(issues, "choice question needs at least 2 options")
	}

	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if seen[opt] {
			issues = append(issues, fmt.Sprintf("duplicate option %q", opt))
		}
		seen[opt] = true
	}

	if len(q.CorrectAnswer) == 0 {
		issues = append(issues, "no correct answer provided")
	}
	for _, ans := range q.CorrectAnswer {
		if !seen[ans] {
			issues = append(issues, fmt.Sprintf("correct answer %q not found in options", ans))
		}
	}

	return issues
}

// meaningfulLen counts characters that are not whitespace or bare
// punctuation filler.
func meaningfulLen(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '.', ',', '-', '_', '?', '!':
		default:
			n++
		}
	}
	return n
}

var imperativeHints = []string{"write", "implement", "create", "fix", "complete", "refactor"}

func hasImperativeInstruction(lowerText string) bool {
	for _, hint := range imperativeHints {
		if strings.Contains(lowerText, hint) {
			return true
		}
	}
	return false
}
