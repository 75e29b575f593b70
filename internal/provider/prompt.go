package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skillforge/skillforge-backend/internal/model"
)

const generateSystemPrompt = `You are an expert technical assessment author. ` +
	`You produce skill-assessment questions as strict JSON with no commentary, ` +
	`no markdown, and no placeholder content. Every question must be directly ` +
	`answerable from its own text.`

const analyzeSystemPrompt = `You are a senior technical hiring evaluator. ` +
	`You review assessment submissions and respond with strict JSON only, ` +
	`following the requested shape exactly.`

// buildGeneratePrompt embeds skill, level, count and the requested type-mix
// ratio into a single user instruction.
func buildGeneratePrompt(skill string, level model.Level, count int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate %d assessment questions for the skill %q at %s level.\n\n", count, skill, level)

	sb.WriteString("Aim for roughly this mix of question types:\n")
	sb.WriteString("- 40% mcq (single correct answer)\n")
	sb.WriteString("- 20% multi_select (two or more correct answers)\n")
	sb.WriteString("- 20% coding (include a code_snippet or an imperative task)\n")
	sb.WriteString("- 10% fill_blank (provide the blanks array)\n")
	sb.WriteString("- 10% matching (provide matching_pairs)\n\n")

	sb.WriteString("Rules:\n")
	sb.WriteString("- mcq and multi_select questions need at least 4 distinct options\n")
	sb.WriteString("- every correct_answer must appear verbatim in options\n")
	sb.WriteString("- include a short explanation per question\n")
	sb.WriteString("- set difficulty_weight from 1 (trivial) to 10 (expert)\n\n")

	sb.WriteString(`Respond with a JSON object of this exact shape:
{
  "questions": [
    {
      "type": "mcq",
      "question_text": "...",
      "options": ["...", "..."],
      "correct_answer": "..." ,
      "code_snippet": "",
      "test_cases": [{"input": "...", "expected": "..."}],
      "blanks": ["..."],
      "matching_pairs": [{"left": "...", "right": "..."}],
      "explanation": "...",
      "difficulty_weight": 5
    }
  ]
}`)

	return sb.String()
}

// buildAnalyzePrompt serializes the submission summary into the analysis
// instruction.
func buildAnalyzePrompt(data *model.PerformanceData) string {
	var sb strings.Builder

	sb.WriteString("Review this skill-assessment submission and respond with JSON only.\n\n")

	payload, _ := json.Marshal(data)
	sb.WriteString("Submission:\n")
	sb.Write(payload)
	sb.WriteString("\n\n")

	sb.WriteString(`Respond with a JSON object of this exact shape:
{
  "readiness_tier": "ready|near_ready|developing|not_ready",
  "maturity": "...",
  "dimension_scores": {"<dimension>": 0},
  "strengths": ["..."],
  "gaps": ["..."],
  "recommendations": ["..."],
  "hiring_tier": "strong_hire|hire|lean_hire|no_hire",
  "summary": "..."
}
Scores are integers from 0 to 100.`)

	return sb.String()
}
