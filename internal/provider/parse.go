package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skillforge/skillforge-backend/internal/model"
	"github.com/xeipuuv/gojsonschema"
)

// Provider responses are untrusted text. Each payload is schema-validated
// before it is unmarshaled, so upstream format drift surfaces as a parse
// error on one call instead of corrupt data deeper in the pipeline.

const questionSetSchema = `{
	"type": "object",
	"properties": {
		"questions": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"type": {"type": "string"},
					"question_text": {"type": "string"},
					"options": {"type": "array", "items": {"type": "string"}},
					"correct_answer": {},
					"code_snippet": {"type": "string"},
					"test_cases": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"input": {"type": "string"},
								"expected": {"type": "string"}
							}
						}
					},
					"blanks": {"type": "array", "items": {"type": "string"}},
					"matching_pairs": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"left": {"type": "string"},
								"right": {"type": "string"}
							}
						}
					},
					"explanation": {"type": "string"},
					"difficulty_weight": {"type": "integer"}
				},
				"required": ["type", "question_text"]
			}
		}
	},
	"required": ["questions"]
}`

const analysisSchema = `{
	"type": "object",
	"properties": {
		"readiness_tier": {"type": "string"},
		"maturity": {"type": "string"},
		"dimension_scores": {
			"type": "object",
			"additionalProperties": {"type": "integer"}
		},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"gaps": {"type": "array", "items": {"type": "string"}},
		"recommendations": {"type": "array", "items": {"type": "string"}},
		"hiring_tier": {"type": "string"},
		"summary": {"type": "string"}
	},
	"required": ["readiness_tier", "dimension_scores", "summary"]
}`

var (
	compiledQuestionSchema = mustCompileSchema(questionSetSchema)
	compiledAnalysisSchema = mustCompileSchema(analysisSchema)
)

func mustCompileSchema(raw string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema: %v", err))
	}
	return s
}

// stripCodeFences removes a markdown code-fence wrapper (```json ... ```)
// that some providers emit around JSON payloads.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func validateAgainst(schema *gojsonschema.Schema, raw string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("not valid JSON: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return fmt.Errorf("schema mismatch: %s", strings.Join(issues, "; "))
	}
	return nil
}

type questionPayload struct {
	Questions []struct {
		Type             string               `json:"type"`
		QuestionText     string               `json:"question_text"`
		Options          []string             `json:"options"`
		CorrectAnswer    model.AnswerSet      `json:"correct_answer"`
		CodeSnippet      string               `json:"code_snippet"`
		TestCases        []model.TestCase     `json:"test_cases"`
		Blanks           []string             `json:"blanks"`
		MatchingPairs    []model.MatchingPair `json:"matching_pairs"`
		Explanation      string               `json:"explanation"`
		DifficultyWeight int                  `json:"difficulty_weight"`
	} `json:"questions"`
}

// parseQuestionPayload validates and maps a raw provider response into
// unverified, id-less questions stamped with the requested skill and level.
func parseQuestionPayload(raw, skill string, level model.Level) ([]model.Question, error) {
	cleaned := stripCodeFences(raw)

	if err := validateAgainst(compiledQuestionSchema, cleaned); err != nil {
		return nil, err
	}

	var payload questionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	questions := make([]model.Question, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		weight := q.DifficultyWeight
		if weight < 1 || weight > 10 {
			weight = defaultWeightFor(level)
		}
		questions = append(questions, model.Question{
			Skill:            skill,
			Level:            level,
			Type:             model.QuestionType(q.Type),
			QuestionText:     q.QuestionText,
			Options:          q.Options,
			CorrectAnswer:    q.CorrectAnswer,
			CodeSnippet:      q.CodeSnippet,
			TestCases:        q.TestCases,
			Blanks:           q.Blanks,
			MatchingPairs:    q.MatchingPairs,
			Explanation:      q.Explanation,
			DifficultyWeight: weight,
		})
	}
	return questions, nil
}

// parseAnalysisPayload validates and maps a raw provider response into a
// typed analysis.
func parseAnalysisPayload(raw string) (*model.Analysis, error) {
	cleaned := stripCodeFences(raw)

	if err := validateAgainst(compiledAnalysisSchema, cleaned); err != nil {
		return nil, err
	}

	var analysis model.Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &analysis, nil
}

func defaultWeightFor(level model.Level) int {
	switch level {
	case model.LevelBasic:
		return 3
	case model.LevelIntermediate:
		return 5
	case model.LevelAdvanced:
		return 8
	default:
		return 5
	}
}
