package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Level is the difficulty classification of a question.
type Level string

const (
	LevelBasic        Level = "BASIC"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

// NormalizeLevel maps a raw level string (including the EASY/MEDIUM/HARD
// aliases) onto the canonical enum. Matching is case-insensitive.
func NormalizeLevel(raw string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BASIC", "EASY", "BEGINNER":
		return LevelBasic, nil
	case "INTERMEDIATE", "MEDIUM":
		return LevelIntermediate, nil
	case "ADVANCED", "HARD":
		return LevelAdvanced, nil
	default:
		return "", fmt.Errorf("unknown level %q", raw)
	}
}

// QuestionType enumerates the supported question formats.
type QuestionType string

const (
	TypeMCQ             QuestionType = "mcq"
	TypeMultiSelect     QuestionType = "multi_select"
	TypeCoding          QuestionType = "coding"
	TypeFillBlank       QuestionType = "fill_blank"
	TypeMatching        QuestionType = "matching"
	TypeScenario        QuestionType = "scenario"
	TypeCodeReasoning   QuestionType = "code_reasoning"
	TypeAssertionReason QuestionType = "assertion_reason"
)

// AnswerSet holds one or more correct answers. Upstream generators emit a
// bare string for single-answer types and an array for multi_select, so it
// unmarshals from either shape.
type AnswerSet []string

func (a *AnswerSet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = AnswerSet{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("correct_answer must be a string or string array")
	}
	*a = AnswerSet(many)
	return nil
}

// TestCase is one input/expected pair attached to a coding question.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// MatchingPair is one left/right pairing for a matching question.
type MatchingPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Question is the unit of assessment content. The ID is empty for freshly
// generated questions and assigned when the question is persisted (or
// synthesized for static-bank content).
type Question struct {
	ID               string         `json:"question_id,omitempty"`
	Skill            string         `json:"skill"`
	Level            Level          `json:"level"`
	Type             QuestionType   `json:"type"`
	QuestionText     string         `json:"question_text"`
	Options          []string       `json:"options,omitempty"`
	CorrectAnswer    AnswerSet      `json:"correct_answer,omitempty"`
	CodeSnippet      string         `json:"code_snippet,omitempty"`
	TestCases        []TestCase     `json:"test_cases,omitempty"`
	Blanks           []string       `json:"blanks,omitempty"`
	MatchingPairs    []MatchingPair `json:"matching_pairs,omitempty"`
	Explanation      string         `json:"explanation,omitempty"`
	Verified         bool           `json:"verified"`
	UsageCount       int            `json:"usage_count"`
	DifficultyWeight int            `json:"difficulty_weight"`
	CreatedAt        time.Time      `json:"created_at,omitempty"`
}

// QuestionSource identifies which tier produced a generation response.
type QuestionSource string

const (
	SourceAI       QuestionSource = "ai"
	SourceDatabase QuestionSource = "database"
	SourceStatic   QuestionSource = "static"
)

// GenerateQuestionsRequest is the payload for the question generation endpoint.
type GenerateQuestionsRequest struct {
	Skill              string   `json:"skill" binding:"required,min=1,max=100"`
	Level              string   `json:"level" binding:"required"`
	Count              int      `json:"count" binding:"omitempty,min=1,max=50"`
	UseAI              *bool    `json:"use_ai"`
	UserID             string   `json:"user_id" binding:"omitempty,max=100"`
	ExcludeQuestionIDs []string `json:"exclude_question_ids" binding:"omitempty,max=500"`
}

// GenerateHTML5Request is the payload for per-feature HTML5 batch generation.
type GenerateHTML5Request struct {
	Features            []string `json:"features" binding:"required,min=1,dive,min=1"`
	Level               string   `json:"level"`
	QuestionsPerFeature int      `json:"questions_per_feature" binding:"omitempty,min=1,max=20"`
	UseAI               *bool    `json:"use_ai"`
	UserID              string   `json:"user_id" binding:"omitempty,max=100"`
}

// AddQuestionRequest is the admin payload for manually adding a question.
type AddQuestionRequest struct {
	Skill            string         `json:"skill" binding:"required,min=1,max=100"`
	Level            string         `json:"level" binding:"required"`
	Type             string         `json:"type" binding:"required,oneof=mcq multi_select coding fill_blank matching scenario code_reasoning assertion_reason"`
	QuestionText     string         `json:"question_text" binding:"required,min=10,max=4000"`
	Options          []string       `json:"options"`
	CorrectAnswer    AnswerSet      `json:"correct_answer"`
	CodeSnippet      string         `json:"code_snippet"`
	TestCases        []TestCase     `json:"test_cases"`
	Blanks           []string       `json:"blanks"`
	MatchingPairs    []MatchingPair `json:"matching_pairs"`
	Explanation      string         `json:"explanation"`
	DifficultyWeight int            `json:"difficulty_weight" binding:"omitempty,min=1,max=10"`
}

// ImportQuestionsRequest is the admin payload for bulk importing questions.
type ImportQuestionsRequest struct {
	Questions []AddQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}
