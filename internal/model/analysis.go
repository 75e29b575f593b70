package model

// PerformanceData is the submission summary sent to an AI provider for
// narrative analysis.
type PerformanceData struct {
	UserID  string              `json:"user_id,omitempty"`
	Skill   string              `json:"skill" binding:"required,min=1,max=100"`
	Level   string              `json:"level" binding:"required"`
	Answers []PerformanceAnswer `json:"answers" binding:"required,min=1,dive"`
}

// PerformanceAnswer is one answered question within a submission.
type PerformanceAnswer struct {
	QuestionID       string `json:"question_id"`
	Skill            string `json:"skill"`
	Type             string `json:"type"`
	Correct          bool   `json:"correct"`
	DifficultyWeight int    `json:"difficulty_weight"`
	TimeSpentSeconds int    `json:"time_spent_seconds,omitempty"`
}

// Analysis is the structured result of a provider-backed performance review.
type Analysis struct {
	ReadinessTier   string         `json:"readiness_tier"`
	Maturity        string         `json:"maturity"`
	DimensionScores map[string]int `json:"dimension_scores"`
	Strengths       []string       `json:"strengths"`
	Gaps            []string       `json:"gaps"`
	Recommendations []string       `json:"recommendations"`
	HiringTier      string         `json:"hiring_tier"`
	Summary         string         `json:"summary"`
}
