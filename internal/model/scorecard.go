package model

// Submission is a completed assessment attempt to be scored deterministically.
type Submission struct {
	UserID  string             `json:"user_id" binding:"omitempty,max=100"`
	Answers []SubmissionAnswer `json:"answers" binding:"required,min=1,dive"`
}

// SubmissionAnswer is one graded answer. Dimension is the skill the question
// belongs to; weight defaults to 1 when absent.
type SubmissionAnswer struct {
	QuestionID       string `json:"question_id"`
	Skill            string `json:"skill" binding:"required"`
	Correct          bool   `json:"correct"`
	DifficultyWeight int    `json:"difficulty_weight" binding:"omitempty,min=1,max=10"`
}

// Scorecard is the deterministic scoring result for a submission.
type Scorecard struct {
	DimensionScores      map[string]float64 `json:"dimension_scores"`
	OverallScore         float64            `json:"overall_score"`
	ReadinessTier        string             `json:"readiness_tier"`
	HiringRecommendation string             `json:"hiring_recommendation"`
}
