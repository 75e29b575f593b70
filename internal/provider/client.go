package provider

import (
	"context"
	"time"

	"github.com/skillforge/skillforge-backend/internal/model"
)

// QuestionSet is one provider response: a batch of freshly generated,
// not-yet-persisted questions.
type QuestionSet struct {
	BatchID   string
	Provider  string
	CreatedAt time.Time
	Questions []model.Question
}

// Client is a uniform wrapper around one upstream question-generating
// service. Implementations are stateless and constructed once at process
// start; a single call maps to a single upstream attempt with no retry.
type Client interface {
	Name() string

	// GenerateQuestions asks the upstream for count questions on the given
	// skill and level. Any HTTP failure, timeout, or malformed response is
	// surfaced as a *CallError.
	GenerateQuestions(ctx context.Context, skill string, level model.Level, count int) (*QuestionSet, error)

	// AnalyzePerformance asks the upstream for a structured narrative review
	// of a completed submission. Same failure policy as GenerateQuestions.
	AnalyzePerformance(ctx context.Context, data *model.PerformanceData) (*model.Analysis, error)
}
