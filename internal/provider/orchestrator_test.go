package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/skillforge/skillforge-backend/internal/model"
)

// fakeClient scripts one provider: it fails when err is set, and records
// how many times it was invoked.
type fakeClient struct {
	name  string
	err   error
	calls int
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) GenerateQuestions(_ context.Context, skill string, level model.Level, count int) (*QuestionSet, error) {
	f.calls++
	if f.err != nil {
		return nil, &CallError{Provider: f.name, Op: "generate_questions", Err: f.err}
	}
	questions := make([]model.Question, count)
	for i := range questions {
		questions[i] = model.Question{Skill: skill, Level: level, Type: model.TypeMCQ}
	}
	return &QuestionSet{
		BatchID:   "batch-" + f.name,
		Provider:  f.name,
		CreatedAt: time.Now(),
		Questions: questions,
	}, nil
}

func (f *fakeClient) AnalyzePerformance(_ context.Context, _ *model.PerformanceData) (*model.Analysis, error) {
	f.calls++
	if f.err != nil {
		return nil, &CallError{Provider: f.name, Op: "analyze_performance", Err: f.err}
	}
	return &model.Analysis{ReadinessTier: "ready", Summary: "ok"}, nil
}

func TestGenerateFallsThroughToFirstSuccess(t *testing.T) {
	a := &fakeClient{name: "a", err: errors.New("rate limited")}
	b := &fakeClient{name: "b"}
	c := &fakeClient{name: "c"}
	o := NewOrchestratorFromClients([]Client{a, b, c}, zerolog.Nop())

	set, err := o.Generate(context.Background(), "go", model.LevelBasic, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Provider != "b" {
		t.Fatalf("expected provider b, got %s", set.Provider)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("expected exactly one attempt each on a and b, got a=%d b=%d", a.calls, b.calls)
	}
	if c.calls != 0 {
		t.Fatalf("provider after the first success must not be invoked, got %d calls", c.calls)
	}
}

func TestGenerateAggregatesWhenAllFail(t *testing.T) {
	a := &fakeClient{name: "a", err: errors.New("timeout")}
	b := &fakeClient{name: "b", err: errors.New("bad gateway")}
	o := NewOrchestratorFromClients([]Client{a, b}, zerolog.Nop())

	_, err := o.Generate(context.Background(), "go", model.LevelBasic, 3)
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}

	var agg *AggregateError
	if !errors.As(err, &agg) {
		t.Fatalf("expected *AggregateError, got %T", err)
	}
	if len(agg.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(agg.Attempts))
	}
	names := agg.Providers()
	if names[0] != "a" || names[1] != "b" {
		t.Fatalf("expected attempts in order [a b], got %v", names)
	}
}

func TestStartIndexRotatesAcrossCalls(t *testing.T) {
	a := &fakeClient{name: "a"}
	b := &fakeClient{name: "b"}
	o := NewOrchestratorFromClients([]Client{a, b}, zerolog.Nop())

	first, err := o.Generate(context.Background(), "go", model.LevelBasic, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := o.Generate(context.Background(), "go", model.LevelBasic, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Provider != "a" || second.Provider != "b" {
		t.Fatalf("expected rotation a then b, got %s then %s", first.Provider, second.Provider)
	}
}

func TestAnalyzeUsesSameFallbackContract(t *testing.T) {
	a := &fakeClient{name: "a", err: errors.New("overloaded")}
	b := &fakeClient{name: "b"}
	o := NewOrchestratorFromClients([]Client{a, b}, zerolog.Nop())

	analysis, err := o.Analyze(context.Background(), &model.PerformanceData{Skill: "go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.ReadinessTier != "ready" {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}
}
