package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/skillforge/skillforge-backend/internal/model"
	"github.com/skillforge/skillforge-backend/internal/provider"
	"github.com/skillforge/skillforge-backend/internal/quality"
)

// ─── Fakes ───

type fakeGenerator struct {
	set   *provider.QuestionSet
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, _ model.Level, _ int) (*provider.QuestionSet, error) {
	f.calls++
	return f.set, f.err
}

func (f *fakeGenerator) Analyze(_ context.Context, _ *model.PerformanceData) (*model.Analysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Analysis{ReadinessTier: "ready", Summary: "ok"}, nil
}

type fakeStore struct {
	questions []model.Question
	queryErr  error
	queries   int
	inserted  chan []model.Question
}

func newFakeStore(questions ...model.Question) *fakeStore {
	return &fakeStore{questions: questions, inserted: make(chan []model.Question, 4)}
}

func (f *fakeStore) Insert(_ context.Context, questions []model.Question) error {
	f.inserted <- questions
	return nil
}

// Query mimics the SQL contract: verified filter, id exclusion, limit.
func (f *fakeStore) Query(_ context.Context, _ string, _ model.Level, verified bool, excludeIDs []string, limit int) ([]model.Question, error) {
	f.queries++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []model.Question
	for _, q := range f.questions {
		if q.Verified == verified && !excluded[q.ID] && len(out) < limit {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeBank struct {
	questions map[string][]model.Question
	lookups   int
}

func (f *fakeBank) Lookup(skill string, _ model.Level) []model.Question {
	f.lookups++
	return f.questions[strings.ToLower(skill)]
}

func storedQuestion(id string) model.Question {
	return model.Question{
		ID:            id,
		Skill:         "go",
		Level:         model.LevelBasic,
		Type:          model.TypeMCQ,
		QuestionText:  "Which keyword starts a goroutine in Go programs?",
		Options:       []string{"go", "async", "spawn"},
		CorrectAnswer: model.AnswerSet{"go"},
		Verified:      true,
	}
}

func newService(gen Generator, store QuestionStore, bank StaticBank) *GenerationService {
	return NewGenerationService(gen, quality.NewValidator(), store, bank, nil, zerolog.Nop())
}

// ─── Tier 1: AI ───

func TestGenerateAITierValidatesMintsAndPersists(t *testing.T) {
	raw := []model.Question{
		storedQuestion(""),
		storedQuestion(""),
		{Type: model.TypeMCQ, QuestionText: "As an AI model I cannot write questions about goroutines"},
		storedQuestion(""),
	}
	for i := range raw {
		raw[i].ID = ""
		raw[i].Verified = false
	}
	gen := &fakeGenerator{set: &provider.QuestionSet{Provider: "groq", Questions: raw}}
	store := newFakeStore()
	bank := &fakeBank{}
	svc := newService(gen, store, bank)

	questions, source, err := svc.Generate(context.Background(), GenerateParams{
		Skill: "Go", Level: model.LevelBasic, Count: 3, UseAI: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != model.SourceAI {
		t.Fatalf("expected source ai, got %s", source)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions after validation, got %d", len(questions))
	}
	for _, q := range questions {
		if !strings.HasPrefix(q.ID, "go_basic_") {
			t.Errorf("minted id should carry skill and level, got %q", q.ID)
		}
		if !q.Verified {
			t.Errorf("AI questions served to a user must be marked verified")
		}
	}
	if store.queries != 0 || bank.lookups != 0 {
		t.Fatal("lower tiers must not be consulted when the AI tier succeeds")
	}

	select {
	case batch := <-store.inserted:
		if len(batch) != 3 {
			t.Fatalf("expected the served batch to be persisted, got %d questions", len(batch))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("background persistence never ran")
	}
}

func TestGenerateFallsBackToStoreWhenAIExhausted(t *testing.T) {
	gen := &fakeGenerator{err: &provider.AggregateError{
		Op:       "generate_questions",
		Attempts: []provider.Attempt{{Provider: "groq", Err: errors.New("rate limited")}},
	}}
	store := newFakeStore(storedQuestion("db_1"), storedQuestion("db_2"))
	svc := newService(gen, store, &fakeBank{})

	questions, source, err := svc.Generate(context.Background(), GenerateParams{
		Skill: "go", Level: model.LevelBasic, Count: 5, UseAI: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != model.SourceDatabase {
		t.Fatalf("expected source database, got %s", source)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 stored questions, got %d", len(questions))
	}
	if gen.calls != 1 {
		t.Fatalf("AI tier must be attempted exactly once, got %d", gen.calls)
	}
}

func TestGenerateSkipsAITierWhenDisabled(t *testing.T) {
	gen := &fakeGenerator{set: &provider.QuestionSet{Provider: "groq"}}
	store := newFakeStore(storedQuestion("db_1"))
	svc := newService(gen, store, &fakeBank{})

	_, source, err := svc.Generate(context.Background(), GenerateParams{
		Skill: "go", Level: model.LevelBasic, Count: 1, UseAI: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != model.SourceDatabase {
		t.Fatalf("expected source database, got %s", source)
	}
	if gen.calls != 0 {
		t.Fatal("providers must not be called when AI is disabled for the request")
	}
}

// ─── Exclusion ───

func TestGenerateStoreTierFiltersExcludedBeforeTruncating(t *testing.T) {
	// The store fake ignores nothing; seed it so the in-memory re-filter is
	// what keeps excluded ids out even when SQL exclusion is bypassed.
	store := newFakeStore(
		storedQuestion("db_1"),
		storedQuestion("db_2"),
		storedQuestion("db_3"),
		storedQuestion("db_4"),
	)
	svc := newService(nil, store, &fakeBank{})

	questions, source, err := svc.Generate(context.Background(), GenerateParams{
		Skill: "go", Level: model.LevelBasic, Count: 2, UseAI: false,
		ExcludeQuestionIDs: []string{"db_1", "db_3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != model.SourceDatabase {
		t.Fatalf("expected source database, got %s", source)
	}
	for _, q := range questions {
		if q.ID == "db_1" || q.ID == "db_3" {
			t.Fatalf("excluded question %s was served", q.ID)
		}
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
}

func TestGenerateStaticTierFiltersExcludedBeforeTruncating(t *testing.T) {
	bankQuestions := make([]model.Question, 4)
	for i := range bankQuestions {
		bankQuestions[i] = storedQuestion(fmt.Sprintf("static_go_basic_%d", i))
	}
	bank := &fakeBank{questions: map[string][]model.Question{"go": bankQuestions}}
	svc := newService(nil, newFakeStore(), bank)

	questions, source, err := svc.Generate(context.Background(), GenerateParams{
		Skill: "go", Level: model.LevelBasic, Count: 3, UseAI: false,
		ExcludeQuestionIDs: []string{"static_go_basic_0", "static_go_basic_2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != model.SourceStatic {
		t.Fatalf("expected source static, got %s", source)
	}
	// Two of four are excluded; a truncate-then-filter bug would return
	// fewer than the two survivors.
	if len(questions) != 2 {
		t.Fatalf("expected the 2 non-excluded questions, got %d", len(questions))
	}
	for _, q := range questions {
		if q.ID == "static_go_basic_0" || q.ID == "static_go_basic_2" {
			t.Fatalf("excluded question %s was served", q.ID)
		}
	}
}

// ─── Terminal outcomes ───

func TestGenerateUnknownSkillReturnsEmptyNotError(t *testing.T) {
	svc := newService(nil, newFakeStore(), &fakeBank{})

	questions, source, err := svc.Generate(context.Background(), GenerateParams{
		Skill: "cobol", Level: model.LevelAdvanced, Count: 5, UseAI: false,
	})
	if err != nil {
		t.Fatalf("empty availability is not an error, got %v", err)
	}
	if source != model.SourceStatic {
		t.Fatalf("expected source static, got %s", source)
	}
	if len(questions) != 0 {
		t.Fatalf("expected no questions, got %d", len(questions))
	}
}

func TestGenerateDefaultsCountToFive(t *testing.T) {
	bankQuestions := make([]model.Question, 8)
	for i := range bankQuestions {
		bankQuestions[i] = storedQuestion(fmt.Sprintf("static_go_basic_%d", i))
	}
	bank := &fakeBank{questions: map[string][]model.Question{"go": bankQuestions}}
	svc := newService(nil, newFakeStore(), bank)

	questions, _, err := svc.Generate(context.Background(), GenerateParams{
		Skill: "go", Level: model.LevelBasic, UseAI: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 5 {
		t.Fatalf("expected the default count of 5, got %d", len(questions))
	}
}

func TestGenerateStoreErrorFallsBackToStatic(t *testing.T) {
	store := newFakeStore()
	store.queryErr = errors.New("connection refused")
	bank := &fakeBank{questions: map[string][]model.Question{
		"go": {storedQuestion("static_go_basic_0")},
	}}
	svc := newService(nil, store, bank)

	questions, source, err := svc.Generate(context.Background(), GenerateParams{
		Skill: "go", Level: model.LevelBasic, Count: 1, UseAI: false,
	})
	if err != nil {
		t.Fatalf("a store outage must not fail the request, got %v", err)
	}
	if source != model.SourceStatic || len(questions) != 1 {
		t.Fatalf("expected 1 static question, got %d from %s", len(questions), source)
	}
}

// ─── Analyze ───

func TestAnalyzeWithoutProvidersIsUnavailable(t *testing.T) {
	svc := newService(nil, newFakeStore(), &fakeBank{})

	_, err := svc.Analyze(context.Background(), &model.PerformanceData{Skill: "go"})
	if !errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable, got %v", err)
	}
}

func TestAnalyzeMapsAggregateFailureToUnavailable(t *testing.T) {
	gen := &fakeGenerator{err: &provider.AggregateError{
		Op:       "analyze_performance",
		Attempts: []provider.Attempt{{Provider: "groq", Err: errors.New("overloaded")}},
	}}
	svc := newService(gen, newFakeStore(), &fakeBank{})

	_, err := svc.Analyze(context.Background(), &model.PerformanceData{Skill: "go"})
	if !errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable, got %v", err)
	}
}
