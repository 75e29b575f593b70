package provider

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/skillforge/skillforge-backend/internal/model"
)

// Orchestrator iterates the registered providers in order, returning the
// first success. The starting index rotates across calls so repeated
// failures don't always hit the same dead provider first. The cursor only
// needs to be monotonic; two concurrent calls landing on the same provider
// is acceptable.
type Orchestrator struct {
	registry *Registry
	cursor   atomic.Uint64
	log      zerolog.Logger
}

// NewOrchestrator wraps a registry built elsewhere.
func NewOrchestrator(registry *Registry, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		log:      log.With().Str("component", "ai_orchestrator").Logger(),
	}
}

// NewOrchestratorFromClients builds an orchestrator directly over a client
// slice. Used by tests.
func NewOrchestratorFromClients(clients []Client, log zerolog.Logger) *Orchestrator {
	return NewOrchestrator(newRegistryFromClients(clients), log)
}

// Providers returns the provider names in registry order.
func (o *Orchestrator) Providers() []string {
	return o.registry.Names()
}

// Generate tries each provider once, in rotated registry order, and returns
// the first successful batch. It fails only when every provider has failed,
// with an *AggregateError carrying each attempt.
func (o *Orchestrator) Generate(ctx context.Context, skill string, level model.Level, count int) (*QuestionSet, error) {
	clients := o.registry.Clients()
	start := int(o.cursor.Add(1)-1) % len(clients)

	var attempts []Attempt
	for i := range clients {
		client := clients[(start+i)%len(clients)]

		set, err := client.GenerateQuestions(ctx, skill, level, count)
		if err == nil {
			o.log.Debug().
				Str("provider", client.Name()).
				Int("questions", len(set.Questions)).
				Msg("Generation succeeded")
			return set, nil
		}

		o.log.Warn().
			Err(err).
			Str("provider", client.Name()).
			Msg("Provider failed, trying next")
		attempts = append(attempts, Attempt{Provider: client.Name(), Err: err})
	}

	return nil, &AggregateError{Op: "generate_questions", Attempts: attempts}
}

// Analyze follows the identical try-in-order contract for performance
// analysis, independent of question generation success or failure.
func (o *Orchestrator) Analyze(ctx context.Context, data *model.PerformanceData) (*model.Analysis, error) {
	clients := o.registry.Clients()
	start := int(o.cursor.Add(1)-1) % len(clients)

	var attempts []Attempt
	for i := range clients {
		client := clients[(start+i)%len(clients)]

		analysis, err := client.AnalyzePerformance(ctx, data)
		if err == nil {
			return analysis, nil
		}

		o.log.Warn().
			Err(err).
			Str("provider", client.Name()).
			Msg("Provider failed, trying next")
		attempts = append(attempts, Attempt{Provider: client.Name(), Err: err})
	}

	return nil, &AggregateError{Op: "analyze_performance", Attempts: attempts}
}
