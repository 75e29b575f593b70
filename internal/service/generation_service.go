package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/skillforge/skillforge-backend/internal/config"
	"github.com/skillforge/skillforge-backend/internal/model"
	"github.com/skillforge/skillforge-backend/internal/provider"
	"github.com/skillforge/skillforge-backend/internal/quality"
	"github.com/skillforge/skillforge-backend/internal/staticbank"
)

// ErrAIUnavailable means every upstream provider failed for an operation
// that has no non-AI fallback tier.
var ErrAIUnavailable = errors.New("all AI providers unavailable")

// seenSetTTL bounds the lifetime of the per-user served-question set.
const seenSetTTL = 30 * 24 * time.Hour

// Generator is the AI tier: a fallback chain over the provider pool.
// Satisfied by *provider.Orchestrator.
type Generator interface {
	Generate(ctx context.Context, skill string, level model.Level, count int) (*provider.QuestionSet, error)
	Analyze(ctx context.Context, data *model.PerformanceData) (*model.Analysis, error)
}

// QuestionStore is the persistent question repository.
// Satisfied by *repository.QuestionRepository.
type QuestionStore interface {
	Insert(ctx context.Context, questions []model.Question) error
	Query(ctx context.Context, skill string, level model.Level, verified bool, excludeIDs []string, limit int) ([]model.Question, error)
}

// StaticBank is the bundled availability floor.
// Satisfied by *staticbank.Bank.
type StaticBank interface {
	Lookup(skill string, level model.Level) []model.Question
}

// GenerateParams are the arguments for one generation call.
type GenerateParams struct {
	Skill              string
	Level              model.Level
	Count              int
	UseAI              bool
	UserID             string
	ExcludeQuestionIDs []string
}

// GenerationService resolves question requests through three tiers, in
// order: AI generation, the persistent store, and the static bank. The
// first tier yielding at least one question wins. The exclusion set is
// honored by filtering before truncation in every tier, so a caller is
// never shown a question they have already seen.
type GenerationService struct {
	gen       Generator
	validator *quality.Validator
	store     QuestionStore
	bank      StaticBank
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewGenerationService creates a GenerationService. gen may be nil when no
// provider is configured and AI is disabled; rdb may be nil in tests, which
// disables server-side seen tracking and queued persistence.
func NewGenerationService(
	gen Generator,
	validator *quality.Validator,
	store QuestionStore,
	bank StaticBank,
	rdb *redis.Client,
	log zerolog.Logger,
) *GenerationService {
	return &GenerationService{
		gen:       gen,
		validator: validator,
		store:     store,
		bank:      bank,
		rdb:       rdb,
		log:       log.With().Str("component", "generation_service").Logger(),
	}
}

// Generate returns at most params.Count questions for the skill and level,
// with the tier that produced them. An empty result with a nil error is a
// valid terminal outcome (unknown skill, nothing stored, no static content).
func (s *GenerationService) Generate(ctx context.Context, params GenerateParams) ([]model.Question, model.QuestionSource, error) {
	if params.Count < 1 {
		params.Count = 5
	}

	exclude := s.buildExclusionSet(ctx, params)

	// Tier 1: AI generation with write-through persistence.
	if params.UseAI && s.gen != nil {
		if questions := s.tryAITier(ctx, params, exclude); len(questions) > 0 {
			s.recordSeen(ctx, params.UserID, questions)
			return questions, model.SourceAI, nil
		}
	}

	// Tier 2: previously validated questions from the store.
	if questions := s.tryStoreTier(ctx, params, exclude); len(questions) > 0 {
		s.recordSeen(ctx, params.UserID, questions)
		s.enqueueUsage(ctx, questions)
		return questions, model.SourceDatabase, nil
	}

	// Tier 3: the bundled availability floor. May legitimately be empty.
	questions := s.staticTier(params, exclude)
	s.recordSeen(ctx, params.UserID, questions)
	return questions, model.SourceStatic, nil
}

// Analyze runs the provider fallback chain for performance analysis. There
// is no non-AI tier for this operation.
func (s *GenerationService) Analyze(ctx context.Context, data *model.PerformanceData) (*model.Analysis, error) {
	if s.gen == nil {
		return nil, ErrAIUnavailable
	}

	analysis, err := s.gen.Analyze(ctx, data)
	if err != nil {
		var agg *provider.AggregateError
		if errors.As(err, &agg) {
			s.log.Error().
				Strs("providers", agg.Providers()).
				Msg("Analysis failed on every provider")
			return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
		}
		return nil, err
	}
	return analysis, nil
}

// tryAITier generates, validates, mints ids, and hands the batch to the
// persistence queue. A total provider failure or an all-rejected batch is a
// tier transition, not an error.
func (s *GenerationService) tryAITier(ctx context.Context, params GenerateParams, exclude map[string]bool) []model.Question {
	set, err := s.gen.Generate(ctx, params.Skill, params.Level, params.Count)
	if err != nil {
		var agg *provider.AggregateError
		if errors.As(err, &agg) {
			s.log.Warn().
				Strs("providers", agg.Providers()).
				Str("skill", params.Skill).
				Msg("AI tier exhausted, falling back to store")
		} else {
			s.log.Warn().Err(err).Msg("AI tier failed, falling back to store")
		}
		return nil
	}

	valid := make([]model.Question, 0, len(set.Questions))
	for i := range set.Questions {
		q := set.Questions[i]
		if result := s.validator.Validate(&q); !result.Valid {
			s.log.Debug().
				Strs("issues", result.Issues).
				Str("provider", set.Provider).
				Msg("Generated question rejected")
			continue
		}

		q.ID = mintQuestionID(params.Skill, params.Level)
		if exclude[q.ID] {
			// Practically impossible with a fresh id, but the guarantee is
			// filter-before-truncate in every tier.
			continue
		}
		q.Verified = true
		valid = append(valid, q)
	}

	if len(valid) == 0 {
		s.log.Warn().
			Str("provider", set.Provider).
			Int("generated", len(set.Questions)).
			Msg("No generated question survived validation")
		return nil
	}

	if len(valid) > params.Count {
		valid = valid[:params.Count]
	}

	s.persistAsync(ctx, valid)
	return valid
}

func (s *GenerationService) tryStoreTier(ctx context.Context, params GenerateParams, exclude map[string]bool) []model.Question {
	// Over-fetch so exclusion filtering can't starve the result. The SQL
	// already excludes by id; the set is passed through for belt and
	// braces against ids recorded mid-request.
	stored, err := s.store.Query(ctx, params.Skill, params.Level, true, keys(exclude), params.Count*2)
	if err != nil {
		s.log.Warn().Err(err).Msg("Store tier query failed, falling back to static bank")
		return nil
	}

	filtered := stored[:0]
	for _, q := range stored {
		if !exclude[q.ID] {
			filtered = append(filtered, q)
		}
	}

	rand.Shuffle(len(filtered), func(i, j int) {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	})
	if len(filtered) > params.Count {
		filtered = filtered[:params.Count]
	}
	return filtered
}

func (s *GenerationService) staticTier(params GenerateParams, exclude map[string]bool) []model.Question {
	all := s.bank.Lookup(params.Skill, params.Level)

	filtered := make([]model.Question, 0, len(all))
	for _, q := range all {
		if !exclude[q.ID] {
			filtered = append(filtered, q)
		}
	}

	rand.Shuffle(len(filtered), func(i, j int) {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	})
	if len(filtered) > params.Count {
		filtered = filtered[:params.Count]
	}
	return filtered
}

// buildExclusionSet unions the caller-supplied exclusion ids with the
// server-tracked seen set for the user, when one exists.
func (s *GenerationService) buildExclusionSet(ctx context.Context, params GenerateParams) map[string]bool {
	exclude := make(map[string]bool, len(params.ExcludeQuestionIDs))
	for _, id := range params.ExcludeQuestionIDs {
		exclude[id] = true
	}

	if params.UserID == "" || s.rdb == nil {
		return exclude
	}

	seen, err := s.rdb.SMembers(ctx, config.CacheKey.UserSeenQuestionsKey(params.UserID)).Result()
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", params.UserID).Msg("Seen-set lookup failed")
		return exclude
	}
	for _, id := range seen {
		exclude[id] = true
	}
	return exclude
}

// recordSeen appends served ids to the user's seen set. Best effort.
func (s *GenerationService) recordSeen(ctx context.Context, userID string, questions []model.Question) {
	if userID == "" || s.rdb == nil || len(questions) == 0 {
		return
	}

	ids := make([]interface{}, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	key := config.CacheKey.UserSeenQuestionsKey(userID)
	pipe := s.rdb.Pipeline()
	pipe.SAdd(ctx, key, ids...)
	pipe.Expire(ctx, key, seenSetTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Recording seen questions failed")
	}
}

// persistAsync hands validated AI questions to the persistence queue. A
// queue failure falls back to a direct background insert; either way a
// failure is logged and never fails the request, since the questions are
// still usable in-memory for this call.
func (s *GenerationService) persistAsync(ctx context.Context, questions []model.Question) {
	if s.rdb != nil {
		payload, err := json.Marshal(questions)
		if err == nil {
			if err := s.rdb.RPush(ctx, config.WorkerKey.PersistQuestionsQueue, payload).Err(); err == nil {
				return
			}
			s.log.Warn().Msg("Persistence queue unavailable, inserting directly")
		}
	}

	go func(batch []model.Question) {
		insertCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.store.Insert(insertCtx, batch); err != nil {
			s.log.Error().Err(err).Int("count", len(batch)).Msg("Background question insert failed")
		}
	}(questions)
}

// enqueueUsage queues usage-count increments for store-served questions.
func (s *GenerationService) enqueueUsage(ctx context.Context, questions []model.Question) {
	if s.rdb == nil {
		return
	}

	ids := make([]interface{}, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.UsageCountsQueue, ids...).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Usage count enqueue failed")
	}
}

const idSuffixCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// mintQuestionID composes a store-unique id from skill, level, a timestamp,
// and a random suffix.
func mintQuestionID(skill string, level model.Level) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = idSuffixCharset[rand.Intn(len(idSuffixCharset))]
	}
	return fmt.Sprintf("%s_%s_%d_%s",
		staticbank.Slug(skill),
		strings.ToLower(string(level)),
		time.Now().UnixMilli(),
		suffix,
	)
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
