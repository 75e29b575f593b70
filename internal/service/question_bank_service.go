package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/skillforge/skillforge-backend/internal/config"
	"github.com/skillforge/skillforge-backend/internal/model"
	"github.com/skillforge/skillforge-backend/internal/quality"
	"github.com/skillforge/skillforge-backend/internal/repository"
)

// Common question bank errors.
var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuestionInvalid  = errors.New("question failed validation")
)

// statsCacheTTL bounds staleness of the cached aggregate stats.
const statsCacheTTL = 60 * time.Second

// QuestionBankService handles the admin surface over the question store:
// statistics, verification, manual adds, and bulk imports.
type QuestionBankService struct {
	repo      *repository.QuestionRepository
	validator *quality.Validator
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewQuestionBankService creates a new QuestionBankService.
func NewQuestionBankService(repo *repository.QuestionRepository, validator *quality.Validator, rdb *redis.Client, log zerolog.Logger) *QuestionBankService {
	return &QuestionBankService{
		repo:      repo,
		validator: validator,
		rdb:       rdb,
		log:       log.With().Str("component", "question_bank_service").Logger(),
	}
}

// Stats returns per-(skill, level) aggregates, cached briefly in Redis.
func (s *QuestionBankService) Stats(ctx context.Context) ([]repository.StatsRow, error) {
	key := config.CacheKey.QuestionStatsKey()

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var stats []repository.StatsRow
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return stats, nil
			}
		}
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, key, payload, statsCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Stats cache write failed")
			}
		}
	}
	return stats, nil
}

// ListUnverified returns questions awaiting human verification.
func (s *QuestionBankService) ListUnverified(ctx context.Context, limit int) ([]model.Question, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.repo.ListUnverified(ctx, limit)
}

// Verify flips the verification flag on one question.
func (s *QuestionBankService) Verify(ctx context.Context, id string) error {
	if err := s.repo.Verify(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrQuestionNotFound
		}
		return err
	}
	return nil
}

// Add validates and persists one manually authored question. Manual adds
// are trusted and stored verified.
func (s *QuestionBankService) Add(ctx context.Context, req *model.AddQuestionRequest) (*model.Question, error) {
	q, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, []model.Question{*q}); err != nil {
		return nil, err
	}
	return q, nil
}

// Import validates and persists a batch. Invalid entries are dropped and
// reported back by index, matching the validator's drop-don't-abort policy.
func (s *QuestionBankService) Import(ctx context.Context, req *model.ImportQuestionsRequest) (imported []model.Question, rejected map[int][]string, err error) {
	rejected = make(map[int][]string)

	for i := range req.Questions {
		q, err := s.fromRequest(&req.Questions[i])
		if err != nil {
			var verr *validationError
			if errors.As(err, &verr) {
				rejected[i] = verr.issues
				continue
			}
			return nil, nil, err
		}
		imported = append(imported, *q)
	}

	if len(imported) > 0 {
		if err := s.repo.Insert(ctx, imported); err != nil {
			return nil, nil, err
		}
	}
	return imported, rejected, nil
}

type validationError struct {
	issues []string
}

func (e *validationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrQuestionInvalid, e.issues)
}

func (e *validationError) Unwrap() error {
	return ErrQuestionInvalid
}

func (s *QuestionBankService) fromRequest(req *model.AddQuestionRequest) (*model.Question, error) {
	level, err := model.NormalizeLevel(req.Level)
	if err != nil {
		return nil, &validationError{issues: []string{err.Error()}}
	}

	weight := req.DifficultyWeight
	if weight == 0 {
		weight = 5
	}

	q := model.Question{
		ID:               mintQuestionID(req.Skill, level),
		Skill:            req.Skill,
		Level:            level,
		Type:             model.QuestionType(req.Type),
		QuestionText:     req.QuestionText,
		Options:          req.Options,
		CorrectAnswer:    req.CorrectAnswer,
		CodeSnippet:      req.CodeSnippet,
		TestCases:        req.TestCases,
		Blanks:           req.Blanks,
		MatchingPairs:    req.MatchingPairs,
		Explanation:      req.Explanation,
		Verified:         true,
		DifficultyWeight: weight,
		CreatedAt:        time.Now().UTC(),
	}

	if result := s.validator.Validate(&q); !result.Valid {
		return nil, &validationError{issues: result.Issues}
	}
	return &q, nil
}
