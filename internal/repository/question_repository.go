package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skillforge/skillforge-backend/internal/model"
)

// QuestionRepository is the persistent question store. Results from Query
// are randomized before truncation so the same rows aren't always surfaced.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, skill, level, type, question_text, options, correct_answer,
	code_snippet, test_cases, blanks, matching_pairs, explanation,
	verified, usage_count, difficulty_weight, created_at`

// Insert persists a batch of questions. Every question must already carry
// its id; ids are minted by the generation service, not by the database.
func (r *QuestionRepository) Insert(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range questions {
		q := &questions[i]
		options, _ := json.Marshal(q.Options)
		answer, _ := json.Marshal(q.CorrectAnswer)
		testCases, _ := json.Marshal(q.TestCases)
		blanks, _ := json.Marshal(q.Blanks)
		pairs, _ := json.Marshal(q.MatchingPairs)

		batch.Queue(
			`INSERT INTO questions (id, skill, level, type, question_text, options, correct_answer,
			    code_snippet, test_cases, blanks, matching_pairs, explanation,
			    verified, usage_count, difficulty_weight, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			 ON CONFLICT (id) DO NOTHING`,
			q.ID, q.Skill, q.Level, q.Type, q.QuestionText, options, answer,
			q.CodeSnippet, testCases, blanks, pairs, q.Explanation,
			q.Verified, q.UsageCount, q.DifficultyWeight, q.CreatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range questions {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
	}
	return nil
}

// Query retrieves up to limit questions matching skill, level and verified,
// excluding the given ids, in random order.
func (r *QuestionRepository) Query(ctx context.Context, skill string, level model.Level, verified bool, excludeIDs []string, limit int) ([]model.Question, error) {
	if excludeIDs == nil {
		excludeIDs = []string{}
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE LOWER(skill) = LOWER($1) AND level = $2 AND verified = $3
		   AND NOT (id = ANY($4))
		 ORDER BY random()
		 LIMIT $5`,
		skill, level, verified, excludeIDs, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// ListUnverified retrieves questions awaiting human verification.
func (r *QuestionRepository) ListUnverified(ctx context.Context, limit int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE verified = FALSE
		 ORDER BY created_at
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// Verify flips the human-verification flag on one question.
func (r *QuestionRepository) Verify(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions SET verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// StatsRow is one aggregate row of the question bank statistics.
type StatsRow struct {
	Skill      string `json:"skill"`
	Level      string `json:"level"`
	Total      int    `json:"total"`
	Verified   int    `json:"verified"`
	TotalUsage int    `json:"total_usage"`
}

// Stats aggregates question counts and usage per (skill, level).
func (r *QuestionRepository) Stats(ctx context.Context) ([]StatsRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT skill, level, COUNT(*),
		        COUNT(*) FILTER (WHERE verified), COALESCE(SUM(usage_count), 0)
		 FROM questions
		 GROUP BY skill, level
		 ORDER BY skill, level`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []StatsRow
	for rows.Next() {
		var s StatsRow
		if err := rows.Scan(&s.Skill, &s.Level, &s.Total, &s.Verified, &s.TotalUsage); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func scanQuestions(rows pgx.Rows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var options, answer, testCases, blanks, pairs []byte

		if err := rows.Scan(
			&q.ID, &q.Skill, &q.Level, &q.Type, &q.QuestionText, &options, &answer,
			&q.CodeSnippet, &testCases, &blanks, &pairs, &q.Explanation,
			&q.Verified, &q.UsageCount, &q.DifficultyWeight, &q.CreatedAt,
		); err != nil {
			return nil, err
		}

		_ = json.Unmarshal(options, &q.Options)
		_ = json.Unmarshal(answer, &q.CorrectAnswer)
		_ = json.Unmarshal(testCases, &q.TestCases)
		_ = json.Unmarshal(blanks, &q.Blanks)
		_ = json.Unmarshal(pairs, &q.MatchingPairs)

		questions = append(questions, q)
	}
	return questions, rows.Err()
}
