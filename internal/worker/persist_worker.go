package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/skillforge/skillforge-backend/internal/config"
	"github.com/skillforge/skillforge-backend/internal/model"
	"github.com/skillforge/skillforge-backend/internal/repository"
)

const (
	PersistBatchSize    = 20
	PersistBatchTimeout = 2 * time.Second
	PersistPollTimeout  = 1 * time.Second
)

// PersistWorker drains the fire-and-forget persistence queue: batches of
// validated, AI-generated questions pushed by the generation service. A
// failed batch insert is retried question by question; rows that still fail
// are logged and dropped so the queue can't wedge.
type PersistWorker struct {
	repo *repository.QuestionRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewPersistWorker(repo *repository.QuestionRepository, rdb *redis.Client, log zerolog.Logger) *PersistWorker {
	return &PersistWorker{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "persist_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *PersistWorker) Start(ctx context.Context) {
	w.log.Info().Msg("PersistWorker started")

	batch := make([]model.Question, 0, PersistBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= PersistBatchSize || time.Since(lastFlush) >= PersistBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, PersistPollTimeout, config.WorkerKey.PersistQuestionsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var questions []model.Question
			if err := json.Unmarshal([]byte(item[1]), &questions); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, questions...)
		}
	}
}

// flushSafe inserts the batch, falling back to per-question inserts so one
// bad row can't sink the rest.
func (w *PersistWorker) flushSafe(ctx context.Context, batch []model.Question) {
	if len(batch) == 0 {
		return
	}

	if err := w.repo.Insert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("Batch insert failed, inserting individually")

		for i := range batch {
			if err := w.repo.Insert(ctx, batch[i:i+1]); err != nil {
				w.log.Error().Err(err).
					Str("question_id", batch[i].ID).
					Msg("Question insert failed, dropping")
			}
		}
		return
	}

	w.log.Debug().Int("count", len(batch)).Msg("Question batch persisted")
}
