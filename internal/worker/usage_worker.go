package worker

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/skillforge/skillforge-backend/internal/config"
)

const (
	UsageBatchSize    = 100
	UsageBatchTimeout = 5 * time.Second
	UsagePollTimeout  = 1 * time.Second
)

// UsageWorker applies usage_count increments queued when stored questions
// are served. Increments are coalesced per id and applied in one bulk
// UPDATE.
type UsageWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewUsageWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *UsageWorker {
	return &UsageWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "usage_worker").Logger(),
	}
}

func (w *UsageWorker) Start(ctx context.Context) {
	w.log.Info().Msg("UsageWorker started")

	batch := make([]string, 0, UsageBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= UsageBatchSize || time.Since(lastFlush) >= UsageBatchTimeout) {

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
			item, err := w.rdb.BLPop(ctx, UsagePollTimeout, config.WorkerKey.UsageCountsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			batch = append(batch, item[1])
		}
	}
}

// ----------------------------------------------------------------
// BULK PostgreSQL UPDATE using UNNEST
// ----------------------------------------------------------------

func (w *UsageWorker) flushSafe(ctx context.Context, batch []string) {
	if len(batch) == 0 {
		return
	}

	counts := make(map[string]int, len(batch))
	for _, id := range batch {
		counts[id]++
	}

	ids := make([]string, 0, len(counts))
	increments := make([]int, 0, len(counts))
	for id, n := range counts {
		ids = append(ids, id)
		increments = append(increments, n)
	}

	query := `
		UPDATE questions AS q
		SET usage_count = q.usage_count + t.increment
		FROM (
			SELECT u.id, u.increment
			FROM UNNEST($1::text[], $2::int[]) AS u (id, increment)
		) AS t
		WHERE q.id = t.id
	`

	if _, err := w.pool.Exec(ctx, query, ids, increments); err != nil {
		w.log.Error().Err(err).Int("ids", len(ids)).Msg("Bulk usage update failed, dropping batch")
	}
}
