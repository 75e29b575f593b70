// Command seed-bank imports the bundled static question bank into the
// persistent store, giving a fresh deployment a verified baseline before
// any AI generation has run.
package main

import (
	"context"
	"log"
	"time"

	"github.com/skillforge/skillforge-backend/internal/config"
	"github.com/skillforge/skillforge-backend/internal/database"
	"github.com/skillforge/skillforge-backend/internal/logger"
	"github.com/skillforge/skillforge-backend/internal/repository"
	"github.com/skillforge/skillforge-backend/internal/staticbank"
)

func main() {
	cfg := config.Load()
	zlog := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, zlog)
	if err != nil {
		log.Fatalf("Connect to PostgreSQL: %v", err)
	}
	defer pool.Close()

	bank, err := staticbank.Load()
	if err != nil {
		log.Fatalf("Load static bank: %v", err)
	}

	questions := bank.All()
	now := time.Now().UTC()
	for i := range questions {
		questions[i].CreatedAt = now
	}

	repo := repository.NewQuestionRepository(pool)
	if err := repo.Insert(ctx, questions); err != nil {
		log.Fatalf("Insert questions: %v", err)
	}

	zlog.Info().Int("count", len(questions)).Msg("Static bank seeded")
}
