package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/skillforge/skillforge-backend/internal/config"
	"github.com/skillforge/skillforge-backend/internal/handler"
	"github.com/skillforge/skillforge-backend/internal/middleware"
	"github.com/skillforge/skillforge-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Question  *handler.QuestionHandler
	Analysis  *handler.AnalysisHandler
	Scorecard *handler.ScorecardHandler
	Admin     *handler.AdminHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the generation endpoints (per IP, per minute).
	generateLimiter := middleware.NewRateLimiter(cfg.GenerateRateLimit, time.Minute)

	// ─── Public API ────────────────────────────────────────────────────
	api := router.Group("/api/v1")
	{
		questions := api.Group("/questions")
		{
			questions.POST("/generate", generateLimiter.Middleware(), handlers.Question.Generate)
			questions.POST("/generate-html5", generateLimiter.Middleware(), handlers.Question.GenerateHTML5)
			questions.GET("/stats", handlers.Question.Stats)
		}

		api.POST("/analysis/performance", generateLimiter.Middleware(), handlers.Analysis.Analyze)
		api.POST("/scorecard", handlers.Scorecard.Score)
	}

	// ─── Admin Group (JWT) ─────────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(cfg.AdminJWTSecret))
	{
		bank := adminAPI.Group("/question-bank")
		{
			bank.GET("/stats", handlers.Admin.Stats)
			bank.GET("/unverified", handlers.Admin.ListUnverified)
			bank.POST("/questions", handlers.Admin.Add)
			bank.POST("/questions/:id/verify", handlers.Admin.Verify)
			bank.POST("/import", handlers.Admin.Import)
		}
	}

	return router
}
