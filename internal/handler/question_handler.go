package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/skillforge/skillforge-backend/internal/model"
	"github.com/skillforge/skillforge-backend/internal/response"
	"github.com/skillforge/skillforge-backend/internal/service"
	"github.com/skillforge/skillforge-backend/internal/validator"
)

// defaultCount is the number of questions served when the caller doesn't ask
// for a specific amount.
const defaultCount = 5

// QuestionHandler handles question generation endpoints.
type QuestionHandler struct {
	generationService *service.GenerationService
	bankService       *service.QuestionBankService
	aiEnabled         bool
	log               zerolog.Logger
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(generationService *service.GenerationService, bankService *service.QuestionBankService, aiEnabled bool, log zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		generationService: generationService,
		bankService:       bankService,
		aiEnabled:         aiEnabled,
		log:               log.With().Str("component", "question_handler").Logger(),
	}
}

// Generate godoc
// POST /api/v1/questions/generate
// Resolves a batch of questions through the AI, store, and static tiers.
func (h *QuestionHandler) Generate(c *gin.Context) {
	var req model.GenerateQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	level, err := model.NormalizeLevel(req.Level)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidLevel)
		return
	}

	count := req.Count
	if count == 0 {
		count = defaultCount
	}

	useAI := h.aiEnabled
	if req.UseAI != nil {
		useAI = useAI && *req.UseAI
	}

	questions, source, err := h.generationService.Generate(c.Request.Context(), service.GenerateParams{
		Skill:              req.Skill,
		Level:              level,
		Count:              count,
		UseAI:              useAI,
		UserID:             req.UserID,
		ExcludeQuestionIDs: req.ExcludeQuestionIDs,
	})
	if err != nil {
		h.log.Error().Err(err).Str("skill", req.Skill).Msg("Generation failed on every tier")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if questions == nil {
		questions = []model.Question{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"evaluation_id": uuid.New().String(),
		"skill":         req.Skill,
		"level":         level,
		"count":         len(questions),
		"questions":     questions,
		"source":        source,
	})
}

// featureBatch is one per-feature result of an HTML5 batch generation.
type featureBatch struct {
	Feature   string               `json:"feature"`
	Count     int                  `json:"count"`
	Questions []model.Question     `json:"questions"`
	Source    model.QuestionSource `json:"source"`
}

// GenerateHTML5 godoc
// POST /api/v1/questions/generate-html5
// Generates a question batch per requested HTML5 feature.
func (h *QuestionHandler) GenerateHTML5(c *gin.Context) {
	var req model.GenerateHTML5Request
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	level := model.LevelBasic
	if req.Level != "" {
		var err error
		level, err = model.NormalizeLevel(req.Level)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidLevel)
			return
		}
	}

	perFeature := req.QuestionsPerFeature
	if perFeature == 0 {
		perFeature = 3
	}

	useAI := h.aiEnabled
	if req.UseAI != nil {
		useAI = useAI && *req.UseAI
	}

	batches := make([]featureBatch, 0, len(req.Features))
	for _, feature := range req.Features {
		questions, source, err := h.generationService.Generate(c.Request.Context(), service.GenerateParams{
			Skill:  feature,
			Level:  level,
			Count:  perFeature,
			UseAI:  useAI,
			UserID: req.UserID,
		})
		if err != nil {
			h.log.Error().Err(err).Str("feature", feature).Msg("Feature batch generation failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if questions == nil {
			questions = []model.Question{}
		}
		batches = append(batches, featureBatch{
			Feature:   feature,
			Count:     len(questions),
			Questions: questions,
			Source:    source,
		})
	}

	response.Success(c, http.StatusOK, gin.H{
		"level":                 level,
		"questions_per_feature": perFeature,
		"batches":               batches,
	})
}

// Stats godoc
// GET /api/v1/questions/stats
// Returns aggregate question counts per skill and level.
func (h *QuestionHandler) Stats(c *gin.Context) {
	stats, err := h.bankService.Stats(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}
