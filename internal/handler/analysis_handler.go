package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/skillforge/skillforge-backend/internal/model"
	"github.com/skillforge/skillforge-backend/internal/response"
	"github.com/skillforge/skillforge-backend/internal/service"
	"github.com/skillforge/skillforge-backend/internal/validator"
)

// AnalysisHandler handles AI-backed performance analysis.
type AnalysisHandler struct {
	generationService *service.GenerationService
	log               zerolog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(generationService *service.GenerationService, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		generationService: generationService,
		log:               log.With().Str("component", "analysis_handler").Logger(),
	}
}

// Analyze godoc
// POST /api/v1/analysis/performance
// Produces a narrative performance review via the provider fallback chain.
// Unlike question generation, analysis has no store or static tier, so
// total provider failure surfaces as 502.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var data model.PerformanceData
	if fields := validator.Bind(c, &data); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if _, err := model.NormalizeLevel(data.Level); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidLevel)
		return
	}

	analysis, err := h.generationService.Analyze(c.Request.Context(), &data)
	if err != nil {
		if errors.Is(err, service.ErrAIUnavailable) {
			response.Fail(c, http.StatusBadGateway, response.ErrAIUnavailable)
			return
		}
		h.log.Error().Err(err).Msg("Analysis failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"analysis": analysis})
}
