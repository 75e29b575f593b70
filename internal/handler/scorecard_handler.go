package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillforge/skillforge-backend/internal/model"
	"github.com/skillforge/skillforge-backend/internal/response"
	"github.com/skillforge/skillforge-backend/internal/service"
	"github.com/skillforge/skillforge-backend/internal/validator"
)

// ScorecardHandler handles deterministic submission scoring.
type ScorecardHandler struct {
	scorecardService *service.ScorecardService
}

// NewScorecardHandler creates a new ScorecardHandler.
func NewScorecardHandler(scorecardService *service.ScorecardService) *ScorecardHandler {
	return &ScorecardHandler{scorecardService: scorecardService}
}

// Score godoc
// POST /api/v1/scorecard
// Computes dimension scores, readiness tier, and hiring recommendation for
// a completed submission.
func (h *ScorecardHandler) Score(c *gin.Context) {
	var sub model.Submission
	if fields := validator.Bind(c, &sub); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"scorecard": h.scorecardService.Score(&sub)})
}
