package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/skillforge/skillforge-backend/internal/model"
	"github.com/skillforge/skillforge-backend/internal/response"
	"github.com/skillforge/skillforge-backend/internal/service"
	"github.com/skillforge/skillforge-backend/internal/validator"
)

// AdminHandler handles the question bank administration surface.
type AdminHandler struct {
	bankService *service.QuestionBankService
	log         zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bankService *service.QuestionBankService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		bankService: bankService,
		log:         log.With().Str("component", "admin_handler").Logger(),
	}
}

// Stats godoc
// GET /api/v1/admin/question-bank/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.bankService.Stats(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// ListUnverified godoc
// GET /api/v1/admin/question-bank/unverified?limit=50
func (h *AdminHandler) ListUnverified(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	questions, err := h.bankService.ListUnverified(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Verify godoc
// POST /api/v1/admin/question-bank/questions/:id/verify
func (h *AdminHandler) Verify(c *gin.Context) {
	id := c.Param("id")

	if err := h.bankService.Verify(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"question_id": id, "verified": true})
}

// Add godoc
// POST /api/v1/admin/question-bank/questions
func (h *AdminHandler) Add(c *gin.Context) {
	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.bankService.Add(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrQuestionInvalid) {
			response.Fail(c, http.StatusBadRequest, response.ErrQuestionRejected)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// Import godoc
// POST /api/v1/admin/question-bank/import
// Bulk imports questions; invalid entries are dropped and reported by index.
func (h *AdminHandler) Import(c *gin.Context) {
	var req model.ImportQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	imported, rejected, err := h.bankService.Import(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if imported == nil {
		imported = []model.Question{}
	}
	response.Success(c, http.StatusOK, gin.H{
		"imported": len(imported),
		"rejected": rejected,
	})
}
