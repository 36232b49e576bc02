package handlers

import (
	"net/http"

	"github.com/devforge/codelab/internal/api/dto"
	"github.com/devforge/codelab/internal/api/middleware"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/utils"
	"github.com/devforge/codelab/internal/pkg/validator"
	"github.com/devforge/codelab/internal/services"
)

// AIHandler handles AI code generation
type AIHandler struct {
	ai        *services.AIService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAIHandler creates a new AI handler
func NewAIHandler(ai *services.AIService, log *logger.Logger, val *validator.Validator) *AIHandler {
	return &AIHandler{
		ai:        ai,
		logger:    log,
		validator: val,
	}
}

// Generate produces a completion for the prompt
// @Summary Generate code
// @Description Generate code from a prompt, optionally appending to a project's history
// @Tags AI
// @Accept json
// @Produce json
// @Param request body dto.GenerateCodeRequest true "Prompt"
// @Success 200 {object} dto.GenerateCodeResponse "Generated content"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 503 {object} utils.ErrorResponse "Generation temporarily unavailable"
// @Security BearerAuth
// @Router /ai/generate [post]
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	var req dto.GenerateCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	content, err := h.ai.Generate(r.Context(), userID, req.Prompt, req.Language, req.ProjectID)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to generate code", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.GenerateCodeResponse{Content: content})
}
