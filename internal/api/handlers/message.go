package handlers

import (
	"net/http"

	"github.com/devforge/codelab/internal/api/dto"
	"github.com/devforge/codelab/internal/api/middleware"
	"github.com/devforge/codelab/internal/domain/message"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/utils"
	"github.com/devforge/codelab/internal/pkg/validator"
)

// MessageHandler handles project chat history
type MessageHandler struct {
	messages  message.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages message.Service, log *logger.Logger, val *validator.Validator) *MessageHandler {
	return &MessageHandler{
		messages:  messages,
		logger:    log,
		validator: val,
	}
}

// Create appends a message to a project's history
// @Summary Create message
// @Description Append a message to an owned project's chat history
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body dto.CreateMessageRequest true "Message"
// @Success 201 {object} dto.MessageDTO "Message created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 404 {object} utils.ErrorResponse "Project not found"
// @Security BearerAuth
// @Router /messages [post]
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	var req dto.CreateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	m, err := h.messages.Create(r.Context(), userID, req.ProjectID, req.Role, req.Content)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to create message", err))
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, dto.NewMessageDTO(m))
}

// ListByProject lists a project's messages in chronological order
// @Summary List messages
// @Description List an owned project's chat history
// @Tags Messages
// @Produce json
// @Param id path int true "Project ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} dto.MessageDTO "Messages"
// @Failure 404 {object} utils.ErrorResponse "Project not found"
// @Security BearerAuth
// @Router /projects/{id}/messages [get]
func (h *MessageHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	projectID, err := urlParamInt64(r, "id")
	if err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	params := utils.ParsePaginationParams(r)

	messages, total, err := h.messages.List(r.Context(), userID, projectID, params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to list messages", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dto.NewMessageDTOs(messages), params.Page, params.PageSize, total))
}
