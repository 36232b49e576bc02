package handlers

import (
	"net/http"

	"github.com/devforge/codelab/internal/api/dto"
	"github.com/devforge/codelab/internal/api/middleware"
	"github.com/devforge/codelab/internal/domain/project"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/utils"
	"github.com/devforge/codelab/internal/pkg/validator"
)

// ProjectHandler handles owner-scoped project CRUD
type ProjectHandler struct {
	projects  project.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects project.Service, log *logger.Logger, val *validator.Validator) *ProjectHandler {
	return &ProjectHandler{
		projects:  projects,
		logger:    log,
		validator: val,
	}
}

// Create creates a project
// @Summary Create project
// @Description Create a project owned by the current user
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectDTO "Project created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 403 {object} utils.ErrorResponse "Plan project limit reached"
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	var req dto.CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p, err := h.projects.Create(r.Context(), userID, req.Name, req.Description, req.Language)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to create project", err))
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, dto.NewProjectDTO(p))
}

// List lists the user's projects
// @Summary List projects
// @Description List projects owned by the current user
// @Tags Projects
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} dto.ProjectDTO "Projects"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	params := utils.ParsePaginationParams(r)

	projects, total, err := h.projects.List(r.Context(), userID, params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to list projects", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dto.NewProjectDTOs(projects), params.Page, params.PageSize, total))
}

// Get retrieves an owned project
// @Summary Get project
// @Description Get one of the current user's projects
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} dto.ProjectDTO "Project"
// @Failure 404 {object} utils.ErrorResponse "Project not found"
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	id, err := urlParamInt64(r, "id")
	if err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	p, err := h.projects.GetByID(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to load project", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NewProjectDTO(p))
}

// Update updates an owned project
// @Summary Update project
// @Description Update one of the current user's projects
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body dto.UpdateProjectRequest true "Project fields"
// @Success 200 {object} dto.ProjectDTO "Updated project"
// @Failure 404 {object} utils.ErrorResponse "Project not found"
// @Security BearerAuth
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	id, err := urlParamInt64(r, "id")
	if err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	var req dto.UpdateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p, err := h.projects.Update(r.Context(), userID, id, req.Name, req.Description, req.Language)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to update project", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NewProjectDTO(p))
}

// Delete deletes an owned project
// @Summary Delete project
// @Description Delete one of the current user's projects
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.SuccessResponse "Project deleted"
// @Failure 404 {object} utils.ErrorResponse "Project not found"
// @Security BearerAuth
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	id, err := urlParamInt64(r, "id")
	if err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if err := h.projects.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, err, errors.Internal("Failed to delete project", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Project deleted", nil)
}
