package handlers

import (
	"errors"
	"net/http"

	"github.com/consultora/consulting-tracker/internal/normalizer"
	"github.com/consultora/consulting-tracker/internal/service"
	"github.com/consultora/consulting-tracker/internal/validation"
	apperrors "github.com/consultora/consulting-tracker/pkg/errors"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	BaseHandler
	projectService *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler instance
func NewProjectHandler(base BaseHandler, projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    base,
		projectService: projectService,
	}
}

// CreateProject handles project creation requests
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := h.ParseJSON(r, &raw); err != nil {
		h.Logger.Error("Failed to parse create project request", err)
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", "invalid_format")
		return
	}

	input := normalizer.Project(raw)

	project, err := h.projectService.Create(r.Context(), input)
	if err != nil {
		var validationErrs *validation.Errors
		if errors.As(err, &validationErrs) {
			h.RespondWithValidationErrors(w, r, validationErrs)
			return
		}
		h.Logger.Error("Failed to create project", err)
		h.RespondWithError(w, r, apperrors.FromError(err).StatusCode, "Failed to create project", "creation_failed")
		return
	}

	h.RespondWithSuccess(w, r, project)
}

// GetProject returns a single project by ID
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID := h.GetURLParam(r, "id")
	if projectID == "" {
		h.RespondWithError(w, r, http.StatusBadRequest, "Project ID is required", "missing_id")
		return
	}

	project, err := h.projectService.GetByID(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			h.RespondWithError(w, r, http.StatusNotFound, "Project not found", "project_not_found")
			return
		}
		h.Logger.Error("Failed to get project", err, map[string]interface{}{"id": projectID})
		h.RespondWithError(w, r, apperrors.FromError(err).StatusCode, "Failed to get project info", "project_fetch_failed")
		return
	}

	h.RespondWithSuccess(w, r, project)
}

// UpdateProject handles partial project updates
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID := h.GetURLParam(r, "id")
	if projectID == "" {
		h.RespondWithError(w, r, http.StatusBadRequest, "Project ID is required", "missing_id")
		return
	}

	var raw map[string]interface{}
	if err := h.ParseJSON(r, &raw); err != nil {
		h.Logger.Error("Failed to parse update project request", err)
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", "invalid_format")
		return
	}

	input := normalizer.Project(raw)

	project, err := h.projectService.Update(r.Context(), projectID, input)
	if err != nil {
		var validationErrs *validation.Errors
		if errors.As(err, &validationErrs) {
			h.RespondWithValidationErrors(w, r, validationErrs)
			return
		}
		if errors.Is(err, service.ErrProjectNotFound) {
			h.RespondWithError(w, r, http.StatusNotFound, "Project not found", "project_not_found")
			return
		}
		if errors.Is(err, service.ErrEmptyUpdate) {
			h.RespondWithError(w, r, http.StatusBadRequest, "Update must include at least one field", "empty_update")
			return
		}
		h.Logger.Error("Failed to update project", err, map[string]interface{}{"id": projectID})
		h.RespondWithError(w, r, apperrors.FromError(err).StatusCode, "Failed to update project", "update_failed")
		return
	}

	h.RespondWithSuccess(w, r, project)
}

// ArchiveProject archives a finalized project
func (h *ProjectHandler) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	projectID := h.GetURLParam(r, "id")
	if projectID == "" {
		h.RespondWithError(w, r, http.StatusBadRequest, "Project ID is required", "missing_id")
		return
	}

	project, err := h.projectService.Archive(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			h.RespondWithError(w, r, http.StatusNotFound, "Project not found", "project_not_found")
			return
		}
		if errors.Is(err, service.ErrProjectNotFinalized) {
			h.RespondWithError(w, r, http.StatusConflict, "Project must be finalized before archiving", "precondition_failed")
			return
		}
		h.Logger.Error("Failed to archive project", err, map[string]interface{}{"id": projectID})
		h.RespondWithError(w, r, apperrors.FromError(err).StatusCode, "Failed to archive project", "archive_failed")
		return
	}

	h.RespondWithSuccess(w, r, project)
}

// ListProjects returns active or archived projects, newest first
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	status, ok := h.GetListStatus(r)
	if !ok {
		h.RespondWithError(w, r, http.StatusBadRequest, "Status must be 'active' or 'archived'", "invalid_status")
		return
	}

	projects, err := h.projectService.List(r.Context(), status)
	if err != nil {
		h.Logger.Error("Failed to list projects", err)
		h.RespondWithError(w, r, apperrors.FromError(err).StatusCode, "Failed to get projects", "projects_fetch_failed")
		return
	}

	h.RespondWithSuccess(w, r, projects)
}
