package handlers

import (
	"errors"
	"net/http"

	"github.com/consultora/consulting-tracker/internal/normalizer"
	"github.com/consultora/consulting-tracker/internal/service"
	"github.com/consultora/consulting-tracker/internal/validation"
	apperrors "github.com/consultora/consulting-tracker/pkg/errors"
)

// VisitHandler handles visit-related requests
type VisitHandler struct {
	BaseHandler
	visitService *service.VisitService
}

// NewVisitHandler creates a new VisitHandler instance
func NewVisitHandler(base BaseHandler, visitService *service.VisitService) *VisitHandler {
	return &VisitHandler{
		BaseHandler:  base,
		visitService: visitService,
	}
}

// CreateVisit handles visit creation requests
func (h *VisitHandler) CreateVisit(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := h.ParseJSON(r, &raw); err != nil {
		h.Logger.Error("Failed to parse create visit request", err)
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", "invalid_format")
		return
	}

	input := normalizer.Visit(raw)

	visit, err := h.visitService.Create(r.Context(), input)
	if err != nil {
		var validationErrs *validation.Errors
		if errors.As(err, &validationErrs) {
			h.RespondWithValidationErrors(w, r, validationErrs)
			return
		}
		h.Logger.Error("Failed to create visit", err)
		h.RespondWithError(w, r, apperrors.FromError(err).StatusCode, "Failed to create visit", "creation_failed")
		return
	}

	h.RespondWithSuccess(w, r, visit)
}

// DeleteVisit soft-deletes a visit
func (h *VisitHandler) DeleteVisit(w http.ResponseWriter, r *http.Request) {
	visitID := h.GetURLParam(r, "id")
	if visitID == "" {
		h.RespondWithError(w, r, http.StatusBadRequest, "Visit ID is required", "missing_id")
		return
	}

	if err := h.visitService.Delete(r.Context(), visitID); err != nil {
		if errors.Is(err, service.ErrVisitNotFound) {
			h.RespondWithError(w, r, http.StatusNotFound, "Visit not found", "visit_not_found")
			return
		}
		h.Logger.Error("Failed to delete visit", err, map[string]interface{}{"id": visitID})
		h.RespondWithError(w, r, apperrors.FromError(err).StatusCode, "Failed to delete visit", "delete_failed")
		return
	}

	h.RespondWithSuccess(w, r, map[string]bool{"deleted": true})
}

// ListVisits returns active or archived visits, newest first
func (h *VisitHandler) ListVisits(w http.ResponseWriter, r *http.Request) {
	status, ok := h.GetListStatus(r)
	if !ok {
		h.RespondWithError(w, r, http.StatusBadRequest, "Status must be 'active' or 'archived'", "invalid_status")
		return
	}

	visits, err := h.visitService.List(r.Context(), status)
	if err != nil {
		h.Logger.Error("Failed to list visits", err)
		h.RespondWithError(w, r, apperrors.FromError(err).StatusCode, "Failed to get visits", "visits_fetch_failed")
		return
	}

	h.RespondWithSuccess(w, r, visits)
}
