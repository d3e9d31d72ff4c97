package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/consultora/consulting-tracker/internal/repository"
	"github.com/consultora/consulting-tracker/internal/validation"
	"github.com/consultora/consulting-tracker/pkg/logger"
)

// StandardResponseData is the response envelope used by every endpoint
type StandardResponseData struct {
	Success      bool        `json:"success"`
	Data         interface{} `json:"data,omitempty"`
	ErrorMessage string      `json:"error,omitempty"`
	ErrorCode    string      `json:"error_code,omitempty"`
}

// ErrorResponse is the envelope for failed requests
type ErrorResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error"`
	ErrorCode    string `json:"error_code,omitempty"`
}

// ValidationErrorResponse is the envelope for validation failures,
// carrying one entry per failing field
type ValidationErrorResponse struct {
	Success bool                    `json:"success"`
	Error   string                  `json:"error"`
	Errors  []validation.FieldError `json:"errors"`
}

// BaseHandler holds the helpers shared by all handlers
type BaseHandler struct {
	Logger logger.Logger
}

// NewBaseHandler creates a new BaseHandler instance
func NewBaseHandler(logger logger.Logger) BaseHandler {
	return BaseHandler{
		Logger: logger,
	}
}

// Respond writes a response with the given status code
func (h *BaseHandler) Respond(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.Logger.Error("Failed to encode response", err)
		}
	}
}

// RespondWithSuccess writes a successful response
func (h *BaseHandler) RespondWithSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	response := StandardResponseData{
		Success: true,
		Data:    data,
	}
	h.Respond(w, r, http.StatusOK, response)
}

// RespondWithError writes an error response
func (h *BaseHandler) RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, errorMsg string, errorCode string) {
	response := ErrorResponse{
		Success:      false,
		ErrorMessage: errorMsg,
		ErrorCode:    errorCode,
	}
	h.Respond(w, r, statusCode, response)
}

// RespondWithValidationErrors writes a validation failure response
func (h *BaseHandler) RespondWithValidationErrors(w http.ResponseWriter, r *http.Request, errs *validation.Errors) {
	response := ValidationErrorResponse{
		Success: false,
		Error:   "Validation failed",
		Errors:  errs.Fields,
	}
	h.Respond(w, r, http.StatusBadRequest, response)
}

// ParseJSON decodes the request body
func (h *BaseHandler) ParseJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// GetURLParam extracts a URL parameter
func (h *BaseHandler) GetURLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// GetListStatus extracts the status query parameter; active is the default
func (h *BaseHandler) GetListStatus(r *http.Request) (repository.ListStatus, bool) {
	switch r.URL.Query().Get("status") {
	case "", string(repository.ListStatusActive):
		return repository.ListStatusActive, true
	case string(repository.ListStatusArchived):
		return repository.ListStatusArchived, true
	default:
		return "", false
	}
}
