// Package handlers provides the HTTP handlers of the patient application: the
// server-rendered screens and the v1 JSON API over the same session state.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/giygas/hospi/interfaces"
	"github.com/giygas/hospi/logging"
	"github.com/giygas/hospi/session"
)

// Dashboard holds the static figures shown next to the live statistics
type Dashboard struct {
	AvailableBeds int
	ActiveDoctors int
}

// HTTPHandlerImpl serves the HTML screens and the JSON API
type HTTPHandlerImpl struct {
	sessions      *session.Manager
	validator     interfaces.InputValidator
	healthChecker interfaces.HealthChecker
	dashboard     Dashboard
	now           func() time.Time
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(sessions *session.Manager, validator interfaces.InputValidator,
	healthChecker interfaces.HealthChecker, dashboard Dashboard) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		sessions:      sessions,
		validator:     validator,
		healthChecker: healthChecker,
		dashboard:     dashboard,
		now:           time.Now,
	}
}

// WithClock replaces the clock used to date new records
func (h *HTTPHandlerImpl) WithClock(now func() time.Time) *HTTPHandlerImpl {
	h.now = now
	return h
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Debug("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	RespondWithJSON(w, code, errorResponse)
}

// RespondWithFieldErrors writes a JSON error response listing the reason per rejected field
func RespondWithFieldErrors(w http.ResponseWriter, code int, message string, fields map[string]string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
		"fields":  fields,
	}
	RespondWithJSON(w, code, errorResponse)
}

// HealthCheck serves the health report
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.healthChecker.HealthCheck()

	response := map[string]any{"status": status}
	for k, v := range details {
		response[k] = v
	}

	RespondWithJSON(w, httpStatus, response)
}
