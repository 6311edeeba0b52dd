package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/logger"

	"github.com/gorilla/mux"
)

type errorResponse struct {
	Kind    string       `json:"kind"`
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	// RequestID is only filled on 500s so the failure can be found in the log.
	RequestID string `json:"requestId,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindTooMany:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// writeError maps business and validation errors to their status. Anything
// else is logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Kind:    "ValidationError",
			Message: "Validation failed",
			Errors:  verr.Fields,
		})
		return
	}
	if de, ok := domain.AsError(err); ok {
		writeJSON(w, statusForKind(de.Kind), errorResponse{
			Kind:    string(de.Kind),
			Code:    de.Code,
			Message: de.Message,
		})
		return
	}

	logger.ErrorContext(r.Context(), "Unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Kind:      "Internal",
		Message:   "Internal server error",
		RequestID: logger.RequestID(r.Context()),
	})
}

// pathID reads a positive int32 route variable.
func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.BadRequest(domain.CodeInvalidID, "Invalid id: "+raw)
	}
	return int32(id), nil
}
