package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/store"
)

// writeJSON encodes v with the given status code. By the time encoding could
// fail the headers are already committed, so failures only truncate the body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the standard error envelope.
func writeError(w http.ResponseWriter, status int, typ model.ErrorType, message string, fields map[string][]string) {
	writeJSON(w, status, model.ErrorResponse{
		StatusCode: status,
		Message:    message,
		Type:       typ,
		Timestamp:  time.Now().UTC(),
		Errors:     fields,
	})
}

func writeNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, model.ErrorTypeNotFound, "item not found", nil)
}

func writeValidation(w http.ResponseWriter, fields fieldErrors) {
	writeError(w, http.StatusBadRequest, model.ErrorTypeValidation,
		"one or more validation errors occurred", fields)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, model.ErrorTypeBadRequest, message, nil)
}

func writeInternal(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, model.ErrorTypeInternal,
		"an unexpected error occurred", nil)
}

// writeServiceError maps service failures onto the error taxonomy. Anything
// unrecognized is logged with its detail and reported as a generic internal
// error; the detail never reaches the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeNotFound(w)
		return
	}

	s.log.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", requestID(r.Context()),
		"err", err,
	)
	writeInternal(w)
}
