package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"timeclock/attendance"
)

var validate = validator.New()

var (
	errInvalidMonth = errors.New("invalid month")
	errInvalidYear  = errors.New("invalid year")
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON unmarshals and validates a request body. An empty body is
// accepted and leaves v zeroed, since several endpoints take only optional
// fields.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return validate.Struct(v)
		}
		return err
	}
	return validate.Struct(v)
}

// respondEngineError maps the engine's error taxonomy onto HTTP statuses:
// state conflicts are 409, ordering violations 400, missing records 404, and
// collaborator failures 503 (the only retryable category).
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case attendance.IsInfra(err):
		log.Printf("attendance infrastructure error: %v", err)
		respondError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	case errors.Is(err, attendance.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, attendance.ErrInvalidTimeOrdering):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrAlreadyClockedOut),
		errors.Is(err, attendance.ErrNoActiveSession),
		errors.Is(err, attendance.ErrBreakStillActive),
		errors.Is(err, attendance.ErrBreakAlreadyActive),
		errors.Is(err, attendance.ErrNoActiveBreak),
		errors.Is(err, attendance.ErrBreakMismatch):
		respondError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("unexpected attendance error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
