package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"timeclock/attendance"
	"timeclock/middleware"
)

// AttendanceHandler exposes the attendance engine over HTTP. Every mutating
// endpoint returns the refreshed DailySnapshot so clients learn the resulting
// state without a second round trip.
type AttendanceHandler struct {
	engine *attendance.Service
}

func NewAttendanceHandler(engine *attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{engine: engine}
}

type clockInRequest struct {
	Location string `json:"location" validate:"max=200"`
	Notes    string `json:"notes" validate:"max=500"`
}

func (h *AttendanceHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req clockInRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.engine.ClockIn(r.Context(), user.ID, req.Location, req.Notes)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

type clockOutRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

func (h *AttendanceHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req clockOutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.engine.ClockOut(r.Context(), user.ID, req.Notes)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

type startBreakRequest struct {
	Reason string `json:"reason" validate:"max=200"`
}

func (h *AttendanceHandler) StartBreak(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req startBreakRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.engine.StartBreak(r.Context(), user.ID, req.Reason)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *AttendanceHandler) EndBreak(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	breakID, err := uuid.Parse(chi.URLParam(r, "breakID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid break ID")
		return
	}

	snap, err := h.engine.EndBreak(r.Context(), user.ID, breakID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *AttendanceHandler) Today(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	snap, err := h.engine.Snapshot(r.Context(), user.ID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *AttendanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	year, month, err := parseMonthYear(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	agg, err := h.engine.Monthly(r.Context(), user.ID, year, month)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, agg)
}

// parseMonthYear reads month/year query params, defaulting to the current
// month when absent.
func parseMonthYear(r *http.Request) (int, time.Month, error) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, errInvalidMonth
		}
		month = m
	}
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 2000 || y > 2100 {
			return 0, 0, errInvalidYear
		}
		year = y
	}
	return year, time.Month(month), nil
}
