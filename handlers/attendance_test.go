package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock/attendance"
	"timeclock/middleware"
	"timeclock/models"
)

type memStore struct {
	day    *models.AttendanceDay
	breaks []models.BreakInterval
}

func (m *memStore) LoadDay(ctx context.Context, userID uint, date time.Time) (*models.AttendanceDay, error) {
	if m.day == nil {
		return nil, nil
	}
	day := *m.day
	return &day, nil
}

func (m *memStore) SaveDay(ctx context.Context, day *models.AttendanceDay) error {
	saved := *day
	m.day = &saved
	return nil
}

func (m *memStore) LoadBreaks(ctx context.Context, userID uint, date time.Time) ([]models.BreakInterval, error) {
	return append([]models.BreakInterval(nil), m.breaks...), nil
}

func (m *memStore) SaveBreak(ctx context.Context, b *models.BreakInterval) error {
	for i := range m.breaks {
		if m.breaks[i].ID == b.ID {
			m.breaks[i] = *b
			return nil
		}
	}
	m.breaks = append(m.breaks, *b)
	return nil
}

func (m *memStore) LoadMonth(ctx context.Context, userID uint, year int, month time.Month) ([]models.AttendanceDay, error) {
	if m.day == nil {
		return nil, nil
	}
	return []models.AttendanceDay{*m.day}, nil
}

func (m *memStore) Transact(ctx context.Context, fn func(attendance.Store) error) error {
	return fn(m)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newTestRouter(store *memStore, now time.Time) *chi.Mux {
	engine := attendance.NewService(store, fixedClock{now: now}, attendance.Config{GraceHour: 9, GraceMinute: 30})
	h := NewAttendanceHandler(engine)

	router := chi.NewRouter()
	router.Post("/api/attendance/clock-in", h.ClockIn)
	router.Post("/api/attendance/clock-out", h.ClockOut)
	router.Post("/api/attendance/breaks", h.StartBreak)
	router.Post("/api/attendance/breaks/{breakID}/end", h.EndBreak)
	router.Get("/api/attendance/today", h.Today)
	return router
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	user := &models.User{ID: 7, Username: "jdoe", Role: models.RoleEmployee}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, user))
}

func TestClockInEndpoint(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store, time.Date(2025, 3, 10, 9, 40, 0, 0, time.UTC))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/attendance/clock-in", `{"location":"HQ"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var snap attendance.DailySnapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, attendance.StateWorking, snap.State)
	assert.Equal(t, models.StatusLate, snap.Status)
	assert.True(t, snap.CanClockOut)
}

func TestClockInConflict(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/attendance/clock-in", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/attendance/clock-in", ""))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestClockOutWithoutSession(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store, time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/attendance/clock-out", ""))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEndBreakInvalidID(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store, time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/attendance/breaks/not-a-uuid/end", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTodayEndpoint(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/attendance/today", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap attendance.DailySnapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, attendance.StateNotClockedIn, snap.State)
	assert.True(t, snap.CanClockIn)
}
