package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"timeclock/attendance"
	"timeclock/config"
	"timeclock/database"
	"timeclock/middleware"
	"timeclock/models"
)

type AdminHandler struct {
	config *config.Config
	engine *attendance.Service
}

func NewAdminHandler(cfg *config.Config, engine *attendance.Service) *AdminHandler {
	return &AdminHandler{config: cfg, engine: engine}
}

type createInviteRequest struct {
	FullName     string `json:"full_name" validate:"required,max=200"`
	Role         string `json:"role" validate:"required,oneof=EMPLOYEE HR"`
	DepartmentID *uint  `json:"department_id"`
}

func (h *AdminHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanCreateInvites() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req createInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, err := models.GenerateInviteCode()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate invite code")
		return
	}

	invite := models.Invite{
		Code:         code,
		FullName:     req.FullName,
		Role:         models.Role(req.Role),
		CreatedBy:    user.ID,
		ExpiresAt:    time.Now().Add(h.config.InviteExpiration),
		DepartmentID: req.DepartmentID,
	}

	if err := database.GetDB().Create(&invite).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create invite")
		return
	}

	respondJSON(w, http.StatusCreated, invite)
}

func (h *AdminHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanCreateInvites() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var invites []models.Invite
	database.GetDB().Where("created_by = ?", user.ID).Order("created_at desc").Find(&invites)
	respondJSON(w, http.StatusOK, invites)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	database.GetDB().Preload("Department").Order("username asc").Find(&users)
	respondJSON(w, http.StatusOK, users)
}

type updateUserRequest struct {
	FullName     *string `json:"full_name" validate:"omitempty,max=200"`
	Role         *string `json:"role" validate:"omitempty,oneof=ADMIN HR EMPLOYEE"`
	DepartmentID *uint   `json:"department_id"`
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(chi.URLParam(r, "userID"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var target models.User
	if err := database.GetDB().First(&target, userID).Error; err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if req.FullName != nil {
		target.FullName = *req.FullName
	}
	if req.Role != nil {
		target.Role = models.Role(*req.Role)
	}
	if req.DepartmentID != nil {
		target.DepartmentID = req.DepartmentID
	}

	if err := database.GetDB().Save(&target).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	respondJSON(w, http.StatusOK, target)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	userID, err := strconv.ParseUint(chi.URLParam(r, "userID"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}
	if uint(userID) == user.ID {
		respondError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	var target models.User
	if err := database.GetDB().First(&target, userID).Error; err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := database.GetDB().Delete(&target).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type createDepartmentRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *AdminHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req createDepartmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dept := models.Department{Name: req.Name}
	if err := database.GetDB().Create(&dept).Error; err != nil {
		respondError(w, http.StatusConflict, "failed to create department")
		return
	}
	respondJSON(w, http.StatusCreated, dept)
}

func (h *AdminHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	var departments []models.Department
	database.GetDB().Order("name asc").Find(&departments)
	respondJSON(w, http.StatusOK, departments)
}

func (h *AdminHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	deptID, err := strconv.ParseUint(chi.URLParam(r, "departmentID"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	if err := database.GetDB().Delete(&models.Department{}, deptID).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete department")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type markDayRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Status string `json:"status" validate:"required,oneof=half_day on_leave"`
	Notes  string `json:"notes" validate:"max=500"`
}

// MarkDay records a half-day or on-leave classification for an employee-day.
func (h *AdminHandler) MarkDay(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanMarkAttendance() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req markDayRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date format")
		return
	}

	day, err := h.engine.MarkDay(r.Context(), req.UserID, date, models.DayStatus(req.Status), req.Notes)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, day)
}

// UserSummary returns the monthly aggregate for any employee.
func (h *AdminHandler) UserSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(chi.URLParam(r, "userID"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	year, month, err := parseMonthYear(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	agg, err := h.engine.Monthly(r.Context(), uint(userID), year, month)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, agg)
}

// AllAttendance lists every employee's attendance days for a month, with an
// optional department filter.
func (h *AdminHandler) AllAttendance(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanViewAllAttendance() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	year, month, err := parseMonthYear(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	days, err := h.queryMonth(r, year, month)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load attendance")
		return
	}
	respondJSON(w, http.StatusOK, days)
}

// ExportCSV writes a month of attendance days as CSV.
func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanExport() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	year, month, err := parseMonthYear(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	days, err := h.queryMonth(r, year, month)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load attendance")
		return
	}

	filename := fmt.Sprintf("attendance_%d_%02d.csv", year, int(month))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"Employee", "Department", "Date", "Status", "Check In", "Check Out", "Worked Minutes", "Break Minutes", "Notes"})

	for _, day := range days {
		deptName := ""
		if day.User.Department != nil {
			deptName = day.User.Department.Name
		}
		writer.Write([]string{
			day.User.DisplayName(),
			deptName,
			day.Date.Format("2006-01-02"),
			string(day.Status),
			formatClock(day.CheckInTime),
			formatClock(day.CheckOutTime),
			strconv.Itoa(day.WorkedMinutes),
			strconv.Itoa(day.BreakMinutes),
			day.Notes,
		})
	}
}

func (h *AdminHandler) queryMonth(r *http.Request, year int, month time.Month) ([]models.AttendanceDay, error) {
	startDate := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, 0)

	query := database.GetDB().Preload("User").Preload("User.Department").
		Where("attendance_days.date >= ? AND attendance_days.date < ?", startDate, endDate)

	// Apply department filter
	if deptIDStr := r.URL.Query().Get("department_id"); deptIDStr != "" {
		if did, err := strconv.ParseUint(deptIDStr, 10, 32); err == nil && did > 0 {
			query = query.Joins("JOIN users ON users.id = attendance_days.user_id").
				Where("users.department_id = ?", did)
		}
	}

	var days []models.AttendanceDay
	err := query.Order("attendance_days.date asc, attendance_days.user_id asc").Find(&days).Error
	return days, err
}

func formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}
