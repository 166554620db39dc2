package attendance

import (
	"time"

	"github.com/google/uuid"

	"timeclock/models"
)

// DayState is the single source of truth for where a day sits in the
// clock-in/clock-out lifecycle. Every capability flag on DailySnapshot is a
// pure projection of it.
type DayState string

const (
	StateNotClockedIn DayState = "NOT_CLOCKED_IN"
	StateWorking      DayState = "WORKING"
	StateOnBreak      DayState = "ON_BREAK"
	StateClockedOut   DayState = "CLOCKED_OUT"
)

// DailySnapshot is the derived, point-in-time view of one employee-day.
// It is recomputed on demand against a supplied now and never persisted.
type DailySnapshot struct {
	State              DayState         `json:"state"`
	Status             models.DayStatus `json:"status,omitempty"`
	CheckInTime        *time.Time       `json:"check_in_time,omitempty"`
	CheckOutTime       *time.Time       `json:"check_out_time,omitempty"`
	GrossWorkedMinutes int              `json:"gross_worked_minutes"`
	TotalBreakMinutes  int              `json:"total_break_minutes"`
	CanClockIn         bool             `json:"can_clock_in"`
	CanClockOut        bool             `json:"can_clock_out"`
	CanStartBreak      bool             `json:"can_start_break"`
	CanEndBreak        bool             `json:"can_end_break"`
	ActiveBreakID      *uuid.UUID       `json:"active_break_id,omitempty"`
}

func stateOf(day *models.AttendanceDay, tracker *BreakTracker) DayState {
	switch {
	case day == nil || day.CheckInTime == nil:
		return StateNotClockedIn
	case day.CheckOutTime != nil:
		return StateClockedOut
	case tracker.Active() != nil:
		return StateOnBreak
	default:
		return StateWorking
	}
}

func buildSnapshot(day *models.AttendanceDay, tracker *BreakTracker, now time.Time) DailySnapshot {
	state := stateOf(day, tracker)
	snap := DailySnapshot{
		State:              state,
		GrossWorkedMinutes: WorkedMinutes(day, now),
		TotalBreakMinutes:  tracker.TotalMinutes(now),
		CanClockIn:         state == StateNotClockedIn,
		CanClockOut:        state == StateWorking,
		CanStartBreak:      state == StateWorking,
		CanEndBreak:        state == StateOnBreak,
	}
	if day != nil {
		snap.Status = day.Status
		snap.CheckInTime = day.CheckInTime
		snap.CheckOutTime = day.CheckOutTime
	}
	if active := tracker.Active(); active != nil {
		id := active.ID
		snap.ActiveBreakID = &id
	}
	return snap
}
