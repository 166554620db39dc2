package models

import (
	"time"

	"gorm.io/gorm"
)

// DayStatus is the persisted classification of an attendance day. It is
// derived by the engine (never set directly by a client), except for the
// half-day and on-leave markings recorded by HR.
type DayStatus string

const (
	StatusPresent DayStatus = "present"
	StatusLate    DayStatus = "late"
	StatusHalfDay DayStatus = "half_day"
	StatusOnLeave DayStatus = "on_leave"
)

// AttendanceDay is one employee's attendance record for one calendar date.
// WorkedMinutes and BreakMinutes are written at clock-out and break-end so
// monthly totals read stored values instead of re-deriving them.
type AttendanceDay struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	UserID        uint           `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"user_id"`
	User          User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date          time.Time      `gorm:"not null;type:date;uniqueIndex:idx_attendance_user_date" json:"date"`
	CheckInTime   *time.Time     `json:"check_in_time,omitempty"`
	CheckOutTime  *time.Time     `json:"check_out_time,omitempty"`
	Status        DayStatus      `gorm:"not null;size:20" json:"status"`
	WorkedMinutes int            `gorm:"not null;default:0" json:"worked_minutes"`
	BreakMinutes  int            `gorm:"not null;default:0" json:"break_minutes"`
	Notes         string         `gorm:"size:500" json:"notes,omitempty"`
	Location      string         `gorm:"size:200" json:"location,omitempty"`
}

// Closed reports whether the day reached its terminal state.
func (d *AttendanceDay) Closed() bool {
	return d.CheckOutTime != nil
}
