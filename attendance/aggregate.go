package attendance

import (
	"math"
	"time"

	"timeclock/models"
)

// MonthlyAggregate is the per-month rollup of day classifications into counts
// and rates.
type MonthlyAggregate struct {
	UserID                uint    `json:"user_id"`
	Month                 int     `json:"month"`
	Year                  int     `json:"year"`
	PresentDays           int     `json:"present_days"`
	LateDays              int     `json:"late_days"`
	AbsentDays            int     `json:"absent_days"`
	HalfDays              int     `json:"half_days"`
	OnLeaveDays           int     `json:"on_leave_days"`
	ActiveDays            int     `json:"active_days"`
	WorkingDays           int     `json:"working_days"`
	TotalHours            float64 `json:"total_hours"`
	TotalBreakMinutes     int     `json:"total_break_minutes"`
	AttendanceRatePercent int     `json:"attendance_rate_percent"`
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ComputeMonthly folds one employee's attendance days for a month.
//
// Working days stop at today for the current month and cover the whole month
// once it is fully past, so a future month has zero working days and a zero
// rate. A day with a check-in but no check-out counts as active only when it
// is today; older unclosed days keep their stored classification. The rate is
// round((present + late) / workingDays * 100) with a divide-by-zero guard;
// active days stay out of the numerator until closed.
func ComputeMonthly(userID uint, year int, month time.Month, days []models.AttendanceDay, now time.Time) MonthlyAggregate {
	agg := MonthlyAggregate{UserID: userID, Month: int(month), Year: year}

	// Date-keyed lookup built once; the calendar walk below never rescans
	// the record set.
	byDay := make(map[int]*models.AttendanceDay, len(days))
	for i := range days {
		byDay[days[i].Date.Day()] = &days[i]
	}

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, now.Location()).Day()
	today := dateOnly(now)

	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, now.Location())
		rec := byDay[d]

		// Stored totals count regardless of weekday; only the status
		// buckets and working days exclude weekends.
		if rec != nil {
			agg.TotalHours += float64(rec.WorkedMinutes) / 60
			agg.TotalBreakMinutes += rec.BreakMinutes
		}

		if isWeekend(date) || date.After(today) {
			continue
		}
		agg.WorkingDays++

		switch {
		case rec == nil:
			if date.Before(today) {
				agg.AbsentDays++
			}
			// Today without a record stays unclassified.
		case rec.Status == models.StatusHalfDay:
			agg.HalfDays++
		case rec.Status == models.StatusOnLeave:
			agg.OnLeaveDays++
		case rec.CheckInTime != nil && rec.CheckOutTime == nil && date.Equal(today):
			agg.ActiveDays++
		case rec.Status == models.StatusLate:
			agg.LateDays++
		default:
			agg.PresentDays++
		}
	}

	if agg.WorkingDays > 0 {
		rate := float64(agg.PresentDays+agg.LateDays) / float64(agg.WorkingDays) * 100
		agg.AttendanceRatePercent = int(math.Round(rate))
	}
	return agg
}
