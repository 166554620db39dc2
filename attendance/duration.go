package attendance

import (
	"time"

	"timeclock/models"
)

// IntervalMinutes returns the whole minutes elapsed between start and end.
// A reversed interval yields 0 and ErrInvalidTimeOrdering, never a negative
// duration.
func IntervalMinutes(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrInvalidTimeOrdering
	}
	return int(end.Sub(start) / time.Minute), nil
}

// WorkedMinutes computes gross worked time for a day. Closed days use the
// recorded check-out; open days run live against the supplied now. Break time
// is reported separately and never subtracted here, so consumers choose gross
// or net themselves.
func WorkedMinutes(day *models.AttendanceDay, now time.Time) int {
	if day == nil || day.CheckInTime == nil {
		return 0
	}
	end := now
	if day.CheckOutTime != nil {
		end = *day.CheckOutTime
	}
	minutes, err := IntervalMinutes(*day.CheckInTime, end)
	if err != nil {
		return 0
	}
	return minutes
}
