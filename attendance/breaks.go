package attendance

import (
	"time"

	"github.com/google/uuid"

	"timeclock/models"
)

// BreakTracker holds one employee-day's break intervals and enforces the
// single-active-interval rule.
type BreakTracker struct {
	breaks []models.BreakInterval
}

func NewBreakTracker(breaks []models.BreakInterval) *BreakTracker {
	return &BreakTracker{breaks: breaks}
}

// Active returns the open interval, or nil if none is running.
func (t *BreakTracker) Active() *models.BreakInterval {
	for i := range t.breaks {
		if t.breaks[i].State == models.BreakActive {
			return &t.breaks[i]
		}
	}
	return nil
}

// Start opens a new interval at now. Fails ErrBreakAlreadyActive if one is
// already open.
func (t *BreakTracker) Start(userID uint, date, now time.Time, reason string) (*models.BreakInterval, error) {
	if t.Active() != nil {
		return nil, ErrBreakAlreadyActive
	}
	t.breaks = append(t.breaks, models.BreakInterval{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      date,
		StartTime: now,
		State:     models.BreakActive,
		Reason:    reason,
	})
	return &t.breaks[len(t.breaks)-1], nil
}

// End closes the active interval. The caller must name the interval it thinks
// is open; a stale id fails ErrBreakMismatch and leaves the real one running.
func (t *BreakTracker) End(breakID uuid.UUID, now time.Time) (*models.BreakInterval, error) {
	active := t.Active()
	if active == nil {
		return nil, ErrNoActiveBreak
	}
	if active.ID != breakID {
		return nil, ErrBreakMismatch
	}
	if _, err := IntervalMinutes(active.StartTime, now); err != nil {
		return nil, err
	}
	end := now
	active.EndTime = &end
	active.State = models.BreakCompleted
	return active, nil
}

// TotalMinutes sums completed intervals plus the live share of the open one.
// Recomputed on every call: the open interval moves with the supplied now.
func (t *BreakTracker) TotalMinutes(now time.Time) int {
	total := 0
	for i := range t.breaks {
		b := &t.breaks[i]
		end := now
		if b.EndTime != nil {
			end = *b.EndTime
		}
		minutes, err := IntervalMinutes(b.StartTime, end)
		if err != nil {
			continue
		}
		total += minutes
	}
	return total
}
