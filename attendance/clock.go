package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"timeclock/models"
)

// Config carries the classification policy: clock-ins after the grace cutoff
// (a time of day) are marked late.
type Config struct {
	GraceHour   int
	GraceMinute int
}

// Service is the per-day attendance state machine:
//
//	NOT_CLOCKED_IN -> WORKING -> ON_BREAK <-> WORKING -> CLOCKED_OUT
//
// Each mutating operation is atomic at the single-transition grain: it either
// fully applies or fails with a domain error and leaves state untouched.
// Every mutation returns the refreshed DailySnapshot so callers never need a
// second round trip.
type Service struct {
	store Store
	clock Clock
	cfg   Config
}

func NewService(store Store, clock Clock, cfg Config) *Service {
	return &Service{store: store, clock: clock, cfg: cfg}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *Service) graceCutoff(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), s.cfg.GraceHour, s.cfg.GraceMinute, 0, 0, day.Location())
}

// ClockIn opens today's session. A day row may already exist without a
// check-in when HR marked it half-day or on-leave; clocking in fills the
// check-in on it and keeps the marked classification.
func (s *Service) ClockIn(ctx context.Context, userID uint, location, notes string) (DailySnapshot, error) {
	now := s.clock.Now()
	date := dateOnly(now)

	var snap DailySnapshot
	err := s.store.Transact(ctx, func(tx Store) error {
		day, err := tx.LoadDay(ctx, userID, date)
		if err != nil {
			return infra("load attendance day", err)
		}
		if day != nil && day.CheckInTime != nil {
			return ErrAlreadyClockedIn
		}
		if day == nil {
			day = &models.AttendanceDay{UserID: userID, Date: date}
		}

		in := now
		day.CheckInTime = &in
		if day.Status == "" {
			day.Status = models.StatusPresent
			if now.After(s.graceCutoff(now)) {
				day.Status = models.StatusLate
			}
		}
		if location != "" {
			day.Location = location
		}
		if notes != "" {
			day.Notes = notes
		}

		if err := tx.SaveDay(ctx, day); err != nil {
			return storeErr("save attendance day", err)
		}
		snap = buildSnapshot(day, NewBreakTracker(nil), now)
		return nil
	})
	if err != nil {
		return DailySnapshot{}, err
	}
	return snap, nil
}

// ClockOut closes today's session. Only valid from WORKING: an open break
// must be ended first. Persists gross worked and total break minutes so the
// monthly rollup reads stored values.
func (s *Service) ClockOut(ctx context.Context, userID uint, notes string) (DailySnapshot, error) {
	now := s.clock.Now()
	date := dateOnly(now)

	var snap DailySnapshot
	err := s.store.Transact(ctx, func(tx Store) error {
		day, err := tx.LoadDay(ctx, userID, date)
		if err != nil {
			return infra("load attendance day", err)
		}
		if day == nil || day.CheckInTime == nil {
			return ErrNoActiveSession
		}
		if day.CheckOutTime != nil {
			return ErrAlreadyClockedOut
		}

		breaks, err := tx.LoadBreaks(ctx, userID, date)
		if err != nil {
			return infra("load breaks", err)
		}
		tracker := NewBreakTracker(breaks)
		if tracker.Active() != nil {
			return ErrBreakStillActive
		}

		worked, err := IntervalMinutes(*day.CheckInTime, now)
		if err != nil {
			return err
		}

		out := now
		day.CheckOutTime = &out
		day.WorkedMinutes = worked
		day.BreakMinutes = tracker.TotalMinutes(now)
		if notes != "" {
			day.Notes = notes
		}

		if err := tx.SaveDay(ctx, day); err != nil {
			return storeErr("save attendance day", err)
		}
		snap = buildSnapshot(day, tracker, now)
		return nil
	})
	if err != nil {
		return DailySnapshot{}, err
	}
	return snap, nil
}

// StartBreak opens a break. Only valid from WORKING.
func (s *Service) StartBreak(ctx context.Context, userID uint, reason string) (DailySnapshot, error) {
	now := s.clock.Now()
	date := dateOnly(now)

	var snap DailySnapshot
	err := s.store.Transact(ctx, func(tx Store) error {
		day, err := tx.LoadDay(ctx, userID, date)
		if err != nil {
			return infra("load attendance day", err)
		}
		if day == nil || day.CheckInTime == nil {
			return ErrNoActiveSession
		}
		if day.CheckOutTime != nil {
			return ErrAlreadyClockedOut
		}
		if _, err := IntervalMinutes(*day.CheckInTime, now); err != nil {
			return err
		}

		breaks, err := tx.LoadBreaks(ctx, userID, date)
		if err != nil {
			return infra("load breaks", err)
		}
		tracker := NewBreakTracker(breaks)
		b, err := tracker.Start(userID, date, now, reason)
		if err != nil {
			return err
		}
		if err := tx.SaveBreak(ctx, b); err != nil {
			return storeErr("save break", err)
		}
		snap = buildSnapshot(day, tracker, now)
		return nil
	})
	if err != nil {
		return DailySnapshot{}, err
	}
	return snap, nil
}

// EndBreak closes the active break named by breakID and refreshes the day's
// stored break total.
func (s *Service) EndBreak(ctx context.Context, userID uint, breakID uuid.UUID) (DailySnapshot, error) {
	now := s.clock.Now()
	date := dateOnly(now)

	var snap DailySnapshot
	err := s.store.Transact(ctx, func(tx Store) error {
		day, err := tx.LoadDay(ctx, userID, date)
		if err != nil {
			return infra("load attendance day", err)
		}
		if day == nil || day.CheckInTime == nil {
			return ErrNoActiveSession
		}
		if day.CheckOutTime != nil {
			return ErrAlreadyClockedOut
		}

		breaks, err := tx.LoadBreaks(ctx, userID, date)
		if err != nil {
			return infra("load breaks", err)
		}
		tracker := NewBreakTracker(breaks)
		b, err := tracker.End(breakID, now)
		if err != nil {
			return err
		}
		if err := tx.SaveBreak(ctx, b); err != nil {
			return storeErr("save break", err)
		}

		day.BreakMinutes = tracker.TotalMinutes(now)
		if err := tx.SaveDay(ctx, day); err != nil {
			return storeErr("save attendance day", err)
		}
		snap = buildSnapshot(day, tracker, now)
		return nil
	})
	if err != nil {
		return DailySnapshot{}, err
	}
	return snap, nil
}

// Snapshot is a pure read of today's state against the clock's now. Never
// mutates; may be polled at any cadence.
func (s *Service) Snapshot(ctx context.Context, userID uint) (DailySnapshot, error) {
	now := s.clock.Now()
	date := dateOnly(now)

	day, err := s.store.LoadDay(ctx, userID, date)
	if err != nil {
		return DailySnapshot{}, infra("load attendance day", err)
	}
	breaks, err := s.store.LoadBreaks(ctx, userID, date)
	if err != nil {
		return DailySnapshot{}, infra("load breaks", err)
	}
	return buildSnapshot(day, NewBreakTracker(breaks), now), nil
}

// MarkDay records an HR classification (half-day or on-leave) for an
// employee-day, creating the row if none exists yet.
func (s *Service) MarkDay(ctx context.Context, userID uint, date time.Time, status models.DayStatus, notes string) (*models.AttendanceDay, error) {
	date = dateOnly(date)

	var out *models.AttendanceDay
	err := s.store.Transact(ctx, func(tx Store) error {
		day, err := tx.LoadDay(ctx, userID, date)
		if err != nil {
			return infra("load attendance day", err)
		}
		if day == nil {
			day = &models.AttendanceDay{UserID: userID, Date: date}
		}
		day.Status = status
		if notes != "" {
			day.Notes = notes
		}
		if err := tx.SaveDay(ctx, day); err != nil {
			return storeErr("save attendance day", err)
		}
		out = day
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Monthly folds one employee's records for a month into the aggregate.
func (s *Service) Monthly(ctx context.Context, userID uint, year int, month time.Month) (MonthlyAggregate, error) {
	days, err := s.store.LoadMonth(ctx, userID, year, month)
	if err != nil {
		return MonthlyAggregate{}, infra("load month", err)
	}
	return ComputeMonthly(userID, year, month, days, s.clock.Now()), nil
}
