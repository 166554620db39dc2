package attendance

import (
	"context"
	"time"

	"timeclock/models"
)

// Store is the persistence collaborator. LoadDay returns (nil, nil) when no
// record exists for the employee-day. Implementations translate uniqueness
// violations on the day row into ErrAlreadyClockedIn and on the active-break
// index into ErrBreakAlreadyActive, so a racing writer loses cleanly.
type Store interface {
	LoadDay(ctx context.Context, userID uint, date time.Time) (*models.AttendanceDay, error)
	SaveDay(ctx context.Context, day *models.AttendanceDay) error
	LoadBreaks(ctx context.Context, userID uint, date time.Time) ([]models.BreakInterval, error)
	SaveBreak(ctx context.Context, b *models.BreakInterval) error
	LoadMonth(ctx context.Context, userID uint, year int, month time.Month) ([]models.AttendanceDay, error)

	// Transact runs fn against a transactional view of the store; every
	// mutating engine operation is one short transaction scoped to a single
	// employee-day.
	Transact(ctx context.Context, fn func(Store) error) error
}

// Clock supplies the current time so the engine never reads the wall clock
// directly.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
