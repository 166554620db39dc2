package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock/models"
)

type fakeStore struct {
	day     *models.AttendanceDay
	breaks  []models.BreakInterval
	month   []models.AttendanceDay
	loadErr error
}

func (f *fakeStore) LoadDay(ctx context.Context, userID uint, date time.Time) (*models.AttendanceDay, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.day == nil {
		return nil, nil
	}
	day := *f.day
	return &day, nil
}

func (f *fakeStore) SaveDay(ctx context.Context, day *models.AttendanceDay) error {
	saved := *day
	f.day = &saved
	return nil
}

func (f *fakeStore) LoadBreaks(ctx context.Context, userID uint, date time.Time) ([]models.BreakInterval, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]models.BreakInterval(nil), f.breaks...), nil
}

func (f *fakeStore) SaveBreak(ctx context.Context, b *models.BreakInterval) error {
	for i := range f.breaks {
		if f.breaks[i].ID == b.ID {
			f.breaks[i] = *b
			return nil
		}
	}
	f.breaks = append(f.breaks, *b)
	return nil
}

func (f *fakeStore) LoadMonth(ctx context.Context, userID uint, year int, month time.Month) ([]models.AttendanceDay, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.month, nil
}

func (f *fakeStore) Transact(ctx context.Context, fn func(Store) error) error {
	return fn(f)
}

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time {
	return c.now
}

func (c *manualClock) set(hour, minute int) {
	c.now = time.Date(c.now.Year(), c.now.Month(), c.now.Day(), hour, minute, 0, 0, c.now.Location())
}

func newTestService(store *fakeStore) (*Service, *manualClock) {
	clk := &manualClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	return NewService(store, clk, Config{GraceHour: 9, GraceMinute: 30}), clk
}

func TestClockInWithinGrace(t *testing.T) {
	store := &fakeStore{}
	svc, clk := newTestService(store)
	clk.set(9, 30)

	snap, err := svc.ClockIn(context.Background(), 1, "office", "")
	require.NoError(t, err)
	assert.Equal(t, StateWorking, snap.State)
	assert.Equal(t, models.StatusPresent, snap.Status)
	assert.True(t, snap.CanClockOut)
	assert.True(t, snap.CanStartBreak)
	assert.False(t, snap.CanClockIn)
	require.NotNil(t, store.day)
	assert.Equal(t, "office", store.day.Location)
}

func TestClockInAfterGraceIsLate(t *testing.T) {
	store := &fakeStore{}
	svc, clk := newTestService(store)
	clk.set(9, 35)

	snap, err := svc.ClockIn(context.Background(), 1, "", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusLate, snap.Status)
}

func TestClockInTwiceFails(t *testing.T) {
	store := &fakeStore{}
	svc, clk := newTestService(store)
	clk.set(9, 0)

	_, err := svc.ClockIn(context.Background(), 1, "", "")
	require.NoError(t, err)
	firstIn := *store.day.CheckInTime

	clk.set(9, 45)
	_, err = svc.ClockIn(context.Background(), 1, "", "")
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)

	// State equals state after the first call
	assert.Equal(t, firstIn, *store.day.CheckInTime)
	assert.Equal(t, models.StatusPresent, store.day.Status)
}

func TestClockInOnMarkedDayKeepsClassification(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{day: &models.AttendanceDay{UserID: 1, Date: date, Status: models.StatusHalfDay}}
	svc, clk := newTestService(store)
	clk.set(9, 0)

	snap, err := svc.ClockIn(context.Background(), 1, "", "")
	require.NoError(t, err)
	assert.Equal(t, StateWorking, snap.State)
	assert.Equal(t, models.StatusHalfDay, store.day.Status)
}

func TestFullCycle(t *testing.T) {
	store := &fakeStore{}
	svc, clk := newTestService(store)
	ctx := context.Background()

	clk.set(9, 35)
	snap, err := svc.ClockIn(ctx, 1, "", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusLate, snap.Status)

	clk.set(13, 0)
	snap, err = svc.StartBreak(ctx, 1, "lunch")
	require.NoError(t, err)
	assert.Equal(t, StateOnBreak, snap.State)
	require.NotNil(t, snap.ActiveBreakID)
	breakID := *snap.ActiveBreakID

	clk.set(13, 30)
	snap, err = svc.EndBreak(ctx, 1, breakID)
	require.NoError(t, err)
	assert.Equal(t, StateWorking, snap.State)
	assert.Equal(t, 30, snap.TotalBreakMinutes)
	assert.Nil(t, snap.ActiveBreakID)

	clk.set(18, 0)
	snap, err = svc.ClockOut(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, StateClockedOut, snap.State)
	assert.Equal(t, 505, snap.GrossWorkedMinutes)
	assert.Equal(t, 30, snap.TotalBreakMinutes)
	assert.False(t, snap.CanClockOut)
	assert.False(t, snap.CanStartBreak)

	// Persisted totals match the snapshot
	assert.Equal(t, 505, store.day.WorkedMinutes)
	assert.Equal(t, 30, store.day.BreakMinutes)

	// Terminal: nothing else is allowed
	_, err = svc.StartBreak(ctx, 1, "")
	assert.ErrorIs(t, err, ErrAlreadyClockedOut)
	_, err = svc.EndBreak(ctx, 1, breakID)
	assert.ErrorIs(t, err, ErrAlreadyClockedOut)
	_, err = svc.ClockOut(ctx, 1, "")
	assert.ErrorIs(t, err, ErrAlreadyClockedOut)
	_, err = svc.ClockIn(ctx, 1, "", "")
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)
}

func TestClockOutWhileOnBreakFails(t *testing.T) {
	store := &fakeStore{}
	svc, clk := newTestService(store)
	ctx := context.Background()

	clk.set(9, 0)
	_, err := svc.ClockIn(ctx, 1, "", "")
	require.NoError(t, err)

	clk.set(12, 0)
	_, err = svc.StartBreak(ctx, 1, "")
	require.NoError(t, err)

	clk.set(12, 30)
	_, err = svc.ClockOut(ctx, 1, "")
	assert.ErrorIs(t, err, ErrBreakStillActive)

	// State unchanged
	assert.Nil(t, store.day.CheckOutTime)
	snap, err := svc.Snapshot(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateOnBreak, snap.State)
}

func TestEndBreakMismatchLeavesBreakOpen(t *testing.T) {
	store := &fakeStore{}
	svc, clk := newTestService(store)
	ctx := context.Background()

	clk.set(9, 0)
	_, err := svc.ClockIn(ctx, 1, "", "")
	require.NoError(t, err)

	clk.set(12, 0)
	snap, err := svc.StartBreak(ctx, 1, "")
	require.NoError(t, err)
	activeID := *snap.ActiveBreakID

	clk.set(12, 15)
	_, err = svc.EndBreak(ctx, 1, uuid.New())
	assert.ErrorIs(t, err, ErrBreakMismatch)

	// The real active interval is still open
	snap, err = svc.Snapshot(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateOnBreak, snap.State)
	assert.Equal(t, activeID, *snap.ActiveBreakID)
}

func TestOperationsWithoutSession(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newTestService(store)
	ctx := context.Background()

	_, err := svc.ClockOut(ctx, 1, "")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = svc.StartBreak(ctx, 1, "")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = svc.EndBreak(ctx, 1, uuid.New())
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSnapshotLiveDurationMonotonic(t *testing.T) {
	store := &fakeStore{}
	svc, clk := newTestService(store)
	ctx := context.Background()

	clk.set(9, 0)
	_, err := svc.ClockIn(ctx, 1, "", "")
	require.NoError(t, err)

	clk.set(10, 0)
	first, err := svc.Snapshot(ctx, 1)
	require.NoError(t, err)

	clk.set(11, 30)
	second, err := svc.Snapshot(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, StateWorking, second.State)
	assert.GreaterOrEqual(t, second.GrossWorkedMinutes, first.GrossWorkedMinutes)
	assert.Equal(t, 60, first.GrossWorkedMinutes)
	assert.Equal(t, 150, second.GrossWorkedMinutes)
}

func TestSnapshotBeforeClockIn(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newTestService(store)

	snap, err := svc.Snapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StateNotClockedIn, snap.State)
	assert.True(t, snap.CanClockIn)
	assert.False(t, snap.CanClockOut)
	assert.False(t, snap.CanStartBreak)
	assert.False(t, snap.CanEndBreak)
	assert.Equal(t, 0, snap.GrossWorkedMinutes)
}

func TestInfraErrorsStayDistinct(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("connection refused")}
	svc, _ := newTestService(store)

	_, err := svc.ClockIn(context.Background(), 1, "", "")
	require.Error(t, err)
	assert.True(t, IsInfra(err))
	assert.False(t, errors.Is(err, ErrAlreadyClockedIn))
}

func TestMarkDayCreatesRecord(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newTestService(store)

	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	day, err := svc.MarkDay(context.Background(), 1, date, models.StatusOnLeave, "annual leave")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnLeave, day.Status)
	assert.Nil(t, day.CheckInTime)
	require.NotNil(t, store.day)
	assert.Equal(t, "annual leave", store.day.Notes)
}
