package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"timeclock/attendance"
	"timeclock/models"
)

// Store adapts gorm to the attendance.Store collaborator interface.
// Uniqueness violations are translated into the engine's domain sentinels so
// the loser of a clock-in or break-start race observes the same error as a
// plain repeat call.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) LoadDay(ctx context.Context, userID uint, date time.Time) (*models.AttendanceDay, error) {
	var day models.AttendanceDay
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date.Format("2006-01-02")).
		First(&day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (s *Store) SaveDay(ctx context.Context, day *models.AttendanceDay) error {
	err := s.db.WithContext(ctx).Save(day).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return attendance.ErrAlreadyClockedIn
	}
	return err
}

func (s *Store) LoadBreaks(ctx context.Context, userID uint, date time.Time) ([]models.BreakInterval, error) {
	var breaks []models.BreakInterval
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date.Format("2006-01-02")).
		Order("start_time asc").
		Find(&breaks).Error
	if err != nil {
		return nil, err
	}
	return breaks, nil
}

func (s *Store) SaveBreak(ctx context.Context, b *models.BreakInterval) error {
	err := s.db.WithContext(ctx).Save(b).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return attendance.ErrBreakAlreadyActive
	}
	return err
}

func (s *Store) LoadMonth(ctx context.Context, userID uint, year int, month time.Month) ([]models.AttendanceDay, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var days []models.AttendanceDay
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date asc").
		Find(&days).Error
	if err != nil {
		return nil, err
	}
	return days, nil
}

func (s *Store) Transact(ctx context.Context, fn func(attendance.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}
