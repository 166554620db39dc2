package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BreakState string

const (
	BreakActive    BreakState = "active"
	BreakCompleted BreakState = "completed"
)

// BreakInterval is one start/end span an employee marked as on break within a
// day. EndTime is nil while the break is running; a partial unique index on
// (user_id, date) where state = 'active' keeps at most one open per day.
type BreakInterval struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Date      time.Time  `gorm:"not null;type:date;index" json:"date"`
	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	State     BreakState `gorm:"not null;size:20;default:active" json:"state"`
	Reason    string     `gorm:"size:200" json:"reason,omitempty"`
}

func (b *BreakInterval) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
