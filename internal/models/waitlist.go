package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WaitlistEntry struct {
	ID           string    `gorm:"type:text;primaryKey" json:"id"`
	Email        string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	BusinessType *string   `gorm:"type:text" json:"business_type,omitempty"`
	Source       *string   `gorm:"type:text" json:"source,omitempty"`
	IPAddress    string    `gorm:"type:text;not null;index" json:"ip_address"`
	UserAgent    string    `gorm:"type:text;not null;default:''" json:"user_agent"`
	CreatedAt    time.Time `gorm:"not null;index" json:"created_at"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}

func (e *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// BlockedAttempt is append-only: one row per rejected signup.
type BlockedAttempt struct {
	ID          string    `gorm:"type:text;primaryKey" json:"id"`
	IPAddress   string    `gorm:"type:text;not null;index" json:"ip_address"`
	Email       string    `gorm:"type:text;not null" json:"email"`
	UserAgent   string    `gorm:"type:text;not null;default:''" json:"user_agent"`
	BlockReason string    `gorm:"type:text;not null;index" json:"block_reason"`
	AttemptedAt time.Time `gorm:"not null;index" json:"attempted_at"`
}

func (BlockedAttempt) TableName() string {
	return "waitlist_blocked_attempts"
}

func (b *BlockedAttempt) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
