package waitlist

import (
	"context"
	"time"

	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/internal/models"
	apperrors "github.com/akeren/jobtracker-api/pkg/errors"
	"gorm.io/gorm"
)

type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int64  `json:"count"`
}

type IPCount struct {
	IPAddress string `json:"ip_address"`
	Count     int64  `json:"count"`
}

type BlockedAttemptRepository interface {
	Create(ctx context.Context, attempt *models.BlockedAttempt) error
	CountByReasonSince(ctx context.Context, cutoff time.Time) ([]ReasonCount, error)
	TopIPsSince(ctx context.Context, cutoff time.Time, limit int) ([]IPCount, error)
	RecentSince(ctx context.Context, cutoff time.Time, limit int) ([]*models.BlockedAttempt, error)
}

type blockedAttemptRepository struct {
	db *gorm.DB
}

func NewBlockedAttemptRepository(db *gorm.DB) BlockedAttemptRepository {
	return &blockedAttemptRepository{db: db}
}

func (r *blockedAttemptRepository) Create(ctx context.Context, attempt *models.BlockedAttempt) error {
	if err := r.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return apperrors.NewDatabaseError("unable to record blocked attempt", err)
	}
	return nil
}

func (r *blockedAttemptRepository) CountByReasonSince(ctx context.Context, cutoff time.Time) ([]ReasonCount, error) {
	var rows []ReasonCount

	err := r.db.WithContext(ctx).
		Model(&models.BlockedAttempt{}).
		Select("block_reason AS reason, COUNT(*) AS count").
		Where("attempted_at >= ?", cutoff).
		Group("block_reason").
		Order("count DESC, reason ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to aggregate blocked attempts by reason", err)
	}

	return rows, nil
}

func (r *blockedAttemptRepository) TopIPsSince(ctx context.Context, cutoff time.Time, limit int) ([]IPCount, error) {
	var rows []IPCount

	err := r.db.WithContext(ctx).
		Model(&models.BlockedAttempt{}).
		Select("ip_address, COUNT(*) AS count").
		Where("attempted_at >= ?", cutoff).
		Group("ip_address").
		Order("count DESC, ip_address ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to aggregate blocked attempts by ip", err)
	}

	return rows, nil
}

func (r *blockedAttemptRepository) RecentSince(ctx context.Context, cutoff time.Time, limit int) ([]*models.BlockedAttempt, error) {
	var rows []*models.BlockedAttempt

	err := r.db.WithContext(ctx).
		Where("attempted_at >= ?", cutoff).
		Order("attempted_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch recent blocked attempts", err)
	}

	return rows, nil
}

// AttemptLedger records rejected signups. Record never fails the caller.
type AttemptLedger struct {
	repository BlockedAttemptRepository
	logger     *log.Logger
}

func NewAttemptLedger(repository BlockedAttemptRepository, logger *log.Logger) *AttemptLedger {
	return &AttemptLedger{repository: repository, logger: logger}
}

func (l *AttemptLedger) Record(ctx context.Context, ip, email, userAgent, reason string, at time.Time) {
	attempt := &models.BlockedAttempt{
		IPAddress:   ip,
		Email:       email,
		UserAgent:   userAgent,
		BlockReason: reason,
		AttemptedAt: at.UTC(),
	}

	if err := l.repository.Create(ctx, attempt); err != nil {
		log.GetLoggerInstanceFromContext(ctx, l.logger).Error("Failed to record blocked waitlist attempt",
			"reason", reason,
			"ip", ip,
			"email", log.RedactEmail(email),
			"error", err,
		)
	}
}
