package waitlist

import (
	"context"
	"strings"
	"time"

	"github.com/akeren/jobtracker-api/internal/models"
	apperrors "github.com/akeren/jobtracker-api/pkg/errors"
	"gorm.io/gorm"
)

// ErrDuplicateEntry is returned by CreateEntry when the email is already on the waitlist.
var ErrDuplicateEntry = apperrors.NewConflictError("waitlist entry with this email already exists", nil)

// RateLimitStore is the read-only windowed view over accepted signups used by the gate.
type RateLimitStore interface {
	CountByIPSince(ctx context.Context, ip string, cutoff time.Time) (int64, error)
	CountDistinctEmailsByIPSince(ctx context.Context, ip string, cutoff time.Time) (int64, error)
	// CountSimilarLocalPartSince counts entries whose email starts with localPart + "@".
	CountSimilarLocalPartSince(ctx context.Context, localPart string, cutoff time.Time) (int64, error)
}

type WaitlistRepository interface {
	RateLimitStore

	Exists(ctx context.Context, email string) (bool, error)
	// CreateEntry returns an error matching ErrDuplicateEntry when the unique email index rejects the row.
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	FindEntryByID(ctx context.Context, id string) (*models.WaitlistEntry, error)
	ListEntries(ctx context.Context, offset, limit int) ([]*models.WaitlistEntry, int64, error)
	DeleteEntry(ctx context.Context, id string) error
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) Exists(ctx context.Context, email string) (bool, error) {
	var count int64

	err := wr.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("email = ?", email).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewDatabaseError("unable to check waitlist entry", err)
	}

	return count > 0, nil
}

func (wr *waitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if err := wr.db.WithContext(ctx).Create(entry).Error; err != nil {
		if apperrors.IsDuplicateKeyError(err) {
			return nil, apperrors.NewConflictError(ErrDuplicateEntry.Message, err)
		}
		return nil, apperrors.NewDatabaseError("unable to create waitlist entry", err)
	}

	return entry, nil
}

func (wr *waitlistRepository) CountByIPSince(ctx context.Context, ip string, cutoff time.Time) (int64, error) {
	var count int64

	err := wr.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("ip_address = ? AND created_at >= ?", ip, cutoff).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.NewDatabaseError("unable to count signups by ip", err)
	}

	return count, nil
}

func (wr *waitlistRepository) CountDistinctEmailsByIPSince(ctx context.Context, ip string, cutoff time.Time) (int64, error) {
	var count int64

	err := wr.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("ip_address = ? AND created_at >= ?", ip, cutoff).
		Distinct("email").
		Count(&count).Error
	if err != nil {
		return 0, apperrors.NewDatabaseError("unable to count distinct emails by ip", err)
	}

	return count, nil
}

func (wr *waitlistRepository) CountSimilarLocalPartSince(ctx context.Context, localPart string, cutoff time.Time) (int64, error) {
	var count int64

	err := wr.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where(`email LIKE ? ESCAPE '\' AND created_at >= ?`, escapeLike(localPart)+"@%", cutoff).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.NewDatabaseError("unable to count similar emails", err)
	}

	return count, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (wr *waitlistRepository) FindEntryByID(ctx context.Context, id string) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry

	if err := wr.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("waitlist entry not found", err)
		}
		return nil, apperrors.NewDatabaseError("failed to fetch waitlist entry", err)
	}

	return &entry, nil
}

func (wr *waitlistRepository) ListEntries(ctx context.Context, offset, limit int) ([]*models.WaitlistEntry, int64, error) {
	var (
		entries []*models.WaitlistEntry
		total   int64
	)

	if err := wr.db.WithContext(ctx).Model(&models.WaitlistEntry{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabaseError("unable to count waitlist entries", err)
	}

	err := wr.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError("unable to fetch waitlist entries", err)
	}

	return entries, total, nil
}

func (wr *waitlistRepository) DeleteEntry(ctx context.Context, id string) error {
	result := wr.db.WithContext(ctx).Where("id = ?", id).Delete(&models.WaitlistEntry{})

	if result.Error != nil {
		return apperrors.NewDatabaseError("unable to delete waitlist entry", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("waitlist entry not found", nil)
	}

	return nil
}
