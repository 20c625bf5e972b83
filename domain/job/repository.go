package job

import (
	"context"
	"time"

	"github.com/akeren/jobtracker-api/internal/models"
	apperrors "github.com/akeren/jobtracker-api/pkg/errors"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status     string
	CustomerID uint
	Offset     int
	Limit      int
}

type JobRepository interface {
	CustomerExists(ctx context.Context, customerID uint) (bool, error)
	CreateJob(ctx context.Context, job *models.Job) (*models.Job, error)
	FindJobByID(ctx context.Context, id uint) (*models.Job, error)
	ListJobs(ctx context.Context, filter ListFilter) ([]*models.Job, int64, error)
	UpdateJob(ctx context.Context, job *models.Job) error
	// UpdateStatus only applies when the stored status still equals from.
	UpdateStatus(ctx context.Context, id uint, from, to string, completedAt *time.Time, at time.Time) error
	DeleteJob(ctx context.Context, id uint) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) CustomerExists(ctx context.Context, customerID uint) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", customerID).Limit(1).Count(&count).Error
	if err != nil {
		return false, apperrors.NewDatabaseError("unable to check customer", err)
	}

	return count > 0, nil
}

func (r *jobRepository) CreateJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	if err := r.db.WithContext(ctx).Omit("Customer").Create(job).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to create job", err)
	}

	return r.FindJobByID(ctx, job.ID)
}

func (r *jobRepository) FindJobByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job

	if err := r.db.WithContext(ctx).Preload("Customer").First(&job, id).Error; err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("job not found", err)
		}
		return nil, apperrors.NewDatabaseError("failed to fetch job", err)
	}

	return &job, nil
}

func (r *jobRepository) filtered(ctx context.Context, filter ListFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Job{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}

	return query
}

func (r *jobRepository) ListJobs(ctx context.Context, filter ListFilter) ([]*models.Job, int64, error) {
	var (
		jobs  []*models.Job
		total int64
	)

	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabaseError("unable to count jobs", err)
	}

	err := r.filtered(ctx, filter).
		Preload("Customer").
		Order("created_at DESC, id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError("unable to fetch jobs", err)
	}

	return jobs, total, nil
}

func (r *jobRepository) UpdateJob(ctx context.Context, job *models.Job) error {
	result := r.db.WithContext(ctx).
		Model(&models.Job{ID: job.ID}).
		Select("title", "description", "scheduled_for", "notes", "updated_at").
		Updates(job)

	if result.Error != nil {
		return apperrors.NewDatabaseError("unable to update job", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("job not found", nil)
	}

	return nil
}

func (r *jobRepository) UpdateStatus(ctx context.Context, id uint, from, to string, completedAt *time.Time, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":       to,
			"completed_at": completedAt,
			"updated_at":   at,
		})

	if result.Error != nil {
		return apperrors.NewDatabaseError("unable to update job status", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("job status changed concurrently; reload and retry", nil)
	}

	return nil
}

func (r *jobRepository) DeleteJob(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Job{}, id)

	if result.Error != nil {
		return apperrors.NewDatabaseError("unable to delete job", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("job not found", nil)
	}

	return nil
}
