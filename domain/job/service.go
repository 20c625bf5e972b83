package job

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/internal/models"
	apperrors "github.com/akeren/jobtracker-api/pkg/errors"
)

type JobService interface {
	CreateJob(ctx context.Context, req *CreateJobRequest) (*JobResponse, error)
	FindJobByID(ctx context.Context, id uint) (*JobResponse, error)
	ListJobs(ctx context.Context, filter ListFilter) ([]JobResponse, int64, error)
	UpdateJob(ctx context.Context, id uint, req *UpdateJobRequest) (*JobResponse, error)
	// UpdateStatus applies a validated status transition; completing a job stamps completed_at.
	UpdateStatus(ctx context.Context, id uint, status string) (*JobResponse, error)
	DeleteJob(ctx context.Context, id uint) error
}

type jobService struct {
	logger     *log.Logger
	repository JobRepository
	now        func() time.Time
}

func NewJobService(logger *log.Logger, repository JobRepository) JobService {
	return &jobService{logger: logger, repository: repository, now: time.Now}
}

func (s *jobService) CreateJob(ctx context.Context, req *CreateJobRequest) (*JobResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil || strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewInvalidRequestError("job title is required", nil)
	}

	exists, err := s.repository.CustomerExists(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewUnprocessableError(fmt.Sprintf("customer %d does not exist", req.CustomerID), nil)
	}

	job, err := s.repository.CreateJob(ctx, ToJobModel(req))
	if err != nil {
		logger.Error("Failed to create job", "customer_id", req.CustomerID, "error", err)
		return nil, err
	}

	logger.Info("Job created", "id", job.ID, "customer_id", job.CustomerID, "status", job.Status)
	response := ToJobResponse(job)
	return &response, nil
}

func (s *jobService) FindJobByID(ctx context.Context, id uint) (*JobResponse, error) {
	job, err := s.repository.FindJobByID(ctx, id)
	if err != nil {
		log.GetLoggerInstanceFromContext(ctx, s.logger).Error("Failed to find job", "id", id, "error", err)
		return nil, err
	}

	response := ToJobResponse(job)
	return &response, nil
}

func (s *jobService) ListJobs(ctx context.Context, filter ListFilter) ([]JobResponse, int64, error) {
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, apperrors.NewInvalidRequestError(fmt.Sprintf("unknown job status %q", filter.Status), nil)
	}

	jobs, total, err := s.repository.ListJobs(ctx, filter)
	if err != nil {
		log.GetLoggerInstanceFromContext(ctx, s.logger).Error("Failed to list jobs", "error", err)
		return nil, 0, err
	}

	responses := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, ToJobResponse(job))
	}

	return responses, total, nil
}

func (s *jobService) UpdateJob(ctx context.Context, id uint, req *UpdateJobRequest) (*JobResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil || strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewInvalidRequestError("job title is required", nil)
	}

	job, err := s.repository.FindJobByID(ctx, id)
	if err != nil {
		return nil, err
	}

	job.Title = strings.TrimSpace(req.Title)
	job.Description = strings.TrimSpace(req.Description)
	job.ScheduledFor = utcPtr(req.ScheduledFor)
	job.Notes = strings.TrimSpace(req.Notes)
	job.UpdatedAt = s.now().UTC()

	if err := s.repository.UpdateJob(ctx, job); err != nil {
		logger.Error("Failed to update job", "id", id, "error", err)
		return nil, err
	}

	response := ToJobResponse(job)
	return &response, nil
}

func (s *jobService) UpdateStatus(ctx context.Context, id uint, status string) (*JobResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if !IsValidStatus(status) {
		return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("unknown job status %q", status), nil)
	}

	job, err := s.repository.FindJobByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(job.Status, status) {
		return nil, apperrors.NewUnprocessableError(
			fmt.Sprintf("job cannot move from %s to %s", job.Status, status), nil)
	}

	now := s.now().UTC()
	var completedAt *time.Time
	if status == models.JobStatusCompleted {
		completedAt = &now
	}

	if err := s.repository.UpdateStatus(ctx, id, job.Status, status, completedAt, now); err != nil {
		logger.Error("Failed to update job status", "id", id, "from", job.Status, "to", status, "error", err)
		return nil, err
	}

	logger.Info("Job status changed", "id", id, "from", job.Status, "to", status)

	job.Status = status
	job.CompletedAt = completedAt
	job.UpdatedAt = now

	response := ToJobResponse(job)
	return &response, nil
}

func (s *jobService) DeleteJob(ctx context.Context, id uint) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if err := s.repository.DeleteJob(ctx, id); err != nil {
		logger.Error("Failed to delete job", "id", id, "error", err)
		return err
	}

	logger.Info("Job deleted", "id", id)
	return nil
}
