package job

import (
	"strings"
	"time"

	"github.com/akeren/jobtracker-api/internal/models"
	"github.com/akeren/jobtracker-api/pkg/constants"
)

type CreateJobRequest struct {
	CustomerID   uint       `json:"customer_id" binding:"required,min=1"`
	Title        string     `json:"title" binding:"required,min=1,max=255"`
	Description  string     `json:"description" binding:"omitempty,max=5000"`
	Status       string     `json:"status" binding:"omitempty,oneof=quoted scheduled"`
	ScheduledFor *time.Time `json:"scheduled_for"`
	Notes        string     `json:"notes" binding:"omitempty,max=2000"`
}

type UpdateJobRequest struct {
	Title        string     `json:"title" binding:"required,min=1,max=255"`
	Description  string     `json:"description" binding:"omitempty,max=5000"`
	ScheduledFor *time.Time `json:"scheduled_for"`
	Notes        string     `json:"notes" binding:"omitempty,max=2000"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=quoted scheduled in_progress completed cancelled"`
}

type JobResponse struct {
	ID           uint    `json:"id"`
	CustomerID   uint    `json:"customer_id"`
	CustomerName string  `json:"customer_name,omitempty"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	ScheduledFor *string `json:"scheduled_for"`
	CompletedAt  *string `json:"completed_at"`
	Notes        string  `json:"notes"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(constants.RFC3339DateTimeFormat)
	return &s
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func ToJobModel(req *CreateJobRequest) *models.Job {
	status := req.Status
	if status == "" {
		status = models.JobStatusQuoted
	}
	return &models.Job{
		CustomerID:   req.CustomerID,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Status:       status,
		ScheduledFor: utcPtr(req.ScheduledFor),
		Notes:        strings.TrimSpace(req.Notes),
	}
}

func ToJobResponse(job *models.Job) JobResponse {
	if job == nil {
		return JobResponse{}
	}
	response := JobResponse{
		ID:           job.ID,
		CustomerID:   job.CustomerID,
		Title:        job.Title,
		Description:  job.Description,
		Status:       job.Status,
		ScheduledFor: formatOptionalTime(job.ScheduledFor),
		CompletedAt:  formatOptionalTime(job.CompletedAt),
		Notes:        job.Notes,
		CreatedAt:    job.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
		UpdatedAt:    job.UpdatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
	if job.Customer != nil {
		response.CustomerName = job.Customer.Name
	}
	return response
}
