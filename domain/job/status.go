package job

import "github.com/akeren/jobtracker-api/internal/models"

var transitions = map[string][]string{
	models.JobStatusQuoted:     {models.JobStatusScheduled, models.JobStatusCancelled},
	models.JobStatusScheduled:  {models.JobStatusInProgress, models.JobStatusCancelled, models.JobStatusQuoted},
	models.JobStatusInProgress: {models.JobStatusCompleted, models.JobStatusCancelled},
	models.JobStatusCompleted:  nil,
	models.JobStatusCancelled:  nil,
}

func IsValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

// CanTransition reports whether a job may move from one status to another.
// Completed and cancelled are terminal.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
