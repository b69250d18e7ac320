package domain

import (
	"context"
	"time"
)

// Application status constants
const (
	ApplicationStatusApplied  = "applied"
	ApplicationStatusReviewed = "reviewed"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// ApplicationJob is the job projection shown on a developer's applications.
type ApplicationJob struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Salary      float64 `json:"salary"`
}

// Application represents a developer's submission against one job
type Application struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"job_id"`
	DeveloperID string    `json:"developer_id"`
	Message     *string   `json:"message,omitempty"`
	Resume      *string   `json:"resume,omitempty"`
	Status      string    `json:"status"` // applied → reviewed → accepted / rejected
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined data for list responses
	Job       *ApplicationJob `json:"job,omitempty"`
	Developer *UserSummary    `json:"developer,omitempty"`
}

type ApplyInput struct {
	JobID       int64
	DeveloperID string
	Message     string
	Resume      string
}

// allowedTransitions is the forward-only lifecycle.
var allowedTransitions = map[string][]string{
	ApplicationStatusApplied:  {ApplicationStatusReviewed, ApplicationStatusAccepted, ApplicationStatusRejected},
	ApplicationStatusReviewed: {ApplicationStatusAccepted, ApplicationStatusRejected},
}

// IsEmployerSettableStatus reports whether an employer may request status.
func IsEmployerSettableStatus(status string) bool {
	return status == ApplicationStatusReviewed ||
		status == ApplicationStatusAccepted ||
		status == ApplicationStatusRejected
}

// CanTransition reports whether from → to is allowed. Staying put is allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ApplicationRepository defines data access methods for applications
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	GetByJobID(ctx context.Context, jobID int64) ([]Application, error)
	GetByDeveloperID(ctx context.Context, developerID string) ([]Application, error)
	CheckExists(ctx context.Context, jobID int64, developerID string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// ApplicationUsecase defines business logic for applications
type ApplicationUsecase interface {
	// Developer operations
	ApplyToJob(ctx context.Context, in ApplyInput) (*Application, error)
	GetMyApplications(ctx context.Context, developerID string) ([]Application, error)

	// Employer operations
	ListByJobID(ctx context.Context, employerID string, jobID int64) ([]Application, error)
	UpdateApplicationStatus(ctx context.Context, employerID string, applicationID int64, status string) (*Application, error)
}
