package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	events          domain.ApplicationEventPublisher
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	events domain.ApplicationEventPublisher,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: appRepo,
		jobRepo:         jobRepo,
		events:          events,
	}
}

// ApplyToJob submits a developer's application to an existing job
func (uc *applicationUsecase) ApplyToJob(ctx context.Context, in domain.ApplyInput) (*domain.Application, error) {
	job, err := uc.jobRepo.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}

	exists, err := uc.applicationRepo.CheckExists(ctx, in.JobID, in.DeveloperID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("You have already applied to this job")
	}

	app := &domain.Application{
		JobID:       in.JobID,
		DeveloperID: in.DeveloperID,
		Message:     optionalText(in.Message),
		Resume:      optionalText(in.Resume),
		Status:      domain.ApplicationStatusApplied,
	}

	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			return nil, apperror.Conflict("You have already applied to this job")
		case errors.Is(err, domain.ErrNotFound):
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}

	app.Job = &domain.ApplicationJob{
		ID:          job.ID,
		Title:       job.Title,
		Description: job.Description,
		Location:    job.Location,
		Salary:      job.Salary,
	}

	uc.publish(ctx, domain.EventApplicationSubmitted, app, job.EmployerID)
	return app, nil
}

// GetMyApplications returns all applications for the current developer
func (uc *applicationUsecase) GetMyApplications(ctx context.Context, developerID string) ([]domain.Application, error) {
	apps, err := uc.applicationRepo.GetByDeveloperID(ctx, developerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}

// ListByJobID returns all applications for a job (employer only, validated by ownership)
func (uc *applicationUsecase) ListByJobID(ctx context.Context, employerID string, jobID int64) ([]domain.Application, error) {
	if _, err := uc.validateJobOwnership(ctx, employerID, jobID); err != nil {
		return nil, err
	}

	apps, err := uc.applicationRepo.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}

// UpdateApplicationStatus allows employer to update application status
// Status flow: applied → reviewed → accepted / rejected
func (uc *applicationUsecase) UpdateApplicationStatus(ctx context.Context, employerID string, applicationID int64, status string) (*domain.Application, error) {
	if !domain.IsEmployerSettableStatus(status) {
		return nil, apperror.BadRequest("Invalid status. Must be one of: reviewed, accepted, rejected")
	}

	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}

	job, err := uc.validateJobOwnership(ctx, employerID, app.JobID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(app.Status, status) {
		return nil, apperror.BadRequest("Cannot change status from " + app.Status + " to " + status)
	}
	if app.Status == status {
		return app, nil
	}

	if err := uc.applicationRepo.UpdateStatus(ctx, applicationID, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	app.Status = status
	app.UpdatedAt = time.Now()

	uc.publish(ctx, domain.EventApplicationStatusChanged, app, job.EmployerID)
	return app, nil
}

// validateJobOwnership checks that the employer owns the job
func (uc *applicationUsecase) validateJobOwnership(ctx context.Context, employerID string, jobID int64) (*domain.Job, error) {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}
	if job.EmployerID != employerID {
		return nil, apperror.Forbidden("You do not have access to this job's applications")
	}
	return job, nil
}

// publish never fails the request; broker errors are only logged.
func (uc *applicationUsecase) publish(ctx context.Context, eventType string, app *domain.Application, employerID string) {
	if uc.events == nil {
		return
	}
	evt := domain.ApplicationEvent{
		Type:          eventType,
		ApplicationID: app.ID,
		JobID:         app.JobID,
		DeveloperID:   app.DeveloperID,
		EmployerID:    employerID,
		Status:        app.Status,
		OccurredAt:    time.Now().UTC(),
	}
	if err := uc.events.Publish(ctx, evt); err != nil {
		logger.Log.Error("Failed to publish application event",
			"type", eventType,
			"application_id", app.ID,
			"error", err,
		)
	}
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
