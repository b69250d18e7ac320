package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
}

func NewJobUsecase(jobRepo domain.JobRepository) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo}
}

func (u *jobUsecase) CreateJob(ctx context.Context, employerID string, job *domain.Job) (*domain.Job, error) {
	job.Title = strings.TrimSpace(job.Title)
	job.Description = strings.TrimSpace(job.Description)
	job.Location = strings.TrimSpace(job.Location)
	job.Skills = domain.NormalizeSkills(job.Skills)

	if job.Title == "" || job.Description == "" || job.Location == "" {
		return nil, apperror.BadRequest("Title, description and location are required")
	}
	if len(job.Skills) == 0 {
		return nil, apperror.BadRequest("At least one skill is required")
	}
	if job.Salary <= 0 {
		return nil, apperror.BadRequest("Salary must be greater than 0")
	}

	now := time.Now().UTC()
	job.ID = 0
	job.EmployerID = employerID
	job.CreatedAt = now
	job.UpdatedAt = now

	if err := u.jobRepo.Create(ctx, job); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("User no longer exists")
		}
		return nil, apperror.Internal(err)
	}

	// Re-read so the response carries the employer summary
	created, err := u.jobRepo.GetByID(ctx, job.ID)
	if err != nil {
		return job, nil
	}
	return created, nil
}

func (u *jobUsecase) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}
	return job, nil
}

func (u *jobUsecase) ListJobs(ctx context.Context, filter domain.JobFilter, page, pageSize int) (*domain.JobPage, error) {
	if !finite(filter.MinSalary) || !finite(filter.MaxSalary) {
		return nil, apperror.BadRequest("Salary bounds must be finite numbers")
	}
	if filter.MinSalary != nil && filter.MaxSalary != nil && *filter.MinSalary > *filter.MaxSalary {
		return nil, apperror.BadRequest("minSalary must not exceed maxSalary")
	}
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	filter.Location = strings.TrimSpace(filter.Location)
	filter.Skills = domain.NormalizeSkills(filter.Skills)

	page, pageSize = domain.NormalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	jobs, total, err := u.jobRepo.List(ctx, filter, pageSize, offset)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}

	return &domain.JobPage{
		Jobs:       jobs,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: domain.TotalPages(total, pageSize),
		Total:      total,
	}, nil
}

func finite(v *float64) bool {
	return v == nil || !(math.IsNaN(*v) || math.IsInf(*v, 0))
}

// UpdateJob overwrites only the fields present in patch.
func (u *jobUsecase) UpdateJob(ctx context.Context, id int64, employerID string, patch domain.JobPatch) (*domain.Job, error) {
	job, err := u.ownedJob(ctx, id, employerID, "You can only update your own jobs")
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if job.Title = strings.TrimSpace(*patch.Title); job.Title == "" {
			return nil, apperror.BadRequest("Title must not be empty")
		}
	}
	if patch.Description != nil {
		if job.Description = strings.TrimSpace(*patch.Description); job.Description == "" {
			return nil, apperror.BadRequest("Description must not be empty")
		}
	}
	if patch.Location != nil {
		if job.Location = strings.TrimSpace(*patch.Location); job.Location == "" {
			return nil, apperror.BadRequest("Location must not be empty")
		}
	}
	if patch.SkillsSet {
		if job.Skills = domain.NormalizeSkills(patch.Skills); len(job.Skills) == 0 {
			return nil, apperror.BadRequest("At least one skill is required")
		}
	}
	if patch.Salary != nil {
		if *patch.Salary <= 0 {
			return nil, apperror.BadRequest("Salary must be greater than 0")
		}
		job.Salary = *patch.Salary
	}

	job.UpdatedAt = time.Now().UTC()
	if err := u.jobRepo.Update(ctx, job); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}
	return job, nil
}

// DeleteJob removes the job together with its applications.
func (u *jobUsecase) DeleteJob(ctx context.Context, id int64, employerID string) error {
	if _, err := u.ownedJob(ctx, id, employerID, "You can only delete your own jobs"); err != nil {
		return err
	}
	if err := u.jobRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (u *jobUsecase) ownedJob(ctx context.Context, id int64, employerID, denied string) (*domain.Job, error) {
	job, err := u.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != employerID {
		return nil, apperror.Forbidden(denied)
	}
	return job, nil
}
