package postgres

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationColumns = `
	a.id, a.job_id, a.developer_id::text, a.message, a.resume, a.status, a.created_at, a.updated_at`

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a new application. A second application by the same
// developer for the same job violates uq_applications_job_developer and
// surfaces as domain.ErrDuplicate.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (job_id, developer_id, message, resume, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.ApplicationStatusApplied
	}

	err := r.db.QueryRow(ctx, query,
		app.JobID,
		app.DeveloperID,
		app.Message,
		app.Resume,
		app.Status,
		app.CreatedAt,
		app.UpdatedAt,
	).Scan(&app.ID)
	return translateError(err)
}

// GetByID retrieves an application with its job and developer summaries
func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `
		SELECT` + applicationColumns + `,
			j.id, j.title, j.description, j.location, j.salary,
			u.id::text, u.name, u.email
		FROM applications a
		JOIN jobs j ON a.job_id = j.id
		JOIN users u ON a.developer_id = u.id
		WHERE a.id = $1`

	var app domain.Application
	var job domain.ApplicationJob
	var dev domain.UserSummary
	err := r.db.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.JobID, &app.DeveloperID, &app.Message, &app.Resume, &app.Status, &app.CreatedAt, &app.UpdatedAt,
		&job.ID, &job.Title, &job.Description, &job.Location, &job.Salary,
		&dev.ID, &dev.Name, &dev.Email,
	)
	if err != nil {
		return nil, translateError(err)
	}
	app.Job = &job
	app.Developer = &dev
	return &app, nil
}

// GetByJobID retrieves all applications for a job with developer summaries
func (r *applicationRepo) GetByJobID(ctx context.Context, jobID int64) ([]domain.Application, error) {
	query := `
		SELECT` + applicationColumns + `,
			u.id::text, u.name, u.email
		FROM applications a
		JOIN users u ON a.developer_id = u.id
		WHERE a.job_id = $1
		ORDER BY a.created_at DESC, a.id DESC`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	return collectApplications(rows, func(app *domain.Application) []any {
		app.Developer = &domain.UserSummary{}
		return []any{&app.Developer.ID, &app.Developer.Name, &app.Developer.Email}
	})
}

// GetByDeveloperID retrieves a developer's applications with job and developer summaries
func (r *applicationRepo) GetByDeveloperID(ctx context.Context, developerID string) ([]domain.Application, error) {
	query := `
		SELECT` + applicationColumns + `,
			j.id, j.title, j.description, j.location, j.salary,
			u.id::text, u.name, u.email
		FROM applications a
		JOIN jobs j ON a.job_id = j.id
		JOIN users u ON a.developer_id = u.id
		WHERE a.developer_id = $1
		ORDER BY a.created_at DESC, a.id DESC`

	rows, err := r.db.Query(ctx, query, developerID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	return collectApplications(rows, func(app *domain.Application) []any {
		app.Job = &domain.ApplicationJob{}
		app.Developer = &domain.UserSummary{}
		return []any{
			&app.Job.ID, &app.Job.Title, &app.Job.Description, &app.Job.Location, &app.Job.Salary,
			&app.Developer.ID, &app.Developer.Name, &app.Developer.Email,
		}
	})
}

// collectApplications scans the shared application columns followed by
// whatever joined columns extra points at.
func collectApplications(rows pgx.Rows, extra func(app *domain.Application) []any) ([]domain.Application, error) {
	applications := []domain.Application{}
	for rows.Next() {
		var app domain.Application
		dest := []any{
			&app.ID, &app.JobID, &app.DeveloperID, &app.Message, &app.Resume, &app.Status, &app.CreatedAt, &app.UpdatedAt,
		}
		dest = append(dest, extra(&app)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return applications, nil
}

// CheckExists checks if an application already exists for the job/developer combination
func (r *applicationRepo) CheckExists(ctx context.Context, jobID int64, developerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND developer_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, jobID, developerID).Scan(&exists)
	return exists, translateError(err)
}

// UpdateStatus updates the status of an application and sets updated_at
func (r *applicationRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return translateError(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
