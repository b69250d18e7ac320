package postgres

import (
	"context"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const jobColumns = `
	j.id, j.employer_id::text, j.title, j.description, j.skills, j.salary,
	j.location, j.created_at, j.updated_at,
	u.id::text, u.name, u.email`

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	var employer domain.UserSummary
	err := row.Scan(
		&job.ID, &job.EmployerID, &job.Title, &job.Description, pq.Array(&job.Skills), &job.Salary,
		&job.Location, &job.CreatedAt, &job.UpdatedAt,
		&employer.ID, &employer.Name, &employer.Email,
	)
	if err != nil {
		return nil, err
	}
	if job.Skills == nil {
		job.Skills = []string{}
	}
	job.Employer = &employer
	return &job, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (employer_id, title, description, skills, salary, location, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		job.EmployerID, job.Title, job.Description, pq.Array(job.Skills), job.Salary, job.Location,
		job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
	return translateError(err)
}

// GetByID retrieves a job with its employer's name and email
func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `SELECT` + jobColumns + `
		FROM jobs j
		JOIN users u ON u.id = j.employer_id
		WHERE j.id = $1`

	job, err := scanJob(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return job, nil
}

// List returns one page of jobs matching every supplied filter, newest first,
// together with the total number of matches.
func (r *jobRepo) List(ctx context.Context, filter domain.JobFilter, limit, offset int) ([]domain.Job, int64, error) {
	q := buildJobFilter(filter)
	where := q.where()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs j`+where, q.args...).Scan(&total); err != nil {
		return nil, 0, translateError(err)
	}

	limitArg := q.arg(limit)
	offsetArg := q.arg(offset)
	query := `SELECT` + jobColumns + `
		FROM jobs j
		JOIN users u ON u.id = j.employer_id` + where + `
		ORDER BY j.created_at DESC, j.id DESC
		LIMIT ` + limitArg + ` OFFSET ` + offsetArg

	rows, err := r.db.Query(ctx, query, q.args...)
	if err != nil {
		return nil, 0, translateError(err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET
		title = $2,
		description = $3,
		skills = $4,
		salary = $5,
		location = $6,
		updated_at = $7
	WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, pq.Array(job.Skills), job.Salary, job.Location, job.UpdatedAt,
	)
	if err != nil {
		return translateError(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the job; its applications go with it via ON DELETE CASCADE.
func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
