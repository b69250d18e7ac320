package domain

import (
	"context"
	"strings"
	"time"

	"github.com/ecodeclub/ekit/slice"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*pageSize far from int overflow.
	MaxPage = 1_000_000
)

type Job struct {
	ID          int64        `json:"id"`
	EmployerID  string       `json:"employer_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Skills      []string     `json:"skills"`
	Salary      float64      `json:"salary"`
	Location    string       `json:"location"`
	Employer    *UserSummary `json:"employer,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// JobPatch holds the fields of a partial update; nil means "keep".
type JobPatch struct {
	Title       *string
	Description *string
	Skills      []string
	SkillsSet   bool
	Salary      *float64
	Location    *string
}

// JobFilter is the explicit form of the list query. Zero values mean
// "no constraint".
type JobFilter struct {
	Keyword    string
	Location   string
	MinSalary  *float64
	MaxSalary  *float64
	Skills     []string
	EmployerID string
}

// JobPage is one page of a filtered listing.
type JobPage struct {
	Jobs       []Job `json:"jobs"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	Total      int64 `json:"total"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	List(ctx context.Context, filter JobFilter, limit, offset int) ([]Job, int64, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id int64) error
}

type JobUsecase interface {
	CreateJob(ctx context.Context, employerID string, job *Job) (*Job, error)
	GetJob(ctx context.Context, id int64) (*Job, error)
	ListJobs(ctx context.Context, filter JobFilter, page, pageSize int) (*JobPage, error)
	UpdateJob(ctx context.Context, id int64, employerID string, patch JobPatch) (*Job, error)
	DeleteJob(ctx context.Context, id int64, employerID string) error
}

// NormalizePage applies the listing defaults and bounds.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// TotalPages is ceil(total/pageSize).
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// NormalizeSkills trims each skill and drops the empty ones.
func NormalizeSkills(skills []string) []string {
	trimmed := slice.Map(skills, func(idx int, s string) string {
		return strings.TrimSpace(s)
	})
	return slice.FindAll(trimmed, func(s string) bool {
		return s != ""
	})
}

// ParseSkills splits a comma-separated skill list. A list with no
// non-empty entries yields nil.
func ParseSkills(csv string) []string {
	skills := NormalizeSkills(strings.Split(csv, ","))
	if len(skills) == 0 {
		return nil
	}
	return skills
}
