package postgres

import (
	"fmt"
	"strings"

	"go-jobboard-backend/internal/domain"

	"github.com/lib/pq"
)

// jobQuery accumulates WHERE clauses and their positional arguments.
type jobQuery struct {
	clauses []string
	args    []interface{}
}

func (q *jobQuery) arg(v interface{}) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *jobQuery) where() string {
	if len(q.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.clauses, " AND ")
}

// buildJobFilter translates a JobFilter into a conjunctive WHERE clause over
// the jobs table aliased as j.
func buildJobFilter(f domain.JobFilter) *jobQuery {
	q := &jobQuery{}

	if f.Keyword != "" {
		p := q.arg(containsPattern(f.Keyword))
		q.clauses = append(q.clauses, fmt.Sprintf("(j.title ILIKE %s OR j.description ILIKE %s)", p, p))
	}
	if f.Location != "" {
		q.clauses = append(q.clauses, "j.location ILIKE "+q.arg(containsPattern(f.Location)))
	}
	if f.MinSalary != nil {
		q.clauses = append(q.clauses, "j.salary >= "+q.arg(*f.MinSalary))
	}
	if f.MaxSalary != nil {
		q.clauses = append(q.clauses, "j.salary <= "+q.arg(*f.MaxSalary))
	}
	if len(f.Skills) > 0 {
		q.clauses = append(q.clauses, "j.skills @> "+q.arg(pq.Array(f.Skills))+"::text[]")
	}
	if f.EmployerID != "" {
		q.clauses = append(q.clauses, "j.employer_id::text = "+q.arg(f.EmployerID))
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE substring pattern with wildcards in the
// input escaped.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
