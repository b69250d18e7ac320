package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is idempotent and applied on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('employer', 'developer')),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS jobs (
	id          BIGSERIAL PRIMARY KEY,
	employer_id UUID NOT NULL REFERENCES users(id),
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	skills      TEXT[] NOT NULL DEFAULT '{}',
	salary      NUMERIC(14, 2) NOT NULL,
	location    TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_jobs_employer_id ON jobs (employer_id);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs (created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_jobs_skills ON jobs USING GIN (skills);

CREATE TABLE IF NOT EXISTS applications (
	id           BIGSERIAL PRIMARY KEY,
	job_id       BIGINT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
	developer_id UUID NOT NULL REFERENCES users(id),
	message      TEXT,
	resume       TEXT,
	status       TEXT NOT NULL DEFAULT 'applied'
	             CHECK (status IN ('applied', 'reviewed', 'accepted', 'rejected')),
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT uq_applications_job_developer UNIQUE (job_id, developer_id)
);

CREATE INDEX IF NOT EXISTS idx_applications_developer_id ON applications (developer_id);

CREATE TABLE IF NOT EXISTS security_events (
	id            BIGSERIAL PRIMARY KEY,
	event_type    TEXT NOT NULL,
	service       TEXT NOT NULL,
	environment   TEXT NOT NULL,
	level         TEXT NOT NULL,
	subject_type  TEXT,
	subject_value TEXT,
	ip_address    INET,
	user_agent    TEXT,
	request_id    TEXT,
	details       JSONB,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate creates the tables the API depends on.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
