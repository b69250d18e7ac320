package security

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const insertSecurityEvent = `
	INSERT INTO security_events (
		event_type, service, environment, level,
		subject_type, subject_value, ip_address, user_agent,
		request_id, details, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Execer is satisfied by *pgxpool.Pool.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// NewPersistFunc stores events in the security_events table.
func NewPersistFunc(db Execer) PersistFunc {
	return func(ctx context.Context, event SecurityEvent) error {
		var ipAddr any
		if event.IP != "" {
			ipAddr = event.IP
		}

		_, err := db.Exec(ctx, insertSecurityEvent,
			string(event.Event),
			event.Service,
			event.Environment,
			event.Level,
			event.SubjectType,
			event.SubjectValue,
			ipAddr,
			event.UserAgent,
			event.RequestID,
			encodeDetails(event.Details),
			event.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to persist security event: %w", err)
		}
		return nil
	}
}

// encodeDetails renders the JSONB column as text; the pool runs in simple
// protocol mode where []byte would be sent as bytea.
func encodeDetails(details map[string]interface{}) string {
	if len(details) == 0 {
		return "null"
	}
	b, err := json.Marshal(details)
	if err != nil {
		return "null"
	}
	return string(b)
}
