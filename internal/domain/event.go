package domain

import (
	"context"
	"time"
)

const (
	EventApplicationSubmitted     = "application.submitted"
	EventApplicationStatusChanged = "application.status_changed"
)

// ApplicationEvent is published after an application is created or moved
// through its lifecycle.
type ApplicationEvent struct {
	Type          string    `json:"type"`
	ApplicationID int64     `json:"application_id"`
	JobID         int64     `json:"job_id"`
	DeveloperID   string    `json:"developer_id"`
	EmployerID    string    `json:"employer_id"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type ApplicationEventPublisher interface {
	Publish(ctx context.Context, evt ApplicationEvent) error
}
