package event

import (
	"context"
	"errors"
	"fmt"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/email"
)

// StatusMailer is the slice of the email service the notifier needs.
type StatusMailer interface {
	SendStatusUpdate(data email.StatusUpdateEmailData) error
}

type statusNotifier struct {
	next   domain.ApplicationEventPublisher
	users  domain.UserRepository
	jobs   domain.JobRepository
	mailer StatusMailer
}

// NewStatusNotifier forwards every event to next and emails the developer
// when an employer changes the status of their application.
func NewStatusNotifier(next domain.ApplicationEventPublisher, users domain.UserRepository, jobs domain.JobRepository, mailer StatusMailer) domain.ApplicationEventPublisher {
	if next == nil {
		next = NewNopPublisher()
	}
	return &statusNotifier{next: next, users: users, jobs: jobs, mailer: mailer}
}

func (n *statusNotifier) Publish(ctx context.Context, evt domain.ApplicationEvent) error {
	err := n.next.Publish(ctx, evt)
	if evt.Type != domain.EventApplicationStatusChanged {
		return err
	}
	return errors.Join(err, n.notify(ctx, evt))
}

func (n *statusNotifier) notify(ctx context.Context, evt domain.ApplicationEvent) error {
	developer, err := n.users.GetByID(ctx, evt.DeveloperID)
	if err != nil {
		return fmt.Errorf("load developer %s: %w", evt.DeveloperID, err)
	}
	job, err := n.jobs.GetByID(ctx, evt.JobID)
	if err != nil {
		return fmt.Errorf("load job %d: %w", evt.JobID, err)
	}

	return n.mailer.SendStatusUpdate(email.StatusUpdateEmailData{
		DeveloperName:  developer.Name,
		DeveloperEmail: developer.Email,
		JobTitle:       job.Title,
		Status:         evt.Status,
	})
}
