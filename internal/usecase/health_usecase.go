package usecase

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type healthUsecase struct {
	checks map[string]HealthCheck
}

// NewHealthUsecase reports on each named check. A nil check is listed as
// "disabled" and does not degrade the overall status.
func NewHealthUsecase(checks map[string]HealthCheck) domain.HealthUsecase {
	return &healthUsecase{checks: checks}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := domain.HealthStatus{Status: "ok", Services: map[string]string{}}
	for name, check := range u.checks {
		switch {
		case check == nil:
			status.Services[name] = "disabled"
		case check(ctx) != nil:
			status.Services[name] = "down"
			status.Status = "degraded"
		default:
			status.Services[name] = "up"
		}
	}
	return status
}
