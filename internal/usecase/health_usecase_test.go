package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go-jobboard-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestHealthUsecase_Check(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("All up", func(t *testing.T) {
		status := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
			"database": up,
			"redis":    nil,
		}).Check(context.Background())

		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, map[string]string{"database": "up", "redis": "disabled"}, status.Services)
	})

	t.Run("One down", func(t *testing.T) {
		status := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
			"database": down,
			"redis":    up,
		}).Check(context.Background())

		assert.Equal(t, "degraded", status.Status)
		assert.Equal(t, "down", status.Services["database"])
		assert.Equal(t, "up", status.Services["redis"])
	})
}
