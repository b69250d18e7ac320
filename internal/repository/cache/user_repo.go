package cache

import (
	"context"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/logger"
)

// CachedUserRepository serves GetByID from the cache and falls through to
// the wrapped repository on a miss or cache failure.
type CachedUserRepository struct {
	repo  domain.UserRepository
	cache UserCache
}

func NewCachedUserRepository(repo domain.UserRepository, cache UserCache) domain.UserRepository {
	return &CachedUserRepository{repo: repo, cache: cache}
}

func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.repo.Create(ctx, user)
}

func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.cache.Get(ctx, id)
	if err == nil {
		return u, nil
	}

	u, err = r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, u); err != nil {
		logger.Log.Warn("Failed to cache user", "user_id", id, "error", err)
	}
	return u, nil
}

func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.repo.GetByEmail(ctx, email)
}
