package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-jobboard-backend/internal/domain"

	"github.com/ecodeclub/ecache"
)

var ErrKeyNotFound = errors.New("key not found")

const defaultUserExpiration = 15 * time.Minute

type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

// cachedUser is the profile projection stored in Redis. The password hash
// never leaves Postgres; users read back from the cache carry none.
type cachedUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserECache struct {
	cache      ecache.Cache
	expiration time.Duration
}

func NewUserECache(c ecache.Cache) UserCache {
	return &UserECache{
		cache: &ecache.NamespaceCache{
			Namespace: "user:",
			C:         c,
		},
		expiration: defaultUserExpiration,
	}
}

func (c *UserECache) Get(ctx context.Context, id string) (*domain.User, error) {
	val := c.cache.Get(ctx, c.key(id))
	if val.KeyNotFound() {
		return nil, ErrKeyNotFound
	}
	var cu cachedUser
	if err := val.JSONScan(&cu); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:        cu.ID,
		Name:      cu.Name,
		Email:     cu.Email,
		Role:      cu.Role,
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}, nil
}

func (c *UserECache) Set(ctx context.Context, u *domain.User) error {
	data, err := json.Marshal(cachedUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, c.key(u.ID), data, c.expiration)
}

func (c *UserECache) Delete(ctx context.Context, id string) error {
	_, err := c.cache.Delete(ctx, c.key(id))
	return err
}

func (c *UserECache) key(id string) string {
	return fmt.Sprintf("jobboard:user:info:%s", id)
}
