package domain

import (
	"context"
	"time"
)

const (
	RoleEmployer  = "employer"
	RoleDeveloper = "developer"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the identity embedded in job and application responses.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Identity is what a verified token resolves to.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginInput carries request metadata for brute-force tracking.
type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
	RequestID string
}

func IsValidRole(role string) bool {
	return role == RoleEmployer || role == RoleDeveloper
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	VerifyToken(ctx context.Context, token string) (*Identity, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}
