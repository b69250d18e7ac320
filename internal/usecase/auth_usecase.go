package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"

	"github.com/google/uuid"
)

const minPasswordLength = 6

var errInvalidCredentials = apperror.Unauthorized("Invalid credentials")

type authUsecase struct {
	userRepo  domain.UserRepository
	tokens    *auth.TokenManager
	tracker   *security.LoginTracker
	secLogger *security.SecurityLogger
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	tokens *auth.TokenManager,
	tracker *security.LoginTracker,
	secLogger *security.SecurityLogger,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		tokens:    tokens,
		tracker:   tracker,
		secLogger: secLogger,
	}
}

// NormalizeEmail is the canonical stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)

	if name == "" || email == "" || in.Password == "" || in.Role == "" {
		return nil, apperror.BadRequest("Name, email, password and role are required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperror.BadRequest("Email must be a valid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperror.BadRequest("Password must be at least 6 characters")
	}
	if !domain.IsValidRole(in.Role) {
		return nil, apperror.BadRequest("Role must be either employer or developer")
	}

	existing, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("Email already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, apperror.Internal(err)
	}

	requestID, _ := ctx.Value(domain.KeyRequestID).(string)
	u.secLogger.LogUserCreated(ctx, user.ID, user.Role, requestID)

	return u.issue(user)
}

func (u *authUsecase) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperror.BadRequest("Email and password are required")
	}

	blocked, err := u.tracker.IsBlocked(ctx, email, in.IP)
	if err != nil {
		logger.Log.Warn("Login tracker unavailable", "error", err)
	}
	if blocked {
		u.secLogger.LogLoginBlocked(ctx, email, in.IP, in.UserAgent, in.RequestID)
		return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, u.failLogin(ctx, email, in)
		}
		return nil, apperror.Internal(err)
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return nil, u.failLogin(ctx, email, in)
	}

	if err := u.tracker.ClearAttempts(ctx, email, in.IP); err != nil {
		logger.Log.Warn("Failed to clear login attempts", "error", err)
	}
	u.secLogger.LogLoginSuccess(ctx, user.ID, in.IP, in.UserAgent, in.RequestID)

	return u.issue(user)
}

// failLogin records the attempt and picks the error: 429 once the attempt
// trips the block, 401 otherwise.
func (u *authUsecase) failLogin(ctx context.Context, email string, in domain.LoginInput) error {
	blocked, _, err := u.tracker.RecordFailedAttempt(ctx, email, in.IP, in.UserAgent, in.RequestID)
	if err != nil {
		logger.Log.Warn("Failed to record login attempt", "error", err)
	}
	if blocked {
		return apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
	}
	return errInvalidCredentials
}

func (u *authUsecase) issue(user *domain.User) (*domain.AuthResult, error) {
	token, err := u.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{Token: token, User: user}, nil
}

// VerifyToken resolves a bearer token to the identity of a user that still exists.
func (u *authUsecase) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, apperror.Unauthorized("Authorization token required")
	}
	claims, err := u.tokens.Verify(token)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "Invalid or expired token", err)
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("User no longer exists")
		}
		return nil, apperror.Internal(err)
	}

	return &domain.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}
