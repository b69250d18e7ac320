package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token and stores the caller's identity
// in the gin context.
func AuthMiddleware(authUC domain.AuthUsecase, secLogger *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			secLogger.LogAccessDenied(c.Request.Context(), security.EventUnauthorizedAccess,
				c.ClientIP(), c.ClientIP(), c.GetString(string(domain.KeyRequestID)), c.FullPath())
			response.Abort(c, http.StatusUnauthorized, "Authorization token required")
			return
		}

		identity, err := authUC.VerifyToken(c.Request.Context(), token)
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Code == http.StatusUnauthorized {
				secLogger.LogAccessDenied(c.Request.Context(), security.EventUnauthorizedAccess,
					c.ClientIP(), c.ClientIP(), c.GetString(string(domain.KeyRequestID)), c.FullPath())
				response.Abort(c, http.StatusUnauthorized, appErr.Message)
				return
			}
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), identity.UserID)
		c.Set(string(domain.KeyUserEmail), identity.Email)
		c.Set(string(domain.KeyUserRole), identity.Role)

		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not in roles.
func RequireRole(secLogger *security.SecurityLogger, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(string(domain.KeyUserRole))
		if !allowed[role] {
			secLogger.LogAccessDenied(c.Request.Context(), security.EventForbiddenAccess,
				c.GetString(string(domain.KeyUserID)), c.ClientIP(), c.GetString(string(domain.KeyRequestID)), c.FullPath())
			response.Abort(c, http.StatusForbidden, "Only "+strings.Join(roles, " or ")+" accounts can perform this action")
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
