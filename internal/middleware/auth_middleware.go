package middleware

import (
	"strings"

	"go-staff/internal/shared/apperror"
	"go-staff/internal/shared/contextutil"
	"go-staff/internal/shared/response"
	"go-staff/internal/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserID  = "user_id"
	ContextIsStaff = "is_staff"
)

// TokenVerifier is satisfied by *token.Manager.
type TokenVerifier interface {
	Parse(raw, expectedType string) (*token.Claims, error)
}

// AuthMiddleware requires a valid access token in the Authorization
// header. Every failure is the same 401 so callers cannot tell a missing
// token from a bad one.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !found || raw == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := verifier.Parse(raw, token.TypeAccess)
		if err != nil {
			contextutil.GetLogger(c.Request.Context(), zap.L()).
				Debug("access token rejected", zap.Error(err))
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextIsStaff, claims.IsStaff)

		ctx := contextutil.WithUserID(c.Request.Context(), claims.UserID)
		ctx = contextutil.WithLogger(ctx,
			contextutil.GetLogger(ctx, zap.L()).With(zap.Uint("user_id", claims.UserID)),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	e := apperror.ErrUnauthorized
	response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
	c.Abort()
}
