package rbac

import (
	"go-staff/internal/middleware"
	"go-staff/internal/shared/apperror"
	"go-staff/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Authorize runs after authentication and checks the caller's subject
// against object and action.
func Authorize(service Service, object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(middleware.ContextUserID); !ok {
			writeError(c, apperror.ErrUnauthorized)
			return
		}

		req := EnforceRequest{
			Subject: SubjectFor(c.GetBool(middleware.ContextIsStaff)),
			Object:  object,
			Action:  action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			writeError(c, err)
			return
		}
		if !allowed {
			writeError(c, apperror.ErrForbidden)
			return
		}

		c.Next()
	}
}

func writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}
