package employee

import (
	"go-staff/internal/config"
	"go-staff/internal/middleware"
	"go-staff/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts /employees/. authMW runs first on every route so
// anonymous callers get 401 before any other work.
func RegisterRoutes(
	r gin.IRouter,
	handler *Handler,
	authMW gin.HandlerFunc,
	rbacService rbac.Service,
	rdb *redis.Client,
	limits config.RateLimitConfig,
) {
	employees := r.Group("/employees")
	employees.Use(authMW)
	{
		employees.GET("/",
			middleware.LimitByUser(limits.EmployeeRead),
			rbac.Authorize(rbacService, rbac.ObjectEmployee, rbac.ActionRead),
			handler.List,
		)

		employees.POST("/",
			middleware.LimitByUser(limits.EmployeeWrite),
			rbac.Authorize(rbacService, rbac.ObjectEmployee, rbac.ActionCreate),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		employees.GET("/get_employee/",
			middleware.LimitByUser(limits.EmployeeRead),
			rbac.Authorize(rbacService, rbac.ObjectEmployee, rbac.ActionRead),
			handler.GetMine,
		)

		employees.GET("/:id/",
			middleware.LimitByUser(limits.EmployeeRead),
			rbac.Authorize(rbacService, rbac.ObjectEmployee, rbac.ActionRead),
			handler.GetByID,
		)

		employees.PUT("/:id/",
			middleware.LimitByUser(limits.EmployeeWrite),
			rbac.Authorize(rbacService, rbac.ObjectEmployee, rbac.ActionUpdate),
			handler.Update,
		)

		employees.PATCH("/:id/",
			middleware.LimitByUser(limits.EmployeeWrite),
			rbac.Authorize(rbacService, rbac.ObjectEmployee, rbac.ActionUpdate),
			handler.Patch,
		)

		employees.DELETE("/:id/",
			middleware.LimitByUser(limits.EmployeeDelete),
			rbac.Authorize(rbacService, rbac.ObjectEmployee, rbac.ActionDelete),
			handler.Delete,
		)
	}
}
