package auth

import (
	"go-staff/internal/config"
	"go-staff/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the account endpoints. authMW guards logout.
func RegisterRoutes(r gin.IRoutes, handler *Handler, authMW gin.HandlerFunc, limits config.RateLimitConfig) {
	r.POST("/create_user/", middleware.LimitByIP(limits.CreateUser), handler.CreateUser)
	r.POST("/login/", middleware.LimitByIP(limits.Login), handler.Login)
	r.POST("/logout/", authMW, middleware.LimitByUser(limits.Logout), handler.Logout)
	r.POST("/token/refresh/", middleware.LimitByIP(limits.TokenRefresh), handler.RefreshToken)
}
