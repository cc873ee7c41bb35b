package app

import (
	"net/http"

	"go-staff/internal/audit"
	"go-staff/internal/auth"
	"go-staff/internal/blacklist"
	"go-staff/internal/config"
	"go-staff/internal/employee"
	"go-staff/internal/messaging/kafka/producer"
	"go-staff/internal/middleware"
	"go-staff/internal/rbac"
	"go-staff/internal/rbac/infra"
	"go-staff/internal/token"
	"go-staff/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is the infrastructure the HTTP modules are built on. Redis,
// Publisher and RBAC are optional; a nil RBAC is built from the config.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *redis.Client
	Publisher producer.Publisher
	RBAC      rbac.Service
	Audit     audit.Logger
	Logger    *zap.Logger
}

// NewRBACService builds the policy enforcer from cfg.RBAC.
func NewRBACService(cfg *config.Config, logger *zap.Logger) (rbac.Service, error) {
	enforcer, err := infra.NewEnforcer(cfg.RBAC.PolicyPath)
	if err != nil {
		return nil, err
	}
	return rbac.NewService(enforcer, logger), nil
}

func registerModules(router *gin.Engine, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = producer.Nop()
	}
	limits := deps.Config.RateLimit
	if limits == (config.RateLimitConfig{}) {
		limits = config.DefaultRateLimits()
	}

	// --- Repositories ---
	userRepo := user.NewRepository(deps.DB)
	blacklistRepo := blacklist.NewRepository(deps.DB)
	employeeRepo := employee.NewRepository(deps.DB)

	// --- Core ---
	tokens, err := token.NewManager(token.Config{
		Secret:     deps.Config.JWT.Secret,
		Issuer:     deps.Config.JWT.Issuer,
		AccessTTL:  deps.Config.JWT.AccessTTL,
		RefreshTTL: deps.Config.JWT.RefreshTTL,
	})
	if err != nil {
		return err
	}

	rbacService := deps.RBAC
	if rbacService == nil {
		if rbacService, err = NewRBACService(deps.Config, logger); err != nil {
			return err
		}
	}

	// --- Services ---
	blacklistStore := blacklist.NewStore(blacklistRepo, deps.Redis, logger)
	authService := auth.NewService(userRepo, tokens, blacklistStore, deps.Audit, auth.WithLogger(logger))
	employeeService := employee.NewService(
		employeeRepo,
		deps.Redis,
		employee.NewKafkaEventPublisher(publisher, deps.Config.Kafka.Topic),
		employee.WithLogger(logger),
		employee.WithPublishTimeout(deps.Config.Kafka.PublishTimeout),
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)

	// --- Routes Registration ---
	authMW := middleware.AuthMiddleware(tokens)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	auth.RegisterRoutes(router, authHandler, authMW, limits)
	employee.RegisterRoutes(router, employeeHandler, authMW, rbacService, deps.Redis, limits)

	return nil
}
