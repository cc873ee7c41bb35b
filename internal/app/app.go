package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-staff/internal/audit"
	"go-staff/internal/blacklist"
	"go-staff/internal/config"
	"go-staff/internal/employee"
	"go-staff/internal/messaging/kafka/producer"
	"go-staff/internal/middleware"
	"go-staff/internal/shared/connection"
	"go-staff/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates or updates the tables the API owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&user.User{}, &employee.Employee{}, &blacklist.BlacklistedToken{})
}

// NewRouter builds the gin engine with global middleware and every module
// mounted.
func NewRouter(deps Deps) (*gin.Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.ContextLogger(logger.Named("http")),
		middleware.CORS(deps.Config.CORS.AllowOrigins),
	)

	if err := registerModules(r, deps); err != nil {
		return nil, err
	}
	return r, nil
}

// BuildApp connects the infrastructure, migrates the schema and returns the
// router plus a cleanup func that closes every connection it opened.
func BuildApp(cfg *config.Config, auditLogger audit.Logger) (*gin.Engine, func(), error) {
	logger := zap.L().Named("app")
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// 1. Setup Infrastructure
	db, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, cleanup, err
	}
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, func() { _ = sqlDB.Close() })
	}

	if err := Migrate(db); err != nil {
		return nil, cleanup, err
	}
	logger.Info("database migrated")

	rdb, err := connection.ConnectOptionalRedis(cfg.Redis)
	if err != nil {
		return nil, cleanup, err
	}
	if rdb != nil {
		closers = append(closers, func() { _ = rdb.Close() })
	} else {
		logger.Info("REDIS_ADDR not set, caching and idempotency are disabled")
	}

	publisher := producer.Nop()
	if cfg.Kafka.Broker != "" {
		writer, err := connection.ConnectKafkaWithRetry(cfg.Kafka)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { _ = writer.Close() })
		publisher = producer.NewPublisher(writer, logger)
	} else {
		logger.Info("KAFKA_BROKER not set, employee events are not published")
	}

	rbacService, err := NewRBACService(cfg, zap.L())
	if err != nil {
		return nil, cleanup, err
	}
	if cfg.RBAC.PolicyPath != "" {
		ctx, cancel := context.WithCancel(context.Background())
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		go ReloadPolicyOnSignal(ctx, rbacService, hup, zap.L())
		closers = append(closers, func() {
			signal.Stop(hup)
			cancel()
		})
	}

	// 2. Register Modules & Routes
	r, err := NewRouter(Deps{
		Config:    cfg,
		DB:        db,
		Redis:     rdb,
		Publisher: publisher,
		RBAC:      rbacService,
		Audit:     auditLogger,
		Logger:    zap.L(),
	})
	if err != nil {
		return nil, cleanup, err
	}
	return r, cleanup, nil
}
