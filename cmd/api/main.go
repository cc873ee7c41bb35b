package main

import (
	"go-staff/internal/app"
	"go-staff/internal/audit"
	"go-staff/internal/bootstrap"
	"go-staff/internal/config"
	"go-staff/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	gin.SetMode(cfg.Server.GinMode)

	auditLogger := audit.NewStdoutLogger(logger)

	// build dependency + routes
	r, cleanup, err := app.BuildApp(cfg, auditLogger)
	defer cleanup()
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	bootstrap.StartHTTPServer(r, cfg.Server, auditLogger)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
