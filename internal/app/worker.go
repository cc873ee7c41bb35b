package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-staff/internal/blacklist"
	"go-staff/internal/config"
	"go-staff/internal/shared/connection"

	"go.uber.org/zap"
)

// Purger is the part of blacklist.Store the worker drives.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PurgeLoop deletes expired blacklist entries every interval until ctx is
// cancelled. One pass runs immediately.
func PurgeLoop(ctx context.Context, purger Purger, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	log := logger.Named("blacklist.purge")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("blacklist purge worker started", zap.Duration("interval", interval))

	for {
		n, err := purger.PurgeExpired(ctx)
		if err != nil {
			log.Error("purge expired tokens failed", zap.Error(err))
		} else if n > 0 {
			log.Info("purged expired tokens", zap.Int64("count", n))
		}

		select {
		case <-ctx.Done():
			log.Info("blacklist purge worker stopped")
			return
		case <-ticker.C:
		}
	}
}

func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// the purge also works without redis, cached entries expire on their own
	store := blacklist.NewStore(blacklist.NewRepository(gormDB), nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		PurgeLoop(ctx, store, cfg.Worker.PurgeInterval, logger)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()
	<-done

	return nil
}
