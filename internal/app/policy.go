package app

import (
	"context"
	"os"

	"go-staff/internal/rbac"

	"go.uber.org/zap"
)

// ReloadPolicyOnSignal reloads the casbin policy file each time a signal
// arrives on sig, until ctx is cancelled. A failed reload keeps the
// previous policy.
func ReloadPolicyOnSignal(ctx context.Context, svc rbac.Service, sig <-chan os.Signal, logger *zap.Logger) {
	log := logger.Named("rbac.reload")
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-sig:
			if err := svc.Reload(); err != nil {
				log.Error("rbac policy reload failed", zap.String("signal", s.String()), zap.Error(err))
				continue
			}
			log.Info("rbac policy reloaded", zap.String("signal", s.String()))
		}
	}
}
