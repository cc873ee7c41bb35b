package audit

import (
	"context"
	"time"

	"go-staff/internal/shared/contextutil"

	"go.uber.org/zap"
)

// StdoutLogger writes audit entries through zap under the "audit" name.
type StdoutLogger struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewStdoutLogger(logger ...*zap.Logger) *StdoutLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &StdoutLogger{logger: l, now: time.Now}
}

func (l *StdoutLogger) Log(ctx context.Context, entry Log) {
	meta := contextutil.ExtractMetadata(ctx)
	l.logger.Info("audit event",
		zap.String("timestamp", l.now().UTC().Format(time.RFC3339)),
		zap.String("request_id", meta.RequestID),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
