package audit

import "context"

const (
	ActionUserCreated    = "USER_CREATED"
	ActionLogin          = "LOGIN"
	ActionLoginFailed    = "LOGIN_FAILED"
	ActionLogout         = "LOGOUT"
	ActionServerShutdown = "SERVER_SHUTDOWN"
)

type Log struct {
	Action  string
	Message string
	Meta    map[string]any
}

type Logger interface {
	Log(ctx context.Context, entry Log)
}

type noopLogger struct{}

func (noopLogger) Log(context.Context, Log) {}

// Nop discards every entry.
func Nop() Logger {
	return noopLogger{}
}
