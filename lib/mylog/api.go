package mylog

import "context"

type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// New is bound at init-time to either the structured gcloud logger or the
// plain stderr logger, depending on the environment.
var New func(name string) Logger

type Logger interface {
	Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...any)
}
