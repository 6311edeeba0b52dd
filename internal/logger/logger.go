package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

type ctxKey struct{}

// contextHandler copies the request id stored in the context onto every record.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Output resolves the configured log destination; anything but "stderr" is stdout.
func Output(name string) io.Writer {
	if strings.ToLower(name) == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}

// InitializeWriter sets up the global logger on w; "json" selects the JSON handler.
func InitializeWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(&contextHandler{Handler: handler})
	slog.SetDefault(defaultLogger)
}

func Get() *slog.Logger {
	if defaultLogger == nil {
		InitializeWriter(os.Stdout, "info", "text")
	}
	return defaultLogger
}

// WithRequestID stores id in ctx so *Context log calls carry it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }

func DebugContext(ctx context.Context, msg string, args ...any) { Get().DebugContext(ctx, msg, args...) }
func InfoContext(ctx context.Context, msg string, args ...any)  { Get().InfoContext(ctx, msg, args...) }
func WarnContext(ctx context.Context, msg string, args ...any)  { Get().WarnContext(ctx, msg, args...) }
func ErrorContext(ctx context.Context, msg string, args ...any) { Get().ErrorContext(ctx, msg, args...) }

// WithService returns a logger tagged with the owning service.
func WithService(serviceName string) *slog.Logger {
	return Get().With("service", serviceName)
}

// EnterMethod and ExitMethod trace service and repository calls at debug level.
func EnterMethod(methodName string, args ...any) {
	Get().Debug("→ Method entered", append([]any{"method", methodName, "event", "enter"}, args...)...)
}

func ExitMethod(methodName string, args ...any) {
	Get().Debug("← Method exited", append([]any{"method", methodName, "event", "exit"}, args...)...)
}

func ExitMethodWithError(methodName string, err error, args ...any) {
	Get().Error("← Method exited with error", append([]any{"method", methodName, "event", "exit", "error", err}, args...)...)
}

func DatabaseCall(operation, query string, args ...any) {
	Get().Debug("→ Database call", append([]any{"operation", operation, "query", query}, args...)...)
}

func DatabaseResult(operation string, rowsAffected int64, err error, args ...any) {
	allArgs := append([]any{"operation", operation, "rows_affected", rowsAffected}, args...)
	if err != nil {
		Get().Error("← Database call failed", append(allArgs, "error", err)...)
		return
	}
	Get().Debug("← Database call succeeded", allArgs...)
}

func ExternalServiceCall(service, operation string, args ...any) {
	Get().Debug("→ External service call", append([]any{"service", service, "operation", operation}, args...)...)
}

func ExternalServiceResult(service, operation string, err error, args ...any) {
	allArgs := append([]any{"service", service, "operation", operation}, args...)
	if err != nil {
		Get().Error("← External service call failed", append(allArgs, "error", err)...)
		return
	}
	Get().Debug("← External service call succeeded", allArgs...)
}
