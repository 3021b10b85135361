package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	CorrelatedIDKey     contextKey = "correlation_id"
	LoggerKeyForContext contextKey = "logger"
)

type Logger struct {
	*slog.Logger
}

// Config selects the level and encoding of a Logger. Unknown values fall
// back to info and json.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

func New(cfg Config, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

func NewLoggerWithJSONOutput() *Logger {
	return New(Config{}, os.Stdout)
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

func (l *Logger) WithCorrelationID(ctx context.Context) *Logger {
	return l.With(string(CorrelatedIDKey), GetOrGenerateCorrelationID(ctx))
}

func GetOrGenerateCorrelationID(ctx context.Context) string {
	if ctx != nil {
		if id, ok := ctx.Value(CorrelatedIDKey).(string); ok && id != "" {
			return id
		}
	}
	return GenerateCorrelationID()
}

func GenerateCorrelationID() string {
	return uuid.NewString()
}

// GetLoggerInstanceFromContext prefers the request-scoped logger stored by
// the router, then a correlated copy of fallbackLogger.
func GetLoggerInstanceFromContext(ctx context.Context, fallbackLogger *Logger) *Logger {
	if fallbackLogger == nil {
		fallbackLogger = NewLoggerWithJSONOutput()
	}
	if ctx == nil {
		return fallbackLogger
	}

	if l, ok := ctx.Value(LoggerKeyForContext).(*Logger); ok && l != nil {
		return l
	}
	return fallbackLogger.WithCorrelationID(ctx)
}
