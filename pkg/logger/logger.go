// nolint: sloglint
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/pkg/logger/slogx"
)

// DefaultLevel is the reporting level before Init is called.
const DefaultLevel = slog.LevelDebug

var (
	lvl = new(slog.LevelVar)

	// top-level logger
	logger *slog.Logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: levelAttrReplacer,
	}))
)

func init() {
	lvl.Set(DefaultLevel)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

// SetLevel sets the minimum reporting level and returns the previous one.
func SetLevel(level slog.Level) (old slog.Level) {
	old = lvl.Level()
	lvl.Set(level)
	return old
}

// With returns a Logger that includes the given attributes in each record.
func With(args ...any) *slog.Logger {
	return logger.With(args...)
}

// Error logs at [LevelError] without a request context.
func Error(msg string, args ...any) {
	log(context.Background(), logger, slog.LevelError, msg, args...)
}

// Panic logs at [LevelPanic] and then panics.
func Panic(msg string, args ...any) {
	log(context.Background(), logger, LevelPanic, msg, args...)
	panic(msg)
}

// LogAttrs is a more efficient version of [LogContext] that accepts only Attrs.
func LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, FromContext(ctx), level, msg, attrs...)
}

type Config struct {
	// Output is the record format: TEXT (default), JSON or GCP (Cloud Logging JSON).
	Output string `mapstructure:"output"`

	// Debug lowers the level to DEBUG and adds source and error stack traces to records.
	Debug bool `mapstructure:"debug"`

	// Level overrides the minimum level, e.g. "warn". Ignored when Debug is set.
	Level string `mapstructure:"level"`

	// Service is attached to every record as the "service" attribute when it's not empty.
	Service string `mapstructure:"service"`
}

var defaultAttrReplacers = []func([]string, slog.Attr) slog.Attr{
	levelAttrReplacer,
	errorAttrReplacer,
}

// Init replaces the global logger and the slog default logger. Records are written to stdout.
func Init(cfg Config) error {
	return initWithWriter(cfg, os.Stdout)
}

func initWithWriter(cfg Config, w io.Writer) error {
	level := slog.LevelInfo
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return errors.Wrapf(err, "invalid log level %q", cfg.Level)
		}
	}

	options := &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: attrReplacerChain(defaultAttrReplacers...),
	}
	var middlewares []middleware
	if cfg.Debug {
		level = slog.LevelDebug
		options.AddSource = true
		middlewares = append(middlewares, middlewareErrorStackTrace())
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Output) {
	case "json":
		handler = slog.NewJSONHandler(w, options)
	case "gcp":
		handler = newGCPHandler(w, options)
	case "", "text":
		handler = slog.NewTextHandler(w, options)
	default:
		return errors.Errorf("unsupported log output %q", cfg.Output)
	}

	lvl.Set(level)
	logger = slog.New(newChainHandlers(handler, middlewares...))
	if cfg.Service != "" {
		logger = logger.With(slogx.String("service", cfg.Service))
	}
	slog.SetDefault(logger)
	return nil
}

func attrReplacerChain(replacers ...func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, attr slog.Attr) slog.Attr {
		for _, replacer := range replacers {
			attr = replacer(groups, attr)
		}
		return attr
	}
}

// log must be called directly by an exported logging function,
// the caller's pc is taken at a fixed depth.
func log(ctx context.Context, l *slog.Logger, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, level) {
		return
	}

	r := slog.NewRecord(time.Now(), level, msg, callerPC())
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}

func logAttrs(ctx context.Context, l *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, level) {
		return
	}

	r := slog.NewRecord(time.Now(), level, msg, callerPC())
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}

func callerPC() uintptr {
	var pcs [1]uintptr
	// skip [runtime.Callers, callerPC, log, exported logging function]
	runtime.Callers(4, pcs[:])
	return pcs[0]
}
