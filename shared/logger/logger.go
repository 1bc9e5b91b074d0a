// shared/logger/logger.go
package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger is the logging interface injected into every component.
// Components should take a Named logger: lggr.Named("table-service").
type Logger interface {
	Named(name string) Logger
	With(keysAndValues ...any) Logger

	Debugf(format string, values ...any)
	Infof(format string, values ...any)
	Warnf(format string, values ...any)
	Errorf(format string, values ...any)
	Fatalf(format string, values ...any)

	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)

	// Sync flushes any buffered log entries.
	Sync() error
}

// New returns a production (JSON) logger at the given level ("debug", "info", ...).
func New(level string) (Logger, error) {
	return NewWith(func(cfg *zap.Config) {
		cfg.Level.SetLevel(parseLevel(level))
	})
}

// NewCLI returns a console logger for command line tools.
func NewCLI(level string) (Logger, error) {
	return NewWith(func(cfg *zap.Config) {
		*cfg = zap.NewDevelopmentConfig()
		cfg.Level.SetLevel(parseLevel(level))
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	})
}

// NewWith returns a Logger built from a modified production [zap.Config].
func NewWith(cfgFn func(*zap.Config)) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfgFn(&cfg)
	core, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &logger{core.Sugar()}, nil
}

// Test returns a Logger that writes through tb.
func Test(tb testing.TB) Logger {
	tb.Helper()
	return &logger{zaptest.NewLogger(tb).Sugar()}
}

// Nop returns a no-op Logger.
func Nop() Logger {
	return &logger{zap.New(zapcore.NewNopCore()).Sugar()}
}

func parseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

type logger struct {
	*zap.SugaredLogger
}

func (l *logger) Named(name string) Logger {
	return &logger{l.SugaredLogger.Named(name)}
}

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{l.SugaredLogger.With(keysAndValues...)}
}
