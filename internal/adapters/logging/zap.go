// Package logging contains logger adapter implementations.
package logging

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/example/covmeter/internal/ports/secondary"
)

// ZapLogger implements secondary.Logger on top of a zap sugared logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a production zap logger.
func NewZapLogger() (*ZapLogger, error) {
	base, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &ZapLogger{sugar: base.Sugar()}, nil
}

// Infof logs at info level.
func (l *ZapLogger) Infof(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

// Warnf logs at warn level.
func (l *ZapLogger) Warnf(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

// Errorf logs at error level.
func (l *ZapLogger) Errorf(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

// Sync flushes buffered log entries. Call before process exit.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

// NopLogger discards all log output.
type NopLogger struct{}

func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// Ensure both loggers implement the interface
var _ secondary.Logger = (*ZapLogger)(nil)
var _ secondary.Logger = NopLogger{}
