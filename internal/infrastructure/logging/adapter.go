package logging

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ZapAdapter exposes a zap logger through the application Logger port
type ZapAdapter struct {
	logger *zap.Logger
}

// NewZapAdapter wraps a zap logger; nil yields a no-op logger
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapAdapter{logger: logger}
}

// Log writes message at the named level with metadata as structured fields.
// Unknown levels are logged at info.
func (a *ZapAdapter) Log(level, message string, metadata map[string]interface{}) {
	fields := make([]zap.Field, 0, len(metadata))
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, metadata[k]))
	}

	switch strings.ToUpper(level) {
	case "DEBUG":
		a.logger.Debug(message, fields...)
	case "WARN", "WARNING":
		a.logger.Warn(message, fields...)
	case "ERROR":
		a.logger.Error(message, fields...)
	default:
		a.logger.Info(message, fields...)
	}
}

// Zap returns the underlying logger
func (a *ZapAdapter) Zap() *zap.Logger {
	return a.logger
}

// Sync flushes buffered entries
func (a *ZapAdapter) Sync() error {
	return a.logger.Sync()
}
