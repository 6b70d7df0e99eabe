package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production json logger at the given level. Empty level means
// info.
func New(level string) (*zap.Logger, error) {

	l := zapcore.InfoLevel
	if level != "" {
		err := l.UnmarshalText([]byte(level))
		if err != nil {
			return nil, fmt.Errorf("log level '%s': %w", level, err)
		}
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(l)
	config.DisableStacktrace = l > zapcore.DebugLevel

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}
