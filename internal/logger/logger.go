// Package logger builds the zap logger shared by every component.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for the given level (debug, info, warn, error) and
// format (json or console). An unknown level falls back to info.
func New(level, format string) (*zap.Logger, error) {
	var zapConfig zap.Config
	if strings.EqualFold(level, "debug") {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if err := zapConfig.Level.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid LOG_LEVEL %q, defaulting to info\n", level)
		zapConfig.Level.SetLevel(zapcore.InfoLevel)
	}

	switch strings.ToLower(format) {
	case "console", "text":
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapConfig.Encoding = "json"
	}

	log, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}
