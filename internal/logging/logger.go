// Package logging builds the zap loggers handed to every component.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a JSON logger at info level; verbosity 1 enables debug,
// 2 and above switches to the human readable development encoder.
func NewLogger(verbosity int) (*zap.Logger, error) {
	var cfg zap.Config
	switch {
	case verbosity >= 2:
		cfg = zap.NewDevelopmentConfig()
	case verbosity == 1:
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	default:
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

