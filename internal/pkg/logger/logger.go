package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger for the app mode: development gets a colored
// console encoder, production gets JSON.
func New(mode string) (*zap.Logger, error) {
	if mode == "prod" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// Must is New that falls back to a no-op logger on error
func Must(mode string) *zap.Logger {
	l, err := New(mode)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
