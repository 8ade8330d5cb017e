// Package logging provides the default zap loggers used across the SDK.
package logging

import (
	"go.uber.org/zap"
)

// NewLogger returns the production logger used when the caller does not
// supply one via marketclient.WithLogger.
func NewLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

// NewDevelopmentLogger returns a human-readable logger for examples and tests.
func NewDevelopmentLogger() (*zap.Logger, error) {
	return zap.NewDevelopment()
}

// NopLogger discards all output. Components fall back to it when constructed
// without an explicit logger.
func NopLogger() *zap.Logger {
	return zap.NewNop()
}
