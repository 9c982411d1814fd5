// Package logger provides structured logging using Zap.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// New builds a sugared logger for the given environment: JSON output for
// "production", nothing at all for "test", and a console encoder otherwise.
func New(env string) (*zap.SugaredLogger, error) {
	var (
		base *zap.Logger
		err  error
	)

	switch env {
	case "production":
		base, err = zap.NewProduction()
	case "test":
		base = zap.NewNop()
	default:
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return base.Sugar(), nil
}

// Init initializes the global logger once. Later calls are no-ops.
func Init(env string) {
	once.Do(func() {
		l, err := New(env)
		if err != nil {
			l = zap.NewNop().Sugar()
		}
		sugar = l
	})
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
