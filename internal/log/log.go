// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a small structured logging interface so that packages don't need
// to depend on zap directly.
type Logger interface {
	// With creates a new logger which will include the provided key/value in each log message
	With(key string, value interface{}) Logger
	// WithValues creates a new logger which will include all the provided key/value(s) in each log message
	WithValues(values map[string]interface{}) Logger
	Trace(msg string, additionalFields ...map[string]interface{})
	Debug(msg string, additionalFields ...map[string]interface{})
	Info(msg string, additionalFields ...map[string]interface{})
	Warn(msg string, additionalFields ...map[string]interface{})
	Error(msg string, additionalFields ...map[string]interface{})
}

// NewLogger returns a development logger at the given level.
func NewLogger(level zapcore.Level) (Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level.SetLevel(level)
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return NewZapLogger(l.Sugar()), nil
}

// NewZapLogger wraps an existing sugared logger.
func NewZapLogger(l *zap.SugaredLogger) Logger {
	return &logger{log: l}
}

type logger struct {
	log *zap.SugaredLogger
}

func (l *logger) With(key string, value interface{}) Logger {
	return &logger{log: l.log.With(key, value)}
}

func (l *logger) WithValues(values map[string]interface{}) Logger {
	return &logger{log: l.log.With(keysAndValues(values)...)}
}

// Trace logs at debug level, zap has nothing lower.
func (l *logger) Trace(msg string, additionalFields ...map[string]interface{}) {
	l.log.Debugw(msg, keysAndValues(additionalFields...)...)
}

func (l *logger) Debug(msg string, additionalFields ...map[string]interface{}) {
	l.log.Debugw(msg, keysAndValues(additionalFields...)...)
}

func (l *logger) Info(msg string, additionalFields ...map[string]interface{}) {
	l.log.Infow(msg, keysAndValues(additionalFields...)...)
}

func (l *logger) Warn(msg string, additionalFields ...map[string]interface{}) {
	l.log.Warnw(msg, keysAndValues(additionalFields...)...)
}

func (l *logger) Error(msg string, additionalFields ...map[string]interface{}) {
	l.log.Errorw(msg, keysAndValues(additionalFields...)...)
}

func keysAndValues(fields ...map[string]interface{}) []interface{} {
	kvs := []interface{}{}
	for _, f := range fields {
		for k, v := range f {
			kvs = append(kvs, k, v)
		}
	}

	return kvs
}

type noopLogger struct{}

func NewNoopLogger() Logger {
	return noopLogger{}
}

func (n noopLogger) With(key string, value interface{}) Logger {
	return n
}

func (n noopLogger) WithValues(m map[string]interface{}) Logger {
	return n
}

func (n noopLogger) Trace(msg string, additionalFields ...map[string]interface{}) {
}

func (n noopLogger) Debug(msg string, additionalFields ...map[string]interface{}) {
}

func (n noopLogger) Info(msg string, additionalFields ...map[string]interface{}) {
}

func (n noopLogger) Warn(msg string, additionalFields ...map[string]interface{}) {
}

func (n noopLogger) Error(msg string, additionalFields ...map[string]interface{}) {
}
