// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log wraps a global zap.SugaredLogger so the rest of the module
// can log without threading a logger through every call site, the same
// convention used throughout the teacher codebase this module is built on.
package log

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	global = newDefaultLogger()
)

func newDefaultLogger() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		// Fall back to a no-op logger rather than panic on package init.
		l = zap.NewNop()
	}
	return l.Sugar()
}

// ZapConfig is the YAML-serializable subset of zap.Config this module
// exposes to operators.
type ZapConfig struct {
	Level       string `yaml:"level" validate:"nonzero"`
	Development bool   `yaml:"development"`
}

func (c *ZapConfig) applyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// ConfigureLogger builds a *zap.SugaredLogger from config and installs it as
// the package-global logger, returning it to the caller so it can also be
// passed explicitly (e.g. into metrics or other collaborators).
func ConfigureLogger(config ZapConfig) *zap.SugaredLogger {
	config.applyDefaults()

	var level zap.AtomicLevel
	if err := level.UnmarshalText([]byte(config.Level)); err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = level
	zapCfg.Development = config.Development

	zlog, err := zapCfg.Build()
	if err != nil {
		zlog = zap.NewNop()
	}

	sugared := zlog.Sugar()
	SetGlobalLogger(sugared)
	return sugared
}

// SetGlobalLogger installs l as the package-global logger used by the
// package-level helper functions below.
func SetGlobalLogger(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// With returns a child of the global logger annotated with the given
// structured fields, for call sites that want fields rather than Sprintf.
func With(args ...interface{}) *zap.SugaredLogger {
	return current().With(args...)
}

// Debug logs at debug level.
func Debug(args ...interface{}) { current().Debug(args...) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) { current().Debugf(format, args...) }

// Info logs at info level.
func Info(args ...interface{}) { current().Info(args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) { current().Infof(format, args...) }

// Warn logs at warn level.
func Warn(args ...interface{}) { current().Warn(args...) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...interface{}) { current().Warnf(format, args...) }

// Error logs at error level.
func Error(args ...interface{}) { current().Error(args...) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) { current().Errorf(format, args...) }

// Fatal logs at fatal level and exits the process.
func Fatal(args ...interface{}) { current().Fatal(args...) }

// Fatalf logs a formatted message at fatal level and exits the process.
func Fatalf(format string, args ...interface{}) { current().Fatalf(format, args...) }
