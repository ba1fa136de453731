package logger

import "go.uber.org/zap"

// FromZap wraps an existing zap logger. Mainly for tests that observe log
// output through zaptest/observer, and for hosts that already manage their
// own zap setup.
func FromZap(module string, z *zap.Logger) *Logger {
	return &Logger{base: z, module: module}
}
