// Package logging contains the leveled, named loggers used by accelcv.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// NewLoggerConfig returns a new default logger config.
func NewLoggerConfig() zap.Config {
	// from https://github.com/uber-go/zap/blob/2314926ec34c23ee21f3dd4399438469668f8097/config.go#L135
	// but disable stacktraces, use same keys as prod, and color levels.
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// NewLogger returns a new logger that outputs Info+ logs to stdout.
func NewLogger(name string) Logger {
	return newLogger(name, zap.InfoLevel)
}

func newLogger(name string, level zapcore.Level) Logger {
	config := NewLoggerConfig()
	atomicLevel := zap.NewAtomicLevelAt(level)
	config.Level = atomicLevel
	return &impl{
		SugaredLogger: zap.Must(config.Build()).Sugar().Named(name),
		level:         atomicLevel,
	}
}

// NewTestLogger returns a new logger that outputs Debug+ logs through the test's Log method.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also saves logs to an in memory observer.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	atomicLevel := zap.NewAtomicLevelAt(zap.DebugLevel)
	testCore := zaptest.NewLogger(tb, zaptest.Level(atomicLevel)).Core()
	observerCore, observedLogs := observer.New(atomicLevel)

	logger := zap.New(zapcore.NewTee(testCore, observerCore), zap.AddCaller())
	return &impl{SugaredLogger: logger.Sugar(), level: atomicLevel}, observedLogs
}

