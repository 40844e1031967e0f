package compiler

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a JSON logger on stderr. Debug enables per-compile
// records; otherwise only warnings and errors are written.
func NewLogger(debug bool) *zap.Logger {
	return newLoggerWithOutput(debug, zapcore.Lock(os.Stderr))
}

func newLoggerWithOutput(debug bool, output zapcore.WriteSyncer) *zap.Logger {
	econf := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	level := zap.WarnLevel
	if debug {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(econf), output, level)
	return zap.New(core).Named("typesql")
}
