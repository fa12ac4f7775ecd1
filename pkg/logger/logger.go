package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

func init() {
	log = build("info")
}

// Init reconfigures the global logger. Unknown levels fall back to info.
func Init(level string) {
	log = build(level)
}

func build(level string) *zap.SugaredLogger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar()
}

func Info(msg string, args ...any) {
	log.Infow(msg, args...)
}

func Error(msg string, args ...any) {
	log.Errorw(msg, args...)
}

func Debug(msg string, args ...any) {
	log.Debugw(msg, args...)
}

func Warn(msg string, args ...any) {
	log.Warnw(msg, args...)
}
