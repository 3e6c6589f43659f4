// Package logger builds the structured JSON loggers used across webutils.
//
// Loggers are zap loggers writing one JSON object per line with an ISO 8601
// timestamp, the level, the message and any structured fields. Components
// accept a *zap.Logger and fall back to a no-op logger when given nil.
//
// Example usage:
//
//	log, err := logger.FromName("debug", os.Stderr)
//	if err != nil {
//	    return err
//	}
//	log.Info("storage selected", zap.String("strategy", "cookie"))
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ParseLevel converts a level name such as "info" or "WARN" to a Level
func ParseLevel(name string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(name))) {
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo:
		return LevelInfo, nil
	case LevelWarn:
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	default:
		return "", fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", name)
	}
}

// zapLevel maps a Level onto zap's levels
func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a logger writing JSON lines to output.
// Messages below level are discarded.
func New(level Level, output *os.File) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(output),
		level.zapLevel(),
	)
	return zap.New(core)
}

// FromName parses name and creates a logger writing to output
func FromName(name string, output *os.File) (*zap.Logger, error) {
	level, err := ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return New(level, output), nil
}

// OrNop returns l, or a no-op logger when l is nil
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
