// Package logging holds the process-wide zap logger and the helpers the rest
// of the app logs through.
package logging

import (
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// sink pairs a logger with its sugared form so printf helpers don't rebuild it per call.
type sink struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

var current atomic.Pointer[sink]

func newSink(l *zap.Logger) *sink {
	if l == nil {
		l = zap.NewNop()
	}
	return &sink{base: l, sugar: l.Sugar()}
}

func load() *sink {
	if s := current.Load(); s != nil {
		return s
	}
	// Not initialised yet: fall back to a development logger.
	l, _ := zap.NewDevelopment()
	current.CompareAndSwap(nil, newSink(l))
	return current.Load()
}

// GetLogger returns the installed logger.
func GetLogger() *zap.Logger {
	return load().base
}

// SetLogger installs l as the process logger. A nil logger discards output.
// It returns the previously installed logger, if any.
func SetLogger(l *zap.Logger) *zap.Logger {
	prev := current.Swap(newSink(l))
	if prev == nil {
		return nil
	}
	return prev.base
}

// Sync flushes any buffered log entries.
func Sync() {
	if s := current.Load(); s != nil {
		_ = s.base.Sync()
	}
}

func DebugLog(msg string, args ...interface{}) { load().sugar.Debugf(msg, args...) }
func InfoLog(msg string, args ...interface{})  { load().sugar.Infof(msg, args...) }
func WarnLog(msg string, args ...interface{})  { load().sugar.Warnf(msg, args...) }
func ErrorLog(msg string, args ...interface{}) { load().sugar.Errorf(msg, args...) }

// FatalLog logs and exits the process.
func FatalLog(msg string, args ...interface{}) { load().sugar.Fatalf(msg, args...) }

func Info(msg string, fields ...zap.Field)  { load().base.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { load().base.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { load().base.Error(msg, fields...) }

// StatusLevel maps an HTTP status to the level its access line is written at:
// 5xx at error, 4xx at warn, everything else at info.
func StatusLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// Request writes one access line for a finished request.
func Request(status int, fields ...zap.Field) {
	fields = append(fields, zap.Int("status", status))
	load().base.Log(StatusLevel(status), "http request", fields...)
}
