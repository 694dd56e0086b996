package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Init builds the process-wide logger. Production uses JSON output, anything
// else the console encoder at debug level. A non-empty filename adds a
// rotating JSON file sink.
func Init(environment, filename string) {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	if environment == "production" {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		consoleEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level),
	}

	if filename != "" {
		rotator := &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			level,
		))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(2))

	mu.Lock()
	log = l
	mu.Unlock()
}

// Sync flushes buffered entries.
func Sync() {
	_ = current().Sync()
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, args ...any) { write(zapcore.DebugLevel, msg, args) }
func Info(msg string, args ...any)  { write(zapcore.InfoLevel, msg, args) }
func Warn(msg string, args ...any)  { write(zapcore.WarnLevel, msg, args) }
func Error(msg string, args ...any) { write(zapcore.ErrorLevel, msg, args) }

// Fatal logs and exits the process.
func Fatal(msg string, args ...any) { write(zapcore.FatalLevel, msg, args) }

func write(level zapcore.Level, msg string, args []any) {
	l := current()
	if ce := l.Check(level, msg); ce != nil {
		ce.Write(fields(args)...)
	}
}

// fields accepts slog-style key/value pairs. Bare errors become an "error"
// field and dangling values are kept under a positional key.
func fields(args []any) []zap.Field {
	out := make([]zap.Field, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case zap.Field:
			out = append(out, v)
		case error:
			out = append(out, zap.Error(v))
		case string:
			if i+1 < len(args) {
				out = append(out, zap.Any(v, args[i+1]))
				i++
				continue
			}
			out = append(out, zap.String(fmt.Sprintf("arg%d", i), v))
		default:
			out = append(out, zap.Any(fmt.Sprintf("arg%d", i), v))
		}
	}
	return out
}
