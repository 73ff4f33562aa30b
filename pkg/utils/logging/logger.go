package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	dir          string
	consoleLevel zapcore.Level
	console      zapcore.WriteSyncer
}

// Option customises InitLogger
type Option func(*options)

// WithDir writes log files to dir instead of ./logs
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithConsoleLevel sets the minimum level printed to the console. The file always gets Debug.
func WithConsoleLevel(level zapcore.Level) Option {
	return func(o *options) {
		o.consoleLevel = level
	}
}

// WithConsole replaces stdout as the console output
func WithConsole(w zapcore.WriteSyncer) Option {
	return func(o *options) {
		o.console = w
	}
}

// InitLogger initializes a zap logger with console and file outputs
// env is used to prefix the log file name
func InitLogger(env string, opts ...Option) (*zap.Logger, error) {
	o := options{
		dir:          "logs",
		consoleLevel: zapcore.InfoLevel,
		console:      zapcore.AddSync(os.Stdout),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(o.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFileName := filepath.Join(o.dir, fmt.Sprintf("%s_trainer_directory_%s.log", env, timestamp))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Console is human-readable, file is JSON
	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), o.console, o.consoleLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("env", env))

	return logger, nil
}
