// Package file provides a rotating JSON log backend.
package file

import (
	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileLogger implements LoggerInstance by writing JSON lines to a rotating
// log file.
type FileLogger struct {
	logger *log.Logger
	out    *lumberjack.Logger
}

// FileLoggerParams configures rotation. Zero values fall back to the
// lumberjack defaults.
type FileLoggerParams struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Debug      bool
}

// NewFileLogger creates a file logger for params.Path.
func NewFileLogger(params FileLoggerParams) *FileLogger {
	out := &lumberjack.Logger{
		Filename:   params.Path,
		MaxSize:    params.MaxSizeMB,
		MaxBackups: params.MaxBackups,
		MaxAge:     params.MaxAgeDays,
		Compress:   true,
	}

	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}

	return &FileLogger{
		logger: log.NewWithOptions(out, log.Options{
			ReportTimestamp: true,
			Level:           level,
			Formatter:       log.JSONFormatter,
		}),
		out: out,
	}
}

func (f *FileLogger) Log(message string, keyvals ...any) {
	f.logger.Print(message, keyvals...)
}

func (f *FileLogger) Info(message string, keyvals ...any) {
	f.logger.Info(message, keyvals...)
}

func (f *FileLogger) Warn(message string, keyvals ...any) {
	f.logger.Warn(message, keyvals...)
}

func (f *FileLogger) Error(message string, keyvals ...any) {
	f.logger.Error(message, keyvals...)
}

func (f *FileLogger) Debug(message string, keyvals ...any) {
	f.logger.Debug(message, keyvals...)
}

// Fatal writes a message at FATAL level and terminates the program.
func (f *FileLogger) Fatal(message string, keyvals ...any) {
	f.logger.Fatal(message, keyvals...)
}

// Close closes the underlying log file.
func (f *FileLogger) Close() error {
	return f.out.Close()
}
