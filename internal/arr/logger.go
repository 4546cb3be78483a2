package arr

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerOptions configures a StandardLogger
type LoggerOptions struct {
	Level  string
	Format string // "console" or "json"
	File   string // optional rotating log file
	Output io.Writer
}

// StandardLogger implements the Logger interface on top of zerolog
type StandardLogger struct {
	logger  zerolog.Logger
	rotator *lumberjack.Logger
}

// NewStandardLogger creates a console logger writing to stderr
func NewStandardLogger(levelStr string) Logger {
	return NewLogger(LoggerOptions{Level: levelStr})
}

// NewLogger creates a StandardLogger. When a file is configured every
// entry is also written there as JSON, rotated by lumberjack.
func NewLogger(opts LoggerOptions) *StandardLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var console io.Writer = out
	if !strings.EqualFold(opts.Format, "json") {
		console = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
			NoColor:    out != os.Stderr,
		}
	}

	var rotator *lumberjack.Logger
	var output io.Writer = console
	if opts.File != "" {
		rotator = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
			LocalTime:  true,
		}
		output = zerolog.MultiLevelWriter(console, rotator)
	}

	logger := zerolog.New(output).
		Level(parseLogLevel(opts.Level)).
		With().
		Timestamp().
		Logger()

	return &StandardLogger{logger: logger, rotator: rotator}
}

// Close releases the log file if one is open
func (l *StandardLogger) Close() error {
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}

// Debug logs a debug message
func (l *StandardLogger) Debug(msg string, args ...interface{}) {
	l.log(l.logger.Debug(), msg, args...)
}

// Info logs an info message
func (l *StandardLogger) Info(msg string, args ...interface{}) {
	l.log(l.logger.Info(), msg, args...)
}

// Warn logs a warning message
func (l *StandardLogger) Warn(msg string, args ...interface{}) {
	l.log(l.logger.Warn(), msg, args...)
}

// Error logs an error message
func (l *StandardLogger) Error(msg string, args ...interface{}) {
	l.log(l.logger.Error(), msg, args...)
}

func (l *StandardLogger) log(event *zerolog.Event, msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	event.Msg(msg)
}

// parseLogLevel parses a log level string into a zerolog level
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
