// Package logging provides structured, stderr-only logging for the
// dispatcher process. Stdout carries exactly one JSON response per
// invocation, so no logger in this package may ever write there.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger pinned to stderr.
type Logger struct {
	*logrus.Logger
	service string
}

// New creates a Logger for service, writing level-filtered, format-selected
// entries to stderr only.
func New(service, level, format string) *Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	logger.SetOutput(os.Stderr)

	return &Logger{Logger: logger, service: service}
}

// NewFromEnv builds a Logger from LOG_LEVEL/LOG_FORMAT, defaulting to
// "info"/"json" when unset.
func NewFromEnv(service string) *Logger {
	level := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = "info"
	}
	format := strings.TrimSpace(os.Getenv("LOG_FORMAT"))
	if format == "" {
		format = "json"
	}
	return New(service, level, format)
}

// WithFields creates a log entry tagged with the service name plus fields.
func (l *Logger) WithFields(fields map[string]interface{}) *logrus.Entry {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["service"] = l.service
	return l.Logger.WithFields(fields)
}

// Invocation logs the single summary line emitted per dispatcher run.
func (l *Logger) Invocation(action string, elapsed time.Duration, errCode int) {
	entry := l.WithFields(map[string]interface{}{
		"action":      action,
		"elapsed_ms":  elapsed.Milliseconds(),
		"error_code":  errCode,
	})
	if errCode != 0 {
		entry.Warn("dispatch completed with error")
		return
	}
	entry.Info("dispatch completed")
}
