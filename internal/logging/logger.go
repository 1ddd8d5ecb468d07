// Package logging provides logging utilities for unifictl
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger defines the interface used by all unifictl services
type Logger interface {
	Debug(message string)
	Info(message string)
	Warn(message string)
	Error(message string)
}

// FileLogger implements the Logger interface with file and console output.
// The log file always receives debug-level entries; the console mirrors
// info and above, plus debug when verbose is enabled.
type FileLogger struct {
	log     *logrus.Logger
	logFile *os.File
	verbose bool
}

// consoleHook mirrors log entries to stdout in the short console format.
type consoleHook struct {
	verbose bool
}

func (h *consoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *consoleHook) Fire(entry *logrus.Entry) error {
	if entry.Level == logrus.DebugLevel && !h.verbose {
		return nil
	}
	level := map[logrus.Level]string{
		logrus.DebugLevel: "DEBUG",
		logrus.InfoLevel:  "INFO",
		logrus.WarnLevel:  "WARN",
		logrus.ErrorLevel: "ERROR",
	}[entry.Level]
	if level == "" {
		level = "INFO"
	}
	fmt.Printf("%s: %s\n", level, entry.Message)
	return nil
}

// NewFileLogger creates a new logger that writes to both file and console
func NewFileLogger(logDir string, verbose bool) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	logPath := filepath.Join(logDir, fmt.Sprintf("unifictl_%s.log", timestamp))

	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	log := logrus.New()
	log.SetOutput(logFile)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	log.AddHook(&consoleHook{verbose: verbose})

	logger := &FileLogger{
		log:     log,
		logFile: logFile,
		verbose: verbose,
	}

	logger.Info(fmt.Sprintf("Logging to: %s", logPath))

	return logger, nil
}

// Close closes the log file
func (l *FileLogger) Close() error {
	if l.logFile != nil {
		err := l.logFile.Close()
		l.logFile = nil // Set to nil to prevent double closing
		return err
	}
	return nil
}

// Debug logs debug messages (console output only in verbose mode)
func (l *FileLogger) Debug(message string) {
	l.log.Debug(message)
}

// Info logs informational messages
func (l *FileLogger) Info(message string) {
	l.log.Info(message)
}

// Warn logs warning messages
func (l *FileLogger) Warn(message string) {
	l.log.Warn(message)
}

// Error logs error messages
func (l *FileLogger) Error(message string) {
	l.log.Error(message)
}
