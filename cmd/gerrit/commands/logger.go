package commands

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fivetwenty-io/gerrit-client/internal/constants"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

// LogrusLogger adapts a logrus logger to gerrit.Logger.
type LogrusLogger struct {
	logger *logrus.Logger
}

var _ gerrit.Logger = (*LogrusLogger)(nil)

// NewLogrusLogger wraps logger.
func NewLogrusLogger(logger *logrus.Logger) *LogrusLogger {
	return &LogrusLogger{logger: logger}
}

func (l *LogrusLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Debug(msg)
}

func (l *LogrusLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Info(msg)
}

func (l *LogrusLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Error(msg)
}

// NewCLILogger builds the logger used by every command. Output goes to
// stderr unless logFile is set, in which case the file is rotated by size.
// verbose lowers the level to debug.
func NewCLILogger(verbose bool, logFile string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(logOutput(logFile))

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	return logger
}

func logOutput(logFile string) io.Writer {
	if logFile == "" {
		return os.Stderr
	}

	dir := filepath.Dir(logFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, constants.ConfigDirPerm); err != nil {
			_, _ = os.Stderr.WriteString("Warning: cannot create log directory, logging to stderr\n")

			return os.Stderr
		}
	}

	return &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    constants.LogFileMaxSizeMB,
		MaxBackups: constants.LogFileMaxBackups,
		MaxAge:     constants.LogFileMaxAgeDays,
		Compress:   true,
	}
}
