package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

func New(cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// Fork returns a logger writing where base writes but with its own hook
// set, so a run can collect its findings without seeing other runs.
// Info is the least verbose level a fork will run at.
func Fork(base *logrus.Logger) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(base.Out)
	logger.SetFormatter(base.Formatter)
	level := base.GetLevel()
	if level < logrus.InfoLevel {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// Discard is a logger for tests and dry runs.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	return logger
}
