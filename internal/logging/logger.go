// Package logging builds the logrus logger shared by the command and its components.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/riemann-research/zeta/internal/config"
)

// New returns a text logger writing to stderr, leveled from cfg.
func New(cfg config.OutputConfig) *logrus.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg config.OutputConfig, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	logger.SetLevel(Level(cfg))
	return logger
}

// Level resolves the configured level. debug, warn and error are taken as is;
// info or an empty level becomes debug when verbose is set.
func Level(cfg config.OutputConfig) logrus.Level {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		if cfg.Verbose {
			return logrus.DebugLevel
		}
		return logrus.InfoLevel
	}
}
