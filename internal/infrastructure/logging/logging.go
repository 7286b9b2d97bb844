// Package logging builds the process-wide logrus logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/eslsoft/fluentcli/internal/infrastructure/config"
)

// NewLogger configures a logger from the log section of the config. The
// text format uses a nested formatter tuned for terminal reading; when a
// log file is configured, output additionally goes to a size-rotated file.
func NewLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)

	switch cfg.Log.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&formatter.Formatter{
			TimestampFormat: "15:04:05",
			HideKeys:        false,
			NoColors:        false,
		})
	}

	writers := []io.Writer{os.Stderr}
	if cfg.Log.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    20,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}
	logger.SetOutput(io.MultiWriter(writers...))

	return logger, nil
}
