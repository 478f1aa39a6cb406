package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"

// NewLogger returns a logger writing to stdout and, if enabled, to a rotated log file.
// Level off returns a logger that discards everything.
func NewLogger(c Config) (*logrus.Logger, error) {
	if err := validate(c); err != nil {
		return nil, err
	}
	if isOff(c.Level) {
		return NewNullLogger(), nil
	}
	level, err := parseLogLevel(c.Level)
	if err != nil {
		return nil, err
	}
	var out io.Writer = os.Stdout
	if c.File.Enabled {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   c.File.LogFile,
			MaxSize:    c.File.Rotation.MaxSizeMb,
			MaxBackups: c.File.Rotation.MaxBackups,
			MaxAge:     c.File.Rotation.MaxAgeDays,
			Compress:   c.File.Rotation.Compress,
		})
	}
	return &logrus.Logger{
		Out:       out,
		Formatter: formatter(c.Format),
		Hooks:     make(logrus.LevelHooks),
		Level:     level,
	}, nil
}

// ConfigureLogging replaces the configuration of the logrus standard logger.
func ConfigureLogging(c Config) error {
	logger, err := NewLogger(c)
	if err != nil {
		return err
	}
	std := logrus.StandardLogger()
	std.SetOutput(logger.Out)
	std.SetFormatter(logger.Formatter)
	std.SetLevel(logger.Level)
	return nil
}

func formatter(format string) logrus.Formatter {
	if format == FormatJson {
		return &logrus.JSONFormatter{TimestampFormat: RFC3339Milli}
	}
	return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: RFC3339Milli}
}
