package logging

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	FormatText = "text"
	FormatJson = "json"
)

var validLogFormats = map[string]bool{
	FormatText: true,
	FormatJson: true,
}

// Config defines simulator logging configuration.
type Config struct {
	// Log level, e.g. INFO, ERROR etc
	Level string `mapstructure:"level"`
	// Logging format, either text or json
	Format string `mapstructure:"format"`
	// Defines configuration for file logging
	File struct {
		// Whether file logging is enabled.
		Enabled bool `mapstructure:"enabled"`
		// The Location of the logfile on disk
		LogFile string `mapstructure:"logfile"`
		// Log Rotation Options
		Rotation struct {
			// Maximum size in megabytes of the log file before it gets rotated
			MaxSizeMb int `mapstructure:"maxSizeMb"`
			// Maximum number of old log files to retain
			MaxBackups int `mapstructure:"maxBackups"`
			// Maximum number of days to retain old log files
			MaxAgeDays int `mapstructure:"maxAgeDays"`
			// Whether to compress rotated log files
			Compress bool `mapstructure:"compress"`
		} `mapstructure:"rotation"`
	} `mapstructure:"file"`
}

// DefaultConfig logs at info level in text format to stdout only.
func DefaultConfig() Config {
	c := Config{Level: "info", Format: FormatText}
	c.File.Rotation.MaxSizeMb = 100
	c.File.Rotation.MaxBackups = 3
	c.File.Rotation.MaxAgeDays = 7
	return c
}

func validate(c Config) error {
	if _, err := parseLogLevel(c.Level); err != nil {
		return err
	}
	if err := validateLogFormat(c.Format); err != nil {
		return err
	}
	if c.File.Enabled {
		if c.File.LogFile == "" {
			return errors.New("file.logfile must be set when file logging is enabled")
		}
		rotation := c.File.Rotation
		if rotation.MaxSizeMb <= 0 {
			return errors.New("rotation.maxSizeMb must be greater than zero")
		}
		if rotation.MaxBackups <= 0 {
			return errors.New("rotation.maxBackups must be greater than zero")
		}
		if rotation.MaxAgeDays <= 0 {
			return errors.New("rotation.maxAgeDays must be greater than zero")
		}
	}
	return nil
}

func validateLogFormat(f string) error {
	_, ok := validLogFormats[f]
	if !ok {
		formats := maps.Keys(validLogFormats)
		slices.Sort(formats)
		return errors.Errorf("unknown log format: %s.  Valid formats are %s", f, formats)
	}
	return nil
}

func isOff(level string) bool {
	return strings.EqualFold(level, LevelOff)
}

func parseLogLevel(level string) (logrus.Level, error) {
	if isOff(level) {
		return logrus.PanicLevel, nil
	}
	l, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return logrus.InfoLevel, errors.Errorf("unknown level: %s", level)
	}
	return l, nil
}
