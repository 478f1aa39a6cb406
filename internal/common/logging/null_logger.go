package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LevelOff disables logging entirely.
const LevelOff = "off"

// NewNullLogger returns a logger that discards everything written to it.
func NewNullLogger() *logrus.Logger {
	return &logrus.Logger{
		Out:       io.Discard,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.PanicLevel,
	}
}
