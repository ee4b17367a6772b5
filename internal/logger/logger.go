package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New configures the standard logrus logger and returns it.
func New(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(parseLevel(level))

	return log
}

func parseLevel(lvl string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(lvl))
	if err != nil {
		return logrus.InfoLevel
	}

	return level
}
