package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	Logger.SetLevel(logrus.InfoLevel)

	// LOG_LEVEL=debug overrides the default before config is read
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		_ = SetLevel(level)
	}
}

// SetLevel parses level (case-insensitive) and applies it.
// On a parse error the current level is kept.
func SetLevel(level string) error {
	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return err
	}
	Logger.SetLevel(parsed)
	return nil
}

// WithComponent adds a component field to the logger
func WithComponent(component string) *logrus.Entry {
	return Logger.WithField("component", component)
}

// WithState adds the cache size fields used across store and fetch logs.
func WithState(component string, continents, entries int) *logrus.Entry {
	return WithComponent(component).WithFields(logrus.Fields{
		"continents": continents,
		"entries":    entries,
	})
}
