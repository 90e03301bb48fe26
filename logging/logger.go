// ABOUTME: Process logger built on logrus
// ABOUTME: Parses the configured level and prefixes every message with the app name
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the process logger used by entry points.
var Logger = logrus.New()

type appNameHook struct {
	appName string
}

// Levels implements logrus.Hook.
func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// New builds a logger writing to out at the given level. An unknown level
// falls back to info with a warning.
func New(appName, level string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	configure(l, appName, level, out)
	return l
}

// Init configures the process Logger.
func Init(appName, level string) {
	configure(Logger, appName, level, os.Stderr)
}

func configure(l *logrus.Logger, appName, level string, out io.Writer) {
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.ReplaceHooks(make(logrus.LevelHooks))
	l.AddHook(&appNameHook{appName: appName})

	levelStr := strings.ToLower(strings.TrimSpace(level))
	if levelStr == "" {
		levelStr = "info"
	}
	parsed, err := logrus.ParseLevel(levelStr)
	if err != nil {
		l.SetLevel(logrus.InfoLevel)
		l.Warnf("Invalid log level '%s', defaulting to INFO", level)
		return
	}
	l.SetLevel(parsed)
}

// Discard returns a logger that drops everything, for tests and quiet paths.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
