package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the process-wide logger. It discards output until Init is called,
// since the terminal belongs to the UI.
var Log = newDiscardLogger()

// Config controls log level and rotation.
type Config struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
	JSON       bool
	Stderr     bool
}

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init points Log at a rotating file (and optionally stderr).
func Init(cfg Config) error {
	if cfg.JSON {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	Log.SetLevel(parseLevel(cfg.Level))

	var writers []io.Writer
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    max(cfg.MaxSizeMB, 1), // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     28, // days
			Compress:   cfg.Compress,
		})
	}
	if cfg.Stderr {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		Log.SetOutput(io.Discard)
	case 1:
		Log.SetOutput(writers[0])
	default:
		Log.SetOutput(io.MultiWriter(writers...))
	}
	return nil
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
