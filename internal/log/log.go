package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup installs the default slog handler. With a log file, JSON records go
// to a rotating file; otherwise they are printed to stderr.
func Setup(logFile string, debug bool) {
	slog.SetDefault(slog.New(NewHandler(logFile, debug, os.Stderr)))
}

// NewHandler builds the handler Setup installs.
func NewHandler(logFile string, debug bool, console io.Writer) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	if logFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
			Compress:   false,
		}
		return slog.NewJSONHandler(rotator, &slog.HandlerOptions{
			Level:     level,
			AddSource: debug,
		})
	}

	logger := charmlog.NewWithOptions(console, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "crystaline",
	})
	if debug {
		logger.SetLevel(charmlog.DebugLevel)
	} else {
		logger.SetLevel(charmlog.InfoLevel)
	}
	return logger
}
