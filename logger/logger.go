package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	defaultLogger zerolog.Logger
	once          sync.Once
	mu            sync.Mutex
)

// ensureInitialized creates a default console logger if Init was never called.
func ensureInitialized() {
	once.Do(func() {
		defaultLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	})
}

// Init configures the process logger. Level is one of debug, info, warn,
// error (case-insensitive); anything else falls back to info. If json is
// true, raw JSON lines are written instead of the console format.
func Init(level string, json bool) {
	ensureInitialized()
	mu.Lock()
	defer mu.Unlock()

	lvl := zerolog.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}

	out := zerolog.New(os.Stdout)
	if !json {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	defaultLogger = out.Level(lvl).With().Timestamp().Logger()
}

// Debug logs a debug message.
func Debug(v ...interface{}) {
	ensureInitialized()
	defaultLogger.Debug().Msgf("%s", joinArgs(v...))
}

// Debugf logs a formatted debug message.
func Debugf(format string, v ...interface{}) {
	ensureInitialized()
	defaultLogger.Debug().Msgf(format, v...)
}

// Info logs an info message.
func Info(v ...interface{}) {
	ensureInitialized()
	defaultLogger.Info().Msgf("%s", joinArgs(v...))
}

// Infof logs a formatted info message.
func Infof(format string, v ...interface{}) {
	ensureInitialized()
	defaultLogger.Info().Msgf(format, v...)
}

// Warn logs a warning message.
func Warn(v ...interface{}) {
	ensureInitialized()
	defaultLogger.Warn().Msgf("%s", joinArgs(v...))
}

// Warnf logs a formatted warning message.
func Warnf(format string, v ...interface{}) {
	ensureInitialized()
	defaultLogger.Warn().Msgf(format, v...)
}

// Error logs an error message.
func Error(v ...interface{}) {
	ensureInitialized()
	defaultLogger.Error().Msgf("%s", joinArgs(v...))
}

// Errorf logs a formatted error message.
func Errorf(format string, v ...interface{}) {
	ensureInitialized()
	defaultLogger.Error().Msgf(format, v...)
}

// Fatal logs an error message and exits the program.
func Fatal(v ...interface{}) {
	ensureInitialized()
	defaultLogger.Fatal().Msgf("%s", joinArgs(v...))
}

// Fatalf logs a formatted error message and exits the program.
func Fatalf(format string, v ...interface{}) {
	ensureInitialized()
	defaultLogger.Fatal().Msgf(format, v...)
}

func joinArgs(v ...interface{}) string {
	return fmt.Sprint(v...)
}
