package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
)

// Logger is a small console logger with a per-subsystem name. It is not a
// structured logger on purpose; output is meant for humans watching the
// process.
type Logger struct {
	serviceName string
}

var (
	// INFO_EMOJI Emoji constants
	INFO_EMOJI    = "ℹ️ "
	SUCCESS_EMOJI = "✅ "
	WARN_EMOJI    = "⚠️ "
	ERROR_EMOJI   = "❌ "
	DEBUG_EMOJI   = "🔍 "
)

func New(serviceName string) *Logger {
	return &Logger{
		serviceName: serviceName,
	}
}

func (l *Logger) formatMessage(level, emoji, msg string) string {
	_, file, line, _ := runtime.Caller(2)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fileName := filepath.Base(file)

	return fmt.Sprintf("%s | %s | %s | %s:%d | %s | %s",
		emoji,
		timestamp,
		level,
		fileName,
		line,
		l.serviceName,
		msg,
	)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	color.Cyan(l.formatMessage("INFO", INFO_EMOJI, fmt.Sprintf(msg, args...)))
}

func (l *Logger) Success(msg string, args ...interface{}) {
	color.Green(l.formatMessage("SUCCESS", SUCCESS_EMOJI, fmt.Sprintf(msg, args...)))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	color.Yellow(l.formatMessage("WARN", WARN_EMOJI, fmt.Sprintf(msg, args...)))
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	color.Magenta(l.formatMessage("DEBUG", DEBUG_EMOJI, fmt.Sprintf(msg, args...)))
}

// Error logs and returns the error so call sites can `return log.Error(...)`.
func (l *Logger) Error(msg string, err error) error {
	color.Red(l.formatMessage("ERROR", ERROR_EMOJI, fmt.Sprintf("%s: %v", msg, err)))
	return err
}

// Fatal logs the error and exits the process.
func (l *Logger) Fatal(msg string, err error) {
	color.Red(l.formatMessage("FATAL", ERROR_EMOJI, fmt.Sprintf("%s: %v", msg, err)))
	os.Exit(1)
}
