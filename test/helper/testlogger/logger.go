// Package testlogger provides a capturing log.Logger for tests
package testlogger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/LerianStudio/lib-commons/commons/log"
)

// LogEntry represents a single log entry
type LogEntry struct {
	Level   string
	Message string
	Fields  []any
}

type sink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// TestLogger implements log.Logger and records every entry.
// Loggers derived with WithFields share the same record.
type TestLogger struct {
	sink   *sink
	fields []any
}

// New creates a new TestLogger
func New() *TestLogger {
	return &TestLogger{sink: &sink{}}
}

func (l *TestLogger) log(level, msg string) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	l.sink.entries = append(l.sink.entries, LogEntry{
		Level:   level,
		Message: strings.TrimSuffix(msg, "\n"),
		Fields:  l.fields,
	})
}

func (l *TestLogger) Debug(args ...any)                 { l.log("DEBUG", fmt.Sprint(args...)) }
func (l *TestLogger) Debugf(format string, args ...any) { l.log("DEBUG", fmt.Sprintf(format, args...)) }
func (l *TestLogger) Debugln(args ...any)               { l.log("DEBUG", fmt.Sprintln(args...)) }
func (l *TestLogger) Info(args ...any)                  { l.log("INFO", fmt.Sprint(args...)) }
func (l *TestLogger) Infof(format string, args ...any)  { l.log("INFO", fmt.Sprintf(format, args...)) }
func (l *TestLogger) Infoln(args ...any)                { l.log("INFO", fmt.Sprintln(args...)) }
func (l *TestLogger) Warn(args ...any)                  { l.log("WARN", fmt.Sprint(args...)) }
func (l *TestLogger) Warnf(format string, args ...any)  { l.log("WARN", fmt.Sprintf(format, args...)) }
func (l *TestLogger) Warnln(args ...any)                { l.log("WARN", fmt.Sprintln(args...)) }
func (l *TestLogger) Error(args ...any)                 { l.log("ERROR", fmt.Sprint(args...)) }
func (l *TestLogger) Errorf(format string, args ...any) { l.log("ERROR", fmt.Sprintf(format, args...)) }
func (l *TestLogger) Errorln(args ...any)               { l.log("ERROR", fmt.Sprintln(args...)) }
func (l *TestLogger) Fatal(args ...any)                 { l.log("FATAL", fmt.Sprint(args...)) }
func (l *TestLogger) Fatalf(format string, args ...any) { l.log("FATAL", fmt.Sprintf(format, args...)) }
func (l *TestLogger) Fatalln(args ...any)               { l.log("FATAL", fmt.Sprintln(args...)) }

// WithField implements log.Logger
func (l *TestLogger) WithField(key string, value any) log.Logger {
	return l.WithFields(key, value)
}

// WithFields returns a logger that tags its entries with fields
func (l *TestLogger) WithFields(fields ...any) log.Logger {
	merged := make([]any, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)

	return &TestLogger{sink: l.sink, fields: merged}
}

// WithDefaultMessageTemplate implements log.Logger
func (l *TestLogger) WithDefaultMessageTemplate(string) log.Logger {
	return l
}

// Sync implements log.Logger
func (l *TestLogger) Sync() error {
	return nil
}

// GetEntries returns all log entries
func (l *TestLogger) GetEntries() []LogEntry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	entries := make([]LogEntry, len(l.sink.entries))
	copy(entries, l.sink.entries)

	return entries
}

// Count returns the number of log entries for the given level
func (l *TestLogger) Count(level string) int {
	count := 0

	for _, entry := range l.GetEntries() {
		if entry.Level == level {
			count++
		}
	}

	return count
}

// Contains returns true if some entry of the given level contains all substrings
func (l *TestLogger) Contains(level string, substrings ...string) bool {
	for _, entry := range l.GetEntries() {
		if entry.Level != level {
			continue
		}

		allFound := true

		for _, s := range substrings {
			if !strings.Contains(entry.Message, s) {
				allFound = false
				break
			}
		}

		if allFound {
			return true
		}
	}

	return false
}

// Messages returns the messages logged at level, in order
func (l *TestLogger) Messages(level string) []string {
	var out []string

	for _, entry := range l.GetEntries() {
		if entry.Level == level {
			out = append(out, entry.Message)
		}
	}

	return out
}
