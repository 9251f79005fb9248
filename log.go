package textract

import (
	"fmt"
	"sync"
	"time"
)

// Level classifies a job log entry.
type Level string

// Job log levels.
const (
	LevelInfo    Level = "INFO"
	LevelWarn    Level = "WARN"
	LevelError   Level = "ERROR"
	LevelSuccess Level = "SUCCESS"
)

// LogEntry is one status event of a job.
type LogEntry struct {
	Sequence int       `json:"sequence"`
	Level    Level     `json:"level"`
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
}

// String renders the entry the way it is shown in a live console.
func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] %s", e.Level, e.Message)
}

// LogFunc observes job log entries as they are appended.
type LogFunc func(LogEntry)

// JobLog is the append-only, ordered status stream of one job.
// Appends are serialized; observers run under the same lock, so they see
// entries strictly in sequence order. Observers must not append to the log
// or call back into the job that owns it.
// JobLog is safe for concurrent use.
type JobLog struct {
	mu        sync.Mutex
	entries   []LogEntry
	observers []LogFunc
	closed    bool
	now       func() time.Time
}

// NewJobLog creates an empty log notifying the given observers.
func NewJobLog(observers ...LogFunc) *JobLog {
	return &JobLog{
		observers: observers,
		now:       time.Now,
	}
}

// Append adds an entry and returns it. Once the log is closed, appends are
// dropped and the zero LogEntry is returned.
func (l *JobLog) Append(level Level, format string, args ...any) LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return LogEntry{}
	}

	entry := LogEntry{
		Sequence: len(l.entries) + 1,
		Level:    level,
		Message:  fmt.Sprintf(format, args...),
		Time:     l.now(),
	}
	l.entries = append(l.entries, entry)

	for _, fn := range l.observers {
		fn(entry)
	}
	return entry
}

// Info appends an informational entry.
func (l *JobLog) Info(format string, args ...any) LogEntry {
	return l.Append(LevelInfo, format, args...)
}

// Warn appends a warning entry.
func (l *JobLog) Warn(format string, args ...any) LogEntry {
	return l.Append(LevelWarn, format, args...)
}

// Error appends an error entry.
func (l *JobLog) Error(format string, args ...any) LogEntry {
	return l.Append(LevelError, format, args...)
}

// Success appends a success entry.
func (l *JobLog) Success(format string, args ...any) LogEntry {
	return l.Append(LevelSuccess, format, args...)
}

// Close stops the log from accepting further entries.
func (l *JobLog) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

// Entries returns a copy of all entries in sequence order.
func (l *JobLog) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *JobLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Count returns the number of entries with the given level.
func (l *JobLog) Count(level Level) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	var n int
	for _, e := range l.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}
