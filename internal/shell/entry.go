package shell

import (
	"io"
	"strings"
	"sync"
	"time"
)

// Channel identifies where a log line came from.
type Channel string

const (
	// ChannelIn is a command typed by the user.
	ChannelIn Channel = "in"

	// ChannelOut is a line the shell wrote to stdout.
	ChannelOut Channel = "out"

	// ChannelErr is a line the shell wrote to stderr, or a local write failure.
	ChannelErr Channel = "err"

	// ChannelSys is a lifecycle notice produced by the session itself.
	ChannelSys Channel = "sys"
)

// LogEntry is one line of session activity. Entries are values and are never
// mutated after creation.
type LogEntry struct {
	Channel Channel
	Text    string
	Time    time.Time
}

// NewEntry stamps a new entry with the current time.
func NewEntry(ch Channel, text string) LogEntry {
	return LogEntry{Channel: ch, Text: text, Time: time.Now()}
}

// Sink receives log entries. Sinks are called from session goroutines and
// must not block for long.
type Sink func(LogEntry)

// LogBuffer is an append-only record of entries for display.
// Clear drops the displayed history; it never rewrites entries.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	limit   int
}

// NewLogBuffer returns a buffer keeping at most limit entries (0 = unbounded).
// When full, the oldest entries are discarded.
func NewLogBuffer(limit int) *LogBuffer {
	return &LogBuffer{limit: limit}
}

// Append adds e to the end of the buffer.
func (b *LogBuffer) Append(e LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, e)
	if b.limit > 0 && len(b.entries) > b.limit {
		drop := len(b.entries) - b.limit
		b.entries = append([]LogEntry(nil), b.entries[drop:]...)
	}
}

// Entries returns a copy of the buffered entries.
func (b *LogBuffer) Entries() []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]LogEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of buffered entries.
func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Last returns the most recent entry, if any.
func (b *LogBuffer) Last() (LogEntry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.entries) == 0 {
		return LogEntry{}, false
	}
	return b.entries[len(b.entries)-1], true
}

// Clear empties the buffer.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}

// WriteTo writes the entry texts, one per line.
func (b *LogBuffer) WriteTo(w io.Writer) (int64, error) {
	entries := b.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Text
	}
	n, err := io.WriteString(w, strings.Join(lines, "\n"))
	return int64(n), err
}
