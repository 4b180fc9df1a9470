// Package shelltest provides an in-memory shell.Executor for tests.
package shelltest

import (
	"context"
	"strings"
	"sync"
)

// Recorder records every command it is asked to run.
// Output is served from Outputs by exact command, falling back to the
// longest key of Prefixes that prefixes the command.
type Recorder struct {
	mu       sync.Mutex
	commands []string

	// Outputs maps a command to its canned standard output.
	Outputs map[string]string

	// Prefixes maps a command prefix to canned standard output.
	Prefixes map[string]string

	// Errors maps a command to the error it returns.
	Errors map[string]error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Outputs:  make(map[string]string),
		Prefixes: make(map[string]string),
		Errors:   make(map[string]error),
	}
}

// Run records command.
func (r *Recorder) Run(ctx context.Context, command string) error {
	_, err := r.Output(ctx, command)
	return err
}

// Output records command and returns its canned output.
func (r *Recorder) Output(_ context.Context, command string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if command == "" {
		return "", nil
	}
	r.commands = append(r.commands, command)
	if err, ok := r.Errors[command]; ok {
		return "", err
	}
	if out, ok := r.Outputs[command]; ok {
		return out, nil
	}
	best, out := -1, ""
	for prefix, o := range r.Prefixes {
		if strings.HasPrefix(command, prefix) && len(prefix) > best {
			best, out = len(prefix), o
		}
	}
	return out, nil
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.commands))
	copy(out, r.commands)
	return out
}

// Reset forgets the recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
}

// Contains reports whether command was recorded.
func (r *Recorder) Contains(command string) bool {
	for _, c := range r.Commands() {
		if c == command {
			return true
		}
	}
	return false
}

// Count returns how many times command was recorded.
func (r *Recorder) Count(command string) int {
	n := 0
	for _, c := range r.Commands() {
		if c == command {
			n++
		}
	}
	return n
}
