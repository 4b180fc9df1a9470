// Package shell owns the persistent root shell used by the interactive
// terminal and the one-shot executors used by tweaks and profiles.
//
// A Session keeps one su (or sh fallback) process alive, writes commands to
// it through a single writer goroutine, and streams each line the shell
// prints to the registered sinks as a LogEntry.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrSessionStopped is returned for commands submitted to a session that has
// no running shell.
var ErrSessionStopped = errors.New("shell session is stopped")

// State represents the lifecycle state of a Session.
type State string

const (
	// StateStopped indicates there is no shell process.
	StateStopped State = "stopped"

	// StateStarting indicates a shell is being spawned.
	StateStarting State = "starting"

	// StateRunning indicates the shell is accepting commands.
	StateRunning State = "running"
)

const (
	// exitGrace is how long Stop waits for the shell to honour "exit".
	exitGrace = 300 * time.Millisecond

	// stopTimeout bounds how long Stop waits for the process to be reaped.
	stopTimeout = 2 * time.Second

	maxLineSize = 1024 * 1024

	// syncPrefix starts the marker lines written by Sync.
	syncPrefix = "__tweakctl_sync_"
)

// Lifecycle notices emitted on the sys channel.
const (
	MsgStarted   = "--- Shell Daemon Started ---"
	MsgStopped   = "--- Shell Stopped ---"
	MsgExited    = "--- Shell Exited ---"
	MsgRestarted = "--- Restarted ---"
)

// generation is one spawned shell process and the plumbing around it.
type generation struct {
	n       int
	proc    Process
	queue   *taskQueue
	writeMu sync.Mutex
	exited  chan struct{}

	markerMu sync.Mutex
	markers  map[string]chan struct{}
}

func (g *generation) addMarker(m string) <-chan struct{} {
	g.markerMu.Lock()
	defer g.markerMu.Unlock()
	if g.markers == nil {
		g.markers = make(map[string]chan struct{})
	}
	ch := make(chan struct{})
	g.markers[m] = ch
	return ch
}

func (g *generation) removeMarker(m string) {
	g.markerMu.Lock()
	defer g.markerMu.Unlock()
	delete(g.markers, m)
}

// matchMarker reports whether line ends with a pending Sync marker and
// returns the text printed before it.
func (g *generation) matchMarker(line string) (string, bool) {
	i := strings.LastIndex(line, syncPrefix)
	if i < 0 {
		return line, false
	}
	g.markerMu.Lock()
	defer g.markerMu.Unlock()
	ch, ok := g.markers[line[i:]]
	if !ok {
		return line, false
	}
	close(ch)
	delete(g.markers, line[i:])
	return line[:i], true
}

// Session manages one persistent interactive shell.
type Session struct {
	// ID identifies the session in logs.
	ID string

	spawner Spawner

	mu        sync.RWMutex
	state     State
	cur       *generation
	gens      int
	shellName string

	onOutput Sink
	onError  Sink
	onSystem Sink
}

// NewSession creates a stopped session that spawns shells with spawner.
//
// Parameters:
//   - spawner: Starts shell processes; nil uses an ExecSpawner trying su then sh
//
// Returns:
//   - *Session: A session in StateStopped
func NewSession(spawner Spawner) *Session {
	if spawner == nil {
		spawner = &ExecSpawner{}
	}
	return &Session{
		ID:      uuid.NewString(),
		spawner: spawner,
		state:   StateStopped,
	}
}

// SetOnOutput sets the sink for stdout lines.
func (s *Session) SetOnOutput(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onOutput = sink
}

// SetOnError sets the sink for stderr lines and write failures.
func (s *Session) SetOnError(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = sink
}

// SetOnSystem sets the sink for lifecycle notices.
func (s *Session) SetOnSystem(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSystem = sink
}

// SetSink routes every channel to sink.
func (s *Session) SetSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onOutput = sink
	s.onError = sink
	s.onSystem = sink
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Generation returns how many shells this session has spawned.
// Each successful Start increments it.
func (s *Session) Generation() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gens
}

// ShellName returns the binary of the most recently spawned shell.
func (s *Session) ShellName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shellName
}

// Start spawns the shell and begins streaming its output.
// Calling Start on a running session is a no-op. When no shell can be spawned
// the session stays stopped, a sys entry is emitted and the error is returned.
//
// Parameters:
//   - ctx: Context for the spawn attempt only; it does not bound the shell's lifetime
//
// Returns:
//   - error: Spawn failure, or ErrSessionStopped if Stop raced the spawn
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateStopped {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStarting
	s.mu.Unlock()

	proc, name, err := s.spawner.Spawn(ctx)

	s.mu.Lock()
	if s.state != StateStarting {
		s.mu.Unlock()
		if err == nil {
			_ = proc.Stdin().Close()
			_ = proc.Kill()
			go func() { _ = proc.Wait() }()
		}
		return ErrSessionStopped
	}
	if err != nil {
		s.state = StateStopped
		s.mu.Unlock()
		log.Debug("Shell session failed to start", "session", s.ID, "error", err)
		s.emit(NewEntry(ChannelSys, fmt.Sprintf("--- Shell unavailable: %v ---", err)))
		return fmt.Errorf("start shell: %w", err)
	}

	s.gens++
	g := &generation{
		n:      s.gens,
		proc:   proc,
		queue:  newTaskQueue(),
		exited: make(chan struct{}),
	}
	s.cur = g
	s.shellName = name
	s.state = StateRunning
	s.mu.Unlock()

	log.Debug("Shell session started", "session", s.ID, "shell", name, "pid", proc.Pid(), "generation", g.n)
	s.emit(NewEntry(ChannelSys, MsgStarted))

	go s.writeLoop(g)
	go s.superviseLoop(g)
	return nil
}

// Exec submits command to the running shell.
// The returned task completes once the line has been written. On a stopped
// session the task is already complete with ErrSessionStopped and no process
// is touched.
func (s *Session) Exec(command string) *Task {
	s.mu.RLock()
	g := s.cur
	running := s.state == StateRunning && g != nil
	s.mu.RUnlock()

	if !running {
		return CompletedTask(command, ErrSessionStopped)
	}
	t := newTask(command)
	if !g.queue.push(t) {
		t.finish(ErrSessionStopped)
	}
	return t
}

// Run submits command and waits until the shell has finished it. It lets a
// Session serve as an Executor. The exit status is not observed.
func (s *Session) Run(ctx context.Context, command string) error {
	if command == "" {
		return nil
	}
	if err := s.Exec(command).Wait(ctx); err != nil {
		return err
	}
	return s.Sync(ctx)
}

// Sync waits until the shell has finished every command submitted before
// it. It writes an echo of a unique marker and waits for that line on
// stdout; the marker line itself is not emitted.
//
// Returns:
//   - error: ErrSessionStopped if the shell is not running or exits first,
//     or the context error
func (s *Session) Sync(ctx context.Context) error {
	s.mu.RLock()
	g := s.cur
	running := s.state == StateRunning && g != nil
	s.mu.RUnlock()
	if !running {
		return ErrSessionStopped
	}

	marker := syncPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	seen := g.addMarker(marker)
	defer g.removeMarker(marker)

	t := newTask("echo " + marker)
	if !g.queue.push(t) {
		return ErrSessionStopped
	}
	if err := t.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		// stdin is only unwritable once the shell has gone away.
		return fmt.Errorf("%w: %w", ErrSessionStopped, err)
	}

	select {
	case <-seen:
		return nil
	case <-g.exited:
		return ErrSessionStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop asks the shell to exit, then kills its process group.
// The session always ends stopped. Stop on a stopped session is a no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	g := s.cur
	s.cur = nil
	s.state = StateStopped
	s.mu.Unlock()

	if g == nil {
		return nil
	}

	s.teardown(g)
	log.Debug("Shell session stopped", "session", s.ID, "generation", g.n)
	s.emit(NewEntry(ChannelSys, MsgStopped))
	return nil
}

// Restart stops the current shell and spawns a new one.
// Callers may observe StateStopped between the two steps.
func (s *Session) Restart(ctx context.Context) error {
	_ = s.Stop()
	return s.Start(ctx)
}

func (s *Session) teardown(g *generation) {
	g.queue.close()

	wrote := make(chan struct{})
	go func() {
		g.writeMu.Lock()
		defer g.writeMu.Unlock()
		_, _ = io.WriteString(g.proc.Stdin(), "exit\n")
		_ = g.proc.Stdin().Close()
		close(wrote)
	}()

	select {
	case <-wrote:
		select {
		case <-g.exited:
		case <-time.After(exitGrace):
		}
	case <-g.exited:
	case <-time.After(exitGrace):
	}

	select {
	case <-g.exited:
		return
	default:
	}

	if err := g.proc.Kill(); err != nil {
		log.Debug("Shell kill failed", "session", s.ID, "error", err)
	}
	select {
	case <-g.exited:
	case <-time.After(stopTimeout):
		log.Warn("Shell did not exit after kill", "session", s.ID, "pid", g.proc.Pid())
	}
}

// writeLoop is the only writer of the shell's stdin for a generation.
func (s *Session) writeLoop(g *generation) {
	for {
		t, ok := g.queue.pop()
		if !ok {
			return
		}
		g.writeMu.Lock()
		_, err := io.WriteString(g.proc.Stdin(), t.Command+"\n")
		g.writeMu.Unlock()

		if err != nil {
			log.Debug("Shell write failed", "session", s.ID, "command", t.Command, "error", err)
			s.emit(NewEntry(ChannelErr, fmt.Sprintf("Write failed: %v", err)))
			t.finish(fmt.Errorf("write %q: %w", t.Command, err))
			continue
		}
		t.finish(nil)
	}
}

// superviseLoop streams both outputs, then reaps the process.
func (s *Session) superviseLoop(g *generation) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.readLoop(g, g.proc.Stdout(), ChannelOut)
	}()
	go func() {
		defer wg.Done()
		s.readLoop(g, g.proc.Stderr(), ChannelErr)
	}()
	wg.Wait()

	waitErr := g.proc.Wait()
	close(g.exited)
	g.queue.close()

	s.mu.Lock()
	selfExit := s.cur == g
	if selfExit {
		s.cur = nil
		s.state = StateStopped
	}
	s.mu.Unlock()

	if selfExit {
		log.Debug("Shell exited", "session", s.ID, "generation", g.n, "error", waitErr)
		s.emit(NewEntry(ChannelSys, MsgExited))
	}
}

func (s *Session) readLoop(g *generation, r io.Reader, ch Channel) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		if ch == ChannelOut {
			var synced bool
			if line, synced = g.matchMarker(line); synced && line == "" {
				continue
			}
		}
		s.emit(NewEntry(ch, line))
	}
	// Keep draining after an oversized line so the shell never blocks on a full pipe.
	_, _ = io.Copy(io.Discard, r)
}

func (s *Session) emit(e LogEntry) {
	s.mu.RLock()
	var sink Sink
	switch e.Channel {
	case ChannelOut:
		sink = s.onOutput
	case ChannelErr:
		sink = s.onError
	default:
		sink = s.onSystem
	}
	s.mu.RUnlock()

	if sink != nil {
		sink(e)
	}
}
