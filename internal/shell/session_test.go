package shell

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeProcess is an in-memory shell. "echo X" prints X on stdout, "err X"
// prints X on stderr and "exit" ends the process.
type fakeProcess struct {
	pid int

	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter
	stderrR *io.PipeReader
	stderrW *io.PipeWriter

	mu       sync.Mutex
	received []string
	killed   bool

	done     chan struct{}
	doneOnce sync.Once
}

func newFakeProcess(pid int) *fakeProcess {
	p := &fakeProcess{pid: pid, done: make(chan struct{})}
	p.stdinR, p.stdinW = io.Pipe()
	p.stdoutR, p.stdoutW = io.Pipe()
	p.stderrR, p.stderrW = io.Pipe()
	go p.serve()
	return p
}

func (p *fakeProcess) serve() {
	scanner := bufio.NewScanner(p.stdinR)
	for scanner.Scan() {
		line := scanner.Text()
		p.mu.Lock()
		p.received = append(p.received, line)
		p.mu.Unlock()

		switch {
		case line == "exit":
			p.exit()
			return
		case strings.HasPrefix(line, "echo "):
			_, _ = io.WriteString(p.stdoutW, strings.TrimPrefix(line, "echo ")+"\n")
		case strings.HasPrefix(line, "err "):
			_, _ = io.WriteString(p.stderrW, strings.TrimPrefix(line, "err ")+"\n")
		}
	}
	p.exit()
}

func (p *fakeProcess) exit() {
	p.doneOnce.Do(func() {
		_ = p.stdoutW.Close()
		_ = p.stderrW.Close()
		_ = p.stdinR.Close()
		close(p.done)
	})
}

func (p *fakeProcess) Stdin() io.WriteCloser { return p.stdinW }
func (p *fakeProcess) Stdout() io.Reader     { return p.stdoutR }
func (p *fakeProcess) Stderr() io.Reader     { return p.stderrR }
func (p *fakeProcess) Pid() int              { return p.pid }

func (p *fakeProcess) Wait() error {
	<-p.done
	return nil
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
	p.exit()
	return nil
}

func (p *fakeProcess) Received() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.received))
	copy(out, p.received)
	return out
}

type fakeSpawner struct {
	mu    sync.Mutex
	procs []*fakeProcess
	fail  error
}

func (s *fakeSpawner) Spawn(ctx context.Context) (Process, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, "", s.fail
	}
	p := newFakeProcess(1000 + len(s.procs))
	s.procs = append(s.procs, p)
	return p, "fake-su", nil
}

func (s *fakeSpawner) Spawned() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.procs)
}

func (s *fakeSpawner) Proc(i int) *fakeProcess {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.procs[i]
}

// collector gathers entries from every sink.
type collector struct {
	mu      sync.Mutex
	entries []LogEntry
	notify  chan struct{}
}

func newCollector() *collector {
	return &collector{notify: make(chan struct{}, 64)}
}

func (c *collector) sink(e LogEntry) {
	c.mu.Lock()
	c.entries = append(c.entries, e)
	c.mu.Unlock()
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *collector) waitFor(t *testing.T, ch Channel, text string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		if c.has(ch, text) {
			return
		}
		select {
		case <-c.notify:
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatalf("timed out waiting for %s entry %q; got %v", ch, text, c.all())
		}
	}
}

func (c *collector) has(ch Channel, text string) bool {
	for _, e := range c.all() {
		if e.Channel == ch && e.Text == text {
			return true
		}
	}
	return false
}

func (c *collector) all() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func waitTask(t *testing.T, task *Task) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := task.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("task %q did not complete", task.Command)
	}
	return err
}

func TestSession_ExecWhileStopped(t *testing.T) {
	spawner := &fakeSpawner{}
	s := NewSession(spawner)

	task := s.Exec("echo hi")
	select {
	case <-task.Done():
	default:
		t.Fatal("task on stopped session should already be complete")
	}
	if !errors.Is(task.Err(), ErrSessionStopped) {
		t.Errorf("Err() = %v, want ErrSessionStopped", task.Err())
	}
	if spawner.Spawned() != 0 {
		t.Errorf("Exec on stopped session spawned %d processes", spawner.Spawned())
	}
	if s.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", s.State())
	}
}

func TestSession_StreamsOutputAndErrors(t *testing.T) {
	spawner := &fakeSpawner{}
	s := NewSession(spawner)
	c := newCollector()
	s.SetSink(c.sink)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if s.State() != StateRunning {
		t.Fatalf("State() = %s, want running", s.State())
	}
	c.waitFor(t, ChannelSys, MsgStarted)

	if err := waitTask(t, s.Exec("echo hello")); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if err := waitTask(t, s.Exec("err boom")); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	c.waitFor(t, ChannelOut, "hello")
	c.waitFor(t, ChannelErr, "boom")
}

func TestSession_SyncWaitsAndHidesMarker(t *testing.T) {
	spawner := &fakeSpawner{}
	s := NewSession(spawner)
	c := newCollector()
	s.SetSink(c.sink)

	if !errors.Is(s.Sync(context.Background()), ErrSessionStopped) {
		t.Error("Sync on a stopped session should report ErrSessionStopped")
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.Run(ctx, "echo first"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !c.has(ChannelOut, "first") {
		t.Errorf("Run returned before the command's output; got %v", c.all())
	}
	for _, e := range c.all() {
		if strings.Contains(e.Text, syncPrefix) {
			t.Errorf("marker line leaked to the sink: %q", e.Text)
		}
	}
}

func TestSession_SyncReportsShellExit(t *testing.T) {
	spawner := &fakeSpawner{}
	s := NewSession(spawner)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	s.Exec("exit")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.Sync(ctx); !errors.Is(err, ErrSessionStopped) {
		t.Errorf("Sync after the shell exited = %v, want ErrSessionStopped", err)
	}
}

// startRealShell runs a session over the system sh.
func startRealShell(t *testing.T) (*Session, *collector) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	s := NewSession(NewExecSpawner("", "sh"))
	c := newCollector()
	s.SetSink(c.sink)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })
	return s, c
}

func TestSession_RealShell_RunWaitsForCompletion(t *testing.T) {
	s, c := startRealShell(t)
	if s.ShellName() != "sh" {
		t.Errorf("ShellName() = %q, want sh", s.ShellName())
	}

	marker := filepath.Join(t.TempDir(), "done")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx, "sleep 0.5; echo ok > "+marker); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("Run returned before the command finished: %v", err)
	}

	// Output without a trailing newline shares a line with the marker.
	if err := s.Run(ctx, "printf partial"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	c.waitFor(t, ChannelOut, "partial")

	if err := s.Run(ctx, "echo oops >&2"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	c.waitFor(t, ChannelErr, "oops")
}

func TestSession_RealShell_StopKillsBlockedShell(t *testing.T) {
	s, c := startRealShell(t)

	s.Exec("sleep 30")
	start := time.Now()
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if elapsed := time.Since(start); elapsed > exitGrace+stopTimeout {
		t.Errorf("Stop took %v; the process group was not killed", elapsed)
	}
	if s.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", s.State())
	}
	c.waitFor(t, ChannelSys, MsgStopped)
}

func TestSession_StartIsIdempotent(t *testing.T) {
	spawner := &fakeSpawner{}
	s := NewSession(spawner)
	defer s.Stop()

	for i := 0; i < 3; i++ {
		if err := s.Start(context.Background()); err != nil {
			t.Fatalf("Start #%d: %v", i, err)
		}
	}
	if spawner.Spawned() != 1 {
		t.Errorf("Spawned() = %d, want 1", spawner.Spawned())
	}
	if s.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1", s.Generation())
	}
}

func TestSession_StartFailureStaysStopped(t *testing.T) {
	spawner := &fakeSpawner{fail: ErrNoShell}
	s := NewSession(spawner)
	c := newCollector()
	s.SetSink(c.sink)

	err := s.Start(context.Background())
	if !errors.Is(err, ErrNoShell) {
		t.Fatalf("Start error = %v, want ErrNoShell", err)
	}
	if s.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", s.State())
	}
	if len(c.all()) == 0 || c.all()[0].Channel != ChannelSys {
		t.Errorf("expected a sys entry describing the failure, got %v", c.all())
	}
	if !errors.Is(waitTask(t, s.Exec("echo x")), ErrSessionStopped) {
		t.Error("Exec after failed start should report ErrSessionStopped")
	}
}

func TestSession_StopSendsExitAndIsIdempotent(t *testing.T) {
	spawner := &fakeSpawner{}
	s := NewSession(spawner)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if s.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", s.State())
	}

	got := spawner.Proc(0).Received()
	if len(got) == 0 || got[len(got)-1] != "exit" {
		t.Errorf("process received %v, want trailing exit", got)
	}
	if !errors.Is(waitTask(t, s.Exec("echo late")), ErrSessionStopped) {
		t.Error("Exec after Stop should report ErrSessionStopped")
	}
}

func TestSession_RestartReachesFreshProcess(t *testing.T) {
	spawner := &fakeSpawner{}
	s := NewSession(spawner)
	c := newCollector()
	s.SetSink(c.sink)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := waitTask(t, s.Exec("echo first")); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	c.waitFor(t, ChannelOut, "first")

	if err := s.Restart(context.Background()); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	defer s.Stop()

	if s.State() != StateRunning {
		t.Fatalf("State() after restart = %s, want running", s.State())
	}
	if s.Generation() != 2 {
		t.Errorf("Generation() = %d, want 2", s.Generation())
	}

	if err := waitTask(t, s.Exec("echo second")); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	c.waitFor(t, ChannelOut, "second")

	for _, line := range spawner.Proc(0).Received() {
		if line == "echo second" {
			t.Error("command after restart reached the old process")
		}
	}
	found := false
	for _, line := range spawner.Proc(1).Received() {
		if line == "echo second" {
			found = true
		}
	}
	if !found {
		t.Errorf("new process received %v, want echo second", spawner.Proc(1).Received())
	}
}

func TestSession_SelfExitTransitionsToStopped(t *testing.T) {
	spawner := &fakeSpawner{}
	s := NewSession(spawner)
	c := newCollector()
	s.SetSink(c.sink)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := waitTask(t, s.Exec("exit")); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	c.waitFor(t, ChannelSys, MsgExited)

	if s.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", s.State())
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start after exit: %v", err)
	}
	defer s.Stop()
	if s.Generation() != 2 {
		t.Errorf("Generation() = %d, want 2", s.Generation())
	}
}

func TestSession_CommandsAreWrittenInOrder(t *testing.T) {
	spawner := &fakeSpawner{}
	s := NewSession(spawner)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	var tasks []*Task
	for i := 0; i < 50; i++ {
		tasks = append(tasks, s.Exec("noop "+string(rune('a'+i%26))))
	}
	for _, task := range tasks {
		if err := waitTask(t, task); err != nil {
			t.Fatalf("Exec %q: %v", task.Command, err)
		}
	}

	got := spawner.Proc(0).Received()
	if len(got) < len(tasks) {
		t.Fatalf("received %d lines, want %d", len(got), len(tasks))
	}
	for i, task := range tasks {
		if got[i] != task.Command {
			t.Fatalf("line %d = %q, want %q", i, got[i], task.Command)
		}
	}
}

func TestLogBuffer(t *testing.T) {
	b := NewLogBuffer(2)
	b.Append(NewEntry(ChannelIn, "$ id"))
	b.Append(NewEntry(ChannelOut, "uid=0(root)"))
	b.Append(NewEntry(ChannelSys, MsgRestarted))

	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	last, ok := b.Last()
	if !ok || last.Text != MsgRestarted {
		t.Errorf("Last() = %v, %v", last, ok)
	}

	var sb strings.Builder
	if _, err := b.WriteTo(&sb); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if sb.String() != "uid=0(root)\n"+MsgRestarted {
		t.Errorf("WriteTo = %q", sb.String())
	}

	b.Clear()
	if b.Len() != 0 {
		t.Errorf("Len() after Clear = %d", b.Len())
	}
}
