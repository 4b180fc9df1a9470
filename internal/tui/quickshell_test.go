package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javapro/tweakctl/internal/shell"
)

// fakeSession records what the QuickShell asks of it.
type fakeSession struct {
	mu       sync.Mutex
	sink     shell.Sink
	execs    []string
	restarts int
	execErr  error
}

func (f *fakeSession) Start(ctx context.Context) error { return nil }
func (f *fakeSession) Stop() error                     { return nil }

func (f *fakeSession) Restart(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restarts++
	return nil
}

func (f *fakeSession) Exec(command string) *shell.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, command)
	return shell.CompletedTask(command, f.execErr)
}

func (f *fakeSession) SetSink(sink shell.Sink) { f.sink = sink }
func (f *fakeSession) State() shell.State      { return shell.StateRunning }
func (f *fakeSession) ShellName() string       { return "sh" }

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func texts(m quickShellModel) []string {
	var out []string
	for _, e := range m.logs.Entries() {
		out = append(out, e.Text)
	}
	return out
}

func typeAndEnter(t *testing.T, m quickShellModel, command string) (quickShellModel, tea.Cmd) {
	t.Helper()
	next, _ := m.Update(key(command))
	next, cmd := next.(quickShellModel).Update(key("enter"))
	return next.(quickShellModel), cmd
}

func TestQuickShell_EnterExecutesAndEchoes(t *testing.T) {
	sess := &fakeSession{}
	m := newQuickShellModel(sess, QuickShellOptions{})

	m, cmd := typeAndEnter(t, m, "ls /sdcard")
	if len(sess.execs) != 1 || sess.execs[0] != "ls /sdcard" {
		t.Fatalf("execs = %v, want [ls /sdcard]", sess.execs)
	}
	if got := texts(m); len(got) != 1 || got[0] != "$ ls /sdcard" {
		t.Fatalf("logs = %v, want [$ ls /sdcard]", got)
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
	if cmd == nil {
		t.Fatal("expected a task command")
	}
	if msg := cmd(); msg != nil {
		t.Errorf("successful task produced %#v, want nil", msg)
	}
}

func TestQuickShell_EmptyInputIgnored(t *testing.T) {
	sess := &fakeSession{}
	m := newQuickShellModel(sess, QuickShellOptions{})

	next, cmd := m.Update(key("enter"))
	m = next.(quickShellModel)
	if cmd != nil || len(sess.execs) != 0 || m.logs.Len() != 0 {
		t.Fatalf("empty enter should do nothing: cmd=%v execs=%v logs=%d", cmd, sess.execs, m.logs.Len())
	}
}

func TestQuickShell_FailedTaskIsLogged(t *testing.T) {
	sess := &fakeSession{execErr: shell.ErrSessionStopped}
	m := newQuickShellModel(sess, QuickShellOptions{})

	m, cmd := typeAndEnter(t, m, "id")
	msg := cmd()
	done, ok := msg.(taskDoneMsg)
	if !ok || !errors.Is(done.Err, shell.ErrSessionStopped) {
		t.Fatalf("msg = %#v, want taskDoneMsg with ErrSessionStopped", msg)
	}

	next, _ := m.Update(msg)
	m = next.(quickShellModel)
	last, _ := m.logs.Last()
	if last.Channel != shell.ChannelErr || !strings.HasPrefix(last.Text, "id: ") {
		t.Errorf("last = %+v, want err entry for id", last)
	}
}

func TestQuickShell_SessionOutputStreams(t *testing.T) {
	sess := &fakeSession{}
	m := newQuickShellModel(sess, QuickShellOptions{})

	go sess.sink(shell.NewEntry(shell.ChannelOut, "uid=0(root)"))

	msg := waitForEntryCmd(m.entries, m.done)()
	em, ok := msg.(entryMsg)
	if !ok {
		t.Fatalf("msg = %#v, want entryMsg", msg)
	}
	next, cmd := m.Update(em)
	m = next.(quickShellModel)
	if got := texts(m); len(got) != 1 || got[0] != "uid=0(root)" {
		t.Fatalf("logs = %v", got)
	}
	if cmd == nil {
		t.Error("expected the listener to be re-issued")
	}
}

func TestQuickShell_RestartClearsAndRestarts(t *testing.T) {
	sess := &fakeSession{}
	m := newQuickShellModel(sess, QuickShellOptions{})
	m.logs.Append(shell.NewEntry(shell.ChannelOut, "old"))

	next, cmd := m.Update(key("ctrl+r"))
	m = next.(quickShellModel)
	got := texts(m)
	if len(got) != 1 || got[0] != shell.MsgRestarted {
		t.Fatalf("logs = %v, want [%s]", got, shell.MsgRestarted)
	}
	if cmd == nil {
		t.Fatal("expected restart command")
	}
	if msg, ok := cmd().(restartDoneMsg); !ok || msg.Err != nil {
		t.Fatalf("restart msg = %#v", msg)
	}
	if sess.restarts != 1 {
		t.Errorf("restarts = %d, want 1", sess.restarts)
	}
}

func TestQuickShell_ClearEmptiesLog(t *testing.T) {
	m := newQuickShellModel(&fakeSession{}, QuickShellOptions{})
	m.logs.Append(shell.NewEntry(shell.ChannelOut, "a"))

	next, _ := m.Update(key("ctrl+l"))
	if n := next.(quickShellModel).logs.Len(); n != 0 {
		t.Errorf("Len() = %d after clear, want 0", n)
	}
}

func TestQuickShell_SaveWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	m := newQuickShellModel(&fakeSession{}, QuickShellOptions{LogDir: dir})
	m.logs.Append(shell.NewEntry(shell.ChannelIn, "$ id"))
	m.logs.Append(shell.NewEntry(shell.ChannelOut, "uid=0(root)"))

	next, _ := m.Update(key("ctrl+s"))
	m = next.(quickShellModel)
	if !strings.HasPrefix(m.status, "Saved ") {
		t.Fatalf("status = %q", m.status)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "quickshell_*.log"))
	if len(matches) != 1 {
		t.Fatalf("log files = %v, want one", matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "$ id\nuid=0(root)" {
		t.Errorf("log contents = %q", data)
	}
}

func TestSaveLog_FileName(t *testing.T) {
	dir := t.TempDir()
	now := time.UnixMilli(1700000000123)
	path, err := SaveLog(dir, shell.NewLogBuffer(0), now)
	if err != nil {
		t.Fatalf("SaveLog: %v", err)
	}
	if filepath.Base(path) != "quickshell_1700000000123.log" {
		t.Errorf("path = %s", path)
	}
}

func TestQuickShell_CopyLastLine(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	defer func() { copyToClipboard = orig }()

	m := newQuickShellModel(&fakeSession{}, QuickShellOptions{})
	next, _ := m.Update(key("ctrl+y"))
	if s := next.(quickShellModel).status; s != "Nothing to copy" {
		t.Errorf("status on empty log = %q", s)
	}

	m.logs.Append(shell.NewEntry(shell.ChannelOut, "first"))
	m.logs.Append(shell.NewEntry(shell.ChannelOut, "second"))
	next, _ = m.Update(key("ctrl+y"))
	if copied != "second" {
		t.Errorf("copied %q, want second", copied)
	}
}

func TestQuickShell_EscQuits(t *testing.T) {
	m := newQuickShellModel(&fakeSession{}, QuickShellOptions{})
	_, cmd := m.Update(key("esc"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc did not quit")
	}
}

func TestShouldRunTUI_Flags(t *testing.T) {
	if ShouldRunTUI(true, false) || ShouldRunTUI(false, true) {
		t.Error("ShouldRunTUI must be false with --json or --quiet")
	}
}
