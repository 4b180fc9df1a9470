package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/javapro/tweakctl/internal/shell"
)

// ShellSession is the part of shell.Session the QuickShell drives.
type ShellSession interface {
	Start(ctx context.Context) error
	Stop() error
	Restart(ctx context.Context) error
	Exec(command string) *shell.Task
	SetSink(sink shell.Sink)
	State() shell.State
	ShellName() string
}

// QuickShellOptions configures the QuickShell.
type QuickShellOptions struct {
	// LogDir receives saved logs (ctrl+s).
	LogDir string

	// History bounds the number of entries kept on screen (0 = unbounded).
	History int
}

// copyToClipboard writes text to the system clipboard.
var copyToClipboard = clipboard.WriteAll

// entryBuffer is the number of entries that can queue between the shell
// readers and the UI before the readers wait.
const entryBuffer = 256

const headerLines = 2
const footerLines = 3

// --- Messages ---

// entryMsg delivers one session log entry to the UI.
type entryMsg struct {
	Entry   shell.LogEntry
	NextCmd tea.Cmd
}

// taskDoneMsg reports a command that could not be written to the shell.
type taskDoneMsg struct {
	Command string
	Err     error
}

// restartDoneMsg reports the outcome of ctrl+r.
type restartDoneMsg struct {
	Err error
}

// --- Model ---

// quickShellModel is the Bubble Tea model for the QuickShell.
type quickShellModel struct {
	sess    ShellSession
	opts    QuickShellOptions
	entries chan shell.LogEntry
	done    chan struct{}

	logs     *shell.LogBuffer
	input    textinput.Model
	viewport viewport.Model
	status   string

	width  int
	height int
	ready  bool
}

// newQuickShellModel wires sess to a fresh model. The session's sink is
// replaced; entries are delivered through the model's channel until done
// is closed.
func newQuickShellModel(sess ShellSession, opts QuickShellOptions) quickShellModel {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("$ ")
	ti.Placeholder = "command"
	ti.CharLimit = 4096
	ti.Focus()

	m := quickShellModel{
		sess:     sess,
		opts:     opts,
		entries:  make(chan shell.LogEntry, entryBuffer),
		done:     make(chan struct{}),
		logs:     shell.NewLogBuffer(opts.History),
		input:    ti,
		viewport: viewport.New(80, 20),
	}

	entries, done := m.entries, m.done
	sess.SetSink(func(e shell.LogEntry) {
		select {
		case entries <- e:
		case <-done:
		}
	})
	return m
}

// waitForEntryCmd reads the next entry from ch and re-issues itself through
// the returned message.
func waitForEntryCmd(ch <-chan shell.LogEntry, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-ch:
			return entryMsg{Entry: e, NextCmd: waitForEntryCmd(ch, done)}
		case <-done:
			return nil
		}
	}
}

// waitForTaskCmd reports the task only when it fails.
func waitForTaskCmd(t *shell.Task) tea.Cmd {
	return func() tea.Msg {
		<-t.Done()
		if err := t.Err(); err != nil {
			return taskDoneMsg{Command: t.Command, Err: err}
		}
		return nil
	}
}

func restartCmd(sess ShellSession) tea.Cmd {
	return func() tea.Msg {
		return restartDoneMsg{Err: sess.Restart(context.Background())}
	}
}

// Init starts listening for session output.
func (m quickShellModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEntryCmd(m.entries, m.done))
}

// Update handles messages for the QuickShell.
func (m quickShellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-headerLines-footerLines)
		m.input.Width = max(1, msg.Width-4)
		m.ready = true
		m.refresh()
		return m, nil

	case entryMsg:
		m.append(msg.Entry)
		return m, msg.NextCmd

	case taskDoneMsg:
		m.append(shell.NewEntry(shell.ChannelErr, fmt.Sprintf("%s: %v", msg.Command, msg.Err)))
		return m, nil

	case restartDoneMsg:
		if msg.Err != nil {
			m.append(shell.NewEntry(shell.ChannelErr, msg.Err.Error()))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var inputCmd, viewCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, viewCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, viewCmd)
}

func (m quickShellModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		command := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if command == "" {
			return m, nil
		}
		m.status = ""
		m.append(shell.NewEntry(shell.ChannelIn, "$ "+command))
		return m, waitForTaskCmd(m.sess.Exec(command))

	case "ctrl+r":
		m.logs.Clear()
		m.append(shell.NewEntry(shell.ChannelSys, shell.MsgRestarted))
		m.status = ""
		return m, restartCmd(m.sess)

	case "ctrl+l":
		m.logs.Clear()
		m.status = ""
		m.refresh()
		return m, nil

	case "ctrl+s":
		path, err := SaveLog(m.opts.LogDir, m.logs, time.Now())
		if err != nil {
			m.status = "Save failed: " + err.Error()
		} else {
			m.status = "Saved " + path
		}
		return m, nil

	case "ctrl+y":
		last, ok := m.logs.Last()
		switch {
		case !ok:
			m.status = "Nothing to copy"
		case copyToClipboard(last.Text) != nil:
			m.status = "Clipboard unavailable"
		default:
			m.status = "Copied last line"
		}
		return m, nil

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// append records e and scrolls to it.
func (m *quickShellModel) append(e shell.LogEntry) {
	m.logs.Append(e)
	m.refresh()
}

func (m *quickShellModel) refresh() {
	entries := m.logs.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = renderEntry(e)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// View renders the QuickShell.
func (m quickShellModel) View() string {
	var b strings.Builder

	state := m.sess.State()
	badge := stateStyles[state].Render(string(state))
	name := m.sess.ShellName()
	if name == "" {
		name = "-"
	}
	b.WriteString(titleStyle.Render("QuickShell") + "  " + badge + "  " + dimStyle.Render(name) + "\n")
	b.WriteString(separator(m.width) + "\n")

	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(separator(m.width) + "\n")
	b.WriteString(m.input.View() + "\n")

	help := "enter run · ctrl+r restart · ctrl+l clear · ctrl+s save · ctrl+y copy · esc quit"
	if m.status != "" {
		help = m.status
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

// SaveLog writes the buffered entry texts to <dir>/quickshell_<unix-ms>.log.
//
// Parameters:
//   - dir: Directory for the log file (created if missing)
//   - logs: Entries to save
//   - now: Timestamp used in the file name
//
// Returns:
//   - string: The written path
//   - error: Any error creating the directory or writing the file
func SaveLog(dir string, logs *shell.LogBuffer, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("quickshell_%d.log", now.UnixMilli()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}
	if _, err := logs.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write log file: %w", err)
	}
	return path, nil
}

// --- Tea program runner ---

// RunQuickShell starts sess, runs the QuickShell until the user quits and
// stops the session afterwards. A shell that fails to start is reported in
// the log rather than aborting the UI, so ctrl+r can retry.
//
// Parameters:
//   - ctx: Context for the initial start
//   - sess: The session to drive
//   - opts: Log directory and history limit
//
// Returns:
//   - error: any error from the Bubble Tea runtime
func RunQuickShell(ctx context.Context, sess ShellSession, opts QuickShellOptions) error {
	m := newQuickShellModel(sess, opts)
	defer func() {
		close(m.done)
		_ = sess.Stop()
	}()

	go func() {
		if err := sess.Start(ctx); err != nil {
			log.Debug("QuickShell start failed", "error", err)
		}
	}()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
