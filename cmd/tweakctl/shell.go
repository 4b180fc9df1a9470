// Package main provides the shell command: the QuickShell TUI, a plain line
// REPL and one-shot root command execution.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/shell"
	"github.com/javapro/tweakctl/internal/tui"
	"github.com/javapro/tweakctl/internal/ui"
)

var shellPlain bool

// shellCmd opens an interactive root shell.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive root shell",
	Long: `Open a persistent root shell.

In a terminal this launches QuickShell:
  enter   run the typed command
  ctrl+r  restart the shell (clears the log)
  ctrl+l  clear the log
  ctrl+s  save the log to the QuickShell log directory
  ctrl+y  copy the last line
  esc     quit

With --plain, --json, --quiet or when stdout is not a terminal, a line
REPL reads commands from stdin instead. Type "exit" to leave.

EXAMPLES:
  tweakctl shell
  echo "getprop ro.product.model" | tweakctl shell --plain
  tweakctl shell exec "cat /proc/loadavg"`,
	RunE: runShell,
}

// shellExecCmd runs a single command through the root executor.
var shellExecCmd = &cobra.Command{
	Use:   "exec <command...>",
	Short: "Run one command as root and print its output",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShellExec,
}

func init() {
	shellCmd.Flags().BoolVar(&shellPlain, "plain", false, "Use the line REPL instead of the TUI")
	shellCmd.AddCommand(shellExecCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	sess := a.NewSession()

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !shellPlain && tui.ShouldRunTUI(jsonOutput(cmd), quiet) {
		return tui.RunQuickShell(cmd.Context(), sess, tui.QuickShellOptions{
			LogDir:  a.Config.LogDir(),
			History: a.Config.QuickShell.History,
		})
	}
	return runPlainShell(cmd.Context(), sess, cmd.InOrStdin(), cmd.OutOrStdout())
}

// runPlainShell feeds stdin lines to sess and prints every entry it emits.
// Output arrives asynchronously, so the REPL waits briefly after the input
// ends for trailing lines.
func runPlainShell(ctx context.Context, sess *shell.Session, in io.Reader, out io.Writer) error {
	sess.SetSink(func(e shell.LogEntry) {
		switch e.Channel {
		case shell.ChannelErr:
			fmt.Fprintln(out, ui.ShellErrStyle.Render(e.Text))
		case shell.ChannelSys:
			fmt.Fprintln(out, ui.ShellSysStyle.Render(e.Text))
		default:
			fmt.Fprintln(out, e.Text)
		}
	})
	if err := sess.Start(ctx); err != nil {
		return err
	}
	defer sess.Stop()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}
		if err := sess.Exec(line).Wait(ctx); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(300 * time.Millisecond):
	}
	return nil
}

func runShellExec(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	command := strings.Join(args, " ")
	out, err := a.Exec.Output(cmd.Context(), command)
	if jsonOutput(cmd) {
		result := map[string]any{"command": command, "stdout": out, "success": err == nil}
		if err != nil {
			result["error"] = err.Error()
		}
		if jerr := printJSON(result); jerr != nil {
			return jerr
		}
		return err
	}
	fmt.Fprint(os.Stdout, out)
	return err
}
