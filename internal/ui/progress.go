// Package ui provides the spinner component.
package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var (
	spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinnerMu     sync.Mutex
	spinnerStop   chan struct{}
	spinnerDone   chan struct{}
	spinnerActive bool
)

// StartSpinner starts an animated spinner with a message. It does nothing in
// quiet mode or when stdout is not a terminal.
//
// Parameters:
//   - message: The message to display next to the spinner
func StartSpinner(message string) {
	spinnerMu.Lock()
	defer spinnerMu.Unlock()

	if spinnerActive || IsQuiet() || !isatty.IsTerminal(os.Stdout.Fd()) {
		return
	}

	spinnerActive = true
	spinnerStop = make(chan struct{})
	spinnerDone = make(chan struct{})

	go func(stop, done chan struct{}) {
		defer close(done)
		i := 0
		for {
			select {
			case <-stop:
				fmt.Printf("\r%s\r", strings.Repeat(" ", len(message)+4))
				return
			default:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Printf("\r%s %s", StatusRunningStyle.Render(frame), message)
				i++
				time.Sleep(80 * time.Millisecond)
			}
		}
	}(spinnerStop, spinnerDone)
}

// StopSpinner stops the current spinner and clears its line.
func StopSpinner() {
	spinnerMu.Lock()
	defer spinnerMu.Unlock()

	if !spinnerActive {
		return
	}
	close(spinnerStop)
	<-spinnerDone
	spinnerActive = false
}
