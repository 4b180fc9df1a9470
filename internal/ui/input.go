// Package ui provides interactive input components.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	inputMu     sync.Mutex
	inputReader = bufio.NewReader(os.Stdin)
)

// SetInput replaces the reader prompts read from.
func SetInput(r io.Reader) {
	inputMu.Lock()
	defer inputMu.Unlock()
	inputReader = bufio.NewReader(r)
}

// Prompt displays a prompt and reads one line of input.
//
// Parameters:
//   - message: The prompt message to display
//
// Returns:
//   - string: The trimmed input
//   - error: Any read error, including io.EOF on closed input
func Prompt(message string) (string, error) {
	fmt.Printf("%s ", InfoStyle.Render(message))

	inputMu.Lock()
	input, err := inputReader.ReadString('\n')
	inputMu.Unlock()
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// PromptConfirm displays a yes/no confirmation prompt.
//
// Parameters:
//   - message: The prompt message to display
//   - defaultYes: Whether an empty answer means yes
//
// Returns:
//   - bool: True if user confirmed
//   - error: Any read error
func PromptConfirm(message string, defaultYes bool) (bool, error) {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}

	input, err := Prompt(fmt.Sprintf("%s %s", message, suffix))
	if err != nil {
		return false, err
	}

	input = strings.ToLower(input)
	if input == "" {
		return defaultYes, nil
	}
	return input == "y" || input == "yes", nil
}

// PromptSelect displays a numbered list and returns the chosen index.
//
// Parameters:
//   - message: The prompt message to display
//   - options: List of options to choose from
//
// Returns:
//   - int: Index of selected option
//   - error: Any read error
func PromptSelect(message string, options []string) (int, error) {
	fmt.Println(InfoStyle.Render(message))
	for i, opt := range options {
		fmt.Printf("    %s %s\n", AccentStyle.Render(fmt.Sprintf("[%d]", i+1)), InfoStyle.Render(opt))
	}

	for {
		input, err := Prompt("Select option:")
		if err != nil {
			return -1, err
		}

		var selection int
		_, err = fmt.Sscanf(input, "%d", &selection)
		if err != nil || selection < 1 || selection > len(options) {
			PrintWarning("Please enter a number between 1 and %d", len(options))
			continue
		}
		return selection - 1, nil
	}
}
