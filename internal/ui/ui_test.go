package ui

import (
	"strings"
	"testing"
)

func TestTableRender(t *testing.T) {
	table := NewTable("KEY", "STATE")
	table.AddRow("perf_gpu", "on")
	table.AddRow("game_thermal_long_name", "off")
	table.SetMaxWidth(0, 12)

	out := table.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Render() produced %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[3], "game_ther...") {
		t.Errorf("long cell not truncated: %q", lines[3])
	}
	if !strings.Contains(lines[2], "perf_gpu") {
		t.Errorf("row missing: %q", lines[2])
	}
}

func TestPromptConfirm(t *testing.T) {
	tests := []struct {
		input      string
		defaultYes bool
		want       bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"yes", false, true},
	}
	for _, tt := range tests {
		SetInput(strings.NewReader(tt.input))
		got, err := PromptConfirm("Continue?", tt.defaultYes)
		if err != nil {
			t.Fatalf("PromptConfirm(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("PromptConfirm(%q, %v) = %v, want %v", tt.input, tt.defaultYes, got, tt.want)
		}
	}

	SetInput(strings.NewReader(""))
	if _, err := PromptConfirm("Continue?", true); err == nil {
		t.Error("closed input should return an error")
	}
}

func TestPromptSelect(t *testing.T) {
	SetInput(strings.NewReader("9\n2\n"))
	idx, err := PromptSelect("Mode", []string{"balance", "performance"})
	if err != nil || idx != 1 {
		t.Errorf("PromptSelect = %d, %v; want 1", idx, err)
	}
}

func TestQuietMode(t *testing.T) {
	SetQuietMode(true)
	defer SetQuietMode(false)
	if !IsQuiet() {
		t.Error("IsQuiet() = false after SetQuietMode(true)")
	}
}
