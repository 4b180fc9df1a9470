package profile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/javapro/tweakctl/internal/shell/shelltest"
	"github.com/javapro/tweakctl/internal/store"
)

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"performance": Performance,
		" PowerSave ": Powersave,
		"balance":     Balance,
		"":            Balance,
		"turbo":       Balance,
	}
	for in, want := range tests {
		if got := ParseMode(in); got != want {
			t.Errorf("ParseMode(%q) = %s, want %s", in, got, want)
		}
	}
	if Valid("turbo") || !Valid("powersave") {
		t.Error("Valid() mismatch")
	}
}

func TestCommands_ThermalFirst(t *testing.T) {
	perf := Commands(Performance)
	if perf[0] != "stop thermal-engine" {
		t.Errorf("performance starts with %q, want thermal stop", perf[0])
	}
	sweep := -1
	for i, c := range perf {
		if strings.Contains(c, "scaling_governor") {
			sweep = i
			break
		}
	}
	if sweep != len(thermalStop) {
		t.Errorf("governor sweep at %d, want right after thermal commands (%d)", sweep, len(thermalStop))
	}
	if !strings.Contains(perf[sweep], "cat $cpu/cpuinfo_max_freq > $cpu/scaling_max_freq") {
		t.Errorf("performance sweep should pin max: %s", perf[sweep])
	}
	if perf[len(perf)-1] != "echo 3 > /proc/sys/vm/drop_caches" {
		t.Errorf("performance ends with %q", perf[len(perf)-1])
	}

	save := Commands(Powersave)
	if save[0] != "start thermal-engine" || save[len(save)-1] != "dumpsys deviceidle force-idle" {
		t.Errorf("powersave = %v", save)
	}

	bal := Commands(Balance)
	if !strings.Contains(bal[len(thermalStart)], "echo schedutil > $cpu/scaling_governor") {
		t.Errorf("balance sweep = %q", bal[len(thermalStart)])
	}
	if strings.Join(Commands("unknown"), "\n") != strings.Join(bal, "\n") {
		t.Error("unknown mode should resolve to balance")
	}
}

func TestManager_SetGetList(t *testing.T) {
	kv := store.NewMemoryStore()
	rec := shelltest.NewRecorder()
	m := NewManager(kv, rec)
	ctx := context.Background()

	if got := m.Get("com.example.game"); got != Balance {
		t.Errorf("Get(unset) = %s, want balance", got)
	}
	if err := m.Set(ctx, "com.example.game", Performance); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := m.Get("com.example.game"); got != Performance {
		t.Errorf("Get = %s, want performance", got)
	}
	if strings.Join(rec.Commands(), "\n") != strings.Join(Commands(Performance), "\n") {
		t.Error("Set should apply the performance command list in order")
	}

	if err := m.Set(ctx, "com.example.reader", Powersave); err != nil {
		t.Fatal(err)
	}
	list, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Package != "com.example.game" || list[1].Mode != Powersave {
		t.Errorf("List() = %v", list)
	}

	if err := m.Set(ctx, "", Balance); err == nil {
		t.Error("Set with empty package should fail")
	}
}

func TestManager_ApplyContinuesPastFailures(t *testing.T) {
	rec := shelltest.NewRecorder()
	rec.Errors["stop thermald"] = errors.New("no such service")
	m := NewManager(store.NewMemoryStore(), rec)

	err := m.Apply(context.Background(), Performance)
	if err == nil {
		t.Fatal("expected joined error")
	}
	if len(rec.Commands()) != len(Commands(Performance)) {
		t.Errorf("ran %d commands, want all %d", len(rec.Commands()), len(Commands(Performance)))
	}
}

func TestParsePackages(t *testing.T) {
	out := "package:com.b.app\npackage:com.a.game\r\nWARNING: linker\npackage:com.b.app\n\n"
	got := ParsePackages(out)
	if strings.Join(got, ",") != "com.a.game,com.b.app" {
		t.Errorf("ParsePackages = %v", got)
	}

	rec := shelltest.NewRecorder()
	rec.Outputs[ListPackagesCommand] = "package:com.example.game\n"
	pkgs, err := ListPackages(context.Background(), rec)
	if err != nil || len(pkgs) != 1 {
		t.Errorf("ListPackages = %v, %v", pkgs, err)
	}
}
