package booster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/javapro/tweakctl/internal/fps"
	"github.com/javapro/tweakctl/internal/shell/shelltest"
	"github.com/javapro/tweakctl/internal/store"
)

func TestParseFocusedPackage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"activity", "  mCurrentFocus=Window{1a2b3c u0 com.example.game/com.example.game.MainActivity}", "com.example.game"},
		{"multiple lines", "mCurrentFocus=Window{9 u0 com.a/com.a.Main}\nmCurrentFocus=Window{8 u0 com.b/com.b.Main}", "com.a"},
		{"no activity", "mCurrentFocus=Window{4f u0 StatusBar}", ""},
		{"null", "mCurrentFocus=null", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFocusedPackage(tt.in); got != tt.want {
				t.Errorf("ParseFocusedPackage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGameList(t *testing.T) {
	g := NewGameList(store.NewMemoryStore())

	if err := g.Add("  "); !errors.Is(err, ErrEmptyPackage) {
		t.Errorf("Add(blank) = %v, want ErrEmptyPackage", err)
	}
	for _, pkg := range []string{"com.b.game", " com.a.game ", "com.b.game"} {
		if err := g.Add(pkg); err != nil {
			t.Fatalf("Add(%q): %v", pkg, err)
		}
	}
	list, _ := g.List()
	if len(list) != 2 || list[0] != "com.a.game" {
		t.Errorf("List() = %v", list)
	}
	if !g.Contains("com.a.game") || g.Contains("") {
		t.Error("Contains mismatch")
	}
	if err := g.Remove("com.a.game"); err != nil {
		t.Fatal(err)
	}
	if g.Contains("com.a.game") {
		t.Error("game still present after Remove")
	}
}

func TestService_ReportsActiveGame(t *testing.T) {
	rec := shelltest.NewRecorder()
	rec.Outputs[FocusCommand] = "mCurrentFocus=Window{1 u0 com.example.game/.Main}"
	games := NewGameList(store.NewMemoryStore())
	_ = games.Add("com.example.game")

	var mu sync.Mutex
	var statuses []Status
	got := make(chan struct{}, 8)
	svc := NewService(rec, games, nil, Options{
		GameInterval: 10 * time.Millisecond,
		OnStatus: func(st Status) {
			mu.Lock()
			statuses = append(statuses, st)
			mu.Unlock()
			got <- struct{}{}
		},
	})

	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for svc.Status().Package == "" {
		select {
		case <-got:
		case <-deadline:
			t.Fatal("monitor never reported the game")
		}
	}
	if err := svc.Stop(); err != nil {
		t.Fatal(err)
	}
	if svc.Running() {
		t.Error("Running() after Stop")
	}

	mu.Lock()
	defer mu.Unlock()
	if statuses[0].Message != MsgWaiting {
		t.Errorf("first status = %+v, want waiting", statuses[0])
	}
	last := statuses[len(statuses)-1]
	if last.Message != "Active: com.example.game" || last.Title != TitleActive {
		t.Errorf("last status = %+v", last)
	}
}

func TestService_SamplesFPS(t *testing.T) {
	rec := shelltest.NewRecorder()
	rec.Outputs["test -e /fps && echo exists"] = "exists"
	rec.Outputs["cat /fps"] = "90"
	reader := fps.NewReader(rec, []string{"/fps"})

	sampled := make(chan int, 8)
	svc := NewService(rec, NewGameList(store.NewMemoryStore()), reader, Options{
		GameInterval: time.Hour,
		FPSInterval:  5 * time.Millisecond,
		OnFPS: func(v int) {
			select {
			case sampled <- v:
			default:
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	select {
	case v := <-sampled:
		if v != 90 {
			t.Errorf("sampled %d, want 90", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no FPS sample")
	}
	cancel()
	<-done
	if svc.FPS() != 90 {
		t.Errorf("FPS() = %d", svc.FPS())
	}
}

func TestProcessController_StaleAndMissingPIDFile(t *testing.T) {
	dir := t.TempDir()
	p := &ProcessController{PIDFile: filepath.Join(dir, "monitor.pid")}

	if _, ok := p.PID(); ok {
		t.Error("PID() with no file should report not running")
	}
	if err := p.Stop(); err != nil {
		t.Errorf("Stop() with no file: %v", err)
	}

	if err := os.WriteFile(p.PIDFile, []byte("not-a-pid"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.PID(); ok {
		t.Error("garbage pid file should report not running")
	}
	if err := p.Stop(); err != nil {
		t.Errorf("Stop(): %v", err)
	}
	if _, err := os.Stat(p.PIDFile); !os.IsNotExist(err) {
		t.Error("Stop should remove the pid file")
	}

	if err := os.WriteFile(p.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0600); err != nil {
		t.Fatal(err)
	}
	if pid, ok := p.PID(); !ok || pid != os.Getpid() {
		t.Errorf("PID() = %d, %v; want own pid", pid, ok)
	}
}
