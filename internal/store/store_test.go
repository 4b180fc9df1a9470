package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTypedHelpers(t *testing.T) {
	kv := NewMemoryStore()

	if got := GetBool(kv, "missing", true); !got {
		t.Errorf("GetBool(missing, true) = %v, want true", got)
	}
	if err := SetBool(kv, "flag", true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	if got := GetBool(kv, "flag", false); !got {
		t.Errorf("GetBool(flag) = %v, want true", got)
	}

	kv.Set("garbage", "not-a-bool")
	if got := GetBool(kv, "garbage", false); got {
		t.Errorf("GetBool(garbage) = %v, want default false", got)
	}
	if got := GetFloat(kv, "garbage", 1.5); got != 1.5 {
		t.Errorf("GetFloat(garbage) = %v, want default 1.5", got)
	}

	if err := SetFloat(kv, "scale", 0.75); err != nil {
		t.Fatalf("SetFloat: %v", err)
	}
	if got := GetFloat(kv, "scale", 1); got != 0.75 {
		t.Errorf("GetFloat(scale) = %v, want 0.75", got)
	}
	if got := GetString(kv, "nope", "en"); got != "en" {
		t.Errorf("GetString(nope) = %q, want en", got)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	kv := NewMemoryStore()
	if _, err := kv.Get("x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(x) error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	backend := NewFileBackend(dir)

	kv, err := backend.Namespace(NamespaceTweaks)
	if err != nil {
		t.Fatalf("Namespace: %v", err)
	}
	if err := kv.Set("perf_gpu", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set("bat_doze", "false"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Delete("bat_doze"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "tweaks.yaml")); err != nil {
		t.Fatalf("expected tweaks.yaml to exist: %v", err)
	}

	reopened, err := NewFileBackend(dir).Namespace(NamespaceTweaks)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get("perf_gpu")
	if err != nil || got != "true" {
		t.Fatalf("Get(perf_gpu) = %q, %v; want true", got, err)
	}
	keys, _ := reopened.Keys()
	if len(keys) != 1 || keys[0] != "perf_gpu" {
		t.Errorf("Keys() = %v, want [perf_gpu]", keys)
	}
}

func TestFileStore_MalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unclosed flow sequence", "key: [unclosed\n"},
		{"sequence instead of map", "- a\n- b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := NewFileStore(path); err == nil {
				t.Fatal("expected parse error for malformed file")
			}
		})
	}
}

func TestFileStore_WatchReloadsExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.yaml")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 16)
	go s.Watch(ctx, func() { changed <- struct{}{} })

	deadline := time.After(5 * time.Second)
	for {
		if err := os.WriteFile(path, []byte("com.example.game: \"1\"\n"), 0600); err != nil {
			t.Fatal(err)
		}
		select {
		case <-changed:
			// A reload can observe the truncated file mid-write; keep going
			// until the full mapping has been picked up.
			if v, err := s.Get("com.example.game"); err == nil && v == "1" {
				return
			}
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestSQLiteBackend_Namespaces(t *testing.T) {
	backend, err := OpenSQLite(filepath.Join(t.TempDir(), "tweakctl.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer backend.Close()

	tweaks, _ := backend.Namespace(NamespaceTweaks)
	profiles, _ := backend.Namespace(NamespaceProfiles)

	if err := tweaks.Set("perf_mode", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := tweaks.Set("perf_mode", "false"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if err := profiles.Set("com.example.game", "performance"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if v, _ := tweaks.Get("perf_mode"); v != "false" {
		t.Errorf("perf_mode = %q, want false", v)
	}
	if _, err := profiles.Get("perf_mode"); !errors.Is(err, ErrNotFound) {
		t.Errorf("namespaces leaked: err = %v", err)
	}

	keys, err := profiles.Keys()
	if err != nil || len(keys) != 1 {
		t.Fatalf("Keys() = %v, %v", keys, err)
	}
	if err := profiles.Delete("com.example.game"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if keys, _ := profiles.Keys(); len(keys) != 0 {
		t.Errorf("Keys() after delete = %v", keys)
	}
}
