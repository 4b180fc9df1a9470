package fps

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/javapro/tweakctl/internal/shell/shelltest"
)

func TestParseFPS(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"garbage", 0},
		{"60", 60},
		{"59.94\n", 59},
		{"fps: 90.2", 90},
		{"...", 0},
		{"1.2.3", 0},
		{"99999999999999999999", math.MaxInt32},
		{strings.Repeat("9", 400), math.MaxInt32},
	}
	for _, tt := range tests {
		if got := ParseFPS(tt.raw); got != tt.want {
			t.Errorf("ParseFPS(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestReader_ProbeAndRead(t *testing.T) {
	rec := shelltest.NewRecorder()
	rec.Outputs["test -e /sys/class/graphics/fb0/measured_fps && echo exists"] = "exists\n"
	rec.Outputs["cat /sys/class/graphics/fb0/measured_fps"] = "fps: 120.0\n"
	r := NewReader(rec, nil)

	if got := r.Read(context.Background()); got != 0 {
		t.Errorf("Read before probe = %d, want 0", got)
	}
	node, ok := r.Probe(context.Background())
	if !ok || node != DefaultNodes[1] {
		t.Fatalf("Probe = %q, %v", node, ok)
	}
	if got := r.Read(context.Background()); got != 120 {
		t.Errorf("Read = %d, want 120", got)
	}
}

func TestReader_ProbeNoNode(t *testing.T) {
	r := NewReader(shelltest.NewRecorder(), []string{"/nope"})
	if _, ok := r.Probe(context.Background()); ok {
		t.Error("Probe should fail when no node exists")
	}
	if r.Node() != "" {
		t.Errorf("Node() = %q, want empty", r.Node())
	}
}

func TestExtractTotalFrames(t *testing.T) {
	if got := ExtractTotalFrames("  totalFrames = 12345\n"); got != 12345 {
		t.Errorf("got %d", got)
	}
	if got := ExtractTotalFrames("totalFrames=7"); got != 7 {
		t.Errorf("got %d", got)
	}
	if got := ExtractTotalFrames("nothing here"); got != 0 {
		t.Errorf("got %d", got)
	}
}

func TestClampAndRate(t *testing.T) {
	tests := map[int]int{-3: 0, 30: 30, 58: 60, 62: 60, 63: 63, 90: 90, 144: 120}
	for in, want := range tests {
		if got := Clamp(in); got != want {
			t.Errorf("Clamp(%d) = %d, want %d", in, got, want)
		}
	}

	if _, ok := Rate(0, 100, time.Second); ok {
		t.Error("first sample should not produce a rate")
	}
	if _, ok := Rate(100, 100, time.Second); ok {
		t.Error("unchanged counter should not produce a rate")
	}
	if got, ok := Rate(1000, 1045, 500*time.Millisecond); !ok || got != 90 {
		t.Errorf("Rate = %d, %v; want 90", got, ok)
	}
}

func TestFrameCounter_Sample(t *testing.T) {
	rec := shelltest.NewRecorder()
	c := NewFrameCounter(rec)
	base := time.Unix(0, 0)
	c.now = func() time.Time { return base }

	rec.Outputs[TimestatsDump] = "totalFrames = 1000"
	if _, ok := c.Sample(context.Background()); ok {
		t.Fatal("priming sample should not report")
	}

	base = base.Add(time.Second)
	rec.Outputs[TimestatsDump] = "totalFrames = 1061"
	got, ok := c.Sample(context.Background())
	if !ok || got != 60 {
		t.Errorf("Sample = %d, %v; want 60", got, ok)
	}
}

func TestWatch_Sysfs(t *testing.T) {
	rec := shelltest.NewRecorder()
	rec.Outputs["test -e /node && echo exists"] = "exists"
	rec.Outputs["cat /node"] = "75"
	r := NewReader(rec, []string{"/node"})

	ctx, cancel := context.WithCancel(context.Background())
	var samples []Sample
	err := Watch(ctx, rec, r, time.Millisecond, func(s Sample) {
		samples = append(samples, s)
		if len(samples) == 3 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if len(samples) < 3 || samples[0].FPS != 75 || samples[0].Source != SourceSysfs {
		t.Errorf("samples = %v", samples)
	}
}

func TestWatch_TimestatsDisablesOnReturn(t *testing.T) {
	rec := shelltest.NewRecorder()
	r := NewReader(rec, []string{"/missing"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := Watch(ctx, rec, r, time.Millisecond, func(Sample) {}); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if !rec.Contains(TimestatsEnable) || !rec.Contains(TimestatsDisable) {
		t.Errorf("commands = %v", rec.Commands())
	}
}
