package display

import (
	"context"
	"strings"
	"testing"

	"github.com/javapro/tweakctl/internal/shell/shelltest"
)

func TestParseMetrics(t *testing.T) {
	m := ParseMetrics("Physical size: 1080x2400\nOverride size: 720x1600\n", "Physical density: 420\n")
	if m != (Metrics{Width: 1080, Height: 2400, Density: 420}) {
		t.Errorf("ParseMetrics = %+v", m)
	}
	if m := ParseMetrics("garbage", ""); m != (Metrics{}) {
		t.Errorf("ParseMetrics(garbage) = %+v, want zero", m)
	}
}

func TestScaleCommands(t *testing.T) {
	m := Metrics{Width: 1080, Height: 2400, Density: 420}

	got := ScaleCommands(m, 0.75)
	want := []string{"wm size 810x1800", "wm density 420"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("ScaleCommands(0.75) = %v, want %v", got, want)
	}
	if got := ScaleCommands(m, 0.995); strings.Join(got, "|") != "wm size reset|wm density reset" {
		t.Errorf("ScaleCommands(0.995) = %v, want reset", got)
	}
}

func TestApplyScale(t *testing.T) {
	rec := shelltest.NewRecorder()
	rec.Outputs["wm size"] = "Physical size: 1440x3200"
	rec.Outputs["wm density"] = "Physical density: 560"

	if err := ApplyScale(context.Background(), rec, 0.5); err != nil {
		t.Fatalf("ApplyScale: %v", err)
	}
	if !rec.Contains("wm size 720x1600") || !rec.Contains("wm density 560") {
		t.Errorf("commands = %v", rec.Commands())
	}
	if err := ApplyScale(context.Background(), rec, 1.5); err == nil {
		t.Error("scale above 1 should be rejected")
	}

	bad := shelltest.NewRecorder()
	if err := ApplyScale(context.Background(), bad, 0.5); err == nil {
		t.Error("unparseable wm size should fail before any write")
	}
}

func TestColorCommands(t *testing.T) {
	got := ColorCommands(Color{Red: 1000, Green: 500, Blue: 0, Saturation: 1000})
	want := []string{
		"service call SurfaceFlinger 1022 f 1.0",
		`echo "255 127 0" > /sys/module/msm_drm/parameters/kcal_rgb`,
		`echo "255 127 0" > /sys/devices/platform/kcal_ctrl.0/kcal`,
		"echo 1 > /sys/devices/platform/kcal_ctrl.0/kcal_enable",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("ColorCommands =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
	if sat := ColorCommands(Color{Saturation: 1250})[0]; sat != "service call SurfaceFlinger 1022 f 1.25" {
		t.Errorf("saturation command = %q", sat)
	}
	if err := (Color{Red: 1001}).Validate(); err == nil {
		t.Error("Validate should reject values above the slider max")
	}
}
