// Package display changes the render resolution and colour calibration.
package display

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/javapro/tweakctl/internal/shell"
)

// Metrics is the physical panel size and density.
type Metrics struct {
	Width   int `json:"width"`
	Height  int `json:"height"`
	Density int `json:"density"`
}

var (
	sizeRe    = regexp.MustCompile(`Physical size:\s*(\d+)x(\d+)`)
	densityRe = regexp.MustCompile(`Physical density:\s*(\d+)`)
)

// ParseMetrics reads `wm size` and `wm density` output. Missing fields are 0.
func ParseMetrics(sizeOut, densityOut string) Metrics {
	var m Metrics
	if s := sizeRe.FindStringSubmatch(sizeOut); s != nil {
		m.Width, _ = strconv.Atoi(s[1])
		m.Height, _ = strconv.Atoi(s[2])
	}
	if d := densityRe.FindStringSubmatch(densityOut); d != nil {
		m.Density, _ = strconv.Atoi(d[1])
	}
	return m
}

// ReadMetrics queries the physical panel metrics.
func ReadMetrics(ctx context.Context, exec shell.OutputExecutor) (Metrics, error) {
	sizeOut, err := exec.Output(ctx, "wm size")
	if err != nil {
		return Metrics{}, fmt.Errorf("wm size: %w", err)
	}
	densityOut, err := exec.Output(ctx, "wm density")
	if err != nil {
		return Metrics{}, fmt.Errorf("wm density: %w", err)
	}
	m := ParseMetrics(sizeOut, densityOut)
	if m.Width == 0 || m.Height == 0 {
		return m, fmt.Errorf("could not parse panel size from %q", strings.TrimSpace(sizeOut))
	}
	return m, nil
}

// fullScale is the threshold at or above which scaling resets to native.
const fullScale = 0.99

// ResetCommands restore the native size and density.
func ResetCommands() []string {
	return []string{"wm size reset", "wm density reset"}
}

// ScaleCommands returns the commands rendering at scale of m. The density is
// pinned to the native value so UI elements keep their physical size.
func ScaleCommands(m Metrics, scale float64) []string {
	if scale >= fullScale {
		return ResetCommands()
	}
	w := int(float64(m.Width) * scale)
	h := int(float64(m.Height) * scale)
	return []string{
		fmt.Sprintf("wm size %dx%d", w, h),
		fmt.Sprintf("wm density %d", m.Density),
	}
}

// ApplyScale reads the native metrics when needed and applies scale.
func ApplyScale(ctx context.Context, exec shell.OutputExecutor, scale float64) error {
	if scale <= 0 || scale > 1 {
		return fmt.Errorf("scale %.2f out of range (0, 1]", scale)
	}
	if scale >= fullScale {
		return shell.RunAll(ctx, exec, ResetCommands())
	}
	m, err := ReadMetrics(ctx, exec)
	if err != nil {
		return err
	}
	return shell.RunAll(ctx, exec, ScaleCommands(m, scale))
}

// Color is a KCAL calibration in slider units, each 0..1000.
type Color struct {
	Red        float64 `json:"red"`
	Green      float64 `json:"green"`
	Blue       float64 `json:"blue"`
	Saturation float64 `json:"saturation"`
}

// SliderMax is the top of each colour slider.
const SliderMax = 1000

// DefaultColor is the neutral calibration.
var DefaultColor = Color{Red: SliderMax, Green: SliderMax, Blue: SliderMax, Saturation: SliderMax}

// Validate checks that every channel is within 0..SliderMax.
func (c Color) Validate() error {
	for name, v := range map[string]float64{"red": c.Red, "green": c.Green, "blue": c.Blue, "saturation": c.Saturation} {
		if v < 0 || v > SliderMax {
			return fmt.Errorf("%s %.0f out of range 0..%d", name, v, SliderMax)
		}
	}
	return nil
}

func channel(v float64) int {
	return int(v / SliderMax * 255)
}

// ColorCommands returns the SurfaceFlinger saturation call followed by the
// KCAL writes for both known sysfs layouts.
func ColorCommands(c Color) []string {
	sat := strconv.FormatFloat(c.Saturation/SliderMax, 'f', -1, 32)
	if !strings.Contains(sat, ".") {
		sat += ".0"
	}
	rgb := fmt.Sprintf("%d %d %d", channel(c.Red), channel(c.Green), channel(c.Blue))
	return []string{
		"service call SurfaceFlinger 1022 f " + sat,
		fmt.Sprintf("echo \"%s\" > /sys/module/msm_drm/parameters/kcal_rgb", rgb),
		fmt.Sprintf("echo \"%s\" > /sys/devices/platform/kcal_ctrl.0/kcal", rgb),
		"echo 1 > /sys/devices/platform/kcal_ctrl.0/kcal_enable",
	}
}

// ApplyColor validates c and runs ColorCommands.
func ApplyColor(ctx context.Context, exec shell.Executor, c Color) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return shell.RunAll(ctx, exec, ColorCommands(c))
}
