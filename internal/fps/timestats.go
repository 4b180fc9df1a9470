package fps

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/javapro/tweakctl/internal/shell"
)

// SurfaceFlinger timestats commands.
const (
	TimestatsEnable  = "dumpsys SurfaceFlinger --timestats -enable"
	TimestatsDump    = "dumpsys SurfaceFlinger --timestats -dump | grep totalFrames"
	TimestatsDisable = "dumpsys SurfaceFlinger --timestats -disable"
)

var totalFramesRe = regexp.MustCompile(`totalFrames\s*=\s*(\d+)`)

// ExtractTotalFrames returns the first totalFrames counter in out, or 0.
func ExtractTotalFrames(out string) int64 {
	m := totalFramesRe.FindStringSubmatch(out)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Clamp snaps readings near 60 to 60 and caps them at 120.
func Clamp(fps int) int {
	switch {
	case fps < 0:
		return 0
	case fps >= 58 && fps <= 62:
		return 60
	case fps > 120:
		return 120
	default:
		return fps
	}
}

// Rate converts a frame counter delta over elapsed into a clamped rate.
// It reports false when there is no usable delta.
func Rate(prevFrames, curFrames int64, elapsed time.Duration) (int, bool) {
	if prevFrames == 0 || curFrames <= prevFrames || elapsed <= 0 {
		return 0, false
	}
	raw := float64(curFrames-prevFrames) / elapsed.Seconds()
	return Clamp(int(raw)), true
}

// FrameCounter samples SurfaceFlinger's total frame counter.
type FrameCounter struct {
	exec shell.OutputExecutor

	lastFrames int64
	lastTime   time.Time
	now        func() time.Time
}

// NewFrameCounter creates a counter. Call Enable before sampling.
func NewFrameCounter(exec shell.OutputExecutor) *FrameCounter {
	return &FrameCounter{exec: exec, now: time.Now}
}

// Enable turns timestats collection on.
func (c *FrameCounter) Enable(ctx context.Context) error {
	return c.exec.Run(ctx, TimestatsEnable)
}

// Disable turns timestats collection off.
func (c *FrameCounter) Disable(ctx context.Context) error {
	return c.exec.Run(ctx, TimestatsDisable)
}

// Sample reads the counter and returns the rate since the previous sample.
// The first sample only primes the counter and reports false.
func (c *FrameCounter) Sample(ctx context.Context) (int, bool) {
	out, _ := c.exec.Output(ctx, TimestatsDump)
	frames := ExtractTotalFrames(out)
	now := c.now()

	rate, ok := Rate(c.lastFrames, frames, now.Sub(c.lastTime))
	c.lastFrames = frames
	c.lastTime = now
	return rate, ok
}
