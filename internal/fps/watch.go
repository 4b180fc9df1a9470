package fps

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/javapro/tweakctl/internal/shell"
)

// Source names where a sample came from.
type Source string

const (
	SourceSysfs     Source = "sysfs"
	SourceTimestats Source = "timestats"
)

// Sample is one frame rate reading.
type Sample struct {
	FPS    int       `json:"fps"`
	Source Source    `json:"source"`
	Node   string    `json:"node,omitempty"`
	Time   time.Time `json:"time"`
}

// DefaultInterval is the sampling period used by Watch when none is given.
const DefaultInterval = 500 * time.Millisecond

// Watch calls fn with a sample every interval until ctx is done.
// It reads the sysfs node when one exists and otherwise counts
// SurfaceFlinger frames, disabling timestats again on return.
func Watch(ctx context.Context, exec shell.OutputExecutor, r *Reader, interval time.Duration, fn func(Sample)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	node := r.Node()
	if node == "" {
		node, _ = r.Probe(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if node != "" {
		for {
			fn(Sample{FPS: r.Read(ctx), Source: SourceSysfs, Node: node, Time: time.Now()})
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	}

	counter := NewFrameCounter(exec)
	if err := counter.Enable(ctx); err != nil {
		log.Debug("Timestats enable failed", "error", err)
	}
	defer func() {
		if err := counter.Disable(context.Background()); err != nil {
			log.Debug("Timestats disable failed", "error", err)
		}
	}()

	for {
		if rate, ok := counter.Sample(ctx); ok {
			fn(Sample{FPS: rate, Source: SourceTimestats, Time: time.Now()})
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
