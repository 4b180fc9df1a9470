// Package fps reads the display frame rate through the shell, either from a
// kernel sysfs node or by counting SurfaceFlinger frames over time.
package fps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/javapro/tweakctl/internal/shell"
)

// DefaultNodes are the sysfs nodes probed in order. Vendors expose the
// measured rate under different paths.
var DefaultNodes = []string{
	"/sys/class/drm/sde-crtc-0/measured_fps",
	"/sys/class/graphics/fb0/measured_fps",
	"/sys/class/video/fps_info",
	"/sys/devices/platform/k3_fb/fps_info",
	"/sys/kernel/debug/fps_log",
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// ParseFPS extracts a frame rate from raw node text. Empty or non-numeric
// input yields 0; values beyond math.MaxInt32 saturate.
func ParseFPS(raw string) int {
	clean := nonNumeric.ReplaceAllString(strings.TrimSpace(raw), "")
	if clean == "" {
		return 0
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	}
	return int(f)
}

// Reader reads the frame rate from the first sysfs node that exists.
// The active node is cached on the Reader.
type Reader struct {
	exec  shell.OutputExecutor
	nodes []string

	mu   sync.Mutex
	node string
}

// NewReader creates a reader probing nodes, or DefaultNodes when empty.
func NewReader(exec shell.OutputExecutor, nodes []string) *Reader {
	if len(nodes) == 0 {
		nodes = DefaultNodes
	}
	return &Reader{exec: exec, nodes: nodes}
}

// Nodes returns the candidate node list.
func (r *Reader) Nodes() []string {
	out := make([]string, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// Node returns the active node, or "" before a successful Probe.
func (r *Reader) Node() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.node
}

// Probe finds the first existing node and makes it active.
//
// Returns:
//   - string: The active node path, "" when none exists
//   - bool: Whether a node was found
func (r *Reader) Probe(ctx context.Context) (string, bool) {
	for _, path := range r.nodes {
		out, err := r.exec.Output(ctx, fmt.Sprintf("test -e %s && echo exists", path))
		if err == nil && strings.Contains(out, "exists") {
			r.mu.Lock()
			r.node = path
			r.mu.Unlock()
			log.Debug("FPS node found", "node", path)
			return path, true
		}
	}
	log.Debug("No hardware FPS node found")
	return "", false
}

// Read returns the current rate from the active node. It returns 0 when no
// node is active or the read fails.
func (r *Reader) Read(ctx context.Context) int {
	node := r.Node()
	if node == "" {
		return 0
	}
	out, err := r.exec.Output(ctx, "cat "+node)
	if err != nil {
		log.Debug("FPS read failed", "node", node, "error", err)
		return 0
	}
	return ParseFPS(out)
}
