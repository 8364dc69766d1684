package canopy

import (
	"math"
	"time"
)

// Snapshot is the published metrics state. Element and visible counts are
// raw; FPS is throttled and thresholded so displayed numbers don't jitter.
type Snapshot struct {
	FPS          float64
	RenderTimeMs float64
	ElementCount int
	VisibleCount int
}

// Default metrics cadence. FPS recomputes at most every SampleInterval and
// only publishes when the change exceeds MinFPSDelta.
const (
	DefaultSampleInterval = 2 * time.Second
	DefaultMinFPSDelta    = 2.0
)

// MetricsCollector samples frame timing and culling ratios. It is pure
// observability: sampling is O(1), never blocks, and has no effect on the
// render path. Construct one per session and pass it by reference to
// whatever displays it; there is no package-level instance.
type MetricsCollector struct {
	// SampleInterval is the minimum wall-clock time between FPS
	// recomputations.
	SampleInterval time.Duration
	// MinFPSDelta is the smallest FPS change worth publishing.
	MinFPSDelta float64

	frames      int
	windowStart time.Time
	published   Snapshot
}

// NewMetricsCollector creates a collector with the default cadence.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		SampleInterval: DefaultSampleInterval,
		MinFPSDelta:    DefaultMinFPSDelta,
	}
}

// Sample records one frame and returns the (possibly updated) snapshot.
// now is the frame timestamp, renderTime the time spent producing the
// frame's batches. Counts update every sample with no smoothing; FPS
// recomputes only when SampleInterval has elapsed since the last
// recomputation, and is dropped when the delta is within MinFPSDelta.
func (m *MetricsCollector) Sample(now time.Time, renderTime time.Duration, elementCount, visibleCount int) Snapshot {
	m.published.ElementCount = elementCount
	m.published.VisibleCount = visibleCount

	if m.windowStart.IsZero() {
		m.windowStart = now
	}
	m.frames++

	elapsed := now.Sub(m.windowStart)
	if elapsed >= m.SampleInterval {
		fps := float64(m.frames) / elapsed.Seconds()
		if math.Abs(fps-m.published.FPS) > m.MinFPSDelta {
			m.published.FPS = fps
		}
		m.published.RenderTimeMs = float64(renderTime) / float64(time.Millisecond)
		m.frames = 0
		m.windowStart = now
	}

	return m.published
}

// Snapshot returns the most recently published snapshot without sampling.
func (m *MetricsCollector) Snapshot() Snapshot { return m.published }
