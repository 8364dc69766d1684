package canopy

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// MetricsOverlay is a small on-screen readout of the collector's snapshot.
// The text is redrawn every ~0.5 seconds; between redraws the cached image
// is reused, so drawing it costs one DrawImage.
type MetricsOverlay struct {
	collector *MetricsCollector
	img       *ebiten.Image
	elapsed   float64
	stale     bool
}

// NewMetricsOverlay creates an overlay reading from collector.
func NewMetricsOverlay(collector *MetricsCollector) *MetricsOverlay {
	return &MetricsOverlay{collector: collector, stale: true}
}

// Update accumulates frame time and marks the overlay for redraw every
// half second. Call once per frame with the frame delta in seconds.
func (o *MetricsOverlay) Update(dt float64) {
	o.elapsed += dt
	if o.elapsed >= 0.5 {
		o.elapsed = 0
		o.stale = true
	}
}

// Draw paints the overlay into the top-left corner of screen.
func (o *MetricsOverlay) Draw(screen *ebiten.Image) {
	if o.img == nil {
		// 160x48 fits four lines of DebugPrint text.
		o.img = ebiten.NewImage(160, 48)
		o.stale = true
	}
	if o.stale {
		o.stale = false
		snap := o.collector.Snapshot()
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, fmt.Sprintf(
			"FPS: %.1f\nrender: %.2f ms\nelements: %d\nvisible: %d",
			snap.FPS, snap.RenderTimeMs, snap.ElementCount, snap.VisibleCount))
	}
	screen.DrawImage(o.img, nil)
}
