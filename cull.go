package canopy

import "sort"

// minCullZoom is the zoom below which the viewport is treated as seeing
// nothing. Well under MinZoom; only reachable with hand-built Views.
const minCullZoom = 1e-9

// DefaultCullMargin is the fraction of the viewport's world size added on
// each side of the query rectangle. The margin is hysteresis: elements near
// the edge stay in the visible set during fast pans instead of popping.
const DefaultCullMargin = 0.15

// Culler derives the per-frame visible set from the spatial index and the
// current view transform.
type Culler struct {
	// Margin is the hysteresis expansion as a fraction of viewport size.
	Margin float64
	// Enabled toggles culling. When false every indexed element is visible;
	// downstream behavior is identical, only slower.
	Enabled bool
}

// NewCuller creates a Culler with the default margin, enabled.
func NewCuller() *Culler {
	return &Culler{Margin: DefaultCullMargin, Enabled: true}
}

// VisibleRect returns the expanded world-space rectangle covered by a
// screenW x screenH viewport under view. ok is false for degenerate input
// (zero-sized screen or zero/near-zero zoom), which means nothing is
// visible, not an error.
func (c *Culler) VisibleRect(view View, screenW, screenH float64) (rect AABB, ok bool) {
	if screenW <= 0 || screenH <= 0 || view.Zoom < minCullZoom {
		return AABB{}, false
	}
	minX, minY := view.ScreenToWorld(0, 0)
	maxX, maxY := view.ScreenToWorld(screenW, screenH)
	rect = AABB{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	if !rect.IsFinite() {
		return AABB{}, false
	}
	return rect.Expanded(c.Margin*rect.Width(), c.Margin*rect.Height()), true
}

// Cull appends the frame's visible element ids to out in canonical z-order
// and returns the extended slice. seqOf supplies each element's canonical
// order key (Scene assigns one at element add); the culler only filters and
// restores that order, it never invents one, so downstream batching
// preserves paint order.
func (c *Culler) Cull(index *Quadtree, view View, screenW, screenH float64, seqOf func(ElementID) uint64, out []ElementID) []ElementID {
	if !c.Enabled {
		out = index.IDs(out)
	} else {
		rect, ok := c.VisibleRect(view, screenW, screenH)
		if !ok {
			return out
		}
		out = index.Query(rect, out)
	}
	sort.Slice(out, func(i, j int) bool { return seqOf(out[i]) < seqOf(out[j]) })
	return out
}
