package canopy

import "math"

// ElementID is the opaque key identifying an element for the lifetime of that
// element. The core never inspects element content; it tracks geometry only.
// IDs are supplied by the caller (or by Scene.AllocateID for generated
// elements) and may be reused after an explicit remove.
type ElementID uint64

// AABB is an axis-aligned bounding box in world coordinates.
// Invariant: MinX <= MaxX and MinY <= MaxY. Degenerate (zero-area) boxes are
// legal and behave as points or segments in queries.
type AABB struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of the box.
func (b AABB) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b AABB) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b AABB) Center() (x, y float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// Contains reports whether the point (x, y) lies inside the box.
// Points on the edge are considered inside.
func (b AABB) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// ContainsBox reports whether other lies entirely inside b.
func (b AABB) ContainsBox(other AABB) bool {
	return other.MinX >= b.MinX && other.MaxX <= b.MaxX &&
		other.MinY >= b.MinY && other.MaxY <= b.MaxY
}

// Intersects reports whether b and other overlap.
// Boxes sharing only an edge are considered intersecting.
func (b AABB) Intersects(other AABB) bool {
	return b.MinX <= other.MaxX && b.MaxX >= other.MinX &&
		b.MinY <= other.MaxY && b.MaxY >= other.MinY
}

// Union returns the smallest box containing both b and other.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		MinX: math.Min(b.MinX, other.MinX),
		MinY: math.Min(b.MinY, other.MinY),
		MaxX: math.Max(b.MaxX, other.MaxX),
		MaxY: math.Max(b.MaxY, other.MaxY),
	}
}

// Expanded returns the box grown by dx on the left and right and dy on the
// top and bottom. Negative values shrink the box; the result is not
// re-normalized, so shrinking past the center produces an inverted box.
func (b AABB) Expanded(dx, dy float64) AABB {
	return AABB{MinX: b.MinX - dx, MinY: b.MinY - dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// IsFinite reports whether all four coordinates are finite (no NaN or Inf)
// and the box is normalized (MinX <= MaxX, MinY <= MaxY).
func (b AABB) IsFinite() bool {
	return isFinite(b.MinX) && isFinite(b.MinY) && isFinite(b.MaxX) && isFinite(b.MaxY) &&
		b.MinX <= b.MaxX && b.MinY <= b.MaxY
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Zoom limits applied when deriving a View from a Camera. Zoom values outside
// this range produce degenerate culling math (underflow at the low end,
// precision loss at the high end), so View.ClampZoom pins to it.
const (
	MinZoom = 0.01
	MaxZoom = 100.0
)

// View is the viewport transform mapping world coordinates to screen
// coordinates: screen = (world + pan) * zoom.
type View struct {
	PanX, PanY float64
	Zoom       float64
}

// WorldToScreen converts world coordinates to screen coordinates.
func (v View) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return (wx + v.PanX) * v.Zoom, (wy + v.PanY) * v.Zoom
}

// ScreenToWorld converts screen coordinates to world coordinates.
// With a zero or near-zero zoom the result is unusable; callers that can see
// degenerate views (the culler) must check the zoom first.
func (v View) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return sx/v.Zoom - v.PanX, sy/v.Zoom - v.PanY
}

// ClampZoom returns the view with Zoom pinned to [MinZoom, MaxZoom].
func (v View) ClampZoom() View {
	if v.Zoom < MinZoom {
		v.Zoom = MinZoom
	} else if v.Zoom > MaxZoom {
		v.Zoom = MaxZoom
	}
	return v
}
