package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera produces the View transform for the interactive pan/zoom loop.
// X and Y are the world point the viewport centers on; Zoom > 1 zooms in.
// The canvas is infinite, so there is no bounds clamping; only the zoom is
// clamped, to [MinZoom, MaxZoom] by default.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// ScreenW and ScreenH are the viewport size in pixels.
	ScreenW, ScreenH float64

	// MinZoom and MaxZoom bound Zoom in View(). Defaults MinZoom/MaxZoom.
	MinZoom, MaxZoom float64

	scrollTween *scrollAnim
	zoomTween   *gween.Tween
}

// NewCamera creates a Camera centered on the origin at zoom 1.
func NewCamera(screenW, screenH float64) *Camera {
	return &Camera{
		Zoom:    1.0,
		ScreenW: screenW,
		ScreenH: screenH,
		MinZoom: MinZoom,
		MaxZoom: MaxZoom,
	}
}

// SetViewportSize updates the screen size the camera centers within.
func (c *Camera) SetViewportSize(w, h float64) {
	c.ScreenW = w
	c.ScreenH = h
}

// Pan moves the camera by (dx, dy) in world units and cancels any active
// scroll animation.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx
	c.Y += dy
	c.scrollTween = nil
}

// ScrollTo animates the camera to the given world position over duration
// seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// ZoomTo animates the zoom factor to z over duration seconds. The target is
// clamped to [MinZoom, MaxZoom] up front so the tween never overshoots the
// legal range.
func (c *Camera) ZoomTo(z float64, duration float32, easeFn ease.TweenFunc) {
	if z < c.MinZoom {
		z = c.MinZoom
	} else if z > c.MaxZoom {
		z = c.MaxZoom
	}
	c.zoomTween = gween.New(float32(c.Zoom), float32(z), duration, easeFn)
}

// Update advances scroll and zoom animations. Call once per frame with the
// frame delta in seconds.
func (c *Camera) Update(dt float32) {
	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.zoomTween != nil {
		val, done := c.zoomTween.Update(dt)
		c.Zoom = float64(val)
		if done {
			c.zoomTween = nil
		}
	}
}

// View returns the viewport transform placing (X, Y) at the viewport center,
// with the zoom clamped. screen = (world + pan) * zoom.
func (c *Camera) View() View {
	v := View{Zoom: c.Zoom}.ClampZoom()
	v.PanX = c.ScreenW/(2*v.Zoom) - c.X
	v.PanY = c.ScreenH/(2*v.Zoom) - c.Y
	return v
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return c.View().WorldToScreen(wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return c.View().ScreenToWorld(sx, sy)
}
