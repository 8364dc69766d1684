package canopy

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Backend rasterizes batches. The core only decides what to draw and in
// which order; how pixels get on screen is the backend's business.
type Backend interface {
	// DrawBatch renders one batch. boxOf resolves element world AABBs and
	// view maps world to screen coordinates.
	DrawBatch(b Batch, view View, boxOf func(ElementID) (AABB, bool))
}

// Render culls, batches, and submits the frame to backend in one call.
func (s *Scene) Render(backend Backend, view View, screenW, screenH float64, keyOf func(ElementID) BatchKey) {
	batches := s.VisibleBatches(view, screenW, screenH, keyOf)
	for i := range batches {
		backend.DrawBatch(batches[i], view, s.Box)
	}
}

// stylePalette maps style classes to flat colors. Premultiplied-alpha
// channel values in [0, 1].
var stylePalette = [styleClasses][4]float32{
	{0.34, 0.62, 0.93, 1}, // blue
	{0.93, 0.52, 0.30, 1}, // orange
	{0.42, 0.82, 0.47, 1}, // green
	{0.85, 0.38, 0.62, 1}, // pink
}

// EbitenBackend draws each batch as a single DrawTriangles32 call of colored
// quads over a 1x1 white source image.
type EbitenBackend struct {
	target *ebiten.Image

	verts []ebiten.Vertex
	inds  []uint32
	white *ebiten.Image
}

// NewEbitenBackend creates a backend drawing into target.
func NewEbitenBackend(target *ebiten.Image) *EbitenBackend {
	return &EbitenBackend{target: target}
}

// SetTarget redirects subsequent batches to target. Call at the top of the
// host's Draw when the screen image changes between frames.
func (e *EbitenBackend) SetTarget(target *ebiten.Image) { e.target = target }

func (e *EbitenBackend) whitePixel() *ebiten.Image {
	if e.white == nil {
		e.white = ebiten.NewImage(1, 1)
		e.white.Fill(color.White)
	}
	return e.white
}

// DrawBatch appends one screen-space quad per element and submits them all
// in a single draw call.
func (e *EbitenBackend) DrawBatch(b Batch, view View, boxOf func(ElementID) (AABB, bool)) {
	if e.target == nil || len(b.IDs) == 0 {
		return
	}

	c := stylePalette[int(b.Key.Style)%styleClasses]

	e.verts = e.verts[:0]
	e.inds = e.inds[:0]

	for _, id := range b.IDs {
		box, ok := boxOf(id)
		if !ok {
			continue
		}
		x0, y0 := view.WorldToScreen(box.MinX, box.MinY)
		x1, y1 := view.WorldToScreen(box.MaxX, box.MaxY)

		base := uint32(len(e.verts))
		for _, p := range [4][2]float64{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
			e.verts = append(e.verts, ebiten.Vertex{
				DstX:   float32(p[0]),
				DstY:   float32(p[1]),
				SrcX:   0.5,
				SrcY:   0.5,
				ColorR: c[0],
				ColorG: c[1],
				ColorB: c[2],
				ColorA: c[3],
			})
		}
		e.inds = append(e.inds,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
	}

	if len(e.verts) == 0 {
		return
	}

	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	e.target.DrawTriangles32(e.verts, e.inds, e.whitePixel(), &op)
}
