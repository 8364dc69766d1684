// scatter25k generates 25,000 elements across a 200k x 200k world and pans
// the camera through the density while the metrics overlay reports frame
// rate. A stress test for the canopy culling and batching pipeline.
package main

import (
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/canopy"
	"github.com/tanema/gween/ease"
)

const (
	screenW = 1280
	screenH = 720
	count   = 25_000
)

type game struct {
	scene   *canopy.Scene
	camera  *canopy.Camera
	backend *canopy.EbitenBackend
	overlay *canopy.MetricsOverlay
	styles  map[canopy.ElementID]uint16
	frame   float64
}

func (g *game) keyOf(id canopy.ElementID) canopy.BatchKey {
	return canopy.BatchKey{Style: g.styles[id]}
}

func (g *game) Update() error {
	g.frame++
	t := g.frame / 60.0

	// Figure-eight sweep through the element field.
	g.camera.X = 40000 * math.Sin(t*0.15)
	g.camera.Y = 25000 * math.Sin(t*0.3)
	g.camera.Update(1.0 / 60.0)
	g.overlay.Update(1.0 / 60.0)

	g.scene.CommitPending(8)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.backend.SetTarget(screen)
	g.scene.Render(g.backend, g.camera.View(), screenW, screenH, g.keyOf)
	g.overlay.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	scene := canopy.NewScene()
	styles := make(map[canopy.ElementID]uint16, count)
	scene.SetGeneratedHandler(func(id canopy.ElementID, desc canopy.ElementDesc) {
		styles[id] = desc.Style
	})

	_, err := scene.StartGeneration(canopy.JobSpec{
		Layout: canopy.LayoutClustered,
		Count:  count,
		Region: canopy.RegionSpec{
			Bounds:        canopy.AABB{MinX: -100000, MinY: -100000, MaxX: 100000, MaxY: 100000},
			Clusters:      40,
			ClusterRadius: 4000,
			MinSize:       16,
			MaxSize:       96,
		},
		Seed: 25,
	})
	if err != nil {
		log.Fatalf("start generation: %v", err)
	}

	camera := canopy.NewCamera(screenW, screenH)
	camera.ZoomTo(0.4, 2.0, ease.OutQuad)

	g := &game{
		scene:   scene,
		camera:  camera,
		backend: canopy.NewEbitenBackend(nil),
		overlay: canopy.NewMetricsOverlay(scene.Metrics()),
		styles:  styles,
	}

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("Canopy — 25k Scatter")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
