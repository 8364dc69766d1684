// Package canopy is the rendering-performance core for infinite 2D canvas
// applications built on [Ebitengine].
//
// Canopy keeps scenes with tens of thousands of elements interactively
// navigable: a quadtree spatial index over element bounding boxes, viewport
// culling with a hysteresis margin, draw-call batching that preserves paint
// order, a background bulk-generation pipeline, and a throttled metrics
// collector.
//
// # Quick start
//
// Create a [Scene], feed it element geometry through the mutation API, and
// ask for the frame's batches:
//
//	scene := canopy.NewScene()
//	scene.NotifyElementAdded(1, canopy.AABB{MinX: 0, MinY: 0, MaxX: 32, MaxY: 32})
//
//	view := canopy.View{Zoom: 1}
//	batches := scene.VisibleBatches(view, 1280, 720, keyOf)
//
// The scene never owns element content; shape, style, and text belong to the
// host application. Canopy tracks geometry only and hands back ordered
// [Batch] values; the keyOf callback tells it which elements can share a
// draw call.
//
// # Rendering
//
// Rasterization is a capability, not part of the core. [EbitenBackend]
// submits each batch as one DrawTriangles32 call; implement [Backend] to
// target anything else:
//
//	backend := canopy.NewEbitenBackend(screen)
//	scene.Render(backend, cam.View(), 1280, 720, keyOf)
//
// # Bulk generation
//
// Large synthetic scenes (stress tests, big imports) stream in off the
// frame loop:
//
//	scene.StartGeneration(canopy.JobSpec{
//		Layout: canopy.LayoutClustered,
//		Count:  25000,
//		Region: canopy.RegionSpec{Bounds: world, Clusters: 12},
//		Seed:   1,
//	})
//
// then call [Scene.CommitPending] once per frame with a small chunk budget;
// input latency stays bounded while the scene fills.
//
// # Diagnostics
//
// Culling, batching, and quadtree indexing can each be disabled
// independently; the rendered element set is identical in every
// combination, only performance changes. [MetricsCollector] publishes
// FPS/visibility snapshots on a throttled cadence, and [MetricsOverlay]
// displays them.
//
// [Ebitengine]: https://ebitengine.org
package canopy
