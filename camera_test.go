package canopy

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera(800, 600)
	if cam.Zoom != 1.0 {
		t.Errorf("Zoom = %f, want 1.0", cam.Zoom)
	}
	if cam.MinZoom != MinZoom || cam.MaxZoom != MaxZoom {
		t.Errorf("zoom limits = [%f, %f], want [%f, %f]", cam.MinZoom, cam.MaxZoom, MinZoom, MaxZoom)
	}
}

func TestCameraCentersOnPosition(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.X = 100
	cam.Y = 50

	sx, sy := cam.WorldToScreen(100, 50)
	if !approxEqual(sx, 400, epsilon) || !approxEqual(sy, 300, epsilon) {
		t.Errorf("camera target maps to (%f, %f), want viewport center (400, 300)", sx, sy)
	}
}

func TestCameraZoomScalesDistance(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.Zoom = 2.0

	sx1, _ := cam.WorldToScreen(1, 0)
	sx0, _ := cam.WorldToScreen(0, 0)
	if !approxEqual(sx1-sx0, 2.0, epsilon) {
		t.Errorf("zoom 2x: 1 world unit = %f screen pixels, want 2.0", sx1-sx0)
	}
}

func TestCameraScreenToWorldRoundTrip(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.X = -321
	cam.Y = 77
	cam.Zoom = 3.5

	wx, wy := cam.ScreenToWorld(cam.WorldToScreen(-300, 80))
	if !approxEqual(wx, -300, 1e-6) || !approxEqual(wy, 80, 1e-6) {
		t.Errorf("round trip = (%f, %f), want (-300, 80)", wx, wy)
	}
}

func TestCameraViewClampsZoom(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.Zoom = 0.0001
	if got := cam.View().Zoom; got != MinZoom {
		t.Errorf("View zoom = %f, want clamped %f", got, MinZoom)
	}
}

func TestCameraPan(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.Pan(10, -5)
	if cam.X != 10 || cam.Y != -5 {
		t.Errorf("position after Pan = (%f, %f), want (10, -5)", cam.X, cam.Y)
	}
}

func TestCameraScrollTo(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.ScrollTo(100, 200, 1.0, ease.Linear)

	// Advance past the duration; camera should land on the target.
	for i := 0; i < 70; i++ {
		cam.Update(1.0 / 60.0)
	}
	if !approxEqual(cam.X, 100, 0.5) || !approxEqual(cam.Y, 200, 0.5) {
		t.Errorf("after scroll, position = (%f, %f), want (100, 200)", cam.X, cam.Y)
	}
	if cam.scrollTween != nil {
		t.Error("finished scroll tween should be cleared")
	}
}

func TestCameraScrollHalfway(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.ScrollTo(100, 0, 1.0, ease.Linear)
	cam.Update(0.5)
	if !approxEqual(cam.X, 50, 1.0) {
		t.Errorf("halfway through linear scroll, X = %f, want ~50", cam.X)
	}
}

func TestCameraZoomTo(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.ZoomTo(4, 0.5, ease.Linear)
	for i := 0; i < 40; i++ {
		cam.Update(1.0 / 60.0)
	}
	if !approxEqual(cam.Zoom, 4, 0.01) {
		t.Errorf("after zoom tween, Zoom = %f, want 4", cam.Zoom)
	}
	if cam.zoomTween != nil {
		t.Error("finished zoom tween should be cleared")
	}
}

func TestCameraZoomToClampsTarget(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.ZoomTo(10000, 0.1, ease.Linear)
	for i := 0; i < 20; i++ {
		cam.Update(1.0 / 60.0)
	}
	if cam.Zoom > cam.MaxZoom+epsilon {
		t.Errorf("Zoom = %f exceeds MaxZoom %f", cam.Zoom, cam.MaxZoom)
	}
}

func TestCameraPanCancelsScroll(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.ScrollTo(500, 500, 2.0, ease.Linear)
	cam.Pan(1, 1)
	if cam.scrollTween != nil {
		t.Error("Pan should cancel an active scroll animation")
	}
}
