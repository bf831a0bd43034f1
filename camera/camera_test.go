package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool { return math.Abs(float64(a-b)) <= 0.01 }

func TestNew(t *testing.T) {
	cam := New(800, 800, -1, -1, 1, 1)

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at (0, 0), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Scale() != 400 {
		t.Errorf("expected scale 400, got %f", cam.Scale())
	}
}

func TestWorldToScreenFlipsY(t *testing.T) {
	cam := New(800, 800, -1, -1, 1, 1)

	testCases := []struct {
		wx, wy, sx, sy float32
	}{
		{0, 0, 400, 400},
		{-1, 1, 0, 0},     // top-left
		{1, -1, 800, 800}, // bottom-right
		{0.5, 0.5, 600, 200},
	}
	for _, tc := range testCases {
		sx, sy := cam.WorldToScreen(tc.wx, tc.wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("(%v,%v): expected (%v,%v), got (%v,%v)", tc.wx, tc.wy, tc.sx, tc.sy, sx, sy)
		}
	}
}

func TestFitUsesLimitingDimension(t *testing.T) {
	// Wide window, square domain: height limits the scale.
	cam := New(1280, 720, -1, -1, 1, 1)
	if cam.Scale() != 360 {
		t.Errorf("expected scale 360, got %f", cam.Scale())
	}
	if got := cam.WorldLength(0.01); !near(got, 3.6) {
		t.Errorf("expected radius 3.6px, got %f", got)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, -2, -1, 2, 1)
	cam.SetZoom(2.5)
	cam.Pan(40, -30)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}
	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStaysInBounds(t *testing.T) {
	cam := New(800, 800, -1, -1, 1, 1)

	// Dragging right by 200px at 400px per unit moves half a unit.
	cam.Pan(200, 0)
	if !near(cam.X, 0.5) {
		t.Errorf("expected X 0.5, got %f", cam.X)
	}
	// Screen-down is world-down.
	cam.Pan(0, 200)
	if !near(cam.Y, -0.5) {
		t.Errorf("expected Y -0.5, got %f", cam.Y)
	}

	cam.Pan(10000, -10000)
	if cam.X != 1 || cam.Y != 1 {
		t.Errorf("expected center clamped to (1, 1), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 800, -1, -1, 1, 1)

	cam.SetZoom(0.1)
	if cam.Zoom != 1 {
		t.Errorf("expected zoom clamped to 1, got %f", cam.Zoom)
	}
	cam.ZoomBy(100)
	if cam.Zoom != 8 {
		t.Errorf("expected zoom clamped to 8, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(800, 800, -1, -1, 1, 1)
	cam.SetZoom(4) // visible range is [-0.25, 0.25] on both axes

	if !cam.IsVisible(0, 0, 0.01) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(0.9, 0.9, 0.01) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(0.3, 0, 0.1) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(800, 600, 0, 0, 4, 3)
	cam.X = 0.5
	cam.Y = 0.5
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 2 || cam.Y != 1.5 {
		t.Errorf("expected position (2, 1.5), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
