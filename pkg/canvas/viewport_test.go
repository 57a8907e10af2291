package canvas

import (
	"math"
	"testing"

	"github.com/flowboardhq/flowboard/pkg/geometry"
)

func TestZoomAroundFixedPoint(t *testing.T) {
	tests := []struct {
		name    string
		pan     geometry.Point
		zoom    float64
		delta   float64
		pointer geometry.Point
	}{
		{"zoom in at origin", geometry.Point{}, 1.0, 0.25, geometry.Point{}},
		{"zoom in at pointer", geometry.Point{X: 50, Y: -20}, 1.0, 0.5, geometry.Point{X: 400, Y: 300}},
		{"zoom out", geometry.Point{X: -130, Y: 75}, 1.6, -0.7, geometry.Point{X: 12.5, Y: 940}},
		{"clamped at max", geometry.Point{X: 10, Y: 10}, 1.9, 5.0, geometry.Point{X: 100, Y: 100}},
		{"clamped at min", geometry.Point{}, 0.3, -5.0, geometry.Point{X: 7, Y: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Viewport{pan: tt.pan, zoom: tt.zoom}
			before := v.ScreenToWorld(tt.pointer)

			if !v.ZoomAround(tt.delta, tt.pointer) {
				t.Fatal("expected zoom to apply")
			}

			after := v.ScreenToWorld(tt.pointer)
			if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
				t.Errorf("world point under pointer moved: before %v, after %v", before, after)
			}
		})
	}
}

func TestZoomAroundNoOpAtBoundary(t *testing.T) {
	v := &Viewport{pan: geometry.Point{X: 5, Y: 5}, zoom: MaxZoom}
	pan := v.Pan()

	if v.ZoomAround(0.1, geometry.Point{X: 100, Y: 100}) {
		t.Error("zoom past the max boundary should be a no-op")
	}
	if v.Pan() != pan || v.Zoom() != MaxZoom {
		t.Error("no-op zoom must not touch pan or zoom")
	}

	v.zoom = MinZoom
	if v.ZoomAround(-0.1, geometry.Point{X: 100, Y: 100}) {
		t.Error("zoom past the min boundary should be a no-op")
	}
}

func TestZoomAroundGuardsNaN(t *testing.T) {
	v := newViewport()

	if v.ZoomAround(math.NaN(), geometry.Point{X: 1, Y: 1}) {
		t.Error("NaN delta should be a no-op")
	}
	if v.ZoomAround(0.5, geometry.Point{X: math.NaN(), Y: 1}) {
		t.Error("NaN pointer should be a no-op")
	}
	if v.Zoom() != 1.0 || v.Pan() != (geometry.Point{}) {
		t.Errorf("viewport mutated by guarded input: pan=%v zoom=%v", v.Pan(), v.Zoom())
	}
}

func TestWheelZoomGesture(t *testing.T) {
	v := newViewport()

	// Accelerator + wheel-up zooms in and is always consumed.
	consumed := v.Wheel(WheelEvent{Pointer: geometry.Point{X: 10, Y: 10}, DeltaY: -120, Accel: true})
	if !consumed {
		t.Error("accelerated wheel must be consumed")
	}
	want := 1.0 + 120*WheelZoomFactor
	if math.Abs(v.Zoom()-want) > 1e-12 {
		t.Errorf("zoom = %v, want %v", v.Zoom(), want)
	}

	// Wheel-down zooms out.
	v = newViewport()
	v.Wheel(WheelEvent{Pointer: geometry.Point{X: 10, Y: 10}, DeltaY: 120, Accel: true})
	if v.Zoom() >= 1.0 {
		t.Errorf("wheel-down should zoom out, zoom = %v", v.Zoom())
	}
}

func TestWheelPassThrough(t *testing.T) {
	v := newViewport()

	// Plain wheel over scrollable content passes through untouched.
	if v.Wheel(WheelEvent{DeltaY: 120, OverScrollable: true}) {
		t.Error("plain wheel over scrollable content must pass through")
	}
	// Plain wheel over the canvas background is suppressed without effect.
	if !v.Wheel(WheelEvent{DeltaY: 120}) {
		t.Error("plain wheel over the background must be suppressed")
	}
	if v.Zoom() != 1.0 || v.Pan() != (geometry.Point{}) {
		t.Error("plain wheel must not change the viewport")
	}
}

func TestPanBy(t *testing.T) {
	v := newViewport()
	v.PanBy(geometry.Point{X: 10, Y: -5})
	v.PanBy(geometry.Point{X: -3, Y: 5})
	if v.Pan() != (geometry.Point{X: 7, Y: 0}) {
		t.Errorf("pan = %v, want {7 0}", v.Pan())
	}

	// Non-finite pan requests are dropped.
	v.SetPan(geometry.Point{X: math.Inf(1), Y: 0})
	if v.Pan() != (geometry.Point{X: 7, Y: 0}) {
		t.Errorf("non-finite pan applied: %v", v.Pan())
	}
}
