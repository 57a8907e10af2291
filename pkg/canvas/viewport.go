package canvas

import (
	"math"

	"github.com/flowboardhq/flowboard/pkg/geometry"
	"github.com/flowboardhq/flowboard/pkg/observability"
)

// Viewport owns the pan offset and zoom factor relating world space to
// screen space. Zoom is always inside [MinZoom, MaxZoom], so the geometry
// transforms never divide by zero.
//
// Pan and zoom are updated in the same logical step by ZoomAround so a
// render never observes a partially-updated pair.
type Viewport struct {
	pan  geometry.Point
	zoom float64
}

func newViewport() *Viewport {
	return &Viewport{zoom: 1.0}
}

// Pan returns the current pan offset in device pixels.
func (v *Viewport) Pan() geometry.Point { return v.pan }

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// SetPan replaces the pan offset. Non-finite values are ignored.
func (v *Viewport) SetPan(pan geometry.Point) {
	if pan.IsFinite() {
		v.pan = pan
	}
}

// PanBy translates the viewport by a screen-space delta.
func (v *Viewport) PanBy(delta geometry.Point) {
	v.SetPan(v.pan.Add(delta))
}

// ScreenToWorld converts a screen point to world space under the current
// pan/zoom.
func (v *Viewport) ScreenToWorld(p geometry.Point) geometry.Point {
	return geometry.ScreenToWorld(p, v.pan, v.zoom)
}

// WorldToScreen converts a world point to screen space under the current
// pan/zoom.
func (v *Viewport) WorldToScreen(p geometry.Point) geometry.Point {
	return geometry.WorldToScreen(p, v.pan, v.zoom)
}

// ZoomAround applies a zoom delta anchored at a screen-space pointer: the
// world point under the pointer before the zoom is still under the pointer
// after it. The new zoom is clamped to [MinZoom, MaxZoom]; when the clamped
// value equals the current zoom (including at the range boundary, or when
// the delta is NaN) the call is a no-op so no redundant render is triggered.
func (v *Viewport) ZoomAround(delta float64, pointer geometry.Point) bool {
	newZoom := geometry.Clamp(v.zoom+delta, MinZoom, MaxZoom)
	if math.IsNaN(newZoom) || newZoom == v.zoom || !pointer.IsFinite() {
		return false
	}

	// Fix the world point under the pointer: solve newPan such that
	// world*newZoom + newPan == pointer for world = (pointer-pan)/zoom.
	world := geometry.ScreenToWorld(pointer, v.pan, v.zoom)
	newPan := pointer.Sub(world.Scale(newZoom))

	v.pan = newPan
	v.zoom = newZoom
	observability.Canvas().OnZoom(newZoom)
	return true
}

// WheelEvent is the subset of a pointer-wheel event the viewport cares
// about. DeltaY is positive for wheel-down. Accel is the platform zoom
// modifier (ctrl or cmd). OverScrollable marks events originating over an
// editable or scrollable descendant whose native scrolling must keep
// working.
type WheelEvent struct {
	Pointer        geometry.Point // screen space, canvas-local
	DeltaY         float64
	Accel          bool
	OverScrollable bool
}

// Wheel routes a pointer-wheel event. With the accelerator held it is a zoom
// gesture: the delta is the inverted vertical wheel delta scaled by
// WheelZoomFactor, anchored at the pointer. The return value reports whether
// the host must suppress the default browser/terminal behavior for this
// event: true for zoom gestures and for plain wheel over the canvas
// background (no pan-on-scroll), false for plain wheel over scrollable
// content so native scrolling still works.
func (v *Viewport) Wheel(ev WheelEvent) bool {
	if ev.Accel {
		v.ZoomAround(-ev.DeltaY*WheelZoomFactor, ev.Pointer)
		return true
	}
	return !ev.OverScrollable
}
