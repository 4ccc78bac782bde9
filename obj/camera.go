package obj

import (
	"github.com/tannerhall/ravine/common"
)

// Camera follows a world position with smoothing. The view rect it exposes
// is what the visibility culler tests body bounds against.
type Camera struct {
	PosX float64
	PosY float64

	screenW float64
	screenH float64

	// smoothing factor (0..1). higher -> faster follow.
	smooth float64

	// clamp limits for the camera center, derived from the level bounds.
	hasLimits bool
	limits    common.Rect
}

// NewCamera creates a camera with the given logical screen size.
func NewCamera(screenW, screenH float64) *Camera {
	return &Camera{
		screenW: screenW,
		screenH: screenH,
		smooth:  0.15,
		PosX:    screenW / 2.0,
		PosY:    screenH / 2.0,
	}
}

// SetLevelBounds clamps the camera to the level rect so the view never
// scrolls past the generated platforms. An axis smaller than the view is
// centered on the level instead.
func (c *Camera) SetLevelBounds(bounds common.Rect) {
	c.hasLimits = true
	c.limits = bounds
}

// Follow eases the camera toward the target world position.
func (c *Camera) Follow(x, y float64) {
	c.PosX = common.Lerp(c.PosX, x, c.smooth)
	c.PosY = common.Lerp(c.PosY, y, c.smooth)
	c.applyLimits()
}

// SnapTo centers the camera immediately (respawn, level start).
func (c *Camera) SnapTo(x, y float64) {
	c.PosX = x
	c.PosY = y
	c.applyLimits()
}

func (c *Camera) applyLimits() {
	if !c.hasLimits {
		return
	}
	c.PosX = clampCenter(c.PosX, c.limits.X, c.limits.X+c.limits.Width, c.screenW)
	c.PosY = clampCenter(c.PosY, c.limits.Y, c.limits.Y+c.limits.Height, c.screenH)
}

func clampCenter(pos, lo, hi, view float64) float64 {
	if hi-lo <= view {
		return (lo + hi) / 2.0
	}
	return common.Clamp(pos, lo+view/2.0, hi-view/2.0)
}

// ViewTopLeft returns the world-space top-left of the current view.
func (c *Camera) ViewTopLeft() (float64, float64) {
	return c.PosX - c.screenW/2.0, c.PosY - c.screenH/2.0
}

// Bounds returns the world-space view rect.
func (c *Camera) Bounds() common.Rect {
	x, y := c.ViewTopLeft()
	return common.Rect{X: x, Y: y, Width: c.screenW, Height: c.screenH}
}
