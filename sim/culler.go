package sim

import (
	"math"

	"github.com/tannerhall/ravine/common"
	"github.com/tannerhall/ravine/physics"
)

const (
	// cullMargin expands the camera rect so bodies wake slightly before
	// scrolling into view instead of popping awake on screen.
	cullMargin = 2.0 * 64.0

	// cullMaxSleepSpeed keeps falling or thrown bodies simulating even
	// off-screen; force-sleeping them would freeze them mid-air.
	cullMaxSleepSpeed = 20.0
)

// Culler puts off-screen dynamic bodies to sleep and wakes them as the
// camera approaches. Generated levels can hold hundreds of crates and
// enemies; only the ones near the camera need active simulation. Sleeping
// never touches registry entries or shape user data, so waking restores
// identical behavior.
type Culler struct {
	engine  *physics.Engine
	tracked map[physics.BodyHandle]struct{}
}

// NewCuller creates a culler with no tracked bodies.
func NewCuller(engine *physics.Engine) *Culler {
	return &Culler{
		engine:  engine,
		tracked: make(map[physics.BodyHandle]struct{}),
	}
}

// Track adds a dynamic body to the culled set. The player body is never
// tracked; it must simulate regardless of camera position.
func (c *Culler) Track(h physics.BodyHandle) {
	if h.IsNull() {
		return
	}
	c.tracked[h] = struct{}{}
}

// Untrack removes a body from the culled set. Wired to the registry's
// remove hook so destroyed entities drop out automatically.
func (c *Culler) Untrack(h physics.BodyHandle) {
	delete(c.tracked, h)
}

// Tracked returns the number of tracked bodies.
func (c *Culler) Tracked() int {
	return len(c.tracked)
}

// Update sleeps tracked bodies outside the expanded camera rect and wakes
// the ones inside it.
func (c *Culler) Update(cameraBounds common.Rect) {
	view := cameraBounds.Expand(cullMargin)
	for h := range c.tracked {
		visible := c.engine.BodyBounds(h).Intersects(view)
		sleeping := c.engine.IsSleeping(h)
		switch {
		case visible && sleeping:
			c.engine.SetAwake(h, true)
		case !visible && !sleeping:
			v := c.engine.Velocity(h)
			if math.Hypot(v.X, v.Y) > cullMaxSleepSpeed {
				continue
			}
			c.engine.SetAwake(h, false)
		}
	}
}
