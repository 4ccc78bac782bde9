package sim

import (
	"math"

	"github.com/jakecoffman/cp/v2"
	"github.com/tannerhall/ravine/physics"
)

// Grounding thresholds, per surface kind. Contact normals from the solver
// are noisy at box corners and under fast motion, so a velocity fallback
// covers events that arrive without a usable normal. Crate contacts shift
// as the crate itself moves, so crates get looser cutoffs than platforms.
// These values are tuned, not derived; changing them changes how landing
// feels.
const (
	// Minimum downward normal component (player toward surface, Y down)
	// for a contact to count as standing on the surface.
	platformNormalMinY = 0.65
	crateNormalMinY    = 0.45

	// Fallback when no normal is present: vertical speed below this means
	// the player is resting, not flying past (px/s).
	platformVelFallback = 40.0
	crateVelFallback    = 90.0

	// Small downward impulse applied once per new contact so the body
	// settles instead of micro-bouncing. Must stay far below anything that
	// could relaunch the player.
	platformStickImpulse = 6.0
	crateStickImpulse    = 2.5

	// Upward impulse magnitude for a jump (mass 1 body).
	jumpImpulse = 620.0

	// Begin/Hit events are ignored while the player ascends faster than
	// this; the first step after a jump can still report the old contact
	// with a downward normal.
	ascendCutoff = 120.0
)

// Grounding converts noisy contact events into a stable grounded signal.
// It keeps the set of live groundable contacts so the player straddling a
// platform and a crate stays grounded when only one contact ends.
type Grounding struct {
	engine *physics.Engine
	player physics.BodyHandle

	contacts map[physics.ShapeHandle]struct{}
}

// NewGrounding creates a grounding machine in the airborne state.
func NewGrounding(engine *physics.Engine) *Grounding {
	return &Grounding{
		engine:   engine,
		contacts: make(map[physics.ShapeHandle]struct{}),
	}
}

// SetPlayer binds the machine to the player's body.
func (g *Grounding) SetPlayer(body physics.BodyHandle) {
	g.player = body
	g.Reset()
}

// IsGrounded reports whether at least one groundable contact is live.
func (g *Grounding) IsGrounded() bool {
	return len(g.contacts) > 0
}

// ContactCount returns the live groundable contact tally.
func (g *Grounding) ContactCount() int {
	return len(g.contacts)
}

// Reset drops all recorded contacts (level restart, player respawn).
func (g *Grounding) Reset() {
	g.contacts = make(map[physics.ShapeHandle]struct{})
}

// OnContact processes a Begin or Hit event against a groundable surface.
// The normal must be oriented from the player into the surface (Y down, so
// standing contacts point down). Returns true when the event grounds the
// player.
func (g *Grounding) OnContact(surface physics.ShapeHandle, tag physics.UserData, normal cp.Vector, hasNormal bool) bool {
	if !physics.Groundable(tag) || surface.IsNull() {
		return false
	}

	vy := g.engine.Velocity(g.player).Y
	if vy < -ascendCutoff {
		return false
	}

	normalMin, velMax, stick := surfaceThresholds(tag)
	var bottomContact bool
	if hasNormal {
		bottomContact = normal.Y > normalMin
	} else {
		bottomContact = math.Abs(vy) < velMax
	}
	if !bottomContact {
		return false
	}

	if _, known := g.contacts[surface]; !known {
		g.contacts[surface] = struct{}{}
		// Settle the landing; one impulse per new contact.
		g.engine.ApplyImpulse(g.player, cp.Vector{X: 0, Y: stick})
	}
	return true
}

// EndContact processes an End event. Returns true when the tally reached
// zero; the caller then re-scans the step's live Begin/Hit events before
// trusting the airborne flip.
func (g *Grounding) EndContact(surface physics.ShapeHandle) bool {
	if _, known := g.contacts[surface]; !known {
		return false
	}
	delete(g.contacts, surface)
	return len(g.contacts) == 0
}

// ForgetBody drops contacts belonging to a destroyed body. Wired to the
// registry's remove hook; runs before the engine invalidates the handle.
func (g *Grounding) ForgetBody(h physics.BodyHandle) {
	if h.IsNull() {
		return
	}
	for surface := range g.contacts {
		if g.engine.ShapeBody(surface) == h {
			delete(g.contacts, surface)
		}
	}
}

// Jump applies the jump impulse if the player is grounded. Flips straight
// to airborne so the jump cannot retrigger until a landing is re-detected.
func (g *Grounding) Jump() bool {
	if !g.IsGrounded() {
		return false
	}
	g.Reset()
	g.engine.ApplyImpulse(g.player, cp.Vector{X: 0, Y: -jumpImpulse})
	return true
}

func surfaceThresholds(tag physics.UserData) (normalMin, velMax, stick float64) {
	switch tag.(type) {
	case physics.CrateTag:
		return crateNormalMinY, crateVelFallback, crateStickImpulse
	default:
		return platformNormalMinY, platformVelFallback, platformStickImpulse
	}
}
