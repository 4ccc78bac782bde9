package obj

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp/v2"
	"golang.org/x/image/colornames"

	"github.com/tannerhall/ravine/physics"
	"github.com/tannerhall/ravine/sim"
)

const (
	PlayerWidth  = 24.0
	PlayerHeight = 30.0

	playerMoveSpeed = 220.0

	// jumpBufferFrames lets a jump pressed slightly before landing fire on
	// the landing frame. The jump itself still only fires while grounded.
	jumpBufferFrames = 10

	// jumpCutVelocity clamps upward speed when the jump key is released
	// early, giving variable jump height (px/s, negative is up).
	jumpCutVelocity = -140.0
)

// Player is the controllable character. Jump gating and the grounded
// signal live in the grounding machine; the player only feeds it input.
type Player struct {
	engine    *physics.Engine
	grounding *sim.Grounding
	input     *Input

	body  physics.BodyHandle
	shape physics.ShapeHandle

	jumpBuffer  int
	facingRight bool
}

// NewPlayer creates the player body at (x, y) center. A null body handle is
// the one unrecoverable creation failure in the game; it is returned as an
// error so the session can surface a visible error state.
func NewPlayer(engine *physics.Engine, grounding *sim.Grounding, input *Input, x, y float64) (*Player, error) {
	body := engine.CreateBody(physics.BodyDef{
		Type:          physics.BodyDynamic,
		Position:      cp.Vector{X: x, Y: y},
		Mass:          1.0,
		Width:         PlayerWidth,
		Height:        PlayerHeight,
		FixedRotation: true,
	})
	if body.IsNull() {
		return nil, fmt.Errorf("obj: player body creation failed")
	}
	shape := engine.CreateShape(body, physics.ShapeDef{
		Width:    PlayerWidth,
		Height:   PlayerHeight,
		Friction: 0.0,
		UserData: physics.PlayerTag{},
	})

	grounding.SetPlayer(body)

	return &Player{
		engine:      engine,
		grounding:   grounding,
		input:       input,
		body:        body,
		shape:       shape,
		facingRight: true,
	}, nil
}

func (p *Player) Body() physics.BodyHandle { return p.body }

// Position returns the body center.
func (p *Player) Position() cp.Vector { return p.engine.Position(p.body) }

// Update applies movement and jumping from input.
func (p *Player) Update(_ float64) {
	v := p.engine.Velocity(p.body)
	v.X = p.input.MoveX * playerMoveSpeed
	p.engine.SetVelocity(p.body, v)

	if p.input.MoveX != 0 {
		p.facingRight = p.input.MoveX > 0
	}

	if p.input.JumpPressed {
		p.jumpBuffer = jumpBufferFrames
	} else if p.jumpBuffer > 0 {
		p.jumpBuffer--
	}
	if p.jumpBuffer > 0 && p.grounding.Jump() {
		p.jumpBuffer = 0
	}

	// Releasing jump early cuts the ascent short.
	if !p.input.JumpHeld {
		v = p.engine.Velocity(p.body)
		if v.Y < jumpCutVelocity {
			v.Y = jumpCutVelocity
			p.engine.SetVelocity(p.body, v)
		}
	}
}

// Respawn moves the player back to a spawn point and clears motion state.
func (p *Player) Respawn(x, y float64) {
	p.engine.SetTransform(p.body, cp.Vector{X: x, Y: y})
	p.engine.SetVelocity(p.body, cp.Vector{})
	p.engine.SetAwake(p.body, true)
	p.grounding.Reset()
	p.jumpBuffer = 0
}

// Draw renders the player as a filled rect in camera space.
func (p *Player) Draw(screen *ebiten.Image, camX, camY float64) {
	pos := p.engine.Position(p.body)
	clr := colornames.Cornflowerblue
	if !p.grounding.IsGrounded() {
		clr = colornames.Lightskyblue
	}
	vector.DrawFilledRect(screen,
		float32(pos.X-PlayerWidth/2-camX), float32(pos.Y-PlayerHeight/2-camY),
		float32(PlayerWidth), float32(PlayerHeight), clr, false)
}
