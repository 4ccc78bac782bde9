package obj

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp/v2"
	"golang.org/x/image/colornames"

	"github.com/tannerhall/ravine/physics"
)

const crateFriction = 0.7

// Crate is a pushable dynamic box the player can also stand on.
type Crate struct {
	engine *physics.Engine

	body  physics.BodyHandle
	shape physics.ShapeHandle
	size  float64
}

// NewCrate creates a crate of the given edge length centered at (x, y).
func NewCrate(engine *physics.Engine, x, y, size float64) *Crate {
	body := engine.CreateBody(physics.BodyDef{
		Type:          physics.BodyDynamic,
		Position:      cp.Vector{X: x, Y: y},
		Mass:          2.0,
		Width:         size,
		Height:        size,
		FixedRotation: true,
	})
	if body.IsNull() {
		log.Printf("Crate: body creation failed, skipping spawn at (%.0f, %.0f)", x, y)
		return nil
	}
	shape := engine.CreateShape(body, physics.ShapeDef{
		Width:    size,
		Height:   size,
		Friction: crateFriction,
		UserData: physics.CrateTag{Size: size},
	})

	return &Crate{engine: engine, body: body, shape: shape, size: size}
}

func (c *Crate) Body() physics.BodyHandle { return c.body }

// Update is a no-op; crates are pure physics.
func (c *Crate) Update(_ float64) {}

// Draw renders the crate as a filled rect in camera space.
func (c *Crate) Draw(screen *ebiten.Image, camX, camY float64) {
	pos := c.engine.Position(c.body)
	clr := colornames.Peru
	if c.engine.IsSleeping(c.body) {
		clr = colornames.Saddlebrown
	}
	vector.DrawFilledRect(screen,
		float32(pos.X-c.size/2-camX), float32(pos.Y-c.size/2-camY),
		float32(c.size), float32(c.size), clr, false)
}
