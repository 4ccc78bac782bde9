package obj

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp/v2"
	"golang.org/x/image/colornames"

	"github.com/tannerhall/ravine/common"
	"github.com/tannerhall/ravine/physics"
)

const platformFriction = 0.8

// Platform is a static groundable box.
type Platform struct {
	engine *physics.Engine

	body  physics.BodyHandle
	shape physics.ShapeHandle
	rect  common.Rect
}

// NewPlatform creates a platform covering rect.
func NewPlatform(engine *physics.Engine, rect common.Rect) *Platform {
	body := engine.CreateBody(physics.BodyDef{
		Type:     physics.BodyStatic,
		Position: cp.Vector{X: rect.X + rect.Width/2, Y: rect.Y + rect.Height/2},
	})
	if body.IsNull() {
		log.Printf("Platform: body creation failed, skipping at (%.0f, %.0f)", rect.X, rect.Y)
		return nil
	}
	shape := engine.CreateShape(body, physics.ShapeDef{
		Width:    rect.Width,
		Height:   rect.Height,
		Friction: platformFriction,
		UserData: physics.PlatformTag{},
	})

	return &Platform{engine: engine, body: body, shape: shape, rect: rect}
}

func (p *Platform) Body() physics.BodyHandle { return p.body }

// Rect returns the platform's world rect.
func (p *Platform) Rect() common.Rect { return p.rect }

// Update is a no-op; platforms are static.
func (p *Platform) Update(_ float64) {}

// Draw renders the platform as a filled rect in camera space.
func (p *Platform) Draw(screen *ebiten.Image, camX, camY float64) {
	vector.DrawFilledRect(screen,
		float32(p.rect.X-camX), float32(p.rect.Y-camY),
		float32(p.rect.Width), float32(p.rect.Height), colornames.Dimgray, false)
}
