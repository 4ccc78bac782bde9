package obj

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp/v2"
	"golang.org/x/image/colornames"

	"github.com/tannerhall/ravine/physics"
)

const (
	CoinSize = 14.0

	// coinCollectTicks is the short sparkle window between collection and
	// the body's destruction being queued.
	coinCollectTicks = 18
)

// Coin is a static sensor the player collects by overlap. Collection is
// idempotent; the body is queued for destruction exactly once, after the
// collect animation window runs out.
type Coin struct {
	engine       *physics.Engine
	queueDestroy func(physics.BodyHandle)

	body  physics.BodyHandle
	shape physics.ShapeHandle
	id    int

	collected bool
	queued    bool
	ticks     int
}

// NewCoin creates coin #id centered at (x, y).
func NewCoin(engine *physics.Engine, id int, x, y float64, queueDestroy func(physics.BodyHandle)) *Coin {
	body := engine.CreateBody(physics.BodyDef{
		Type:     physics.BodyStatic,
		Position: cp.Vector{X: x, Y: y},
	})
	if body.IsNull() {
		log.Printf("Coin: body creation failed, skipping spawn at (%.0f, %.0f)", x, y)
		return nil
	}
	shape := engine.CreateShape(body, physics.ShapeDef{
		Width:    CoinSize,
		Height:   CoinSize,
		Sensor:   true,
		UserData: physics.CoinTag{ID: id},
	})

	return &Coin{
		engine:       engine,
		queueDestroy: queueDestroy,
		body:         body,
		shape:        shape,
		id:           id,
	}
}

func (c *Coin) Body() physics.BodyHandle { return c.body }

// ID returns the generator-assigned coin id.
func (c *Coin) ID() int { return c.id }

// Collected reports whether the coin has been picked up.
func (c *Coin) Collected() bool { return c.collected }

// Collect marks the coin collected. Returns true only the first time, so
// duplicate overlap events in one step collect once.
func (c *Coin) Collect() bool {
	if c.collected {
		return false
	}
	c.collected = true
	c.ticks = coinCollectTicks
	return true
}

// Update counts down the collect window and then queues the body's
// destruction.
func (c *Coin) Update(_ float64) {
	if !c.collected || c.queued {
		return
	}
	c.ticks--
	if c.ticks <= 0 {
		c.queueDestroy(c.body)
		c.queued = true
	}
}

// Draw renders the coin; collected coins shrink away during the sparkle
// window.
func (c *Coin) Draw(screen *ebiten.Image, camX, camY float64) {
	size := CoinSize
	if c.collected {
		size = CoinSize * float64(c.ticks) / coinCollectTicks
		if size <= 0 {
			return
		}
	}
	pos := c.engine.Position(c.body)
	vector.DrawFilledRect(screen,
		float32(pos.X-size/2-camX), float32(pos.Y-size/2-camY),
		float32(size), float32(size), colornames.Gold, false)
}
