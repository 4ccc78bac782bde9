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
	EnemyWidth  = 26.0
	EnemyHeight = 26.0

	enemyMoveSpeed = 60.0
)

// Enemy patrols its platform span and kills the player on contact. The
// patrol decision runs through a tengo script with a Go fallback.
type Enemy struct {
	engine *physics.Engine

	body  physics.BodyHandle
	shape physics.ShapeHandle

	minX, maxX float64
	dir        int
	script     *patrolScript
}

// NewEnemy creates an enemy patrolling [minX, maxX]. Returns nil when body
// creation fails; the level builder logs and skips the spawn.
func NewEnemy(engine *physics.Engine, x, y, minX, maxX float64) *Enemy {
	body := engine.CreateBody(physics.BodyDef{
		Type:          physics.BodyDynamic,
		Position:      cp.Vector{X: x, Y: y},
		Mass:          1.0,
		Width:         EnemyWidth,
		Height:        EnemyHeight,
		FixedRotation: true,
	})
	if body.IsNull() {
		log.Printf("Enemy: body creation failed, skipping spawn at (%.0f, %.0f)", x, y)
		return nil
	}
	shape := engine.CreateShape(body, physics.ShapeDef{
		Width:    EnemyWidth,
		Height:   EnemyHeight,
		Friction: 0.5,
		UserData: physics.EnemyTag{},
	})

	script, err := newPatrolScript(defaultPatrolScript)
	if err != nil {
		log.Printf("Enemy: patrol script unavailable, using fallback: %v", err)
		script = nil
	}

	return &Enemy{
		engine: engine,
		body:   body,
		shape:  shape,
		minX:   minX,
		maxX:   maxX,
		dir:    1,
		script: script,
	}
}

func (e *Enemy) Body() physics.BodyHandle { return e.body }

// Update advances the patrol. Sleeping enemies (culled off-screen) are left
// alone so the culler's work isn't undone.
func (e *Enemy) Update(_ float64) {
	if e.engine.IsSleeping(e.body) {
		return
	}
	x := e.engine.Position(e.body).X

	if e.script != nil {
		d, err := e.script.nextDir(x, e.minX, e.maxX, e.dir)
		if err != nil {
			log.Printf("Enemy: patrol script error, using fallback: %v", err)
			e.script = nil
			d = e.fallbackDir(x)
		}
		e.dir = d
	} else {
		e.dir = e.fallbackDir(x)
	}

	v := e.engine.Velocity(e.body)
	v.X = float64(e.dir) * enemyMoveSpeed
	e.engine.SetVelocity(e.body, v)
}

func (e *Enemy) fallbackDir(x float64) int {
	if x <= e.minX {
		return 1
	}
	if x >= e.maxX {
		return -1
	}
	return e.dir
}

// Draw renders the enemy as a filled rect in camera space.
func (e *Enemy) Draw(screen *ebiten.Image, camX, camY float64) {
	pos := e.engine.Position(e.body)
	vector.DrawFilledRect(screen,
		float32(pos.X-EnemyWidth/2-camX), float32(pos.Y-EnemyHeight/2-camY),
		float32(EnemyWidth), float32(EnemyHeight), colornames.Crimson, false)
}
