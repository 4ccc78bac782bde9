package obj

import (
	"log"

	"github.com/jakecoffman/cp/v2"

	"github.com/tannerhall/ravine/common"
	"github.com/tannerhall/ravine/physics"
)

// DeathSensor is the invisible kill strip spanning the bottom of the
// level. Overlapping it ends the run.
type DeathSensor struct {
	body  physics.BodyHandle
	shape physics.ShapeHandle
}

// NewDeathSensor creates a sensor covering rect.
func NewDeathSensor(engine *physics.Engine, rect common.Rect) *DeathSensor {
	body := engine.CreateBody(physics.BodyDef{
		Type:     physics.BodyStatic,
		Position: cp.Vector{X: rect.X + rect.Width/2, Y: rect.Y + rect.Height/2},
	})
	if body.IsNull() {
		log.Printf("DeathSensor: body creation failed at (%.0f, %.0f)", rect.X, rect.Y)
		return nil
	}
	shape := engine.CreateShape(body, physics.ShapeDef{
		Width:    rect.Width,
		Height:   rect.Height,
		Sensor:   true,
		UserData: physics.DeathSensorTag{},
	})

	return &DeathSensor{body: body, shape: shape}
}

func (d *DeathSensor) Body() physics.BodyHandle { return d.body }

// Update is a no-op.
func (d *DeathSensor) Update(_ float64) {}
