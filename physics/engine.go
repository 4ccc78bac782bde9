package physics

import (
	"math"

	"github.com/jakecoffman/cp/v2"
)

// shapeType is the single collision type assigned to every shape created
// through the engine. Pair dispatch happens on UserData tags, not on
// collision types, so one handler sees every pairing.
const shapeType cp.CollisionType = 1

// spaceIterations is the solver iteration count per step.
const spaceIterations = 20

// sleepThreshold is how long a body must be idle before the space lets it
// sleep on its own. Forced sleep via SetAwake requires sleeping to be
// enabled on the space at all.
const sleepThreshold = 0.5

// ContactEvent reports one solid-shape contact between A and B.
// Normal points from A into B; HasNormal is false when the solver could not
// produce a usable normal (degenerate corner contacts).
type ContactEvent struct {
	A, B      ShapeHandle
	Normal    cp.Vector
	HasNormal bool
}

// SensorEvent reports a sensor overlap. Sensor is the shape flagged as a
// sensor, Visitor the solid shape overlapping it.
type SensorEvent struct {
	Sensor  ShapeHandle
	Visitor ShapeHandle
}

// ContactEvents holds one step's solid contacts. Hit entries repeat every
// step while two shapes stay pressed together and are the authoritative
// "currently touching with force" signal; Begin and End fire once per
// contact lifetime.
type ContactEvents struct {
	Hit   []ContactEvent
	Begin []ContactEvent
	End   []ContactEvent
}

// SensorEvents holds one step's sensor overlaps.
type SensorEvents struct {
	Begin []SensorEvent
	End   []SensorEvent
}

// Engine wraps a Chipmunk space behind the handle-based surface the rest of
// the game consumes. Events raised by the space's collision handlers during
// Step are buffered and polled afterwards, never dispatched mid-step.
type Engine struct {
	space  *cp.Space
	bodies map[*cp.Body]BodyType

	// asleep holds force-slept bodies and the shapes pulled out of the
	// space with them. cp has no forced-sleep call (only Activate and the
	// idle threshold), so forced sleep removes the body from the space and
	// wake re-adds it.
	asleep map[*cp.Body][]*cp.Shape

	contacts ContactEvents
	sensors  SensorEvents
}

// NewEngine creates an engine with the given gravity (px/s^2, Y down).
func NewEngine(gravity float64) *Engine {
	space := cp.NewSpace()
	space.Iterations = spaceIterations
	space.SleepTimeThreshold = sleepThreshold
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	e := &Engine{
		space:  space,
		bodies: make(map[*cp.Body]BodyType),
		asleep: make(map[*cp.Body][]*cp.Shape),
	}
	e.setupHandlers()
	return e
}

func (e *Engine) setupHandlers() {
	handler := e.space.NewCollisionHandler(shapeType, shapeType)
	handler.UserData = e

	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
		eng, ok := userData.(*Engine)
		if !ok || eng == nil {
			return true
		}
		a, b := arb.Shapes()
		if a.Sensor() || b.Sensor() {
			eng.sensors.Begin = append(eng.sensors.Begin, sensorEvent(a, b))
			return true
		}
		eng.contacts.Begin = append(eng.contacts.Begin, contactEvent(a, b, arb))
		return true
	}

	handler.PostSolveFunc = func(arb *cp.Arbiter, _ *cp.Space, userData interface{}) {
		eng, ok := userData.(*Engine)
		if !ok || eng == nil {
			return
		}
		a, b := arb.Shapes()
		eng.contacts.Hit = append(eng.contacts.Hit, contactEvent(a, b, arb))
	}

	handler.SeparateFunc = func(arb *cp.Arbiter, _ *cp.Space, userData interface{}) {
		eng, ok := userData.(*Engine)
		if !ok || eng == nil {
			return
		}
		a, b := arb.Shapes()
		if a.Sensor() || b.Sensor() {
			eng.sensors.End = append(eng.sensors.End, sensorEvent(a, b))
			return
		}
		ev := ContactEvent{A: ShapeHandle{ref: a}, B: ShapeHandle{ref: b}}
		eng.contacts.End = append(eng.contacts.End, ev)
	}
}

func sensorEvent(a, b *cp.Shape) SensorEvent {
	if a.Sensor() {
		return SensorEvent{Sensor: ShapeHandle{ref: a}, Visitor: ShapeHandle{ref: b}}
	}
	return SensorEvent{Sensor: ShapeHandle{ref: b}, Visitor: ShapeHandle{ref: a}}
}

func contactEvent(a, b *cp.Shape, arb *cp.Arbiter) ContactEvent {
	n := arb.Normal()
	hasNormal := !(math.Abs(n.X) < 1e-9 && math.Abs(n.Y) < 1e-9)
	return ContactEvent{
		A:         ShapeHandle{ref: a},
		B:         ShapeHandle{ref: b},
		Normal:    n,
		HasNormal: hasNormal,
	}
}

// Step clears the previous step's event buffers and advances the simulation
// by dt split across subSteps solver passes.
func (e *Engine) Step(dt float64, subSteps int) {
	if e == nil || e.space == nil {
		return
	}
	e.contacts = ContactEvents{}
	e.sensors = SensorEvents{}

	if subSteps < 1 {
		subSteps = 1
	}
	sub := dt / float64(subSteps)
	for i := 0; i < subSteps; i++ {
		e.space.Step(sub)
	}
}

// ContactEvents returns the contacts recorded during the most recent Step.
// The slices are valid until the next Step call.
func (e *Engine) ContactEvents() ContactEvents {
	if e == nil {
		return ContactEvents{}
	}
	return e.contacts
}

// SensorEvents returns the sensor overlaps recorded during the most recent
// Step. The slices are valid until the next Step call.
func (e *Engine) SensorEvents() SensorEvents {
	if e == nil {
		return SensorEvents{}
	}
	return e.sensors
}
