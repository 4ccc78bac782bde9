package physics

import (
	"errors"
	"math"

	"github.com/jakecoffman/cp/v2"
	"github.com/tannerhall/ravine/common"
)

// ErrUnknownBody is returned when destroying a handle the engine does not
// own (already destroyed, or never created). Callers treat it as a no-op.
var ErrUnknownBody = errors.New("physics: unknown body handle")

// BodyHandle identifies a rigid body. The zero value is the null handle.
type BodyHandle struct {
	ref *cp.Body
}

// NullBody is the null body handle.
var NullBody BodyHandle

func (h BodyHandle) IsNull() bool { return h.ref == nil }

// ShapeHandle identifies a collision shape. The zero value is the null
// handle.
type ShapeHandle struct {
	ref *cp.Shape
}

// NullShape is the null shape handle.
var NullShape ShapeHandle

func (h ShapeHandle) IsNull() bool { return h.ref == nil }

// BodyType selects how the solver treats a body.
type BodyType int

const (
	BodyDynamic BodyType = iota
	BodyStatic
)

// BodyDef describes a body to create. Width/Height size the box used for
// the moment of inertia; FixedRotation pins the angle (platformer bodies
// never tumble).
type BodyDef struct {
	Type          BodyType
	Position      cp.Vector
	Mass          float64
	Width, Height float64
	FixedRotation bool
}

// ShapeDef describes a box shape to attach to a body.
type ShapeDef struct {
	Width, Height float64
	Sensor        bool
	Friction      float64
	UserData      UserData
}

// CreateBody creates a body and adds it to the space. Returns the null
// handle when the engine is unavailable; callers log and abort that
// entity's construction.
func (e *Engine) CreateBody(def BodyDef) BodyHandle {
	if e == nil || e.space == nil {
		return NullBody
	}

	var body *cp.Body
	switch def.Type {
	case BodyStatic:
		body = cp.NewStaticBody()
	default:
		mass := def.Mass
		if mass <= 0 {
			mass = 1.0
		}
		moment := cp.MomentForBox(mass, def.Width, def.Height)
		if def.FixedRotation {
			moment = math.Inf(1)
		}
		body = cp.NewBody(mass, moment)
	}
	body.SetAngle(0)
	body.SetAngularVelocity(0)
	body.SetPosition(def.Position)

	e.space.AddBody(body)
	e.bodies[body] = def.Type
	return BodyHandle{ref: body}
}

// CreateShape attaches a box shape to a body. Returns the null handle when
// the body handle is null.
func (e *Engine) CreateShape(body BodyHandle, def ShapeDef) ShapeHandle {
	if e == nil || e.space == nil || body.IsNull() {
		return NullShape
	}
	shape := cp.NewBox(body.ref, def.Width, def.Height, 0)
	shape.SetCollisionType(shapeType)
	shape.SetSensor(def.Sensor)
	shape.SetFriction(def.Friction)
	shape.UserData = def.UserData
	e.space.AddShape(shape)
	return ShapeHandle{ref: shape}
}

// DestroyBody removes a body and all its shapes from the space. Destroying
// an unknown or null handle returns ErrUnknownBody.
func (e *Engine) DestroyBody(h BodyHandle) error {
	if e == nil || e.space == nil || h.IsNull() {
		return ErrUnknownBody
	}
	if _, ok := e.bodies[h.ref]; !ok {
		return ErrUnknownBody
	}

	// Force-slept bodies are already out of the space.
	if _, ok := e.asleep[h.ref]; ok {
		delete(e.asleep, h.ref)
		delete(e.bodies, h.ref)
		return nil
	}

	var shapes []*cp.Shape
	h.ref.EachShape(func(s *cp.Shape) {
		shapes = append(shapes, s)
	})
	for _, s := range shapes {
		e.space.RemoveShape(s)
	}
	e.space.RemoveBody(h.ref)
	delete(e.bodies, h.ref)
	return nil
}

// Contains reports whether the engine still owns the body.
func (e *Engine) Contains(h BodyHandle) bool {
	if e == nil || h.IsNull() {
		return false
	}
	_, ok := e.bodies[h.ref]
	return ok
}

// ShapeUserData returns the tag attached at shape creation, or nil for the
// null handle.
func (e *Engine) ShapeUserData(h ShapeHandle) UserData {
	if h.IsNull() {
		return nil
	}
	d, _ := h.ref.UserData.(UserData)
	return d
}

// IsSensor reports whether the shape is a sensor.
func (e *Engine) IsSensor(h ShapeHandle) bool {
	if h.IsNull() {
		return false
	}
	return h.ref.Sensor()
}

// ShapeBody returns the body a shape is attached to.
func (e *Engine) ShapeBody(h ShapeHandle) BodyHandle {
	if h.IsNull() {
		return NullBody
	}
	return BodyHandle{ref: h.ref.Body()}
}

// Velocity returns the body's linear velocity, or zero for null handles.
func (e *Engine) Velocity(h BodyHandle) cp.Vector {
	if h.IsNull() {
		return cp.Vector{}
	}
	return h.ref.Velocity()
}

// SetVelocity sets the body's linear velocity.
func (e *Engine) SetVelocity(h BodyHandle, v cp.Vector) {
	if h.IsNull() {
		return
	}
	h.ref.SetVelocity(v.X, v.Y)
}

// ApplyImpulse applies an impulse at the body's center of mass.
func (e *Engine) ApplyImpulse(h BodyHandle, impulse cp.Vector) {
	if h.IsNull() {
		return
	}
	h.ref.ApplyImpulseAtLocalPoint(impulse, cp.Vector{})
}

// Position returns the body's position.
func (e *Engine) Position(h BodyHandle) cp.Vector {
	if h.IsNull() {
		return cp.Vector{}
	}
	return h.ref.Position()
}

// SetTransform moves the body to pos, zeroing rotation.
func (e *Engine) SetTransform(h BodyHandle, pos cp.Vector) {
	if h.IsNull() {
		return
	}
	h.ref.SetPosition(pos)
	h.ref.SetAngle(0)
}

// SetAwake wakes or force-sleeps the body. Sleeping keeps the body, its
// shapes, and their user data fully intact; it only skips simulation.
// Forced sleep applies to dynamic bodies only.
//
// cp cannot force a body to sleep (the space decides via its idle
// threshold), so forced sleep pulls the body and its shapes out of the
// space; wake puts them back. Handles stay valid either way.
func (e *Engine) SetAwake(h BodyHandle, awake bool) {
	if e == nil || h.IsNull() {
		return
	}
	if awake {
		if shapes, ok := e.asleep[h.ref]; ok {
			delete(e.asleep, h.ref)
			e.space.AddBody(h.ref)
			for _, s := range shapes {
				e.space.AddShape(s)
			}
		}
		h.ref.Activate()
		return
	}
	if e.bodies[h.ref] != BodyDynamic {
		return
	}
	if _, ok := e.asleep[h.ref]; ok {
		return
	}
	var shapes []*cp.Shape
	h.ref.EachShape(func(s *cp.Shape) {
		shapes = append(shapes, s)
	})
	for _, s := range shapes {
		e.space.RemoveShape(s)
	}
	e.space.RemoveBody(h.ref)
	h.ref.SetVelocity(0, 0)
	e.asleep[h.ref] = shapes
}

// IsSleeping reports whether the body is asleep, either force-slept or
// idled out by the space.
func (e *Engine) IsSleeping(h BodyHandle) bool {
	if e == nil || h.IsNull() {
		return false
	}
	if _, ok := e.asleep[h.ref]; ok {
		return true
	}
	return h.ref.IsSleeping()
}

// BodyBounds returns the world-space bounding box covering all the body's
// shapes. Used by the visibility culler.
func (e *Engine) BodyBounds(h BodyHandle) common.Rect {
	if h.IsNull() {
		return common.Rect{}
	}
	first := true
	var l, b, r, t float64
	h.ref.EachShape(func(s *cp.Shape) {
		bb := s.BB()
		if first {
			l, b, r, t = bb.L, bb.B, bb.R, bb.T
			first = false
			return
		}
		l = math.Min(l, bb.L)
		b = math.Min(b, bb.B)
		r = math.Max(r, bb.R)
		t = math.Max(t, bb.T)
	})
	if first {
		p := h.ref.Position()
		return common.Rect{X: p.X, Y: p.Y}
	}
	return common.Rect{X: l, Y: b, Width: r - l, Height: t - b}
}
