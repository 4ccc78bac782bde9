package physics

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp/v2"
)

const (
	testGravity = 1800.0
	testDT      = 1.0 / 60.0
)

func makeBox(t *testing.T, e *Engine, bodyType BodyType, x, y, w, h float64, sensor bool, tag UserData) (BodyHandle, ShapeHandle) {
	t.Helper()
	body := e.CreateBody(BodyDef{
		Type:          bodyType,
		Position:      cp.Vector{X: x, Y: y},
		Mass:          1.0,
		Width:         w,
		Height:        h,
		FixedRotation: true,
	})
	if body.IsNull() {
		t.Fatal("body creation failed")
	}
	shape := e.CreateShape(body, ShapeDef{
		Width:    w,
		Height:   h,
		Sensor:   sensor,
		Friction: 0.8,
		UserData: tag,
	})
	if shape.IsNull() {
		t.Fatal("shape creation failed")
	}
	return body, shape
}

func TestEngineContactLifecycle(t *testing.T) {
	e := NewEngine(testGravity)
	_, platShape := makeBox(t, e, BodyStatic, 0, 300, 400, 40, false, PlatformTag{})
	faller, fallerShape := makeBox(t, e, BodyDynamic, 0, 240, 24, 30, false, PlayerTag{})

	pairMatches := func(ev ContactEvent) bool {
		return (ev.A == fallerShape && ev.B == platShape) ||
			(ev.A == platShape && ev.B == fallerShape)
	}

	// Fall until the boxes touch.
	var begin *ContactEvent
	for i := 0; i < 60 && begin == nil; i++ {
		e.Step(testDT, 4)
		for _, ev := range e.ContactEvents().Begin {
			if pairMatches(ev) {
				begin = &ev
			}
		}
	}
	if begin == nil {
		t.Fatal("no Begin event while falling onto the platform")
	}
	if !begin.HasNormal {
		t.Fatal("landing Begin event carried no normal")
	}

	// While resting, every step reports a Hit for the pressed pair.
	e.Step(testDT, 4)
	var hit bool
	for _, ev := range e.ContactEvents().Hit {
		if pairMatches(ev) {
			hit = true
		}
	}
	if !hit {
		t.Fatal("no Hit event while pressed against the platform")
	}

	// Launch the box upward; the pair must separate within a few steps.
	e.SetVelocity(faller, cp.Vector{X: 0, Y: -800})
	var ended bool
	for i := 0; i < 30 && !ended; i++ {
		e.Step(testDT, 4)
		for _, ev := range e.ContactEvents().End {
			if pairMatches(ev) {
				ended = true
			}
		}
	}
	if !ended {
		t.Fatal("no End event after launching off the platform")
	}
}

func TestEngineSensorEvents(t *testing.T) {
	e := NewEngine(testGravity)
	_, sensorShape := makeBox(t, e, BodyStatic, 0, 300, 40, 40, true, CoinTag{ID: 3})
	visitor, visitorShape := makeBox(t, e, BodyDynamic, 0, 240, 24, 30, false, PlayerTag{})

	var began bool
	for i := 0; i < 60 && !began; i++ {
		e.Step(testDT, 4)
		for _, ev := range e.SensorEvents().Begin {
			if ev.Sensor == sensorShape && ev.Visitor == visitorShape {
				began = true
			}
		}
		// Sensor overlaps must never show up as solid contacts.
		for _, ev := range e.ContactEvents().Begin {
			if ev.A == sensorShape || ev.B == sensorShape {
				t.Fatal("sensor overlap reported as a solid contact")
			}
		}
		for _, ev := range e.ContactEvents().Hit {
			if ev.A == sensorShape || ev.B == sensorShape {
				t.Fatal("sensor overlap produced a Hit event")
			}
		}
	}
	if !began {
		t.Fatal("no sensor Begin event while falling through the sensor")
	}

	// Fling the visitor away; the overlap must end.
	e.SetVelocity(visitor, cp.Vector{X: 0, Y: -900})
	var ended bool
	for i := 0; i < 30 && !ended; i++ {
		e.Step(testDT, 4)
		for _, ev := range e.SensorEvents().End {
			if ev.Sensor == sensorShape && ev.Visitor == visitorShape {
				ended = true
			}
		}
	}
	if !ended {
		t.Fatal("no sensor End event after leaving the sensor")
	}
}

func TestEngineStepClearsEventBuffers(t *testing.T) {
	e := NewEngine(testGravity)
	makeBox(t, e, BodyStatic, 0, 300, 400, 40, false, PlatformTag{})
	makeBox(t, e, BodyDynamic, 0, 260, 24, 30, false, PlayerTag{})

	// Land and accumulate events.
	for i := 0; i < 30; i++ {
		e.Step(testDT, 4)
	}

	// A step with the bodies already settled still reports Hit but must not
	// carry over the old Begin entries.
	e.Step(testDT, 4)
	if n := len(e.ContactEvents().Begin); n != 0 {
		t.Fatalf("Begin buffer has %d stale entries after settling", n)
	}
}

func TestEngineDestroyBody(t *testing.T) {
	e := NewEngine(testGravity)
	body, _ := makeBox(t, e, BodyDynamic, 0, 0, 30, 30, false, CrateTag{Size: 30})

	if !e.Contains(body) {
		t.Fatal("engine must own a freshly created body")
	}
	if err := e.DestroyBody(body); err != nil {
		t.Fatalf("DestroyBody returned %v, want nil", err)
	}
	if e.Contains(body) {
		t.Fatal("engine still owns a destroyed body")
	}

	if err := e.DestroyBody(body); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("double destroy returned %v, want ErrUnknownBody", err)
	}
	if err := e.DestroyBody(NullBody); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("destroying null handle returned %v, want ErrUnknownBody", err)
	}
}

func TestEngineNullHandles(t *testing.T) {
	var nilEngine *Engine
	if body := nilEngine.CreateBody(BodyDef{}); !body.IsNull() {
		t.Fatal("nil engine must return the null body handle")
	}

	e := NewEngine(testGravity)
	if shape := e.CreateShape(NullBody, ShapeDef{Width: 10, Height: 10}); !shape.IsNull() {
		t.Fatal("shape on null body must be the null shape handle")
	}
	if v := e.Velocity(NullBody); v.X != 0 || v.Y != 0 {
		t.Fatalf("velocity of null handle = %v, want zero", v)
	}
	if e.Contains(NullBody) {
		t.Fatal("engine must not claim the null handle")
	}
}

func TestEngineForcedSleep(t *testing.T) {
	e := NewEngine(testGravity)
	body, _ := makeBox(t, e, BodyDynamic, 0, 0, 30, 30, false, CrateTag{Size: 30})

	e.SetAwake(body, false)
	if !e.IsSleeping(body) {
		t.Fatal("force-slept body must report sleeping")
	}

	// A sleeping body sits still; gravity must not move it.
	pos := e.Position(body)
	for i := 0; i < 30; i++ {
		e.Step(testDT, 4)
	}
	if after := e.Position(body); after != pos {
		t.Fatalf("slept body moved from %v to %v", pos, after)
	}

	// Sleeping twice is a no-op.
	e.SetAwake(body, false)
	if !e.IsSleeping(body) {
		t.Fatal("second sleep call changed the state")
	}

	e.SetAwake(body, true)
	if e.IsSleeping(body) {
		t.Fatal("woken body still reports sleeping")
	}
	for i := 0; i < 30; i++ {
		e.Step(testDT, 4)
	}
	if after := e.Position(body); after.Y <= pos.Y {
		t.Fatal("woken body did not resume falling")
	}
}

func TestEngineForcedSleepStaticExempt(t *testing.T) {
	e := NewEngine(testGravity)
	body, _ := makeBox(t, e, BodyStatic, 0, 0, 30, 30, false, PlatformTag{})

	e.SetAwake(body, false)
	if e.IsSleeping(body) {
		t.Fatal("static body must never be force-slept")
	}
}

func TestEngineDestroyWhileSlept(t *testing.T) {
	e := NewEngine(testGravity)
	body, _ := makeBox(t, e, BodyDynamic, 0, 0, 30, 30, false, CrateTag{Size: 30})

	e.SetAwake(body, false)
	if err := e.DestroyBody(body); err != nil {
		t.Fatalf("DestroyBody on slept body returned %v, want nil", err)
	}
	if e.Contains(body) {
		t.Fatal("engine still owns a destroyed slept body")
	}
}

func TestEngineShapeAccessors(t *testing.T) {
	e := NewEngine(testGravity)
	body, shape := makeBox(t, e, BodyStatic, 10, 20, 40, 40, true, DeathSensorTag{})

	if !e.IsSensor(shape) {
		t.Fatal("IsSensor = false for a sensor shape")
	}
	if e.ShapeBody(shape) != body {
		t.Fatal("ShapeBody did not return the owning body")
	}
	if _, ok := e.ShapeUserData(shape).(DeathSensorTag); !ok {
		t.Fatalf("ShapeUserData = %T, want DeathSensorTag", e.ShapeUserData(shape))
	}
}
