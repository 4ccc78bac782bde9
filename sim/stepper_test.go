package sim

import (
	"testing"

	"github.com/jakecoffman/cp/v2"
	"github.com/tannerhall/ravine/common"
	"github.com/tannerhall/ravine/physics"
)

// wideView is a camera rect large enough that the culler never sleeps
// anything during these tests.
var wideView = common.Rect{X: -5000, Y: -5000, Width: 10000, Height: 10000}

func spawnSized(t *testing.T, engine *physics.Engine, bodyType physics.BodyType, x, y, w, h float64, sensor bool, tag physics.UserData) (physics.BodyHandle, physics.ShapeHandle) {
	t.Helper()
	body := engine.CreateBody(physics.BodyDef{
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
	shape := engine.CreateShape(body, physics.ShapeDef{
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

// testCoin is a registry entity standing in for a collectible pickup.
type testCoin struct {
	body      physics.BodyHandle
	collected bool
}

func (c *testCoin) Body() physics.BodyHandle { return c.body }
func (c *testCoin) Update(float64)           {}
func (c *testCoin) Collect() bool {
	if c.collected {
		return false
	}
	c.collected = true
	return true
}

func startPlaying(t *testing.T, engine *physics.Engine, session *Session, s *Stepper) {
	t.Helper()
	s.Frame(wideView) // INITIALIZING -> READY
	if session.State() != StateReady {
		t.Fatalf("state = %s after first frame, want READY", session.State())
	}
	if !session.Transition(StatePlaying) {
		t.Fatal("READY -> PLAYING should be legal")
	}
}

func TestStepperPlayerLandsOnPlatform(t *testing.T) {
	engine := newTestEngine()
	session := NewSession()
	s := NewStepper(engine, session, nil, nil)

	spawnSized(t, engine, physics.BodyStatic, 0, 300, 400, 40, false, physics.PlatformTag{})
	player, _ := spawnSized(t, engine, physics.BodyDynamic, 0, 100, 24, 30, false, physics.PlayerTag{})
	s.Grounding().SetPlayer(player)

	startPlaying(t, engine, session, s)

	if s.IsGrounded() {
		t.Fatal("player must start airborne")
	}

	// Drop under gravity for up to 1.5 seconds.
	grounded := false
	for i := 0; i < 90; i++ {
		s.Frame(wideView)
		if s.IsGrounded() {
			grounded = true
			break
		}
	}
	if !grounded {
		t.Fatal("player never grounded after falling onto the platform")
	}

	// Settled on the platform: grounded must hold across further frames.
	for i := 0; i < 30; i++ {
		s.Frame(wideView)
	}
	if !s.IsGrounded() {
		t.Fatal("player did not stay grounded while resting on the platform")
	}
}

func TestStepperCoinCollectedOnce(t *testing.T) {
	engine := newTestEngine()
	session := NewSession()
	var collectedIDs []int
	s := NewStepper(engine, session, func(id int) { collectedIDs = append(collectedIDs, id) }, nil)

	spawnSized(t, engine, physics.BodyStatic, 0, 300, 400, 40, false, physics.PlatformTag{})
	player, _ := spawnSized(t, engine, physics.BodyDynamic, 0, 100, 24, 30, false, physics.PlayerTag{})
	s.Grounding().SetPlayer(player)

	// Coin in the player's fall path, entered only after PLAYING starts so
	// the sensor Begin fires while events are being dispatched.
	coinBody, _ := spawnSized(t, engine, physics.BodyStatic, 0, 230, 14, 14, true, physics.CoinTag{ID: 7})
	coin := &testCoin{body: coinBody}
	s.Registry().Register(coinBody, coin, physics.CoinTag{ID: 7})

	startPlaying(t, engine, session, s)

	for i := 0; i < 90; i++ {
		s.Frame(wideView)
	}

	if session.Coins() != 1 {
		t.Fatalf("coins = %d, want exactly 1", session.Coins())
	}
	if len(collectedIDs) != 1 || collectedIDs[0] != 7 {
		t.Fatalf("collected callback saw %v, want [7]", collectedIDs)
	}
	if !coin.collected {
		t.Fatal("coin entity never marked collected")
	}
}

func TestStepperDeathSensorEndsSession(t *testing.T) {
	engine := newTestEngine()
	session := NewSession()
	died := 0
	s := NewStepper(engine, session, nil, func() { died++ })

	player, _ := spawnSized(t, engine, physics.BodyDynamic, 0, 100, 24, 30, false, physics.PlayerTag{})
	s.Grounding().SetPlayer(player)

	// Kill strip below the spawn; the player free-falls into it.
	spawnSized(t, engine, physics.BodyStatic, 0, 400, 2000, 100, true, physics.DeathSensorTag{})

	startPlaying(t, engine, session, s)

	for i := 0; i < 90; i++ {
		s.Frame(wideView)
		if session.State() == StateGameOver {
			break
		}
	}

	if session.State() != StateGameOver {
		t.Fatalf("state = %s after falling into the kill strip, want GAME_OVER", session.State())
	}
	if died != 1 {
		t.Fatalf("death callback fired %d times, want 1", died)
	}

	// Further frames keep the player overlapping the sensor; the session
	// must stay in GAME_OVER without re-firing the callback.
	for i := 0; i < 30; i++ {
		s.Frame(wideView)
	}
	if died != 1 {
		t.Fatalf("death callback fired %d times after game over, want 1", died)
	}
}

func TestStepperSuppressesGameplayOutsidePlaying(t *testing.T) {
	engine := newTestEngine()
	session := NewSession()
	collected := 0
	s := NewStepper(engine, session, func(int) { collected++ }, nil)

	player, _ := spawnSized(t, engine, physics.BodyDynamic, 0, 260, 24, 30, false, physics.PlayerTag{})
	s.Grounding().SetPlayer(player)
	spawnSized(t, engine, physics.BodyStatic, 0, 300, 400, 40, false, physics.PlatformTag{})

	coinBody, _ := spawnSized(t, engine, physics.BodyStatic, 0, 260, 14, 14, true, physics.CoinTag{ID: 1})
	s.Registry().Register(coinBody, &testCoin{body: coinBody}, physics.CoinTag{ID: 1})

	// Never transition to PLAYING; physics steps, but no events dispatch.
	for i := 0; i < 30; i++ {
		s.Frame(wideView)
	}

	if session.State() != StateReady {
		t.Fatalf("state = %s, want READY", session.State())
	}
	if session.Coins() != 0 || collected != 0 {
		t.Fatalf("coin collected while not PLAYING (coins=%d, callback=%d)", session.Coins(), collected)
	}
}

func TestStepperPauseDoesNotLeakGroundingContacts(t *testing.T) {
	engine := newTestEngine()
	session := NewSession()
	s := NewStepper(engine, session, nil, nil)

	spawnSized(t, engine, physics.BodyStatic, 0, 300, 400, 40, false, physics.PlatformTag{})
	player, _ := spawnSized(t, engine, physics.BodyDynamic, 0, 100, 24, 30, false, physics.PlayerTag{})
	s.Grounding().SetPlayer(player)

	startPlaying(t, engine, session, s)
	for i := 0; i < 90 && !s.IsGrounded(); i++ {
		s.Frame(wideView)
	}
	if !s.IsGrounded() {
		t.Fatal("setup: player never landed")
	}

	// Pause, then launch the player off the platform. Physics keeps
	// stepping while paused, so the contact physically ends mid-pause.
	if !session.Transition(StatePaused) {
		t.Fatal("PLAYING -> PAUSED should be legal")
	}
	engine.SetVelocity(player, cp.Vector{X: 0, Y: -800})
	for i := 0; i < 30; i++ {
		s.Frame(wideView)
	}

	if s.IsGrounded() {
		t.Fatal("grounding tally held a stale contact across the pause")
	}

	if !session.Transition(StatePlaying) {
		t.Fatal("PAUSED -> PLAYING should be legal")
	}
	if s.Grounding().Jump() {
		t.Fatal("mid-air jump accepted after resuming from pause")
	}
}

func TestStepperUpdatesEntitiesOnlyWhilePlaying(t *testing.T) {
	engine := newTestEngine()
	session := NewSession()
	s := NewStepper(engine, session, nil, nil)

	body, _ := spawnSized(t, engine, physics.BodyStatic, 500, 0, 30, 30, false, physics.CrateTag{Size: 30})
	ent := &stubEntity{body: body}
	s.Registry().Register(body, ent, physics.CrateTag{Size: 30})

	s.Frame(wideView) // READY
	s.Frame(wideView)
	if ent.updates != 0 {
		t.Fatalf("entity updated %d times while READY, want 0", ent.updates)
	}

	session.Transition(StatePlaying)
	s.Frame(wideView)
	s.Frame(wideView)
	if ent.updates != 2 {
		t.Fatalf("entity updated %d times while PLAYING, want 2", ent.updates)
	}
}
