package sim

import (
	"github.com/tannerhall/ravine/common"
	"github.com/tannerhall/ravine/physics"
)

const (
	// FixedDT is the simulation timestep. The frame callback runs at 60Hz
	// and drives exactly one Frame per tick.
	FixedDT = 1.0 / 60.0

	// SubSteps splits each step into solver passes for contact stability.
	SubSteps = 4
)

// Stepper orchestrates one frame of the core: step physics, route events,
// update entities, cull, flush destructions. Everything runs on the frame
// callback; nothing here is concurrent.
type Stepper struct {
	engine    *physics.Engine
	session   *Session
	registry  *Registry
	culler    *Culler
	grounding *Grounding
	router    *Router
}

// NewStepper wires the full core around an engine and session. The
// callbacks fire on coin collection and player death.
func NewStepper(engine *physics.Engine, session *Session, onCoinCollected func(int), onPlayerDied func()) *Stepper {
	registry := NewRegistry(engine)
	culler := NewCuller(engine)
	grounding := NewGrounding(engine)
	router := NewRouter(engine, registry, grounding, session, onCoinCollected, onPlayerDied)

	registry.OnRemove(culler.Untrack)
	registry.OnRemove(grounding.ForgetBody)

	return &Stepper{
		engine:    engine,
		session:   session,
		registry:  registry,
		culler:    culler,
		grounding: grounding,
		router:    router,
	}
}

// Frame advances the game by one tick. Physics steps every frame
// regardless of session state to keep the simulation numerically stable;
// gameplay dispatch and entity updates are gated on PLAYING.
func (s *Stepper) Frame(cameraBounds common.Rect) {
	// The first frame with a live engine moves INITIALIZING to READY.
	if s.session.State() == StateInitializing && s.engine != nil {
		s.session.Transition(StateReady)
	}

	s.engine.Step(FixedDT, SubSteps)
	s.router.Route()

	if s.session.State() == StatePlaying {
		s.registry.Each(func(_ physics.BodyHandle, e Entity) {
			e.Update(FixedDT)
		})
	}

	s.culler.Update(cameraBounds)
	s.registry.FlushDestroyed()
}

// Registry returns the body registry.
func (s *Stepper) Registry() *Registry { return s.registry }

// Culler returns the visibility culler.
func (s *Stepper) Culler() *Culler { return s.culler }

// Grounding returns the grounding machine.
func (s *Stepper) Grounding() *Grounding { return s.grounding }

// Session returns the session state machine.
func (s *Stepper) Session() *Session { return s.session }

// IsGrounded reports the player's grounded state.
func (s *Stepper) IsGrounded() bool { return s.grounding.IsGrounded() }

// QueueBodyDestroy defers destruction of a body to end of frame.
func (s *Stepper) QueueBodyDestroy(h physics.BodyHandle) { s.registry.QueueDestroy(h) }
