package sim

import (
	"log"

	"github.com/jakecoffman/cp/v2"
	"github.com/tannerhall/ravine/physics"
)

// Collectible is implemented by entities that can be picked up once.
// Collect returns true only the first time.
type Collectible interface {
	Collect() bool
}

// Router drains the engine's per-step event lists and dispatches typed
// pairs to the gameplay handlers. It runs once per step, after the step
// call. Contact order is Hit, Begin, End: Hit is the authoritative
// "currently pressing" signal and must update grounding before Begin/End
// reinterpret the same step's geometry.
type Router struct {
	engine    *physics.Engine
	registry  *Registry
	grounding *Grounding
	session   *Session

	onCoinCollected func(id int)
	onPlayerDied    func()
}

// NewRouter wires a router to its collaborators. The callbacks may be nil.
func NewRouter(engine *physics.Engine, registry *Registry, grounding *Grounding, session *Session, onCoinCollected func(int), onPlayerDied func()) *Router {
	return &Router{
		engine:          engine,
		registry:        registry,
		grounding:       grounding,
		session:         session,
		onCoinCollected: onCoinCollected,
		onPlayerDied:    onPlayerDied,
	}
}

// Route dispatches the most recent step's events. Outside PLAYING the
// gameplay events are dropped: physics still steps every frame, but
// game-rule side effects are suppressed.
func (r *Router) Route() {
	if r.session.State() != StatePlaying {
		r.routeSuppressed()
		return
	}

	r.routeSensors()
	r.routeContacts()
}

// routeSuppressed runs instead of full dispatch outside PLAYING. Physics
// keeps stepping, so a contact can physically end during a pause; its End
// event must still reach the grounding tally or the entry goes stale and
// the player reads grounded in mid-air after resuming. Live contacts
// re-ground through the next PLAYING frame's Hit events.
func (r *Router) routeSuppressed() {
	for _, ev := range r.engine.ContactEvents().End {
		if _, otherShape, _, ok := r.orientToPlayer(ev); ok {
			r.grounding.EndContact(otherShape)
		}
	}
}

func (r *Router) routeSensors() {
	for _, ev := range r.engine.SensorEvents().Begin {
		sensorTag := r.engine.ShapeUserData(ev.Sensor)
		visitorTag := r.engine.ShapeUserData(ev.Visitor)
		if !pairHasPlayer(sensorTag, visitorTag) {
			continue
		}
		switch tag := sensorTag.(type) {
		case physics.CoinTag:
			r.collectCoin(ev.Sensor, tag.ID)
		case physics.DeathSensorTag:
			r.killPlayer("death sensor")
		}
	}
}

func (r *Router) collectCoin(coinShape physics.ShapeHandle, id int) {
	body := r.engine.ShapeBody(coinShape)
	ent, ok := r.registry.Lookup(body)
	if !ok {
		return
	}
	coin, ok := ent.(Collectible)
	if !ok {
		return
	}
	// Collect is idempotent against duplicate Begin events in one step.
	if !coin.Collect() {
		return
	}
	r.session.AddCoin()
	if r.onCoinCollected != nil {
		r.onCoinCollected(id)
	}
}

func (r *Router) killPlayer(cause string) {
	// GAME_OVER is reachable only from PLAYING, so a repeated kill in the
	// same frame is rejected by the transition table and stays a no-op.
	if !r.session.Transition(StateGameOver) {
		return
	}
	log.Printf("Router: player died (%s)", cause)
	if r.onPlayerDied != nil {
		r.onPlayerDied()
	}
}

func (r *Router) routeContacts() {
	contacts := r.engine.ContactEvents()

	for _, ev := range contacts.Hit {
		r.handleContact(ev, false)
	}
	for _, ev := range contacts.Begin {
		r.handleContact(ev, true)
	}
	for _, ev := range contacts.End {
		r.handleContactEnd(ev, contacts)
	}
}

// handleContact processes one Begin or Hit event. isBegin selects the
// handlers that must fire once per contact lifetime (player-enemy death).
func (r *Router) handleContact(ev physics.ContactEvent, isBegin bool) {
	if r.engine.IsSensor(ev.A) || r.engine.IsSensor(ev.B) {
		return
	}
	_, otherShape, normal, ok := r.orientToPlayer(ev)
	if !ok {
		return
	}

	otherTag := r.engine.ShapeUserData(otherShape)
	switch otherTag.(type) {
	case physics.EnemyTag:
		if isBegin {
			r.killPlayer("enemy contact")
		}
	case physics.PlatformTag, physics.CrateTag:
		r.grounding.OnContact(otherShape, otherTag, normal, ev.HasNormal)
	}
}

func (r *Router) handleContactEnd(ev physics.ContactEvent, contacts physics.ContactEvents) {
	_, otherShape, _, ok := r.orientToPlayer(ev)
	if !ok {
		return
	}

	if !r.grounding.EndContact(otherShape) {
		return
	}
	// Tally hit zero. Re-scan the step's live Begin/Hit events before
	// trusting the flip: straddling two surfaces and leaving one must not
	// read as airborne. OnContact is idempotent, so replaying is safe.
	for _, live := range contacts.Hit {
		r.handleContact(live, false)
	}
	for _, live := range contacts.Begin {
		r.handleContact(live, false)
	}
}

// orientToPlayer finds the player side of an event and returns the normal
// pointing from the player into the other shape.
func (r *Router) orientToPlayer(ev physics.ContactEvent) (player, other physics.ShapeHandle, normal cp.Vector, ok bool) {
	tagA := r.engine.ShapeUserData(ev.A)
	tagB := r.engine.ShapeUserData(ev.B)
	if _, isPlayer := tagA.(physics.PlayerTag); isPlayer {
		return ev.A, ev.B, ev.Normal, true
	}
	if _, isPlayer := tagB.(physics.PlayerTag); isPlayer {
		return ev.B, ev.A, ev.Normal.Neg(), true
	}
	return physics.NullShape, physics.NullShape, cp.Vector{}, false
}

func pairHasPlayer(a, b physics.UserData) bool {
	if _, ok := a.(physics.PlayerTag); ok {
		return true
	}
	_, ok := b.(physics.PlayerTag)
	return ok
}
