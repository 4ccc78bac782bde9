package sim

import "log"

// State is the coarse session state gating gameplay logic.
type State int

const (
	StateInitializing State = iota
	StateReady
	StatePlaying
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateReady:
		return "READY"
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	case StateGameOver:
		return "GAME_OVER"
	}
	return "UNKNOWN"
}

type stateEdge struct {
	from, to State
}

// legalTransitions is the closed set of allowed session transitions. Any
// pair not listed is rejected.
var legalTransitions = map[stateEdge]struct{}{
	{StateInitializing, StateReady}: {},
	{StateReady, StatePlaying}:      {},
	{StatePlaying, StatePaused}:     {},
	{StatePlaying, StateGameOver}:   {},
	{StatePaused, StatePlaying}:     {},
	{StateGameOver, StateReady}:     {},
}

// Session holds the single per-game session state: the FSM plus derived
// counters. It is explicitly constructed and passed around; there is no
// package-level instance.
type Session struct {
	state State
	coins int

	enterHooks map[State][]func(*Session)
}

// NewSession creates a session in INITIALIZING.
func NewSession() *Session {
	s := &Session{
		state:      StateInitializing,
		enterHooks: make(map[State][]func(*Session)),
	}
	// A level restart keeps the physics world; only the counters reset.
	s.OnEnter(StateReady, func(s *Session) {
		s.coins = 0
	})
	return s
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// Transition moves to next if the (current, next) pair is legal. Illegal
// pairs are rejected with the state unchanged.
func (s *Session) Transition(next State) bool {
	if _, ok := legalTransitions[stateEdge{s.state, next}]; !ok {
		log.Printf("Session: rejected transition %s -> %s", s.state, next)
		return false
	}
	s.state = next
	for _, hook := range s.enterHooks[next] {
		hook(s)
	}
	return true
}

// OnEnter registers a hook invoked after entering state.
func (s *Session) OnEnter(state State, hook func(*Session)) {
	s.enterHooks[state] = append(s.enterHooks[state], hook)
}

// AddCoin increments the collected-coin counter.
func (s *Session) AddCoin() {
	s.coins++
}

// Coins returns the coins collected this session.
func (s *Session) Coins() int {
	return s.coins
}
