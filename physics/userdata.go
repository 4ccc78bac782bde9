package physics

// UserData identifies the gameplay role of a shape. It is attached at shape
// creation and only ever used for event dispatch, never for the simulation
// itself. The interface is sealed so dispatch can type-switch over a closed
// set of tags.
type UserData interface {
	isUserData()
}

type PlayerTag struct{}

type PlatformTag struct{}

// CrateTag marks a pushable dynamic box. Size is the edge length in pixels;
// grounding thresholds for crates are looser than for platforms because
// crate contact geometry shifts as the crate moves.
type CrateTag struct {
	Size float64
}

// CoinTag marks a coin sensor. ID is assigned by the level generator and is
// what gets reported through the coin-collected callback.
type CoinTag struct {
	ID int
}

type EnemyTag struct{}

// DeathSensorTag marks the kill strip spanning the bottom of the level.
type DeathSensorTag struct{}

func (PlayerTag) isUserData()      {}
func (PlatformTag) isUserData()    {}
func (CrateTag) isUserData()       {}
func (CoinTag) isUserData()        {}
func (EnemyTag) isUserData()       {}
func (DeathSensorTag) isUserData() {}

// Groundable reports whether standing on a shape with this tag can ground
// the player.
func Groundable(d UserData) bool {
	switch d.(type) {
	case PlatformTag, CrateTag:
		return true
	}
	return false
}
