package levelgen

import (
	"math/rand"

	"github.com/tannerhall/ravine/common"
)

// PlacementKind identifies what a placement request spawns.
type PlacementKind int

const (
	PlacePlatform PlacementKind = iota
	PlaceCoin
	PlaceCrate
	PlaceEnemy
)

// Placement is one entity placement request emitted by the generator. The
// runtime core consumes these at level-build time; it never computes layout
// itself.
type Placement struct {
	Kind PlacementKind
	Rect common.Rect

	// CoinID is set for PlaceCoin.
	CoinID int
	// PatrolMinX/PatrolMaxX bound a PlaceEnemy patrol span.
	PatrolMinX float64
	PatrolMaxX float64
}

// Level is the generator's output: placement requests plus boundary data.
type Level struct {
	Placements []Placement

	// Bounds covers all platforms; the camera is clamped to it.
	Bounds common.Rect
	// KillStrip is the death-sensor rect below the lowest platform.
	KillStrip common.Rect

	SpawnX, SpawnY float64
}

const (
	platformThicknessTiles = 1
	baseYTiles             = 15
	minYTiles              = 6
	maxYTiles              = 19

	crateSize = 28.0

	// killStripDropTiles is how far below the lowest platform the death
	// sensor sits.
	killStripDropTiles = 6
)

// Generate builds a level from the spec, deterministically per seed.
func Generate(spec *Spec) *Level {
	rng := rand.New(rand.NewSource(spec.Seed))
	ts := float64(common.TileSize)

	lvl := &Level{}
	coinID := 0

	xTiles := 0
	yTiles := baseYTiles
	minX, maxX := 0.0, 0.0
	maxYSeen := 0.0

	for chunk := 0; chunk < spec.Chunks; chunk++ {
		runTiles := spec.PlatformMinTiles + rng.Intn(spec.PlatformMaxTiles-spec.PlatformMinTiles+1)

		rect := common.Rect{
			X:      float64(xTiles) * ts,
			Y:      float64(yTiles) * ts,
			Width:  float64(runTiles) * ts,
			Height: float64(platformThicknessTiles) * ts,
		}
		lvl.Placements = append(lvl.Placements, Placement{Kind: PlacePlatform, Rect: rect})

		if chunk == 0 {
			// Spawn standing on the first platform.
			lvl.SpawnX = rect.X + 2*ts
			lvl.SpawnY = rect.Y - 1.5*ts
			minX = rect.X
		}
		if rect.X+rect.Width > maxX {
			maxX = rect.X + rect.Width
		}
		if rect.Y > maxYSeen {
			maxYSeen = rect.Y
		}

		// Coins float a tile above the platform, one possible per tile.
		for t := 0; t < runTiles; t++ {
			if rng.Float64() >= spec.CoinChance {
				continue
			}
			lvl.Placements = append(lvl.Placements, Placement{
				Kind: PlaceCoin,
				Rect: common.Rect{
					X: rect.X + (float64(t)+0.5)*ts,
					Y: rect.Y - 1.5*ts,
				},
				CoinID: coinID,
			})
			coinID++
		}

		// At most one crate per chunk, resting on the platform.
		if runTiles >= 3 && rng.Float64() < spec.CrateChance {
			t := 1 + rng.Intn(runTiles-2)
			lvl.Placements = append(lvl.Placements, Placement{
				Kind: PlaceCrate,
				Rect: common.Rect{
					X: rect.X + (float64(t)+0.5)*ts,
					Y: rect.Y - crateSize/2,
				},
			})
		}

		// Enemies need room to patrol; skip the spawn platform.
		if chunk > 0 && runTiles >= 4 && rng.Float64() < spec.EnemyChance {
			lvl.Placements = append(lvl.Placements, Placement{
				Kind: PlaceEnemy,
				Rect: common.Rect{
					X: rect.X + rect.Width/2,
					Y: rect.Y - ts,
				},
				PatrolMinX: rect.X + ts,
				PatrolMaxX: rect.X + rect.Width - ts,
			})
		}

		gapTiles := spec.GapMinTiles
		if spec.GapMaxTiles > spec.GapMinTiles {
			gapTiles += rng.Intn(spec.GapMaxTiles - spec.GapMinTiles + 1)
		}
		xTiles += runTiles + gapTiles

		if spec.HeightJitterTiles > 0 {
			yTiles += rng.Intn(2*spec.HeightJitterTiles+1) - spec.HeightJitterTiles
			if yTiles < minYTiles {
				yTiles = minYTiles
			}
			if yTiles > maxYTiles {
				yTiles = maxYTiles
			}
		}
	}

	lvl.Bounds = common.Rect{
		X:      minX,
		Y:      0,
		Width:  maxX - minX,
		Height: maxYSeen + float64(platformThicknessTiles)*ts,
	}
	lvl.KillStrip = common.Rect{
		X:      minX - 10*ts,
		Y:      maxYSeen + float64(killStripDropTiles)*ts,
		Width:  (maxX - minX) + 20*ts,
		Height: 2 * ts,
	}
	return lvl
}

// CrateEdge returns the crate edge length used by crate placements.
func CrateEdge() float64 { return crateSize }
