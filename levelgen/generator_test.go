package levelgen

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tannerhall/ravine/common"
)

func TestGenerateDeterministicPerSeed(t *testing.T) {
	spec := DefaultSpec()
	spec.Seed = 42

	a := Generate(spec)
	b := Generate(spec)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different levels")
	}

	spec.Seed = 43
	c := Generate(spec)
	if reflect.DeepEqual(a.Placements, c.Placements) {
		t.Fatal("different seeds produced identical placements")
	}
}

func TestGeneratePlatformCount(t *testing.T) {
	spec := DefaultSpec()
	spec.Chunks = 25

	lvl := Generate(spec)
	platforms := 0
	for _, p := range lvl.Placements {
		if p.Kind == PlacePlatform {
			platforms++
		}
	}
	if platforms != spec.Chunks {
		t.Fatalf("platforms = %d, want one per chunk (%d)", platforms, spec.Chunks)
	}
}

func TestGenerateSpawnOnFirstPlatform(t *testing.T) {
	lvl := Generate(DefaultSpec())

	var first *Placement
	for i := range lvl.Placements {
		if lvl.Placements[i].Kind == PlacePlatform {
			first = &lvl.Placements[i]
			break
		}
	}
	if first == nil {
		t.Fatal("no platform placements")
	}

	if lvl.SpawnX < first.Rect.X || lvl.SpawnX > first.Rect.X+first.Rect.Width {
		t.Fatalf("spawn x=%v outside first platform [%v, %v]", lvl.SpawnX, first.Rect.X, first.Rect.X+first.Rect.Width)
	}
	if lvl.SpawnY >= first.Rect.Y {
		t.Fatalf("spawn y=%v not above platform top %v", lvl.SpawnY, first.Rect.Y)
	}
}

func TestGenerateKillStripBelowEverything(t *testing.T) {
	lvl := Generate(DefaultSpec())

	for _, p := range lvl.Placements {
		if p.Kind != PlacePlatform {
			continue
		}
		if p.Rect.Y+p.Rect.Height > lvl.KillStrip.Y {
			t.Fatalf("platform at y=%v reaches below the kill strip at y=%v", p.Rect.Y, lvl.KillStrip.Y)
		}
	}
	if lvl.KillStrip.X > lvl.Bounds.X || lvl.KillStrip.X+lvl.KillStrip.Width < lvl.Bounds.X+lvl.Bounds.Width {
		t.Fatal("kill strip does not span the level bounds")
	}
}

func TestGenerateEnemyPatrolWithinPlatform(t *testing.T) {
	spec := DefaultSpec()
	spec.EnemyChance = 1.0
	spec.Chunks = 40

	lvl := Generate(spec)
	platforms := make([]common.Rect, 0)
	for _, p := range lvl.Placements {
		if p.Kind == PlacePlatform {
			platforms = append(platforms, p.Rect)
		}
	}

	enemies := 0
	for _, p := range lvl.Placements {
		if p.Kind != PlaceEnemy {
			continue
		}
		enemies++
		if p.PatrolMinX >= p.PatrolMaxX {
			t.Fatalf("degenerate patrol span [%v, %v]", p.PatrolMinX, p.PatrolMaxX)
		}
		onPlatform := false
		for _, plat := range platforms {
			if p.PatrolMinX >= plat.X && p.PatrolMaxX <= plat.X+plat.Width {
				onPlatform = true
				break
			}
		}
		if !onPlatform {
			t.Fatalf("patrol span [%v, %v] not contained by any platform", p.PatrolMinX, p.PatrolMaxX)
		}
	}
	if enemies == 0 {
		t.Fatal("enemy_chance=1 placed no enemies")
	}
}

func TestGenerateCoinIDsUnique(t *testing.T) {
	spec := DefaultSpec()
	spec.CoinChance = 1.0

	lvl := Generate(spec)
	seen := make(map[int]bool)
	for _, p := range lvl.Placements {
		if p.Kind != PlaceCoin {
			continue
		}
		if seen[p.CoinID] {
			t.Fatalf("coin id %d assigned twice", p.CoinID)
		}
		seen[p.CoinID] = true
	}
	if len(seen) == 0 {
		t.Fatal("coin_chance=1 placed no coins")
	}
}

func TestLoadSpec(t *testing.T) {
	dir := t.TempDir()

	writeSpec := func(name, body string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("valid overrides defaults", func(t *testing.T) {
		path := writeSpec("good.yaml", "seed: 99\nchunks: 10\ncoin_chance: 0.5\n")
		spec, err := LoadSpec(path)
		if err != nil {
			t.Fatalf("LoadSpec: %v", err)
		}
		if spec.Seed != 99 || spec.Chunks != 10 || spec.CoinChance != 0.5 {
			t.Fatalf("overrides not applied: %+v", spec)
		}
		// Fields absent from the file keep their defaults.
		if spec.PlatformMinTiles != DefaultSpec().PlatformMinTiles {
			t.Fatalf("platform_min_tiles = %d, want default", spec.PlatformMinTiles)
		}
	})

	t.Run("rejects bad chance", func(t *testing.T) {
		path := writeSpec("chance.yaml", "coin_chance: 1.5\n")
		if _, err := LoadSpec(path); err == nil {
			t.Fatal("coin_chance=1.5 accepted")
		}
	})

	t.Run("rejects inverted platform range", func(t *testing.T) {
		path := writeSpec("range.yaml", "platform_min_tiles: 8\nplatform_max_tiles: 4\n")
		if _, err := LoadSpec(path); err == nil {
			t.Fatal("inverted platform range accepted")
		}
	})

	t.Run("rejects missing file", func(t *testing.T) {
		if _, err := LoadSpec(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Fatal("missing file accepted")
		}
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := writeSpec("broken.yaml", "chunks: [not a number\n")
		if _, err := LoadSpec(path); err == nil {
			t.Fatal("malformed yaml accepted")
		}
	})
}
