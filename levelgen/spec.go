package levelgen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec tunes the level generator. Loaded from YAML so layout can be tweaked
// without a rebuild; the -debug watcher regenerates the level on edit.
type Spec struct {
	Seed   int64 `yaml:"seed"`
	Chunks int   `yaml:"chunks"`

	PlatformMinTiles int `yaml:"platform_min_tiles"`
	PlatformMaxTiles int `yaml:"platform_max_tiles"`
	GapMinTiles      int `yaml:"gap_min_tiles"`
	GapMaxTiles      int `yaml:"gap_max_tiles"`

	// HeightJitterTiles is how far platform height may drift per chunk.
	HeightJitterTiles int `yaml:"height_jitter_tiles"`

	CoinChance  float64 `yaml:"coin_chance"`
	CrateChance float64 `yaml:"crate_chance"`
	EnemyChance float64 `yaml:"enemy_chance"`
}

// DefaultSpec returns the tuning used when no config file is given.
func DefaultSpec() *Spec {
	return &Spec{
		Seed:              1,
		Chunks:            60,
		PlatformMinTiles:  4,
		PlatformMaxTiles:  10,
		GapMinTiles:       2,
		GapMaxTiles:       4,
		HeightJitterTiles: 3,
		CoinChance:        0.35,
		CrateChance:       0.15,
		EnemyChance:       0.2,
	}
}

// LoadSpec reads and validates a Spec from a YAML file.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levelgen: load %s: %w", path, err)
	}
	spec := DefaultSpec()
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("levelgen: unmarshal %s: %w", path, err)
	}
	if err := spec.validate(); err != nil {
		return nil, fmt.Errorf("levelgen: %s: %w", path, err)
	}
	return spec, nil
}

func (s *Spec) validate() error {
	if s.Chunks <= 0 {
		return fmt.Errorf("chunks must be positive, got %d", s.Chunks)
	}
	if s.PlatformMinTiles <= 0 || s.PlatformMaxTiles < s.PlatformMinTiles {
		return fmt.Errorf("bad platform tile range [%d, %d]", s.PlatformMinTiles, s.PlatformMaxTiles)
	}
	if s.GapMinTiles < 0 || s.GapMaxTiles < s.GapMinTiles {
		return fmt.Errorf("bad gap tile range [%d, %d]", s.GapMinTiles, s.GapMaxTiles)
	}
	for name, chance := range map[string]float64{
		"coin_chance":  s.CoinChance,
		"crate_chance": s.CrateChance,
		"enemy_chance": s.EnemyChance,
	} {
		if chance < 0 || chance > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %g", name, chance)
		}
	}
	return nil
}
