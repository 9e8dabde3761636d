package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds every scalar knob of the engine. All values have defaults so a
// missing tuning.yaml (or a partial one) still yields a runnable world.
type Tuning struct {
	TickRateHz int `yaml:"tick_rate_hz"`

	ChunkSize int `yaml:"chunk_size"`

	// Streaming.
	LoadRadius            int `yaml:"load_radius"`
	VerticalRadius        int `yaml:"vertical_radius"`
	InitialRadius         int `yaml:"initial_radius"`
	InitialVerticalRadius int `yaml:"initial_vertical_radius"`
	ChunksPerTick         int `yaml:"chunks_per_tick"`
	LoadBudgetMs          int `yaml:"load_budget_ms"`
	DirtyPerTick          int `yaml:"dirty_per_tick"`

	// Worldgen.
	Seed           int64   `yaml:"seed"`
	NoiseAlpha     float64 `yaml:"noise_alpha"`
	NoiseBeta      float64 `yaml:"noise_beta"`
	NoiseOctaves   int     `yaml:"noise_octaves"`
	NoiseFrequency float64 `yaml:"noise_frequency"`
	MinHeight      int     `yaml:"min_height"`
	MaxHeight      int     `yaml:"max_height"`
	DirtDepth      int     `yaml:"dirt_depth"`

	// Interaction.
	ReachDistance float64 `yaml:"reach_distance"`
	RaycastStep   float64 `yaml:"raycast_step"`
	EyeHeight     float64 `yaml:"eye_height"`

	// Observability.
	DigestEveryTicks int `yaml:"digest_every_ticks"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.ApplyDefaults()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// Default returns the built-in tuning used when no file is provided.
func Default() Tuning {
	var t Tuning
	t.ApplyDefaults()
	return t
}

func (t *Tuning) ApplyDefaults() {
	if t.TickRateHz <= 0 {
		t.TickRateHz = 20
	}
	if t.ChunkSize <= 0 {
		t.ChunkSize = 16
	}
	if t.LoadRadius <= 0 {
		t.LoadRadius = 4
	}
	if t.VerticalRadius <= 0 {
		t.VerticalRadius = 2
	}
	if t.InitialRadius <= 0 {
		t.InitialRadius = 2
	}
	if t.InitialVerticalRadius <= 0 {
		t.InitialVerticalRadius = 1
	}
	if t.ChunksPerTick <= 0 {
		t.ChunksPerTick = 2
	}
	if t.LoadBudgetMs <= 0 {
		t.LoadBudgetMs = 6
	}
	if t.DirtyPerTick <= 0 {
		t.DirtyPerTick = 1
	}
	if t.Seed == 0 {
		t.Seed = 1337
	}
	if t.NoiseAlpha <= 0 {
		t.NoiseAlpha = 2.0
	}
	if t.NoiseBeta <= 0 {
		t.NoiseBeta = 2.0
	}
	if t.NoiseOctaves <= 0 {
		t.NoiseOctaves = 3
	}
	if t.NoiseFrequency <= 0 {
		t.NoiseFrequency = 0.03
	}
	if t.MinHeight <= 0 {
		t.MinHeight = 5
	}
	if t.MaxHeight <= 0 {
		t.MaxHeight = 40
	}
	if t.DirtDepth <= 0 {
		t.DirtDepth = 3
	}
	if t.ReachDistance <= 0 {
		t.ReachDistance = 6.0
	}
	if t.RaycastStep <= 0 {
		t.RaycastStep = 0.1
	}
	if t.EyeHeight <= 0 {
		t.EyeHeight = 1.6
	}
	if t.DigestEveryTicks <= 0 {
		t.DigestEveryTicks = 60
	}
}

// Validate rejects combinations the engine cannot honor.
func (t *Tuning) Validate() error {
	if t.RaycastStep > 1.0 {
		return fmt.Errorf("raycast_step %v > 1: a step larger than one block can tunnel through solid blocks", t.RaycastStep)
	}
	if t.MaxHeight <= t.MinHeight {
		return fmt.Errorf("max_height %d must exceed min_height %d", t.MaxHeight, t.MinHeight)
	}
	return nil
}
