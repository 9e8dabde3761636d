package world

import (
	"github.com/Dr-Tesla/AG-minecraft-clone/internal/sim/noise"
)

// ChunkGenerator fills freshly created chunks. Implementations must be
// deterministic in the chunk coordinate alone: regenerating the same
// coordinate always yields the identical block grid, regardless of load order.
type ChunkGenerator interface {
	Generate(c *Chunk)
	SpawnHeight(x, z int) int
}

type GeneratorConfig struct {
	Seed           int64
	NoiseAlpha     float64
	NoiseBeta      float64
	NoiseOctaves   int
	NoiseFrequency float64
	MinHeight      int
	MaxHeight      int
	DirtDepth      int
}

// Generator produces layered Perlin terrain: grass surface over a dirt band
// over stone, air above.
type Generator struct {
	cfg   GeneratorConfig
	noise *noise.Sampler
}

func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{
		cfg:   cfg,
		noise: noise.New(cfg.Seed, cfg.NoiseAlpha, cfg.NoiseBeta, cfg.NoiseOctaves, cfg.NoiseFrequency),
	}
}

func (g *Generator) terrainHeight(wx, wz int) int {
	return g.noise.Height(float64(wx), float64(wz), g.cfg.MinHeight, g.cfg.MaxHeight)
}

// Generate assigns a type to every cell of the chunk from its coordinate and
// the generator's seed only. No dependency on neighboring chunks.
func (g *Generator) Generate(c *Chunk) {
	o := c.Key.Origin()
	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			h := g.terrainHeight(o.X+x, o.Z+z)
			for y := 0; y < ChunkSize; y++ {
				wy := o.Y + y
				switch {
				case wy > h:
					// air; chunks start all-AIR
				case wy == h:
					c.SetBlock(x, y, z, Grass)
				case wy > h-g.cfg.DirtDepth:
					c.SetBlock(x, y, z, Dirt)
				default:
					c.SetBlock(x, y, z, Stone)
				}
			}
		}
	}
}

// SpawnHeight returns a y safely above the terrain column at (x, z).
func (g *Generator) SpawnHeight(x, z int) int {
	return g.terrainHeight(x, z) + 2
}
