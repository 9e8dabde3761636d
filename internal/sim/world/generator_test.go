package world

import "testing"

func testGenerator() *Generator {
	return NewGenerator(GeneratorConfig{
		Seed:           12345,
		NoiseAlpha:     2.0,
		NoiseBeta:      2.0,
		NoiseOctaves:   3,
		NoiseFrequency: 0.03,
		MinHeight:      5,
		MaxHeight:      40,
		DirtDepth:      3,
	})
}

func TestGenerator_Deterministic(t *testing.T) {
	g := testGenerator()
	a := NewChunk(ChunkKey{1, 0, -2}, nil)
	b := NewChunk(ChunkKey{1, 0, -2}, nil)
	g.Generate(a)
	g.Generate(b)
	if a.Digest() != b.Digest() {
		t.Fatalf("same coordinate generated different grids")
	}

	g2 := testGenerator()
	c := NewChunk(ChunkKey{1, 0, -2}, nil)
	g2.Generate(c)
	if a.Digest() != c.Digest() {
		t.Fatalf("fresh generator with same seed diverged")
	}
}

func TestGenerator_Layering(t *testing.T) {
	g := testGenerator()
	c := NewChunk(ChunkKey{0, 0, 0}, nil)
	g.Generate(c)

	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			h := g.terrainHeight(x, z)
			if h < 5 || h > 40 {
				t.Fatalf("height %d at (%d,%d) outside [5,40]", h, x, z)
			}
			for y := 0; y < ChunkSize; y++ {
				got := c.Block(x, y, z)
				var want BlockType
				switch {
				case y > h:
					want = Air
				case y == h:
					want = Grass
				case y > h-3:
					want = Dirt
				default:
					want = Stone
				}
				if got != want {
					t.Fatalf("(%d,%d,%d): got %v want %v (h=%d)", x, y, z, got, want, h)
				}
			}
		}
	}
}

func TestGenerator_SpawnHeightAboveTerrain(t *testing.T) {
	g := testGenerator()
	for _, p := range [][2]int{{0, 0}, {100, -50}, {-7, 13}} {
		h := g.terrainHeight(p[0], p[1])
		s := g.SpawnHeight(p[0], p[1])
		if s != h+2 {
			t.Fatalf("SpawnHeight(%d,%d) = %d, want %d", p[0], p[1], s, h+2)
		}
	}
}

func TestGenerator_SeedChangesTerrain(t *testing.T) {
	a := testGenerator()
	cfg := a.cfg
	cfg.Seed = 54321
	b := NewGenerator(cfg)

	diff := false
	for x := 0; x < 64 && !diff; x++ {
		for z := 0; z < 64; z++ {
			if a.terrainHeight(x, z) != b.terrainHeight(x, z) {
				diff = true
				break
			}
		}
	}
	if !diff {
		t.Fatalf("different seeds produced identical terrain over 64x64")
	}
}
