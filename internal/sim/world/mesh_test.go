package world

import "testing"

func TestMesh_SingleBlockEmitsSixFaces(t *testing.T) {
	c := NewChunk(ChunkKey{}, nil)
	c.SetBlock(8, 8, 8, Stone)

	m := buildChunkMesh(c)
	if m.FaceCount() != 6 {
		t.Fatalf("faces = %d, want 6", m.FaceCount())
	}
	if len(m.Vertices) != 24 || len(m.Indices) != 36 {
		t.Fatalf("vertices=%d indices=%d, want 24/36", len(m.Vertices), len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestMesh_SharedFaceCulled(t *testing.T) {
	c := NewChunk(ChunkKey{}, nil)
	c.SetBlock(8, 8, 8, Stone)
	c.SetBlock(9, 8, 8, Stone)

	m := buildChunkMesh(c)
	// Two cubes share one interior face pair: 12 - 2 = 10 quads.
	if m.FaceCount() != 10 {
		t.Fatalf("faces = %d, want 10", m.FaceCount())
	}
}

func TestMesh_BuriedBlockEmitsNothing(t *testing.T) {
	c := NewChunk(ChunkKey{}, nil)
	for y := 7; y <= 9; y++ {
		for z := 7; z <= 9; z++ {
			for x := 7; x <= 9; x++ {
				c.SetBlock(x, y, z, Stone)
			}
		}
	}
	m := buildChunkMesh(c)
	// A 3x3x3 cube exposes 9 quads per side.
	if m.FaceCount() != 54 {
		t.Fatalf("faces = %d, want 54", m.FaceCount())
	}
}

func TestMesh_FaceNormalsPointOutward(t *testing.T) {
	c := NewChunk(ChunkKey{}, nil)
	c.SetBlock(0, 0, 0, Stone)

	m := buildChunkMesh(c)
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		d := m.Vertices[m.Indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(d.Position.Sub(a.Position))
		if n.Dot(a.Normal) <= 0 {
			t.Fatalf("triangle %d winds against its normal %v", i/3, a.Normal)
		}
	}
}

func TestMesh_UVWithinAtlas(t *testing.T) {
	c := NewChunk(ChunkKey{}, nil)
	c.SetBlock(4, 4, 4, Grass)
	m := buildChunkMesh(c)
	for _, v := range m.Vertices {
		if v.UV.X() < 0 || v.UV.X() > 1 || v.UV.Y() < 0 || v.UV.Y() > 1 {
			t.Fatalf("UV %v outside [0,1]", v.UV)
		}
	}
}
