package world

import "testing"

func TestBlockSolidity(t *testing.T) {
	if IsSolid(Air) {
		t.Fatalf("AIR must not be solid")
	}
	if !IsTransparent(Air) {
		t.Fatalf("AIR must be transparent")
	}
	for bt := Grass; bt < blockTypeCount; bt++ {
		if !IsSolid(bt) {
			t.Fatalf("%v must be solid", bt)
		}
		if IsTransparent(bt) {
			t.Fatalf("%v must be opaque", bt)
		}
	}
}

func TestBlockPaletteNames(t *testing.T) {
	p := BlockPalette()
	if len(p) != int(blockTypeCount) {
		t.Fatalf("palette len %d, want %d", len(p), blockTypeCount)
	}
	if p[Air] != "AIR" || p[Grass] != "GRASS" {
		t.Fatalf("unexpected palette: %v", p)
	}
	for i, name := range p {
		bt, ok := BlockTypeByName(name)
		if !ok || bt != BlockType(i) {
			t.Fatalf("BlockTypeByName(%q) = %v,%v", name, bt, ok)
		}
	}
	if _, ok := BlockTypeByName("BEDROCK"); ok {
		t.Fatalf("unknown name must not resolve")
	}
}

func TestFaceUV_GrassPerFace(t *testing.T) {
	if FaceUV(Grass, FaceTop) != uvGrassTop {
		t.Fatalf("grass top should use the grass-top cell")
	}
	if FaceUV(Grass, FaceBottom) != uvDirt {
		t.Fatalf("grass bottom should use the dirt cell")
	}
	if FaceUV(Grass, FaceLeft) != uvGrassSide {
		t.Fatalf("grass sides should use the grass-side cell")
	}
	if FaceUV(Stone, FaceTop) != uvStone || FaceUV(Cobblestone, FaceFront) != uvStone {
		t.Fatalf("stone family should use the stone cell on all faces")
	}
	if FaceUV(BlockType(999), FaceTop) != uvDirt {
		t.Fatalf("unknown types fall back to dirt")
	}
}
