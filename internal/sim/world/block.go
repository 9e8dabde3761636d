package world

// BlockType is a palette id. AIR is the unique transparent value; every other
// type is solid and opaque. Algorithms never switch on concrete types beyond
// the lookup tables below, so adding a type is a data change.
type BlockType uint16

const (
	Air BlockType = iota
	Grass
	Dirt
	Stone
	Wood
	Sand
	Cobblestone
	Planks
	Leaves

	blockTypeCount
)

var blockNames = [blockTypeCount]string{
	Air:         "AIR",
	Grass:       "GRASS",
	Dirt:        "DIRT",
	Stone:       "STONE",
	Wood:        "WOOD",
	Sand:        "SAND",
	Cobblestone: "COBBLESTONE",
	Planks:      "PLANKS",
	Leaves:      "LEAVES",
}

func (t BlockType) String() string {
	if int(t) < len(blockNames) {
		return blockNames[t]
	}
	return "UNKNOWN"
}

// BlockPalette lists all block names by palette id, for viewer bootstrap.
func BlockPalette() []string {
	out := make([]string, blockTypeCount)
	copy(out, blockNames[:])
	return out
}

// BlockTypeByName maps a palette name back to its id. Used when decoding
// place requests from viewers.
func BlockTypeByName(name string) (BlockType, bool) {
	for i, n := range blockNames {
		if n == name {
			return BlockType(i), true
		}
	}
	return Air, false
}

// IsSolid reports whether a block occludes neighbors and collides.
func IsSolid(t BlockType) bool { return t != Air }

// IsTransparent reports whether faces behind this block remain visible.
// Solidity and opacity are complements here: there is no solid-but-transparent
// type.
func IsTransparent(t BlockType) bool { return t == Air }

// UVRect is a normalized rectangle into the texture atlas.
type UVRect struct {
	U, V, W, H float32
}

// Atlas cells on the 2x2 grid.
var (
	uvGrassTop  = atlasCell(0, 0)
	uvGrassSide = atlasCell(1, 0)
	uvDirt      = atlasCell(0, 1)
	uvStone     = atlasCell(1, 1)
)

func atlasCell(gx, gy int) UVRect {
	return UVRect{U: float32(gx) * 0.5, V: float32(gy) * 0.5, W: 0.5, H: 0.5}
}

// FaceUV returns the atlas rectangle for a block/face pair. GRASS is the only
// type textured per face; everything else uses one cell for all six faces.
// Unknown types fall back to DIRT.
func FaceUV(t BlockType, f Face) UVRect {
	switch t {
	case Grass:
		switch f {
		case FaceTop:
			return uvGrassTop
		case FaceBottom:
			return uvDirt
		default:
			return uvGrassSide
		}
	case Stone, Cobblestone:
		return uvStone
	default:
		return uvDirt
	}
}
