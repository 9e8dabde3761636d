// Package encoding holds the wire codec for chunk voxel payloads: run-length
// encoded block ids as base64(varint pairs). Terrain is dominated by long
// vertical runs of air and stone, so a full 16^3 chunk usually compresses to
// a few dozen bytes.
package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// maxRun caps a single run so a corrupt payload cannot request an unbounded
// allocation on decode.
const maxRun = 1 << 20

// EncodeRLE encodes a sequence of block ids into base64(varint pairs).
// The pairs are (block_id, run_len) repeated.
func EncodeRLE(ids []uint16) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	i := 0
	for i < len(ids) {
		id := ids[i]
		run := 1
		for j := i + 1; j < len(ids) && ids[j] == id && run < maxRun; j++ {
			run++
		}

		n := binary.PutUvarint(tmp[:], uint64(id))
		buf.Write(tmp[:n])
		n = binary.PutUvarint(tmp[:], uint64(run))
		buf.Write(tmp[:n])

		i += run
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DecodeRLE reverses EncodeRLE.
func DecodeRLE(b64 string) ([]uint16, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	var out []uint16
	for i := 0; i < len(raw); {
		id, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		if id > 0xFFFF {
			return nil, fmt.Errorf("block id too large: %d", id)
		}
		if run == 0 || run > maxRun {
			return nil, fmt.Errorf("bad run length %d at %d", run, i)
		}
		for k := 0; k < int(run); k++ {
			out = append(out, uint16(id))
		}
	}
	return out, nil
}

// DecodeRLEChunk decodes a payload that must contain exactly want ids, the
// shape check for fixed-size chunk messages.
func DecodeRLEChunk(b64 string, want int) ([]uint16, error) {
	out, err := DecodeRLE(b64)
	if err != nil {
		return nil, err
	}
	if len(out) != want {
		return nil, fmt.Errorf("decoded %d ids, want %d", len(out), want)
	}
	return out, nil
}
