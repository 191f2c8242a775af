package renderer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const (
	metersPerInch = 0.0254

	// ihdrChunkLen is length + type + 13 data bytes + CRC.
	ihdrChunkLen = 4 + 4 + 13 + 4
)

// withPhysicalDPI inserts a pHYs chunk declaring dpi right after IHDR, so
// viewers report the intended print resolution.
func withPhysicalDPI(encoded []byte, dpi float64) ([]byte, error) {
	if len(encoded) < len(pngSignature)+ihdrChunkLen || !bytes.Equal(encoded[:len(pngSignature)], pngSignature) {
		return nil, fmt.Errorf("not a PNG stream")
	}
	if string(encoded[len(pngSignature)+4:len(pngSignature)+8]) != "IHDR" {
		return nil, fmt.Errorf("PNG stream does not start with IHDR")
	}

	ppm := uint32(math.Round(dpi / metersPerInch))
	data := make([]byte, 9)
	binary.BigEndian.PutUint32(data[0:4], ppm)
	binary.BigEndian.PutUint32(data[4:8], ppm)
	data[8] = 1 // unit: meter

	split := len(pngSignature) + ihdrChunkLen
	out := make([]byte, 0, len(encoded)+len(data)+12)
	out = append(out, encoded[:split]...)
	out = appendChunk(out, "pHYs", data)
	out = append(out, encoded[split:]...)
	return out, nil
}

func appendChunk(dst []byte, typ string, data []byte) []byte {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(data)))
	dst = append(dst, n[:]...)

	start := len(dst)
	dst = append(dst, typ...)
	dst = append(dst, data...)

	binary.BigEndian.PutUint32(n[:], crc32.ChecksumIEEE(dst[start:]))
	return append(dst, n[:]...)
}
