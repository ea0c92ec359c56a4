// If you are AI: This file implements bounds-checked AMF0 number and counter access on raw buffers.
// AMF0 stores doubles big-endian; decoding is a pure byte permutation with no float arithmetic.

package amf0

import (
	"encoding/binary"
	"math"
)

// DecodeNumber reinterprets 8 big-endian bytes as an IEEE 754 double.
// The caller guarantees len(b) >= NumberSize.
func DecodeNumber(b []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

// EncodeNumber writes v into b as 8 big-endian bytes.
// It is the exact inverse of DecodeNumber, including NaN payloads.
func EncodeNumber(b []byte, v float64) {
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
}

// NumberAt decodes the double stored at buf[off:off+8].
// Returns false when the field does not fit inside buf.
func NumberAt(buf []byte, off int) (float64, bool) {
	if off < 0 || off > len(buf)-NumberSize {
		return 0, false
	}
	return DecodeNumber(buf[off : off+NumberSize]), true
}

// PutNumberAt overwrites the double stored at buf[off:off+8].
// Returns false, leaving buf untouched, when the field does not fit.
func PutNumberAt(buf []byte, off int, v float64) bool {
	if off < 0 || off > len(buf)-NumberSize {
		return false
	}
	EncodeNumber(buf[off:off+NumberSize], v)
	return true
}

// Uint32At reads a big-endian 32-bit counter at buf[off:off+4].
func Uint32At(buf []byte, off int) (uint32, bool) {
	if off < 0 || off > len(buf)-ArrayCountSize {
		return 0, false
	}
	return binary.BigEndian.Uint32(buf[off : off+ArrayCountSize]), true
}

// ByteAt returns buf[off] when it exists.
func ByteAt(buf []byte, off int) (byte, bool) {
	if off < 0 || off >= len(buf) {
		return 0, false
	}
	return buf[off], true
}
