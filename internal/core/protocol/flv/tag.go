// If you are AI: This file implements FLV tag creation, encoding and header decoding.
// Decoding never reinterprets memory; every field is read through explicit bounds checks.

package flv

import (
	"encoding/binary"
)

// Tag represents an FLV tag (audio, video, or script).
type Tag struct {
	Type      byte
	Timestamp uint32
	Data      []byte
}

// Bytes encodes the tag as FLV tag bytes.
// Format: tag type (1) + data size (3) + timestamp lower (3) + timestamp upper (1) + stream ID (3) + data (N) + previous tag size (4)
// Allocation: Creates new slice for complete tag, reuses data slice.
func (t *Tag) Bytes() []byte {
	dataSize := uint32(len(t.Data))

	totalSize := TagHeaderSize + len(t.Data) + PreviousTagSizeSize
	result := make([]byte, totalSize)

	// Tag type (1 byte)
	result[0] = t.Type

	// Data size (3 bytes, big-endian)
	putUint24(result[1:4], dataSize)

	// Timestamp: lower 24 bits in bytes 4-6, upper 8 bits in byte 7 (per FLV spec)
	putUint24(result[4:7], t.Timestamp)
	result[7] = byte(t.Timestamp >> 24) // TimestampExtended

	// Stream ID (3 bytes, always 0)
	result[8] = 0
	result[9] = 0
	result[10] = 0

	// Data
	copy(result[TagHeaderSize:], t.Data)

	// Previous tag size (4 bytes, big-endian) = 11 + data size
	prevSize := uint32(TagHeaderSize + len(t.Data))
	binary.BigEndian.PutUint32(result[TagHeaderSize+len(t.Data):], prevSize)

	return result
}

// Size returns the encoded size of the tag including the trailing size field.
func (t *Tag) Size() int {
	return TagHeaderSize + len(t.Data) + PreviousTagSizeSize
}

// NewTag creates a new FLV tag from type, timestamp, and data.
func NewTag(tagType byte, timestamp uint32, data []byte) *Tag {
	return &Tag{
		Type:      tagType,
		Timestamp: timestamp,
		Data:      data,
	}
}

// TagHeader is the decoded fixed-size prefix of a tag.
type TagHeader struct {
	Type      byte
	DataSize  uint32
	Timestamp uint32
}

// ReadTagHeader decodes the tag header at buf[off:].
// Returns false when fewer than TagHeaderSize bytes remain.
func ReadTagHeader(buf []byte, off int) (TagHeader, bool) {
	if off < 0 || off > len(buf)-TagHeaderSize {
		return TagHeader{}, false
	}
	h := buf[off : off+TagHeaderSize]
	return TagHeader{
		Type:      h[0],
		DataSize:  uint24(h[1:4]),
		Timestamp: uint24(h[4:7]) | uint32(h[7])<<24,
	}, true
}

// uint24 reads a 3-byte big-endian value.
func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// putUint24 writes the low 24 bits of v big-endian.
func putUint24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}
