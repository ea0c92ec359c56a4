// If you are AI: This file implements FLV file header generation and parsing.
// The header locates the first tag; everything after it is a tag stream.

package flv

import (
	"encoding/binary"
	"errors"
)

var (
	ErrShortHeader  = errors.New("flv: buffer shorter than file header")
	ErrBadSignature = errors.New("flv: missing FLV signature")
)

// Header represents an FLV file header.
type Header struct {
	HasAudio   bool
	HasVideo   bool
	DataOffset uint32 // Offset of the first tag's previous-tag-size field
}

// Bytes returns the FLV header as a byte slice.
// Allocation: Pre-allocated 9-byte slice, no heap allocations.
func (h *Header) Bytes() []byte {
	header := make([]byte, FLVHeaderSize)

	// Signature "FLV" (3 bytes)
	copy(header[0:3], FLVSignature)

	// Version (1 byte)
	header[3] = FLVVersion

	// Flags (1 byte): audio and video flags
	flags := byte(0)
	if h.HasAudio {
		flags |= 0x04
	}
	if h.HasVideo {
		flags |= 0x01
	}
	header[4] = flags

	// Data offset (4 bytes, big-endian)
	offset := h.DataOffset
	if offset == 0 {
		offset = FLVHeaderSize
	}
	binary.BigEndian.PutUint32(header[5:9], offset)

	return header
}

// FirstTagOffset returns the absolute offset of the first tag header:
// the data offset plus the leading previous-tag-size field.
func (h *Header) FirstTagOffset() int {
	return int(h.DataOffset) + PreviousTagSizeSize
}

// NewHeader creates a new FLV header with specified audio/video flags.
func NewHeader(hasAudio, hasVideo bool) *Header {
	return &Header{
		HasAudio:   hasAudio,
		HasVideo:   hasVideo,
		DataOffset: FLVHeaderSize,
	}
}

// ParseHeader decodes the file header at the start of buf.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < FLVHeaderSize {
		return nil, ErrShortHeader
	}
	if string(buf[0:3]) != FLVSignature {
		return nil, ErrBadSignature
	}
	return &Header{
		HasAudio:   buf[4]&0x04 != 0,
		HasVideo:   buf[4]&0x01 != 0,
		DataOffset: binary.BigEndian.Uint32(buf[5:9]),
	}, nil
}
