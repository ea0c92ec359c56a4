// If you are AI: This file assembles the ordered segment list sent to the client.
// Literal segments come first; at most one file range follows them.

package seek

import (
	"vodflv/internal/core/protocol/flv"
)

// SegmentKind identifies what a segment carries.
type SegmentKind int

const (
	SegmentHeader SegmentKind = iota
	SegmentMetadata
	SegmentVideoInit
	SegmentAudioInit
	SegmentRange
)

// String returns the segment kind name used in logs and API responses.
func (k SegmentKind) String() string {
	switch k {
	case SegmentHeader:
		return "header"
	case SegmentMetadata:
		return "metadata"
	case SegmentVideoInit:
		return "video_init"
	case SegmentAudioInit:
		return "audio_init"
	default:
		return "range"
	}
}

// Segment is either literal bytes or a range of the source file.
type Segment struct {
	Kind   SegmentKind
	Data   []byte // Literal bytes; nil for SegmentRange
	Offset int64  // File offset for SegmentRange
	Length int64  // File byte count for SegmentRange
}

// Size returns the number of bytes the segment contributes to the response.
func (s Segment) Size() int64 {
	if s.Kind == SegmentRange {
		return s.Length
	}
	return int64(len(s.Data))
}

// Prefix lists the literal blocks to send before the file range.
type Prefix struct {
	Header   bool // Emit the synthetic 13-byte header
	Metadata []byte
	Video    []byte
	Audio    []byte
}

// Assemble orders the prefix blocks and the file range [offset, end) into
// segments and totals their size. Empty blocks and empty ranges are omitted.
func Assemble(p Prefix, offset, end int64) ([]Segment, int64) {
	segs := make([]Segment, 0, 5)
	if p.Header {
		header := flv.SyntheticHeader
		segs = append(segs, Segment{Kind: SegmentHeader, Data: header[:]})
	}
	if len(p.Metadata) > 0 {
		segs = append(segs, Segment{Kind: SegmentMetadata, Data: p.Metadata})
	}
	if len(p.Video) > 0 {
		segs = append(segs, Segment{Kind: SegmentVideoInit, Data: p.Video})
	}
	if len(p.Audio) > 0 {
		segs = append(segs, Segment{Kind: SegmentAudioInit, Data: p.Audio})
	}
	if end > offset {
		segs = append(segs, Segment{Kind: SegmentRange, Offset: offset, Length: end - offset})
	}

	var total int64
	for _, s := range segs {
		total += s.Size()
	}
	return segs, total
}
