// If you are AI: This file implements the FLV tag scanner over an in-memory file prefix.
// Tags that do not fit entirely inside the scan limit are never reported.

package flv

import (
	"iter"
)

// TagInfo describes one complete tag found in a buffer.
type TagInfo struct {
	Type      byte
	DataSize  uint32
	Start     int // Absolute offset of the tag header
	TotalSize int // Header + payload + previous tag size
}

// End returns the offset just past the tag's trailing size field.
func (t TagInfo) End() int {
	return t.Start + t.TotalSize
}

// Bytes returns the complete encoded tag from buf.
func (t TagInfo) Bytes(buf []byte) []byte {
	return buf[t.Start:t.End()]
}

// Payload returns the tag data without header or trailing size.
func (t TagInfo) Payload(buf []byte) []byte {
	from := t.Start + TagHeaderSize
	return buf[from : from+int(t.DataSize)]
}

// Tags enumerates complete tags in buf starting at offset start.
// Enumeration stops when fewer than TagHeaderSize bytes remain before limit or
// when the next tag would extend past limit. limit is clamped to len(buf).
func Tags(buf []byte, start, limit int) iter.Seq[TagInfo] {
	return func(yield func(TagInfo) bool) {
		limit = min(limit, len(buf))
		pos := start
		for pos >= 0 && pos+TagHeaderSize <= limit {
			h, ok := ReadTagHeader(buf, pos)
			if !ok {
				return
			}
			total := TagHeaderSize + int(h.DataSize) + PreviousTagSizeSize
			if pos+total > limit {
				return
			}
			if !yield(TagInfo{Type: h.Type, DataSize: h.DataSize, Start: pos, TotalSize: total}) {
				return
			}
			pos += total
		}
	}
}

// FirstScriptTag returns the first script data tag in buf[start:limit).
func FirstScriptTag(buf []byte, start, limit int) (TagInfo, bool) {
	for tag := range Tags(buf, start, limit) {
		if tag.Type == TagTypeScript {
			return tag, true
		}
	}
	return TagInfo{}, false
}

// Pair is the outcome of a FirstPlayablePair scan.
type Pair struct {
	Video       TagInfo
	Audio       TagInfo
	HasVideo    bool
	HasAudio    bool
	Unsupported bool // First video tag is not AVC; scanning stopped there
	VideoCodec  byte // Codec id of the first video tag, when one was seen
}

// Complete reports whether both an audio and an AVC video tag were found.
func (p Pair) Complete() bool {
	return p.HasAudio && p.HasVideo
}

// FirstPlayablePair finds the first audio tag and the first video tag in
// buf[start:limit). The first video tag decides codec support: when it is not
// AVC the scan ends immediately with Unsupported set and no video reported.
// NOTE: Later video tags are not inspected once the first one was accepted.
func FirstPlayablePair(buf []byte, start, limit int) Pair {
	var p Pair
	for tag := range Tags(buf, start, limit) {
		switch tag.Type {
		case TagTypeAudio:
			if !p.HasAudio {
				p.Audio = tag
				p.HasAudio = true
			}
		case TagTypeVideo:
			if p.HasVideo {
				continue
			}
			codec, ok := VideoCodecID(tag.Payload(buf))
			p.VideoCodec = codec
			if !ok || codec != VideoCodecAVC {
				p.Unsupported = true
				return p
			}
			p.Video = tag
			p.HasVideo = true
		}
		if p.Complete() {
			return p
		}
	}
	return p
}
