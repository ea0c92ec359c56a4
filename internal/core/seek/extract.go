// If you are AI: This file extracts the metadata tag and the first audio/video tags from a scan window.
// Extracted tags are copies; the window can be returned to its pool afterwards.

package seek

import (
	"vodflv/internal/core/protocol/flv"
)

// ExtractedTags holds the tags replayed in front of a mid-file range.
// Any of them may be empty.
type ExtractedTags struct {
	Metadata         []byte
	Video            []byte
	Audio            []byte
	VideoUnsupported bool // First video tag was not AVC
	VideoCodec       byte
}

// Extract scans window for the first script tag and the first playable
// audio/video pair. A window without a valid file header yields nothing.
func Extract(window []byte) ExtractedTags {
	var out ExtractedTags
	header, err := flv.ParseHeader(window)
	if err != nil {
		return out
	}
	start := header.FirstTagOffset()

	if meta, ok := flv.FirstScriptTag(window, start, len(window)); ok {
		out.Metadata = clone(meta.Bytes(window))
	}

	pair := flv.FirstPlayablePair(window, start, len(window))
	out.VideoCodec = pair.VideoCodec
	if pair.Unsupported {
		out.VideoUnsupported = true
		return out
	}
	if pair.HasVideo {
		out.Video = clone(pair.Video.Bytes(window))
	}
	if pair.HasAudio {
		out.Audio = clone(pair.Audio.Bytes(window))
	}
	return out
}

// clone copies b into a new slice.
func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
