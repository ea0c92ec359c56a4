// If you are AI: This file summarizes what the seek core can see in a file prefix.
// Used by the inspection API and the probe command; it never modifies the window.

package seek

import (
	"context"
	"io"

	"vodflv/internal/core/protocol/amf0"
	"vodflv/internal/core/protocol/flv"
)

// ProbeInfo describes the seekability of a file.
type ProbeInfo struct {
	Size             int64
	ScanBytes        int
	ValidHeader      bool
	MetadataSize     int
	VideoInitSize    int
	AudioInitSize    int
	VideoCodec       byte
	VideoSupported   bool
	HasDurationField bool
	Duration         float64 // Total duration used for clamping
	HasIndex         bool
	IndexError       string
	Keyframes        int
	First            Keyframe
	Last             Keyframe
	FirstAligned     bool // First filepositions entry points at a video keyframe tag
	Width            float64
	Height           float64
	FrameRate        float64
	Properties       map[string]any // Scalar onMetaData properties; nil when undecodable
}

// Probe reads the file prefix and summarizes it.
func (p *Planner) Probe(ctx context.Context, src io.ReaderAt, size int64) (*ProbeInfo, error) {
	var info *ProbeInfo
	err := p.withWindow(ctx, src, size, func(window []byte) {
		info = ProbeWindow(window, size)
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// ProbeWindow summarizes an already read window.
func ProbeWindow(window []byte, size int64) *ProbeInfo {
	info := &ProbeInfo{Size: size, ScanBytes: len(window)}
	if _, err := flv.ParseHeader(window); err == nil {
		info.ValidHeader = true
	}

	tags := Extract(window)
	info.MetadataSize = len(tags.Metadata)
	info.VideoInitSize = len(tags.Video)
	info.AudioInitSize = len(tags.Audio)
	info.VideoCodec = tags.VideoCodec
	info.VideoSupported = !tags.VideoUnsupported && len(tags.Video) > 0

	info.Width, _ = amf0.NumberProperty(window, "width")
	info.Height, _ = amf0.NumberProperty(window, "height")
	info.FrameRate, _ = amf0.NumberProperty(window, "framerate")
	info.Properties = scriptProperties(tags.Metadata)

	_, info.HasDurationField = Duration(window)

	idx, err := ParseIndex(window)
	if err != nil {
		info.IndexError = err.Error()
		info.Duration, _ = TotalDuration(window, nil)
		return info
	}
	info.HasIndex = true
	info.Keyframes = idx.Len()
	info.First, _ = idx.At(0)
	info.Last, _ = idx.At(idx.Len() - 1)
	info.FirstAligned = keyframeTagAt(window, info.First.Position)
	info.Duration, _ = TotalDuration(window, idx)
	return info
}

// scriptProperties decodes a complete onMetaData tag and keeps its scalar
// properties. Nested values such as the keyframe index are left out.
func scriptProperties(tag []byte) map[string]any {
	if len(tag) < flv.TagHeaderSize+flv.PreviousTagSizeSize {
		return nil
	}
	_, val, err := amf0.DecodeScriptData(tag[flv.TagHeaderSize : len(tag)-flv.PreviousTagSizeSize])
	if err != nil {
		return nil
	}
	obj, ok := val.(amf0.Object)
	if !ok {
		return nil
	}
	props := make(map[string]any, len(obj))
	for k, v := range obj {
		switch v.(type) {
		case float64, bool, string:
			props[k] = v
		}
	}
	return props
}

// keyframeTagAt reports whether a video keyframe tag starts at pos.
// Positions outside the window, including NaN, report false.
func keyframeTagAt(window []byte, pos float64) bool {
	if !(pos >= 0 && pos <= float64(len(window)-flv.TagHeaderSize-1)) {
		return false
	}
	off := int(pos)
	h, ok := flv.ReadTagHeader(window, off)
	if !ok || h.Type != flv.TagTypeVideo || h.DataSize == 0 {
		return false
	}
	return flv.IsVideoKeyframe(window[off+flv.TagHeaderSize:])
}
