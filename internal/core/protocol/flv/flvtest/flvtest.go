// If you are AI: This file builds synthetic FLV files with an onMetaData keyframe index for tests.
// Files are generated in memory so tests never depend on binary fixtures.

package flvtest

import (
	"bytes"
	"fmt"

	"vodflv/internal/core/protocol/amf0"
	"vodflv/internal/core/protocol/flv"
)

// Options controls the layout of a generated file.
type Options struct {
	Keyframes      int     // Number of GOPs, one keyframe each
	Interval       float64 // Seconds between keyframes
	InterFrames    int     // Inter frames following each keyframe
	FrameSize      int     // Payload bytes per video frame (after the 5-byte AVC prefix)
	VideoCodec     byte    // Codec id of every video tag; zero means AVC
	NoAudio        bool    // Omit all audio tags
	AudioFirst     bool    // Emit the audio sequence header before the video one
	NoDuration     bool    // Omit the duration property
	Duration       float64 // Explicit duration; zero means Keyframes*Interval
	NoKeyframes    bool    // Omit the keyframes object
	NoMetadata     bool    // Omit the script tag entirely
	ExtraMetaBytes int     // Size of a padding string property placed before keyframes
}

// File is a generated FLV file with the offsets tests need to poke at.
type File struct {
	Data          []byte
	Times         []float64
	Positions     []float64
	Duration      float64
	Metadata      flv.TagInfo // Zero when NoMetadata
	VideoInit     flv.TagInfo
	AudioInit     flv.TagInfo
	TimesAt       int // Absolute offset of the first times element type byte
	PositionsAt   int // Absolute offset of the first filepositions element type byte
	FirstTagStart int
}

// TimeRecord returns the absolute offset of times element i (its type byte).
func (f *File) TimeRecord(i int) int {
	return f.TimesAt + i*amf0.NumberValueSize
}

// PositionRecord returns the absolute offset of filepositions element i.
func (f *File) PositionRecord(i int) int {
	return f.PositionsAt + i*amf0.NumberValueSize
}

// Build generates a file according to opts.
func Build(opts Options) *File {
	if opts.Interval == 0 {
		opts.Interval = 2
	}
	if opts.FrameSize == 0 {
		opts.FrameSize = 16
	}
	if opts.VideoCodec == 0 {
		opts.VideoCodec = flv.VideoCodecAVC
	}

	f := &File{
		Times:     make([]float64, opts.Keyframes),
		Positions: make([]float64, opts.Keyframes),
		Duration:  opts.Duration,
	}
	for i := range f.Times {
		f.Times[i] = float64(i) * opts.Interval
	}
	if f.Duration == 0 {
		f.Duration = float64(opts.Keyframes) * opts.Interval
	}

	// Pass one sizes the metadata tag; element values do not change its length.
	meta := f.metadataPayload(opts)
	body := f.layout(opts, len(meta))
	meta = f.metadataPayload(opts)

	var out bytes.Buffer
	header := flv.NewHeader(!opts.NoAudio, true)
	out.Write(header.Bytes())
	out.Write(make([]byte, flv.PreviousTagSizeSize))
	f.FirstTagStart = out.Len()

	if !opts.NoMetadata {
		tag := flv.NewTag(flv.TagTypeScript, 0, meta)
		f.Metadata = flv.TagInfo{Type: flv.TagTypeScript, DataSize: uint32(len(meta)), Start: out.Len(), TotalSize: tag.Size()}
		out.Write(tag.Bytes())
		if !opts.NoKeyframes {
			dataStart := f.Metadata.Start + flv.TagHeaderSize
			timesMarker, _ := amf0.Locate(meta, amf0.MarkerTimes)
			posMarker, _ := amf0.Locate(meta, amf0.MarkerFilePositions)
			f.TimesAt = dataStart + timesMarker + 1 + amf0.ArrayCountSize
			f.PositionsAt = dataStart + posMarker + 1 + amf0.ArrayCountSize
		}
	}
	for _, t := range body {
		out.Write(t.tag.Bytes())
	}
	f.Data = out.Bytes()
	return f
}

// bodyTag is a planned media tag.
type bodyTag struct {
	tag   *flv.Tag
	Start int
}

// layout plans the media tags, records keyframe positions and init tags.
func (f *File) layout(opts Options, metaSize int) []*bodyTag {
	pos := flv.FLVHeaderSize + flv.PreviousTagSizeSize
	if !opts.NoMetadata {
		pos += flv.TagHeaderSize + metaSize + flv.PreviousTagSizeSize
	}

	var tags []*bodyTag
	add := func(t *flv.Tag) *bodyTag {
		bt := &bodyTag{tag: t, Start: pos}
		tags = append(tags, bt)
		pos += t.Size()
		return bt
	}

	videoInit := func() {
		t := add(flv.NewTag(flv.TagTypeVideo, 0, videoPayload(opts, flv.VideoFrameKeyFrame, flv.AVCPacketTypeSequenceHeader, 8)))
		f.VideoInit = flv.TagInfo{Type: flv.TagTypeVideo, DataSize: uint32(len(t.tag.Data)), Start: t.Start, TotalSize: t.tag.Size()}
	}
	audioInit := func() {
		if opts.NoAudio {
			return
		}
		t := add(flv.NewTag(flv.TagTypeAudio, 0, []byte{0xaf, 0x00, 0x12, 0x10}))
		f.AudioInit = flv.TagInfo{Type: flv.TagTypeAudio, DataSize: uint32(len(t.tag.Data)), Start: t.Start, TotalSize: t.tag.Size()}
	}
	if opts.AudioFirst {
		audioInit()
		videoInit()
	} else {
		videoInit()
		audioInit()
	}

	for k := 0; k < opts.Keyframes; k++ {
		ts := uint32(f.Times[k] * 1000)
		f.Positions[k] = float64(pos)
		add(flv.NewTag(flv.TagTypeVideo, ts, videoPayload(opts, flv.VideoFrameKeyFrame, flv.AVCPacketTypeNALU, opts.FrameSize)))
		for i := 0; i < opts.InterFrames; i++ {
			add(flv.NewTag(flv.TagTypeVideo, ts+uint32(i+1)*40, videoPayload(opts, flv.VideoFrameInterFrame, flv.AVCPacketTypeNALU, opts.FrameSize)))
		}
		if !opts.NoAudio {
			add(flv.NewTag(flv.TagTypeAudio, ts, []byte{0xaf, 0x01, 0x21, 0x00, 0x49}))
		}
	}
	return tags
}

// metadataPayload encodes the onMetaData script payload.
func (f *File) metadataPayload(opts Options) []byte {
	props := amf0.ECMAArray{}
	if !opts.NoDuration {
		props = append(props, amf0.Property{Key: "duration", Value: f.Duration})
	}
	props = append(props,
		amf0.Property{Key: "width", Value: 640.0},
		amf0.Property{Key: "height", Value: 360.0},
		amf0.Property{Key: "framerate", Value: 25.0},
		amf0.Property{Key: "videocodecid", Value: float64(opts.VideoCodec)},
		amf0.Property{Key: "audiocodecid", Value: float64(flv.AudioFormatAAC)},
	)
	if opts.ExtraMetaBytes > 0 {
		props = append(props, amf0.Property{Key: "comment", Value: string(bytes.Repeat([]byte{'x'}, opts.ExtraMetaBytes))})
	}
	if !opts.NoKeyframes {
		props = append(props, amf0.Property{Key: "keyframes", Value: amf0.Properties{
			{Key: "times", Value: f.Times},
			{Key: "filepositions", Value: f.Positions},
		}})
	}
	payload, err := amf0.EncodeScriptData("onMetaData", props)
	if err != nil {
		panic(fmt.Sprintf("flvtest: encode metadata: %v", err))
	}
	return payload
}

// videoPayload builds an AVC-style video payload of the given size.
func videoPayload(opts Options, frameType, packetType byte, size int) []byte {
	p := make([]byte, 5+size)
	p[0] = frameType<<4 | opts.VideoCodec
	p[1] = packetType
	for i := 5; i < len(p); i++ {
		p[i] = byte(i)
	}
	return p
}
