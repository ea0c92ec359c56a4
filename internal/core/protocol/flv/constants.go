// If you are AI: This file defines FLV protocol constants and tag types.

package flv

// FLV file signature
const FLVSignature = "FLV"

// FLV version
const FLVVersion = 1

// FLV header size
const FLVHeaderSize = 9

// Tag layout sizes
const (
	TagHeaderSize       = 11 // type (1) + data size (3) + timestamp (3) + extension (1) + stream id (3)
	PreviousTagSizeSize = 4
)

// Tag types
const (
	TagTypeAudio  = 8
	TagTypeVideo  = 9
	TagTypeScript = 18
)

// Audio format constants
const (
	AudioFormatAAC = 10
)

// Video codec constants (low nibble of the first video payload byte)
const (
	VideoCodecH263     = 2
	VideoCodecScreen   = 3
	VideoCodecVP6      = 4
	VideoCodecVP6Alpha = 5
	VideoCodecScreenV2 = 6
	VideoCodecAVC      = 7
)

// Video frame types
const (
	VideoFrameKeyFrame   = 1
	VideoFrameInterFrame = 2
)

// AVCPacketType constants
const (
	AVCPacketTypeSequenceHeader = 0
	AVCPacketTypeNALU           = 1
)

// SyntheticHeader is prepended to responses that start mid-file, where the
// real file header is not part of the transferred range: a 9-byte header
// announcing video followed by a 4-byte previous tag size field.
var SyntheticHeader = [13]byte{'F', 'L', 'V', 0x01, 0x01, 0x00, 0x00, 0x00, 0x09, 0x00, 0x00, 0x00, 0x09}

// IsVideoKeyframe returns true if the FLV video payload represents a keyframe.
// In RTMP/FLV format: byte[0] upper nibble = frame type (1=keyframe).
func IsVideoKeyframe(payload []byte) bool {
	return len(payload) >= 1 && (payload[0]>>4) == VideoFrameKeyFrame
}

// VideoCodecID returns the codec id stored in the low nibble of a video payload.
func VideoCodecID(payload []byte) (byte, bool) {
	if len(payload) < 1 {
		return 0, false
	}
	return payload[0] & 0x0f, true
}
