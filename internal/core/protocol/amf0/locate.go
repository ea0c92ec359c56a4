// If you are AI: This file implements literal marker search inside binary AMF0 payloads.
// Script data is full of zero bytes, so the window is walked as zero-delimited fragments.

package amf0

import "bytes"

// Well-known onMetaData markers used for seeking.
const (
	MarkerKeyframes     = "keyframes"
	MarkerTimes         = "times"
	MarkerFilePositions = "filepositions"
	MarkerDuration      = "duration"
)

// Locate finds the first occurrence of marker inside window and returns the
// offset immediately after it.
// The window is consumed fragment by fragment, each fragment ending at a zero
// byte, until the marker is found or the accumulated length reaches the end of
// the window. A marker never spans a zero byte.
func Locate(window []byte, marker string) (int, bool) {
	if marker == "" {
		return 0, false
	}
	needle := []byte(marker)
	consumed := 0
	for consumed < len(window) {
		fragment := window[consumed:]
		if end := bytes.IndexByte(fragment, 0); end >= 0 {
			fragment = fragment[:end]
		}
		if i := bytes.Index(fragment, needle); i >= 0 {
			return consumed + i + len(needle), true
		}
		// Skip the fragment and its terminating zero byte.
		consumed += len(fragment) + 1
	}
	return 0, false
}

// LocateFrom is Locate restricted to window[from:]; the returned offset is
// relative to the whole window.
func LocateFrom(window []byte, from int, marker string) (int, bool) {
	if from < 0 || from > len(window) {
		return 0, false
	}
	off, ok := Locate(window[from:], marker)
	if !ok {
		return 0, false
	}
	return from + off, true
}

// NumberProperty reads a scalar number stored right after marker, i.e. the
// marker is followed by a TypeNumber byte and an 8-byte double.
// Returns false when the marker is absent, not a number, or truncated.
func NumberProperty(window []byte, marker string) (float64, bool) {
	off, ok := Locate(window, marker)
	if !ok {
		return 0, false
	}
	if t, ok := ByteAt(window, off); !ok || t != TypeNumber {
		return 0, false
	}
	return NumberAt(window, off+1)
}
