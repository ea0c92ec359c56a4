// If you are AI: This file decodes the onMetaData keyframe index (times/filepositions strict arrays).
// Records are read lazily from the scan window; nothing is copied or sorted.

package seek

import (
	"errors"
	"math"

	"vodflv/internal/core/protocol/amf0"
)

var (
	ErrNoKeyframes     = errors.New("seek: keyframes marker not found")
	ErrNoTimes         = errors.New("seek: keyframes.times not found or not a strict array")
	ErrNoFilePositions = errors.New("seek: keyframes.filepositions not found or not a strict array")
	ErrEmptyIndex      = errors.New("seek: keyframe index has no readable records")
)

// Keyframe is one entry of the index.
type Keyframe struct {
	Time     float64 // Seconds
	Position float64 // Byte offset of the keyframe's tag, stored as a double
}

// Index is a view over the parallel times/filepositions arrays inside a
// window. Element i of both arrays describes keyframe i.
// Times are assumed, not verified, to be monotonic non-decreasing.
type Index struct {
	window    []byte
	times     int // Offset of times element 0 (its type byte)
	positions int // Offset of filepositions element 0
	count     int
}

// ParseIndex locates the keyframe arrays in window.
// The count comes from the times array header; records past the end of the
// window stay unreadable rather than failing the parse.
func ParseIndex(window []byte) (*Index, error) {
	keyframes, ok := amf0.Locate(window, amf0.MarkerKeyframes)
	if !ok {
		return nil, ErrNoKeyframes
	}

	timesArr, ok := amf0.LocateFrom(window, keyframes, amf0.MarkerTimes)
	if !ok || !isStrictArray(window, timesArr) {
		return nil, ErrNoTimes
	}
	count, ok := amf0.Uint32At(window, timesArr+1)
	if !ok {
		return nil, ErrNoTimes
	}

	posArr, ok := amf0.LocateFrom(window, keyframes, amf0.MarkerFilePositions)
	if !ok || !isStrictArray(window, posArr) {
		return nil, ErrNoFilePositions
	}

	idx := &Index{
		window:    window,
		times:     timesArr + 1 + amf0.ArrayCountSize,
		positions: posArr + 1 + amf0.ArrayCountSize,
		count:     int(count),
	}
	if !idx.hasValidRecord() {
		return nil, ErrEmptyIndex
	}
	return idx, nil
}

// isStrictArray reports whether the byte at off is the strict array marker.
func isStrictArray(window []byte, off int) bool {
	t, ok := amf0.ByteAt(window, off)
	return ok && t == amf0.TypeStrictArray
}

// Len returns the number of keyframes declared by the times array.
func (x *Index) Len() int {
	return x.count
}

// valid reports whether times element i is inside the window and typed as a
// number. Anything else is a sentinel the binary search steps over.
func (x *Index) valid(i int) bool {
	if i < 0 || i >= x.count {
		return false
	}
	off := x.times + i*amf0.NumberValueSize
	t, ok := amf0.ByteAt(x.window, off)
	if !ok || t != amf0.TypeNumber {
		return false
	}
	return off+amf0.NumberValueSize <= len(x.window)
}

// hasValidRecord reports whether any times element is a readable number.
func (x *Index) hasValidRecord() bool {
	for i := 0; i < x.count; i++ {
		if x.valid(i) {
			return true
		}
		if x.times+i*amf0.NumberValueSize >= len(x.window) {
			return false
		}
	}
	return false
}

// TimeAt decodes the time of keyframe i without checking its type byte.
func (x *Index) TimeAt(i int) (float64, bool) {
	if i < 0 || i >= x.count {
		return 0, false
	}
	return amf0.NumberAt(x.window, x.times+i*amf0.NumberValueSize+1)
}

// PositionAt decodes the file position of keyframe i.
func (x *Index) PositionAt(i int) (float64, bool) {
	if i < 0 || i >= x.count {
		return 0, false
	}
	return amf0.NumberAt(x.window, x.positions+i*amf0.NumberValueSize+1)
}

// At returns keyframe i when both of its fields are readable.
func (x *Index) At(i int) (Keyframe, bool) {
	t, ok := x.TimeAt(i)
	if !ok {
		return Keyframe{}, false
	}
	p, ok := x.PositionAt(i)
	if !ok {
		return Keyframe{}, false
	}
	return Keyframe{Time: t, Position: p}, true
}

// LastTime returns the time of the last declared keyframe.
func (x *Index) LastTime() (float64, bool) {
	return x.TimeAt(x.count - 1)
}

// Duration reads the scalar "duration" property from window.
func Duration(window []byte) (float64, bool) {
	return amf0.NumberProperty(window, amf0.MarkerDuration)
}

// TotalDuration returns the explicit duration when present and finite, else
// the time of the last keyframe.
func TotalDuration(window []byte, idx *Index) (float64, bool) {
	if d, ok := Duration(window); ok && finite(d) {
		return d, true
	}
	if idx == nil {
		return 0, false
	}
	return idx.LastTime()
}

func finite(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0)
}
