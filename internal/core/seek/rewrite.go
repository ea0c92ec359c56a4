// If you are AI: This file patches the duration property of an extracted onMetaData tag.

package seek

import (
	"vodflv/internal/core/protocol/amf0"
)

// RewriteDuration overwrites the "duration" number inside meta with d.
// meta is modified in place. Returns false, leaving meta untouched, when the
// property is absent, not a number, or truncated.
func RewriteDuration(meta []byte, d float64) bool {
	off, ok := amf0.Locate(meta, amf0.MarkerDuration)
	if !ok {
		return false
	}
	if t, ok := amf0.ByteAt(meta, off); !ok || t != amf0.TypeNumber {
		return false
	}
	return amf0.PutNumberAt(meta, off+1, d)
}
