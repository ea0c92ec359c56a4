// If you are AI: This file implements the keyframe binary search that maps a time to a byte offset.
// Results are a tagged value (Found, NoIndex, Exhausted); callers switch on Kind.

package seek

// Kind tags a Result.
type Kind int

const (
	// NoIndex means the arrays could not be read at all.
	NoIndex Kind = iota
	// Found carries a resolved keyframe.
	Found
	// Exhausted means an end boundary had no keyframe after the excluded one.
	Exhausted
)

// String returns the kind name used in logs and API responses.
func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case Exhausted:
		return "exhausted"
	default:
		return "no_index"
	}
}

// Result is the outcome of resolving one boundary.
type Result struct {
	Kind   Kind
	Offset int64   // Byte offset; exclusive upper bound for end boundaries
	Index  int     // Keyframe index
	Time   float64 // Time recorded for that keyframe
}

// ResolveStart returns the last keyframe whose time is not after value.
// A value beyond the last keyframe resolves to the last keyframe.
func (x *Index) ResolveStart(value float64) Result {
	return x.resolve(value, -1, false)
}

// ResolveEnd resolves an end boundary. When the candidate keyframe equals
// exclude (the already resolved start) the next keyframe is used instead, and
// Exhausted is returned if there is none. The returned offset is one byte
// before the keyframe's position.
func (x *Index) ResolveEnd(value float64, exclude int) Result {
	return x.resolve(value, exclude, true)
}

// resolve runs the search. exclude < 0 disables the exclusion step.
func (x *Index) resolve(value float64, exclude int, end bool) Result {
	if x == nil || x.count <= 0 {
		return Result{Kind: NoIndex}
	}
	num := x.count
	lo, hi := 0, num-1

	// probe starts at zero, so a request for time 0 never enters the loop.
	probe := 0.0
	skip := 0
	for hi-lo >= 2 && probe != value {
		mid := (lo+hi)/2 + skip
		if !x.valid(mid) {
			// Step over unreadable records, never past hi.
			if mid >= hi {
				break
			}
			skip++
			continue
		}
		probe, _ = x.TimeAt(mid)
		if probe < value {
			lo = mid
		} else {
			hi = mid
		}
		skip = 0
	}

	hiTime, ok := x.TimeAt(hi)
	if !ok {
		return Result{Kind: NoIndex}
	}
	switch {
	case value > hiTime:
		// Beyond the last probed keyframe: snap to the final one.
		lo = num - 1
	case value == hiTime:
		// An exact hit on hi is the greatest keyframe not after value.
		lo = hi
	}

	if exclude >= 0 && lo == exclude {
		lo++
		if lo > num-1 {
			return Result{Kind: Exhausted}
		}
	}

	t, ok := x.TimeAt(lo)
	if !ok {
		return Result{Kind: NoIndex}
	}
	pos, ok := x.PositionAt(lo)
	if !ok {
		return Result{Kind: NoIndex}
	}
	offset := int64(pos)
	if end {
		offset--
	}
	return Result{Kind: Found, Offset: offset, Index: lo, Time: t}
}
