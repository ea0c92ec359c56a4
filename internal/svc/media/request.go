// If you are AI: This file parses start/end query arguments for both serving modes.
// Unparseable values behave as if they were absent (start) or omitted (end).

package media

import (
	"math"
	"net/url"
	"strconv"

	"vodflv/internal/core/seek"
)

// ParseTimeRequest reads start and end as seconds.
func ParseTimeRequest(q url.Values) seek.TimeRequest {
	var req seek.TimeRequest
	if v, ok := parseSeconds(q.Get("start")); ok {
		req.Start = v
	}
	if v, ok := parseSeconds(q.Get("end")); ok {
		req.End = v
		req.HasEnd = true
	}
	return req
}

// ParseByteRequest reads start and end as byte offsets, end inclusive.
func ParseByteRequest(q url.Values) seek.ByteRequest {
	var req seek.ByteRequest
	if v, ok := parseOffset(q.Get("start")); ok {
		req.Start = v
	}
	if v, ok := parseOffset(q.Get("end")); ok {
		req.End = v
		req.HasEnd = true
	}
	return req
}

// parseSeconds accepts a finite, non-negative number.
func parseSeconds(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// parseOffset accepts a non-negative decimal integer.
func parseOffset(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
