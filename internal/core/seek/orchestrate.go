// If you are AI: This file turns a requested time range into byte offsets and a trimmed duration.
// It drives two boundary resolutions and decides when the end collapses to end-of-file.

package seek

// TimeRequest is a time-range seek in seconds.
type TimeRequest struct {
	Start  float64
	End    float64
	HasEnd bool
}

// TimeRange is the byte range selected for a TimeRequest.
type TimeRange struct {
	StartOffset  int64 // First byte to transfer
	EndOffset    int64 // Exclusive; the file size when the range runs to EOF
	ToEOF        bool
	Duration     float64 // Playback duration of the selected range
	Total        float64 // Duration of the whole file
	StartIndex   int
	StartTime    float64 // Time of the keyframe playback starts at
	EndIndex     int     // Valid when !ToEOF
	EndTime      float64
	ClampedStart float64 // Requested start after clamping into [0, Total]
}

// Orchestrate resolves req against idx for a file of fileSize bytes.
// total is the file duration (see TotalDuration). The second result is false
// when the start cannot be resolved to an offset inside the file; the caller
// then falls back to a plain byte transfer.
func Orchestrate(idx *Index, total float64, req TimeRequest, fileSize int64) (TimeRange, bool) {
	start := req.Start
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}

	first := idx.ResolveStart(start)
	if first.Kind != Found || first.Offset <= 0 || first.Offset > fileSize {
		return TimeRange{}, false
	}

	r := TimeRange{
		StartOffset:  first.Offset,
		EndOffset:    fileSize,
		ToEOF:        true,
		Duration:     total - first.Time,
		Total:        total,
		StartIndex:   first.Index,
		StartTime:    first.Time,
		ClampedStart: start,
	}

	if !req.HasEnd || req.End < start || req.End > total {
		return r, true
	}

	last := idx.ResolveEnd(req.End, first.Index)
	switch last.Kind {
	case Found:
		if last.Offset > r.StartOffset && last.Offset <= fileSize {
			r.EndOffset = last.Offset
			r.ToEOF = false
			r.EndIndex = last.Index
			r.EndTime = last.Time
			r.Duration = last.Time - first.Time
		}
	case Exhausted, NoIndex:
		// Runs to end of file with the full remaining duration.
	}
	return r, true
}
