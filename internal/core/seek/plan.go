// If you are AI: This file is the entry point of the seek core: it plans byte-mode and time-mode responses.
// Planning reads one bounded file prefix and never fails on malformed content; it degrades instead.

package seek

import (
	"context"
	"errors"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxScanBytes is the size of the file prefix examined for metadata.
const DefaultMaxScanBytes = 327680

// DefaultMaxConcurrentScans bounds how many scan windows exist at once.
const DefaultMaxConcurrentScans = 64

// ErrStartBeyondEOF rejects byte requests that start past the end of the file.
var ErrStartBeyondEOF = errors.New("seek: start offset beyond end of file")

// Options configures a Planner.
type Options struct {
	MaxScanBytes       int // Upper bound on bytes read when looking for metadata
	MaxConcurrentScans int // Scan windows that may be held simultaneously
}

// withDefaults fills unset options.
func (o Options) withDefaults() Options {
	if o.MaxScanBytes <= 0 {
		o.MaxScanBytes = DefaultMaxScanBytes
	}
	if o.MaxConcurrentScans <= 0 {
		o.MaxConcurrentScans = DefaultMaxConcurrentScans
	}
	return o
}

// Mode selects how request boundaries are interpreted.
type Mode int

const (
	ModeTime Mode = iota // Boundaries are seconds resolved through the keyframe index
	ModeByte             // Boundaries are byte offsets
)

// String returns the mode name used in configuration and metrics.
func (m Mode) String() string {
	if m == ModeByte {
		return "byte"
	}
	return "time"
}

// Degradation names a feature that was dropped while planning.
type Degradation string

const (
	DegradeNoMetadata         Degradation = "no_metadata"
	DegradeNoIndex            Degradation = "no_keyframe_index"
	DegradeNoDuration         Degradation = "no_duration"
	DegradeStartUnresolved    Degradation = "start_unresolved"
	DegradeUnsupportedCodec   Degradation = "unsupported_video_codec"
	DegradeDurationNotPatched Degradation = "duration_not_patched"
)

// ByteRequest is a byte-range request. End is inclusive.
type ByteRequest struct {
	Start  int64
	End    int64
	HasEnd bool
}

// Response is the planned output for one request.
type Response struct {
	Mode          Mode
	Segments      []Segment
	ContentLength int64
	Seeked        bool      // Time mode resolved through the keyframe index
	Range         TimeRange // Valid when Seeked
	ScanBytes     int       // Bytes of the file prefix that were examined
	Degradations  []Degradation
}

// RangeSegment returns the file range segment, if any.
func (r *Response) RangeSegment() (Segment, bool) {
	for _, s := range r.Segments {
		if s.Kind == SegmentRange {
			return s, true
		}
	}
	return Segment{}, false
}

// degrade records a dropped feature.
func (r *Response) degrade(d Degradation) {
	r.Degradations = append(r.Degradations, d)
}

// Planner plans responses using pooled scan windows.
// It holds no per-request state and is safe for concurrent use.
type Planner struct {
	opts    Options
	windows *windowPool
	tracer  trace.Tracer
}

// NewPlanner creates a planner with the given options.
func NewPlanner(opts Options) *Planner {
	opts = opts.withDefaults()
	return &Planner{
		opts:    opts,
		windows: newWindowPool(opts.MaxScanBytes, opts.MaxConcurrentScans),
		tracer:  otel.Tracer("vodflv/internal/core/seek"),
	}
}

// Options returns the effective options.
func (p *Planner) Options() Options {
	return p.opts
}

// withWindow reads the file prefix into a pooled window and calls fn with it.
// The window must not be retained after fn returns.
func (p *Planner) withWindow(ctx context.Context, src io.ReaderAt, size int64, fn func([]byte)) error {
	buf, err := p.windows.acquire(ctx)
	if err != nil {
		return err
	}
	defer p.windows.release(buf)

	window, err := readWindow(src, size, *buf)
	if err != nil {
		return err
	}
	fn(window)
	return nil
}

// PlanBytes plans a byte-mode response for a file of size bytes.
func (p *Planner) PlanBytes(ctx context.Context, src io.ReaderAt, size int64, req ByteRequest) (*Response, error) {
	ctx, span := p.tracer.Start(ctx, "seek.PlanBytes")
	defer span.End()
	span.SetAttributes(attribute.Int64("seek.start", req.Start), attribute.Int64("seek.size", size))

	if req.Start > size {
		return nil, ErrStartBeyondEOF
	}
	if req.Start == 0 {
		return PlanBytesWindow(nil, size, req), nil
	}

	var resp *Response
	err := p.withWindow(ctx, src, size, func(window []byte) {
		resp = PlanBytesWindow(window, size, req)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return resp, nil
}

// PlanTime plans a time-mode response for a file of size bytes.
func (p *Planner) PlanTime(ctx context.Context, src io.ReaderAt, size int64, req TimeRequest) (*Response, error) {
	ctx, span := p.tracer.Start(ctx, "seek.PlanTime")
	defer span.End()
	span.SetAttributes(attribute.Float64("seek.start", req.Start), attribute.Int64("seek.size", size))

	var resp *Response
	err := p.withWindow(ctx, src, size, func(window []byte) {
		resp = PlanTimeWindow(window, size, req)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("seek.seeked", resp.Seeked), attribute.Int64("seek.content_length", resp.ContentLength))
	return resp, nil
}

// PlanBytesWindow plans a byte-mode response from an already read window.
// A request starting at zero is served verbatim and needs no window.
// The caller has already rejected starts beyond size.
func PlanBytesWindow(window []byte, size int64, req ByteRequest) *Response {
	resp := &Response{Mode: ModeByte, ScanBytes: len(window)}
	start := max(req.Start, 0)

	end := size
	if req.HasEnd && req.End >= 0 && req.End < size {
		end = req.End + 1
	}

	if start == 0 {
		resp.Segments, resp.ContentLength = Assemble(Prefix{}, 0, end)
		return resp
	}

	tags := Extract(window)
	if tags.VideoUnsupported {
		resp.degrade(DegradeUnsupportedCodec)
	}
	if start > end {
		end = size
	}
	prefix := Prefix{Header: true, Video: tags.Video, Audio: tags.Audio}
	resp.Segments, resp.ContentLength = Assemble(prefix, start, end)
	return resp
}

// PlanTimeWindow plans a time-mode response from an already read window.
// When the keyframe index cannot place the start, the whole file is served
// from byte zero with no synthesized prefix.
func PlanTimeWindow(window []byte, size int64, req TimeRequest) *Response {
	resp := &Response{Mode: ModeTime, ScanBytes: len(window)}

	tags := Extract(window)
	if len(tags.Metadata) == 0 {
		resp.degrade(DegradeNoMetadata)
	}
	if tags.VideoUnsupported {
		resp.degrade(DegradeUnsupportedCodec)
	}

	idx, err := ParseIndex(window)
	if err != nil {
		resp.degrade(DegradeNoIndex)
		return fallback(resp, size)
	}
	if d, ok := Duration(window); !ok || !finite(d) {
		resp.degrade(DegradeNoDuration)
	}
	total, ok := TotalDuration(window, idx)
	if !ok {
		resp.degrade(DegradeNoIndex)
		return fallback(resp, size)
	}

	r, ok := Orchestrate(idx, total, req, size)
	if !ok {
		resp.degrade(DegradeStartUnresolved)
		return fallback(resp, size)
	}

	meta := tags.Metadata
	if len(meta) > 0 && !RewriteDuration(meta, r.Duration) {
		resp.degrade(DegradeDurationNotPatched)
	}

	resp.Seeked = true
	resp.Range = r
	prefix := Prefix{Header: true, Metadata: meta, Video: tags.Video, Audio: tags.Audio}
	resp.Segments, resp.ContentLength = Assemble(prefix, r.StartOffset, r.EndOffset)
	return resp
}

// fallback turns resp into a verbatim transfer of the whole file.
func fallback(resp *Response, size int64) *Response {
	resp.Seeked = false
	resp.Segments, resp.ContentLength = Assemble(Prefix{}, 0, size)
	return resp
}
