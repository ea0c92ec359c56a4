// If you are AI: This file glues the library, the seek planner, metrics and logging together.
// HTTP, WebSocket and API handlers all plan responses through Service.

package media

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"vodflv/internal/core/seek"
	"vodflv/internal/logging"
	"vodflv/internal/metrics"
)

// Service plans media responses for files in a Library.
type Service struct {
	library *Library
	planner *seek.Planner
	chunk   int
	logger  zerolog.Logger
}

// NewService creates a media service. wsChunk is the websocket frame size
// used for file ranges.
func NewService(library *Library, planner *seek.Planner, wsChunk int, logger zerolog.Logger) *Service {
	return &Service{
		library: library,
		planner: planner,
		chunk:   wsChunk,
		logger:  logging.Component(logger, "media"),
	}
}

// Library returns the location library.
func (s *Service) Library() *Library {
	return s.library
}

// Planner returns the seek planner.
func (s *Service) Planner() *seek.Planner {
	return s.planner
}

// ChunkSize returns the websocket frame size for file ranges.
func (s *Service) ChunkSize() int {
	return s.chunk
}

// Plan parses q according to the location mode and plans the response.
func (s *Service) Plan(ctx context.Context, loc Location, f *File, q url.Values) (*seek.Response, error) {
	start := time.Now()
	var (
		resp *seek.Response
		err  error
	)
	switch loc.Mode {
	case seek.ModeByte:
		resp, err = s.planner.PlanBytes(ctx, f, f.Size, ParseByteRequest(q))
	default:
		resp, err = s.planner.PlanTime(ctx, f, f.Size, ParseTimeRequest(q))
	}
	if err != nil {
		metrics.SeekRequestsTotal.WithLabelValues(loc.Mode.String(), "error").Inc()
		return nil, err
	}

	elapsed := time.Since(start)
	outcome := Outcome(resp)
	metrics.SeekRequestsTotal.WithLabelValues(loc.Mode.String(), outcome).Inc()
	metrics.PlanDuration.WithLabelValues(loc.Mode.String()).Observe(elapsed.Seconds())
	metrics.PlannedBytesTotal.WithLabelValues(loc.Mode.String()).Add(float64(resp.ContentLength))
	if resp.ScanBytes > 0 {
		metrics.ScanWindowBytes.Observe(float64(resp.ScanBytes))
	}
	for _, d := range resp.Degradations {
		metrics.DegradationsTotal.WithLabelValues(string(d)).Inc()
	}

	ev := s.log(ctx).Debug().
		Str("file", f.Name).
		Str("mode", loc.Mode.String()).
		Str("outcome", outcome).
		Int64("content_length", resp.ContentLength).
		Dur("plan_time", elapsed)
	if resp.Seeked {
		ev = ev.Int64("start_offset", resp.Range.StartOffset).
			Int64("end_offset", resp.Range.EndOffset).
			Float64("duration", resp.Range.Duration)
	}
	if len(resp.Degradations) > 0 {
		reasons := make([]string, len(resp.Degradations))
		for i, d := range resp.Degradations {
			reasons[i] = string(d)
		}
		ev = ev.Strs("degraded", reasons)
	}
	ev.Msg("planned response")
	return resp, nil
}

// Probe summarizes f.
func (s *Service) Probe(ctx context.Context, f *File) (*seek.ProbeInfo, error) {
	return s.planner.Probe(ctx, f, f.Size)
}

// log returns the request logger from ctx, or the service logger.
func (s *Service) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

// Outcome labels a planned response for metrics and logs.
func Outcome(resp *seek.Response) string {
	switch {
	case resp.Seeked:
		return "seeked"
	case resp.Mode == seek.ModeTime:
		return "fallback"
	case len(resp.Segments) > 0 && resp.Segments[0].Kind == seek.SegmentHeader:
		return "prefixed"
	default:
		return "passthrough"
	}
}
