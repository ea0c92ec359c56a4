// If you are AI: This file implements HTTP API handlers.
// Handlers read at most one scan window per request and never stream media.

package api

import (
	"net/http"
	"runtime"

	"github.com/rs/zerolog"

	"vodflv/internal/core/seek"
	"vodflv/internal/svc/media"
)

// ServerResponse represents the /api/server response.
type ServerResponse struct {
	Version         string         `json:"version"`
	Uptime          int64          `json:"uptime"` // seconds
	GoVersion       string         `json:"go_version"`
	EnabledServices []string       `json:"enabled_services"`
	Locations       []LocationInfo `json:"locations"`
}

// LocationInfo describes a configured location.
type LocationInfo struct {
	Prefix string `json:"prefix"`
	Mode   string `json:"mode"`
}

// KeyframeInfo is one keyframe index entry.
type KeyframeInfo struct {
	Time     Float `json:"time"`
	Position int64 `json:"position"`
}

// ProbeResponse represents the /api/probe response.
type ProbeResponse struct {
	Path             string         `json:"path"`
	Size             int64          `json:"size"`
	ScanBytes        int            `json:"scan_bytes"`
	ValidHeader      bool           `json:"valid_header"`
	MetadataSize     int            `json:"metadata_size"`
	VideoInitSize    int            `json:"video_init_size"`
	AudioInitSize    int            `json:"audio_init_size"`
	VideoCodec       int            `json:"video_codec"`
	VideoSupported   bool           `json:"video_supported"`
	HasDurationField bool           `json:"has_duration_field"`
	Duration         Float          `json:"duration"`
	Keyframes        int            `json:"keyframes"`
	First            *KeyframeInfo  `json:"first_keyframe,omitempty"`
	Last             *KeyframeInfo  `json:"last_keyframe,omitempty"`
	FirstAligned     bool           `json:"first_keyframe_aligned"`
	IndexError       string         `json:"index_error,omitempty"`
	Width            Float          `json:"width,omitempty"`
	Height           Float          `json:"height,omitempty"`
	FrameRate        Float          `json:"framerate,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// SegmentInfo describes one planned segment.
type SegmentInfo struct {
	Kind   string `json:"kind"`
	Size   int64  `json:"size"`
	Offset *int64 `json:"offset,omitempty"` // File offset of range segments
}

// RangeInfo describes the keyframe-aligned range of a time seek.
type RangeInfo struct {
	StartOffset int64  `json:"start_offset"`
	EndOffset   int64  `json:"end_offset"`
	ToEOF       bool   `json:"to_eof"`
	StartIndex  int    `json:"start_index"`
	StartTime   Float  `json:"start_time"`
	EndIndex    *int   `json:"end_index,omitempty"`
	EndTime     *Float `json:"end_time,omitempty"`
	Duration    Float  `json:"duration"`
	Total       Float  `json:"total"`
}

// SeekResponse represents the /api/seek response.
type SeekResponse struct {
	Path          string        `json:"path"`
	Mode          string        `json:"mode"`
	Seeked        bool          `json:"seeked"`
	ContentLength int64         `json:"content_length"`
	ScanBytes     int           `json:"scan_bytes"`
	Range         *RangeInfo    `json:"range,omitempty"`
	Segments      []SegmentInfo `json:"segments"`
	Degradations  []string      `json:"degradations"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleServer handles GET /api/server.
// Returns server version, uptime, enabled services and locations.
func (s *Service) handleServer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	uptime := getCurrentTime() - s.startTime

	locs := s.media.Library().Locations()
	infos := make([]LocationInfo, 0, len(locs))
	for _, l := range locs {
		infos = append(infos, LocationInfo{Prefix: l.Prefix, Mode: l.Mode.String()})
	}

	response := ServerResponse{
		Version:   s.version,
		Uptime:    uptime,
		GoVersion: runtime.Version(),
		EnabledServices: []string{
			"http_flv",
			"ws_flv",
			"api",
		},
		Locations: infos,
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleProbe handles GET /api/probe?location=&path=.
func (s *Service) handleProbe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	f, _, ok := s.open(w, r)
	if !ok {
		return
	}
	defer f.Close()

	info, err := s.media.Probe(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	response := ProbeResponse{
		Path:             f.Name,
		Size:             info.Size,
		ScanBytes:        info.ScanBytes,
		ValidHeader:      info.ValidHeader,
		MetadataSize:     info.MetadataSize,
		VideoInitSize:    info.VideoInitSize,
		AudioInitSize:    info.AudioInitSize,
		VideoCodec:       int(info.VideoCodec),
		VideoSupported:   info.VideoSupported,
		HasDurationField: info.HasDurationField,
		Duration:         Float(info.Duration),
		Keyframes:        info.Keyframes,
		IndexError:       info.IndexError,
		Width:            Float(info.Width),
		Height:           Float(info.Height),
		FrameRate:        Float(info.FrameRate),
		Metadata:         finiteProperties(info.Properties),
	}
	if info.HasIndex {
		response.First = &KeyframeInfo{Time: Float(info.First.Time), Position: int64(info.First.Position)}
		response.Last = &KeyframeInfo{Time: Float(info.Last.Time), Position: int64(info.Last.Position)}
		response.FirstAligned = info.FirstAligned
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleSeek handles GET /api/seek?location=&path=&start=&end=.
// Returns the plan the media handlers would execute for the same arguments.
func (s *Service) handleSeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	f, loc, ok := s.open(w, r)
	if !ok {
		return
	}
	defer f.Close()

	resp, err := s.media.Plan(r.Context(), loc, f, r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, newSeekResponse(f.Name, resp))
}

// newSeekResponse converts a plan to its API form.
func newSeekResponse(name string, resp *seek.Response) SeekResponse {
	out := SeekResponse{
		Path:          name,
		Mode:          resp.Mode.String(),
		Seeked:        resp.Seeked,
		ContentLength: resp.ContentLength,
		ScanBytes:     resp.ScanBytes,
		Segments:      make([]SegmentInfo, 0, len(resp.Segments)),
		Degradations:  make([]string, 0, len(resp.Degradations)),
	}
	for _, seg := range resp.Segments {
		info := SegmentInfo{Kind: seg.Kind.String(), Size: seg.Size()}
		if seg.Kind == seek.SegmentRange {
			off := seg.Offset
			info.Offset = &off
		}
		out.Segments = append(out.Segments, info)
	}
	for _, d := range resp.Degradations {
		out.Degradations = append(out.Degradations, string(d))
	}
	if resp.Seeked {
		r := resp.Range
		out.Range = &RangeInfo{
			StartOffset: r.StartOffset,
			EndOffset:   r.EndOffset,
			ToEOF:       r.ToEOF,
			StartIndex:  r.StartIndex,
			StartTime:   Float(r.StartTime),
			Duration:    Float(r.Duration),
			Total:       Float(r.Total),
		}
		if !r.ToEOF {
			out.Range.EndIndex = &r.EndIndex
			end := Float(r.EndTime)
			out.Range.EndTime = &end
		}
	}
	return out
}

// open resolves the location and path query arguments and opens the file.
// On failure the error response has been written.
func (s *Service) open(w http.ResponseWriter, r *http.Request) (*media.File, media.Location, bool) {
	q := r.URL.Query()
	prefix, rel := q.Get("location"), q.Get("path")
	if prefix == "" || rel == "" {
		s.writeError(w, http.StatusBadRequest, "location and path are required")
		return nil, media.Location{}, false
	}

	lib := s.media.Library()
	loc, ok := lib.Location(prefix)
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown location")
		return nil, media.Location{}, false
	}
	f, err := lib.Open(loc, rel)
	if err != nil {
		s.fail(w, r, err)
		return nil, media.Location{}, false
	}
	return f, loc, true
}

// fail writes the error response matching err.
func (s *Service) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := media.Status(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("api request failed")
		s.writeError(w, status, "internal error")
		return
	}
	s.writeError(w, status, http.StatusText(status))
}
