// If you are AI: This file contains unit tests for API handlers.
// Tests verify JSON responses and error handling.

package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"vodflv/internal/config"
	"vodflv/internal/core/protocol/flv/flvtest"
	"vodflv/internal/core/seek"
	"vodflv/internal/svc/media"
)

// newTestService serves f as a.flv under /vod (time) and /raw (byte).
func newTestService(t *testing.T, f *flvtest.File) *Service {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.flv"), f.Data, 0o644); err != nil {
		t.Fatal(err)
	}
	lib := media.NewLibrary([]config.LocationConfig{
		{Prefix: "/vod", Root: root, Mode: config.ModeTime},
		{Prefix: "/raw", Root: root, Mode: config.ModeByte},
	})
	return NewService(media.NewService(lib, seek.NewPlanner(seek.Options{}), 65536, zerolog.Nop()), "test")
}

func get(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleServer(t *testing.T) {
	service := newTestService(t, flvtest.Build(flvtest.Options{Keyframes: 2}))
	w := get(service.handleServer, "/api/server")

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response ServerResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Version != "test" {
		t.Errorf("Expected version test, got %q", response.Version)
	}
	if response.Uptime < 0 {
		t.Error("Uptime should be non-negative")
	}
	if response.GoVersion == "" {
		t.Error("GoVersion should not be empty")
	}
	if len(response.Locations) != 2 {
		t.Fatalf("Expected 2 locations, got %d", len(response.Locations))
	}
	modes := map[string]string{}
	for _, l := range response.Locations {
		modes[l.Prefix] = l.Mode
	}
	if modes["/vod"] != "time" || modes["/raw"] != "byte" {
		t.Errorf("Unexpected location modes: %v", modes)
	}
}

func TestHandleProbe(t *testing.T) {
	f := flvtest.Build(flvtest.Options{Keyframes: 500})
	service := newTestService(t, f)
	w := get(service.handleProbe, "/api/probe?location=/vod&path=a.flv")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var response ProbeResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Keyframes != 500 {
		t.Errorf("Expected 500 keyframes, got %d", response.Keyframes)
	}
	if response.Duration != 1000 {
		t.Errorf("Expected duration 1000, got %v", response.Duration)
	}
	if response.Last == nil || response.Last.Time != 998 || response.Last.Position != int64(f.Positions[499]) {
		t.Errorf("Unexpected last keyframe: %+v", response.Last)
	}
	if !response.FirstAligned {
		t.Error("Expected the first keyframe position to point at a keyframe tag")
	}
	if !response.VideoSupported || response.VideoCodec != 7 {
		t.Errorf("Expected supported AVC video, got codec %d", response.VideoCodec)
	}
	if response.Metadata["height"] != 360.0 {
		t.Errorf("Expected metadata height 360, got %v", response.Metadata["height"])
	}
}

func TestHandleSeek(t *testing.T) {
	f := flvtest.Build(flvtest.Options{Keyframes: 500})
	service := newTestService(t, f)
	w := get(service.handleSeek, "/api/seek?location=/vod&path=a.flv&start=301&end=301")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var response SeekResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.Seeked || response.Range == nil {
		t.Fatal("Expected a seeked response with a range")
	}
	if response.Range.StartIndex != 150 || response.Range.StartOffset != int64(f.Positions[150]) {
		t.Errorf("Unexpected start: %+v", response.Range)
	}
	if response.Range.EndIndex == nil || *response.Range.EndIndex != 151 {
		t.Errorf("Expected end index 151, got %v", response.Range.EndIndex)
	}
	if response.Range.Duration != 2 {
		t.Errorf("Expected duration 2, got %v", response.Range.Duration)
	}
	kinds := make([]string, 0, len(response.Segments))
	var total int64
	for _, seg := range response.Segments {
		kinds = append(kinds, seg.Kind)
		total += seg.Size
	}
	want := []string{"header", "metadata", "video_init", "audio_init", "range"}
	if len(kinds) != len(want) {
		t.Fatalf("Expected segments %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("Segment %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
	if total != response.ContentLength {
		t.Errorf("Segment sizes %d do not add up to content length %d", total, response.ContentLength)
	}
}

func TestHandleSeekByteMode(t *testing.T) {
	f := flvtest.Build(flvtest.Options{Keyframes: 20})
	service := newTestService(t, f)

	w := get(service.handleSeek, "/api/seek?location=/raw&path=a.flv&start=99999999")
	if w.Code != http.StatusRequestedRangeNotSatisfiable {
		t.Errorf("Expected status 416, got %d", w.Code)
	}

	w = get(service.handleSeek, "/api/seek?location=/raw&path=a.flv&start=500")
	var response SeekResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Mode != "byte" || response.Range != nil {
		t.Errorf("Expected byte mode without time range, got %+v", response)
	}
}

func TestHandleErrors(t *testing.T) {
	service := newTestService(t, flvtest.Build(flvtest.Options{Keyframes: 2}))

	tests := []struct {
		target string
		want   int
	}{
		{"/api/probe", http.StatusBadRequest},
		{"/api/probe?location=/nope&path=a.flv", http.StatusNotFound},
		{"/api/probe?location=/vod&path=missing.flv", http.StatusNotFound},
		{"/api/probe?location=/vod&path=../a.flv", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := get(service.handleProbe, tt.target)
		if w.Code != tt.want {
			t.Errorf("%s: expected status %d, got %d", tt.target, tt.want, w.Code)
		}
		var response ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil || response.Error == "" {
			t.Errorf("%s: expected JSON error body", tt.target)
		}
	}

	req := httptest.NewRequest("POST", "/api/seek", nil)
	w := httptest.NewRecorder()
	service.handleSeek(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestNonFiniteDuration(t *testing.T) {
	f := flvtest.Build(flvtest.Options{Keyframes: 10, Duration: math.NaN()})
	service := newTestService(t, f)

	w := get(service.handleProbe, "/api/probe?location=/vod&path=a.flv")
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("Expected status 200 with a body, got %d (%d bytes)", w.Code, w.Body.Len())
	}
	var probe ProbeResponse
	if err := json.NewDecoder(w.Body).Decode(&probe); err != nil {
		t.Fatalf("Failed to decode probe response: %v", err)
	}
	if !probe.HasDurationField {
		t.Error("Expected the duration field to be reported as present")
	}
	if probe.Duration != 18 {
		t.Errorf("Expected duration to fall back to the last keyframe (18), got %v", probe.Duration)
	}
	if _, ok := probe.Metadata["duration"]; ok {
		t.Error("Expected non-finite metadata duration to be left out")
	}

	w = get(service.handleSeek, "/api/seek?location=/vod&path=a.flv&start=5")
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("Expected status 200 with a body, got %d (%d bytes)", w.Code, w.Body.Len())
	}
	var seekResp SeekResponse
	if err := json.NewDecoder(w.Body).Decode(&seekResp); err != nil {
		t.Fatalf("Failed to decode seek response: %v", err)
	}
	if seekResp.Range == nil || seekResp.Range.Total != 18 {
		t.Errorf("Expected total 18, got %+v", seekResp.Range)
	}
}

func TestFloatMarshalsNonFiniteAsNull(t *testing.T) {
	data, err := json.Marshal(RangeInfo{StartTime: Float(math.Inf(1)), Duration: Float(math.NaN()), Total: 4.5})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if raw["start_time"] != nil || raw["duration"] != nil {
		t.Errorf("Expected null for non-finite values, got %s", data)
	}
	if raw["total"] != 4.5 {
		t.Errorf("Expected total 4.5, got %v", raw["total"])
	}
}

func TestWriteJSONEncodingFailure(t *testing.T) {
	service := newTestService(t, flvtest.Build(flvtest.Options{Keyframes: 2}))
	w := httptest.NewRecorder()
	service.writeJSON(w, http.StatusOK, map[string]float64{"bad": math.NaN()})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Error("Expected an error body")
	}
}
