// If you are AI: This file contains integration tests for HTTP API endpoints.
// Tests verify server, probe and seek responses from a running binary.

package itest

import (
	"encoding/json"
	"net/http"
	"testing"

	"vodflv/internal/core/protocol/flv/flvtest"
)

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.StatusCode
}

func TestAPIServer(t *testing.T) {
	binPath := buildBinary(t)
	root := t.TempDir()
	file := writeFixture(t, root, "clip.flv", flvtest.Options{Keyframes: 40, Interval: 2})
	inst := startServer(t, binPath, root)

	var serverResp map[string]any
	if code := getJSON(t, inst.mediaURL("/api/server"), &serverResp); code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", code)
	}
	if serverResp["version"] == nil {
		t.Error("Response missing version")
	}
	if locs, ok := serverResp["locations"].([]any); !ok || len(locs) != 2 {
		t.Errorf("expected 2 locations, got %v", serverResp["locations"])
	}

	var probe struct {
		Keyframes int     `json:"keyframes"`
		Duration  float64 `json:"duration"`
	}
	if code := getJSON(t, inst.mediaURL("/api/probe?location=/vod&path=clip.flv"), &probe); code != http.StatusOK {
		t.Fatalf("probe: expected 200, got %d", code)
	}
	if probe.Keyframes != 40 {
		t.Errorf("expected 40 keyframes, got %d", probe.Keyframes)
	}
	if probe.Duration != file.Duration {
		t.Errorf("expected duration %v, got %v", file.Duration, probe.Duration)
	}

	var seek struct {
		Seeked bool `json:"seeked"`
		Range  struct {
			StartIndex  int   `json:"start_index"`
			StartOffset int64 `json:"start_offset"`
		} `json:"range"`
	}
	if code := getJSON(t, inst.mediaURL("/api/seek?location=/vod&path=clip.flv&start=31"), &seek); code != http.StatusOK {
		t.Fatalf("seek: expected 200, got %d", code)
	}
	if !seek.Seeked || seek.Range.StartIndex != 15 {
		t.Errorf("expected seek to keyframe 15, got %+v", seek)
	}
	if seek.Range.StartOffset != int64(file.Positions[15]) {
		t.Errorf("expected offset %d, got %d", int64(file.Positions[15]), seek.Range.StartOffset)
	}

	var errResp map[string]any
	if code := getJSON(t, inst.mediaURL("/api/seek?location=/nope&path=clip.flv"), &errResp); code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown location, got %d", code)
	}
}
