// If you are AI: This file contains unit tests for WebSocket-FLV handler.
// Tests verify frame layout over a real upgrade, error statuses before upgrade and shutdown.

package wsflv

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"vodflv/internal/config"
	"vodflv/internal/core/protocol/flv/flvtest"
	"vodflv/internal/core/seek"
	"vodflv/internal/svc/media"
)

// newTestHandler serves f as a.flv under /vod.
func newTestHandler(t *testing.T, f *flvtest.File, chunk int) *Handler {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.flv"), f.Data, 0o644); err != nil {
		t.Fatal(err)
	}
	lib := media.NewLibrary([]config.LocationConfig{{Prefix: "/vod", Root: root, Mode: config.ModeTime}})
	return NewHandler(media.NewService(lib, seek.NewPlanner(seek.Options{}), chunk, zerolog.Nop()))
}

func TestWSFLVHandlerNotFound(t *testing.T) {
	handler := newTestHandler(t, flvtest.Build(flvtest.Options{Keyframes: 2}), 1024)

	for _, target := range []string{"/ws/vod/missing.flv", "/ws/other/a.flv"} {
		req := httptest.NewRequest("GET", target, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected status 404, got %d", target, w.Code)
		}
	}
}

func TestWSFLVHandlerMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t, flvtest.Build(flvtest.Options{Keyframes: 2}), 1024)
	req := httptest.NewRequest("POST", "/ws/vod/a.flv", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestWSFLVHandlerFrames(t *testing.T) {
	f := flvtest.Build(flvtest.Options{Keyframes: 500})
	handler := newTestHandler(t, f, 4096)

	mux := http.NewServeMux()
	NewService(handler.service).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/vod/a.flv?start=301"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	want := seek.PlanTimeWindow(f.Data, int64(len(f.Data)), seek.TimeRequest{Start: 301})
	var frames [][]byte
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Fatalf("Unexpected read error: %v", err)
			}
			break
		}
		if msgType != websocket.BinaryMessage {
			t.Fatalf("Expected binary frame, got type %d", msgType)
		}
		frames = append(frames, data)
	}

	literal := len(want.Segments) - 1
	if len(frames) < literal+1 {
		t.Fatalf("Expected at least %d frames, got %d", literal+1, len(frames))
	}
	for i := 0; i < literal; i++ {
		if !bytes.Equal(frames[i], want.Segments[i].Data) {
			t.Errorf("Frame %d does not match %s segment", i, want.Segments[i].Kind)
		}
	}
	var total int64
	for i, fr := range frames {
		if i >= literal && len(fr) > 4096 {
			t.Errorf("Frame %d exceeds chunk size: %d", i, len(fr))
		}
		total += int64(len(fr))
	}
	if total != want.ContentLength {
		t.Errorf("Expected %d bytes, got %d", want.ContentLength, total)
	}
}

// recordingConn collects frames.
type recordingConn struct {
	frames [][]byte
	fail   error
}

func (c *recordingConn) WriteMessage(messageType int, data []byte) error {
	if c.fail != nil {
		return c.fail
	}
	c.frames = append(c.frames, append([]byte(nil), data...))
	return nil
}

func (c *recordingConn) SetWriteDeadline(time.Time) error { return nil }

func TestStream(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 10)
	segs := []seek.Segment{
		{Kind: seek.SegmentHeader, Data: []byte("hdr")},
		{Kind: seek.SegmentRange, Offset: 0, Length: 10},
	}
	conn := &recordingConn{}
	n, err := Stream(context.Background(), conn, bytes.NewReader(data), segs, 4)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if n != 13 {
		t.Errorf("Expected 13 bytes, got %d", n)
	}
	if len(conn.frames) != 4 {
		t.Fatalf("Expected 4 frames (header + 4+4+2), got %d", len(conn.frames))
	}

	broken := &recordingConn{fail: errors.New("gone")}
	if _, err := Stream(context.Background(), broken, bytes.NewReader(data), segs, 4); err == nil {
		t.Error("Expected write error to stop the stream")
	}
}

func TestWSFLVServicePatterns(t *testing.T) {
	handler := newTestHandler(t, flvtest.Build(flvtest.Options{Keyframes: 2}), 1024)
	patterns := NewService(handler.service).Patterns()
	if len(patterns) != 1 || patterns[0] != "/ws/vod/" {
		t.Errorf("Expected [/ws/vod/], got %v", patterns)
	}
}

func TestHandlerShutdownIdle(t *testing.T) {
	handler := newTestHandler(t, flvtest.Build(flvtest.Options{Keyframes: 2}), 1024)
	if err := handler.Shutdown(context.Background()); err != nil {
		t.Errorf("Expected nil with no streams, got %v", err)
	}
	if handler.stop.Err() != nil {
		t.Error("Streams should not be cancelled when none were running")
	}
}

func TestHandlerShutdownCancelsStreams(t *testing.T) {
	handler := newTestHandler(t, flvtest.Build(flvtest.Options{Keyframes: 2}), 1024)

	// A stream that only ends when the handler tells it to.
	handler.streams.Add(1)
	go func() {
		defer handler.streams.Done()
		<-handler.stop.Done()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := handler.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
	if handler.stop.Err() == nil {
		t.Error("Expected remaining streams to be cancelled")
	}

	req := httptest.NewRequest("GET", "/ws/vod/a.flv", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 after shutdown, got %d", w.Code)
	}
}

func TestServiceRefusesUpgradeAfterShutdown(t *testing.T) {
	handler := newTestHandler(t, flvtest.Build(flvtest.Options{Keyframes: 2}), 1024)
	service := &Service{media: handler.service, handler: handler}
	if err := service.Shutdown(context.Background()); err != nil {
		t.Fatalf("Expected nil with no streams, got %v", err)
	}

	mux := http.NewServeMux()
	service.RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/vod/a.flv"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("Expected the upgrade to be refused after shutdown")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %v", resp)
	}
}
