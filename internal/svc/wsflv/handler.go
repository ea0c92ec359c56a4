// If you are AI: This file implements the WebSocket handler for FLV file requests.
// Handles GET /ws{prefix}/{file}.flv and sends the planned response as binary frames.

package wsflv

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"vodflv/internal/core/seek"
	"vodflv/internal/metrics"
	"vodflv/internal/svc/media"
)

// writeTimeout bounds a single frame write to a stalled client.
const writeTimeout = 30 * time.Second

// Handler handles WebSocket-FLV requests.
// Upgraded connections are invisible to http.Server, so the handler tracks
// its own streams for shutdown.
type Handler struct {
	service  *media.Service
	upgrader websocket.Upgrader

	mu      sync.Mutex
	closing bool // Set by Shutdown; no stream starts after it
	streams sync.WaitGroup
	stop    context.Context // Done once remaining streams must end
	halt    context.CancelFunc
}

// NewHandler creates a new WebSocket-FLV handler.
func NewHandler(service *media.Service) *Handler {
	stop, halt := context.WithCancel(context.Background())
	return &Handler{
		service: service,
		stop:    stop,
		halt:    halt,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Players are commonly served from another origin.
				return true
			},
		},
	}
}

// WebSocketConn defines the subset of websocket operations used for delivery.
// This allows for easier testing and abstraction.
type WebSocketConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
}

// ServeHTTP plans the response, upgrades and streams it.
// Endpoint: GET /ws/{prefix}/{path}?start=&end=
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Parse path: /ws/{prefix}/{path}
	urlPath := strings.TrimPrefix(r.URL.Path, RoutePrefix)
	if urlPath == r.URL.Path || !strings.HasPrefix(urlPath, "/") {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	lib := h.service.Library()
	loc, rel, ok := lib.Match(urlPath)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	f, err := lib.Open(loc, rel)
	if err != nil {
		w.WriteHeader(media.Status(err))
		return
	}
	defer f.Close()

	resp, err := h.service.Plan(r.Context(), loc, f, r.URL.Query())
	if err != nil {
		w.WriteHeader(media.Status(err))
		return
	}

	// Registered before the hijack so shutdown cannot miss the stream.
	if !h.track() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	defer h.streams.Done()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade failed, response already sent
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stopHalt := context.AfterFunc(h.stop, cancel)
	defer stopHalt()
	// Closing the connection unblocks a write stuck on a stalled client.
	stopClose := context.AfterFunc(ctx, func() { conn.Close() })
	defer stopClose()
	go func() {
		// Drain control frames; any read error means the client went away.
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	active := metrics.ActiveStreams.WithLabelValues("ws")
	active.Inc()
	defer active.Dec()

	n, err := Stream(ctx, conn, f, resp.Segments, h.service.ChunkSize())
	metrics.SentBytesTotal.WithLabelValues("ws").Add(float64(n))
	logger := zerolog.Ctx(r.Context())
	if err != nil {
		logger.Debug().Err(err).Int64("bytes", n).Msg("websocket transfer aborted")
		return
	}

	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	logger.Debug().Int64("bytes", n).Msg("websocket transfer complete")
}

// track adds a stream unless Shutdown has begun.
func (h *Handler) track() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		return false
	}
	h.streams.Add(1)
	return true
}

// Stream writes segs to conn: one binary frame per literal segment, then the
// file range in frames of at most chunk bytes.
func Stream(ctx context.Context, conn WebSocketConn, src io.ReaderAt, segs []seek.Segment, chunk int) (int64, error) {
	return media.Frames(ctx, src, segs, chunk, func(b []byte) error {
		if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return err
		}
		return conn.WriteMessage(websocket.BinaryMessage, b)
	})
}

// Shutdown waits for in-flight streams to finish. When ctx expires first the
// remaining streams are cancelled, their connections closed, and ctx's error
// is returned once they have exited.
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closing = true
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.streams.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		h.halt()
		<-done
		return ctx.Err()
	}
}
