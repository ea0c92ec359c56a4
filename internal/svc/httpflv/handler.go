// If you are AI: This file implements the HTTP handler for FLV file requests.
// Handles GET/HEAD {prefix}/{file}.flv with start/end seek arguments.

package httpflv

import (
	"net/http"

	"github.com/rs/zerolog"

	"vodflv/internal/metrics"
	"vodflv/internal/svc/media"
)

// Handler serves seekable FLV files over plain HTTP.
type Handler struct {
	service *media.Service
}

// NewHandler creates a new HTTP-FLV handler.
func NewHandler(service *media.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// ServeHTTP plans and sends one file response.
// Endpoint: GET|HEAD {prefix}/{path}?start=&end=
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	lib := h.service.Library()
	loc, rel, ok := lib.Match(r.URL.Path)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	f, err := lib.Open(loc, rel)
	if err != nil {
		fail(w, r, err)
		return
	}
	defer f.Close()

	resp, err := h.service.Plan(r.Context(), loc, f, r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}

	// NOTE: ServeContent supplies Content-Length, Last-Modified, Accept-Ranges
	// and HEAD handling; Range requests address the assembled stream.
	w.Header().Set("Content-Type", "video/x-flv")
	cw := &countingWriter{ResponseWriter: w}
	active := metrics.ActiveStreams.WithLabelValues("http")
	active.Inc()
	defer active.Dec()
	defer func() { metrics.SentBytesTotal.WithLabelValues("http").Add(float64(cw.n)) }()

	http.ServeContent(cw, r, "", f.ModTime, media.NewReader(r.Context(), f, resp.Segments))
}

// fail answers with the status matching err.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := media.Status(err)
	logger := zerolog.Ctx(r.Context())
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("media request failed")
	} else {
		logger.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("media request rejected")
	}
	http.Error(w, http.StatusText(status), status)
}

// countingWriter counts body bytes.
type countingWriter struct {
	http.ResponseWriter
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.ResponseWriter.Write(p)
	c.n += int64(n)
	return n, err
}
