// If you are AI: This file provides WebSocket-FLV service integration.
// Locations are mirrored under /ws so /ws/vod/a.flv streams /vod/a.flv.

package wsflv

import (
	"context"
	"net/http"

	"vodflv/internal/svc/media"
)

// RoutePrefix is prepended to every location prefix.
const RoutePrefix = "/ws"

// Service provides seekable WebSocket-FLV file delivery.
type Service struct {
	media   *media.Service
	handler *Handler
}

// NewService creates a new WebSocket-FLV service.
func NewService(service *media.Service) *Service {
	return &Service{
		media:   service,
		handler: NewHandler(service),
	}
}

// Patterns returns the mux patterns the service serves, one per location.
func (s *Service) Patterns() []string {
	locs := s.media.Library().Locations()
	patterns := make([]string, 0, len(locs))
	for _, loc := range locs {
		patterns = append(patterns, RoutePrefix+loc.Prefix+"/")
	}
	return patterns
}

// RegisterRoutes registers WebSocket-FLV routes on the provided mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	for _, pattern := range s.Patterns() {
		mux.Handle(pattern, s.handler)
	}
}

// Shutdown gives in-flight streams until ctx expires, then ends them.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.handler.Shutdown(ctx)
}
