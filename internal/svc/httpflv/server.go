// If you are AI: This file provides HTTP-FLV service integration.
// Each configured location gets its own subtree route on the media mux.

package httpflv

import (
	"net/http"

	"vodflv/internal/svc/media"
)

// Service provides seekable HTTP-FLV file delivery.
type Service struct {
	media   *media.Service
	handler *Handler
}

// NewService creates a new HTTP-FLV service.
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
		patterns = append(patterns, loc.Prefix+"/")
	}
	return patterns
}

// RegisterRoutes registers HTTP-FLV routes on the provided mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	for _, pattern := range s.Patterns() {
		mux.Handle(pattern, s.handler)
	}
}
