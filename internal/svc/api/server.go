// If you are AI: This file provides HTTP API service integration.
// The API exposes server state and seek inspection without sending media bytes.

package api

import (
	"net/http"
	"time"

	"vodflv/internal/svc/media"
)

// Service provides HTTP API functionality.
type Service struct {
	media     *media.Service
	version   string
	startTime int64
}

// NewService creates a new API service.
func NewService(mediaSvc *media.Service, version string) *Service {
	return &Service{
		media:     mediaSvc,
		version:   version,
		startTime: getCurrentTime(),
	}
}

// RegisterRoutes registers API routes on the provided mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	// API routes
	mux.HandleFunc("/api/server", s.handleServer)
	mux.HandleFunc("/api/probe", s.handleProbe)
	mux.HandleFunc("/api/seek", s.handleSeek)
}

// getCurrentTime returns current Unix timestamp.
// Extracted for testability.
func getCurrentTime() int64 {
	return time.Now().Unix()
}
