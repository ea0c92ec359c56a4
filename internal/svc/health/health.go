// If you are AI: This file implements the health and readiness endpoints for monitoring and integration tests.

package health

import (
	"fmt"
	"net/http"
	"os"
)

// Service provides health check functionality.
type Service struct {
	roots []string
}

// New creates a new health service instance.
// Readiness requires every root to be an existing directory.
func New(roots []string) *Service {
	return &Service{roots: roots}
}

// RegisterRoutes adds health check routes to the provided mux.
// /healthz reports liveness, /readyz reports whether media roots are usable.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
}

// handleHealth responds to health check requests.
// Returns 200 OK to indicate the server is running.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleReady responds 503 with the first unusable root, else 200.
func (s *Service) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.Check(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Check verifies that every root is a directory.
func (s *Service) Check() error {
	for _, root := range s.roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("media root %s: %w", root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("media root %s is not a directory", root)
		}
	}
	return nil
}
