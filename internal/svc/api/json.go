// If you are AI: This file writes JSON responses for the API handlers.
// Numbers taken from media files may be NaN or infinite and are encoded as null.

package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
)

// writeJSON writes a JSON response.
// The body is encoded before the status goes out so encoding failures become a 500.
func (s *Service) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		buf.Reset()
		buf.WriteString(`{"error":"internal error"}` + "\n")
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// Float is a float64 read from a media file. NaN and infinities encode as null.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if !isFinite(v) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// finiteProperties drops non-finite numbers from decoded metadata.
func finiteProperties(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		if f, ok := v.(float64); ok && !isFinite(f) {
			continue
		}
		out[k] = v
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// writeError writes an error response.
func (s *Service) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}
