// If you are AI: This file maps URL paths onto configured directories and opens FLV files.
// Open errors are classified so handlers can answer 404, 403 or 500.

package media

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"vodflv/internal/config"
	"vodflv/internal/core/seek"
)

var (
	ErrNotFound  = errors.New("media: file not found")
	ErrForbidden = errors.New("media: permission denied")
)

// Location is a configured URL prefix served from a directory.
type Location struct {
	Prefix string
	Root   string
	Mode   seek.Mode
}

// File is an open FLV file. It is read with ReadAt only, so one File may be
// shared by concurrent readers.
type File struct {
	*os.File
	Name    string // Path relative to the location root
	Size    int64
	ModTime time.Time
}

// Library resolves request paths against the configured locations.
type Library struct {
	locations []Location // Longest prefix first
}

// NewLibrary creates a library from location configuration.
func NewLibrary(locs []config.LocationConfig) *Library {
	lib := &Library{locations: make([]Location, 0, len(locs))}
	for _, l := range locs {
		mode := seek.ModeTime
		if l.Mode == config.ModeByte {
			mode = seek.ModeByte
		}
		lib.locations = append(lib.locations, Location{Prefix: l.Prefix, Root: l.Root, Mode: mode})
	}
	sort.SliceStable(lib.locations, func(i, j int) bool {
		return len(lib.locations[i].Prefix) > len(lib.locations[j].Prefix)
	})
	return lib
}

// Locations returns the configured locations, longest prefix first.
func (l *Library) Locations() []Location {
	return l.locations
}

// Location returns the location registered under prefix.
func (l *Library) Location(prefix string) (Location, bool) {
	for _, loc := range l.locations {
		if loc.Prefix == prefix {
			return loc, true
		}
	}
	return Location{}, false
}

// Match finds the location serving urlPath and returns the path relative to
// its root. The relative path keeps any trailing slash so Open can reject it.
func (l *Library) Match(urlPath string) (Location, string, bool) {
	for _, loc := range l.locations {
		rest, ok := strings.CutPrefix(urlPath, loc.Prefix)
		if !ok || !strings.HasPrefix(rest, "/") {
			continue
		}
		return loc, rest[1:], true
	}
	return Location{}, "", false
}

// Open opens rel inside loc. Directories, paths with a trailing slash and
// paths leaving the root report ErrNotFound.
func (l *Library) Open(loc Location, rel string) (*File, error) {
	if rel == "" || strings.HasSuffix(rel, "/") {
		return nil, ErrNotFound
	}
	clean := path.Clean("/" + rel)
	if clean != "/"+rel || strings.Contains(rel, "\\") {
		// Rejects "..", "." and doubled slashes rather than silently rewriting them.
		return nil, ErrNotFound
	}

	full := filepath.Join(loc.Root, filepath.FromSlash(clean))
	f, err := os.Open(full)
	if err != nil {
		return nil, classify(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, ErrNotFound
	}
	return &File{File: f, Name: clean[1:], Size: info.Size(), ModTime: info.ModTime()}, nil
}

// classify maps an open error onto the package sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", ErrForbidden, err)
	default:
		return fmt.Errorf("open media file: %w", err)
	}
}

// Status maps an open or planning error to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, seek.ErrStartBeyondEOF):
		return http.StatusRequestedRangeNotSatisfiable
	default:
		return http.StatusInternalServerError
	}
}
