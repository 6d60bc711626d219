// Package storage implements the blob store behind deliverable, resume and
// proof uploads. Files land on local disk under a configured directory; the
// rest of the application treats the returned reference as an opaque path
// and serves it verbatim over the static route.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes uploads under Dir and returns opaque references relative to
// the static root.
type Store struct {
	Dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Save writes the content to disk under a sanitized, uuid-prefixed name and
// returns the reference callers persist. The uuid prefix prevents two
// uploads with the same name from clobbering each other.
func (s *Store) Save(src io.Reader, filename string) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		name = "file"
	}
	stored := uuid.NewString() + "_" + name
	path := filepath.Join(s.Dir, stored)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "uploads/" + stored, nil
}

// SanitizeFilename strips directory components and path traversal from a
// caller-supplied name, keeping only a conservative character set. The
// result may be empty when nothing safe remains.
func SanitizeFilename(raw string) string {
	// drop any directory part, whichever separator the client used
	raw = raw[strings.LastIndexByte(raw, '/')+1:]
	raw = raw[strings.LastIndexByte(raw, '\\')+1:]

	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "._")
	return name
}
