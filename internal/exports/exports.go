// Package exports persists extracted records as downloadable artifacts keyed
// by a random export identifier.
package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"smart-resume/internal/resume"
	"smart-resume/internal/shared/storage/object"
)

// ErrNotFound is returned when no artifact exists for an identifier.
var ErrNotFound = errors.New("export not found")

// Kind names one artifact format.
type Kind string

const (
	KindJSON Kind = "json"
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
)

// Kinds lists every format Save writes, in download-link order.
var Kinds = []Kind{KindJSON, KindCSV, KindXLSX}

// ParseKind maps a path segment to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindJSON:
		return KindJSON, true
	case KindCSV:
		return KindCSV, true
	case KindXLSX:
		return KindXLSX, true
	default:
		return "", false
	}
}

// ContentType returns the MIME type served for the kind.
func (k Kind) ContentType() string {
	switch k {
	case KindJSON:
		return "application/json"
	case KindCSV:
		return "text/csv"
	case KindXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// NewID returns a fresh identifier: 32 lowercase hex characters.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidID reports whether id has the shape NewID produces.
func ValidID(id string) bool {
	if len(id) != 32 {
		return false
	}
	for _, ch := range id {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			return false
		}
	}
	return true
}

// FileName returns the artifact's storage key and download name.
func FileName(id string, kind Kind) string {
	return fmt.Sprintf("resume_%s.%s", id, kind)
}

// Store writes and resolves artifacts on an object store. Writes for
// different identifiers never touch the same key.
type Store struct {
	objects object.ObjectStore
}

// NewStore wraps an object store.
func NewStore(objects object.ObjectStore) *Store {
	return &Store{objects: objects}
}

// Save writes every artifact kind for id and returns once all are stored.
func (s *Store) Save(ctx context.Context, id string, rec resume.Record) error {
	if !ValidID(id) {
		return fmt.Errorf("invalid export id %q", id)
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range Kinds {
		kind := kind
		g.Go(func() error {
			var buf bytes.Buffer
			if err := Encode(&buf, kind, rec); err != nil {
				return fmt.Errorf("encode %s: %w", kind, err)
			}
			if _, err := s.objects.Put(gctx, FileName(id, kind), kind.ContentType(), &buf); err != nil {
				return fmt.Errorf("write %s: %w", kind, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Open resolves one artifact. Unknown or malformed identifiers yield ErrNotFound.
func (s *Store) Open(ctx context.Context, id string, kind Kind) (io.ReadCloser, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}
	rc, err := s.objects.Open(ctx, FileName(id, kind))
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rc, nil
}
