// Package content decodes file blobs returned by the contents API and
// memoizes them for the duration of one run.
package content

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/simple-icons/release-action/internal/domain"
)

const encodingBase64 = "base64"

// ErrUnknownEncoding is returned when the platform hands back content in an
// encoding other than base64. It is a contract violation, not a data
// anomaly, and callers must not swallow it.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Decode returns the UTF-8 text of a blob.
func Decode(data, encoding string) (string, error) {
	if encoding != encodingBase64 {
		return "", fmt.Errorf("%w %q", ErrUnknownEncoding, encoding)
	}
	// The API wraps base64 payloads at 60 columns.
	clean := strings.NewReplacer("\n", "", "\r", "").Replace(data)
	raw, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	return string(raw), nil
}

// Source fetches still-encoded file content at a ref.
type Source interface {
	GetFileContent(ctx context.Context, path, ref string) (domain.Blob, error)
}

type cacheKey struct {
	path string
	ref  string
}

// Cache memoizes decoded file content by (path, ref). Content at a ref does
// not change while a run is in progress, so entries never expire. A Cache is
// meant for a single run and is not safe for concurrent use.
type Cache struct {
	source  Source
	entries map[cacheKey]string
}

// NewCache creates an empty cache in front of source.
func NewCache(source Source) *Cache {
	return &Cache{source: source, entries: make(map[cacheKey]string)}
}

// Get returns the decoded content of path at ref, fetching it at most once.
// Failures are not cached.
func (c *Cache) Get(ctx context.Context, path, ref string) (string, error) {
	key := cacheKey{path: path, ref: ref}
	if text, ok := c.entries[key]; ok {
		return text, nil
	}

	blob, err := c.source.GetFileContent(ctx, path, ref)
	if err != nil {
		return "", err
	}
	text, err := Decode(blob.Content, blob.Encoding)
	if err != nil {
		return "", fmt.Errorf("%s@%s: %w", path, ref, err)
	}
	c.entries[key] = text
	return text, nil
}
