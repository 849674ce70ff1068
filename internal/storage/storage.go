// Package storage is the object-store client used for artwork images.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	// ErrObjectExists is returned when Upsert is off and the key is taken.
	ErrObjectExists = errors.New("the resource already exists")
	// ErrInvalidPath rejects keys that would escape the bucket.
	ErrInvalidPath = errors.New("invalid object path")
)

// UploadOptions mirrors the options of a storage upload call.
type UploadOptions struct {
	CacheControl string
	ContentType  string
	Upsert       bool
}

// Bucket stores objects under flat keys and resolves their public URLs.
type Bucket interface {
	Name() string
	Upload(ctx context.Context, key string, body io.Reader, opts UploadOptions) error
	PublicURL(key string) string
}

func cleanKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || strings.HasPrefix(trimmed, "/") || strings.Contains(trimmed, "\\") {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
