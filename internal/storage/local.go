package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalBucket writes objects below a directory that the router serves
// statically. Cache control is applied by the static handler, not per file.
type LocalBucket struct {
	name    string
	root    string
	baseURL string
}

// NewLocalBucket stores objects in dir/name and serves them from
// urlPath/name. siteBaseURL may be empty for host-relative URLs.
func NewLocalBucket(name, dir, siteBaseURL, urlPath string) *LocalBucket {
	base := strings.TrimRight(siteBaseURL, "/") + "/" + strings.Trim(urlPath, "/")
	return &LocalBucket{
		name:    name,
		root:    filepath.Join(dir, name),
		baseURL: strings.TrimRight(base, "/") + "/" + name,
	}
}

func (b *LocalBucket) Name() string {
	return b.name
}

// Root is the directory holding this bucket's objects.
func (b *LocalBucket) Root() string {
	return b.root
}

func (b *LocalBucket) Upload(ctx context.Context, key string, body io.Reader, opts UploadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}

	target := filepath.Join(b.root, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create bucket directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.Upsert {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	file, err := os.OpenFile(target, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrObjectExists
		}
		return fmt.Errorf("open object: %w", err)
	}

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(target)
		return fmt.Errorf("write object: %w", err)
	}
	return file.Close()
}

func (b *LocalBucket) PublicURL(key string) string {
	return b.baseURL + "/" + strings.TrimLeft(key, "/")
}
