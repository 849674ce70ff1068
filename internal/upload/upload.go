// Package upload turns a user-selected image into a public URL: it names
// the object, checks that the bytes are an image, writes it to a bucket
// without overwriting, and resolves the URL.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/studioadmin/internal/storage"
	_ "golang.org/x/image/webp"
)

var (
	ErrImageRequired = errors.New("please upload an artwork image")
	ErrNotImage      = errors.New("only image files can be uploaded")
	ErrTooLarge      = errors.New("image file is too large")
)

const (
	DefaultPrefix       = "art"
	DefaultCacheControl = "3600"
)

var unsafeNameChar = regexp.MustCompile(`[^\w.-]`)

// SafeFileName replaces every character other than ASCII letters, digits,
// underscore, dot and hyphen with an underscore.
func SafeFileName(name string) string {
	safe := unsafeNameChar.ReplaceAllString(name, "_")
	if safe == "" {
		return "upload"
	}
	return safe
}

// File is an image picked in the form.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Uploader writes images to one bucket.
type Uploader struct {
	bucket       storage.Bucket
	prefix       string
	cacheControl string
	maxBytes     int64
	now          func() time.Time
	suffix       func() string
}

// Option customises an Uploader.
type Option func(*Uploader)

// WithCacheControl sets the cache-control seconds sent with each upload.
func WithCacheControl(value string) Option {
	return func(u *Uploader) {
		if v := strings.TrimSpace(value); v != "" {
			u.cacheControl = v
		}
	}
}

// WithMaxBytes caps the accepted file size.
func WithMaxBytes(limit int64) Option {
	return func(u *Uploader) {
		if limit > 0 {
			u.maxBytes = limit
		}
	}
}

// WithClock overrides time and random suffix sources.
func WithClock(now func() time.Time, suffix func() string) Option {
	return func(u *Uploader) {
		if now != nil {
			u.now = now
		}
		if suffix != nil {
			u.suffix = suffix
		}
	}
}

// NewUploader creates an Uploader for bucket.
func NewUploader(bucket storage.Bucket, opts ...Option) *Uploader {
	u := &Uploader{
		bucket:       bucket,
		prefix:       DefaultPrefix,
		cacheControl: DefaultCacheControl,
		maxBytes:     10 << 20,
		now:          time.Now,
		suffix:       randomSuffix,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// Key builds <prefix>_<unix millis>_<random>_<safe name>.
func (u *Uploader) Key(name string) string {
	return fmt.Sprintf("%s_%d_%s_%s", u.prefix, u.now().UnixMilli(), u.suffix(), SafeFileName(name))
}

// Upload stores f and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, f File) (string, error) {
	if f.Body == nil {
		return "", ErrImageRequired
	}

	data, err := io.ReadAll(io.LimitReader(f.Body, u.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > u.maxBytes {
		return "", ErrTooLarge
	}
	if len(data) == 0 {
		return "", ErrImageRequired
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", ErrNotImage
	}

	contentType := strings.TrimSpace(f.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}

	key := u.Key(f.Name)
	if err := u.bucket.Upload(ctx, key, bytes.NewReader(data), storage.UploadOptions{
		CacheControl: u.cacheControl,
		ContentType:  contentType,
		Upsert:       false,
	}); err != nil {
		return "", err
	}

	return u.bucket.PublicURL(key), nil
}

// ResolveSource returns the URL a record should point at: a fresh upload
// when file is set, otherwise the existing one. Neither is ErrImageRequired.
func (u *Uploader) ResolveSource(ctx context.Context, file *File, existing string) (string, error) {
	if file != nil {
		return u.Upload(ctx, *file)
	}
	if src := strings.TrimSpace(existing); src != "" {
		return src, nil
	}
	return "", ErrImageRequired
}
