package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

type imageUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryBucket stores images in a Cloudinary folder named after the bucket.
// Public IDs are the key without its extension; the extension selects the
// delivery format, so PublicURL is a pure function of the key.
type CloudinaryBucket struct {
	name      string
	cloudName string
	uploader  imageUploader
}

// NewCloudinaryBucket builds a bucket from Cloudinary credentials.
func NewCloudinaryBucket(name, cloudName, apiKey, apiSecret string) (*CloudinaryBucket, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &CloudinaryBucket{name: name, cloudName: cloudName, uploader: up}, nil
}

func (b *CloudinaryBucket) Name() string {
	return b.name
}

var (
	falseValue = false
	trueValue  = true
)

// Upload sends body under the key's public ID. opts.CacheControl and
// opts.ContentType are not sent: Cloudinary sets delivery caching per
// account and detects the format from the bytes. With Upsert off,
// Cloudinary answers a taken public ID with the stored asset and
// "existing": true instead of an error; that answer maps to ErrObjectExists.
func (b *CloudinaryBucket) Upload(ctx context.Context, key string, body io.Reader, opts UploadOptions) error {
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}

	overwrite := &falseValue
	if opts.Upsert {
		overwrite = &trueValue
	}

	result, err := b.uploader.Upload(ctx, body, uploader.UploadParams{
		Folder:         b.name,
		PublicID:       strings.TrimSuffix(cleaned, path.Ext(cleaned)),
		Overwrite:      overwrite,
		UniqueFilename: &falseValue,
		ResourceType:   "image",
	})
	if err != nil {
		return fmt.Errorf("cloudinary upload: %w", err)
	}
	if result == nil {
		return errors.New("cloudinary upload: empty response")
	}
	if msg := strings.TrimSpace(result.Error.Message); msg != "" {
		if strings.Contains(strings.ToLower(msg), "already exists") {
			return ErrObjectExists
		}
		return errors.New(msg)
	}
	if !opts.Upsert && existingAsset(result) {
		return ErrObjectExists
	}
	return nil
}

// existingAsset reads the "existing" flag from the raw upload response.
func existingAsset(result *uploader.UploadResult) bool {
	var raw map[string]interface{}
	switch v := result.Response.(type) {
	case *map[string]interface{}:
		if v != nil {
			raw = *v
		}
	case map[string]interface{}:
		raw = v
	}
	existing, _ := raw["existing"].(bool)
	return existing
}

func (b *CloudinaryBucket) PublicURL(key string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s/%s", b.cloudName, b.name, strings.TrimLeft(key, "/"))
}
