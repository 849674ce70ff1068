package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/studioadmin/internal/db"
	"github.com/studioadmin/internal/storage"
	"github.com/studioadmin/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// countingCollection records every call that reaches the store.
type countingCollection[T any] struct {
	store.Collection[T]
	calls []string
}

func (c *countingCollection[T]) Select(ctx context.Context, order store.Order) ([]T, error) {
	c.calls = append(c.calls, "select")
	return c.Collection.Select(ctx, order)
}

func (c *countingCollection[T]) First(ctx context.Context, order store.Order) (*T, error) {
	c.calls = append(c.calls, "first")
	return c.Collection.First(ctx, order)
}

func (c *countingCollection[T]) Insert(ctx context.Context, rec *T) error {
	c.calls = append(c.calls, "insert")
	return c.Collection.Insert(ctx, rec)
}

func (c *countingCollection[T]) Update(ctx context.Context, id uint, rec *T) error {
	c.calls = append(c.calls, "update")
	return c.Collection.Update(ctx, id, rec)
}

func (c *countingCollection[T]) Delete(ctx context.Context, id uint) error {
	c.calls = append(c.calls, "delete")
	return c.Collection.Delete(ctx, id)
}

type stubBucket struct {
	keys []string
	err  error
}

func (b *stubBucket) Name() string { return "artworks" }

func (b *stubBucket) Upload(_ context.Context, key string, body io.Reader, _ storage.UploadOptions) error {
	if b.err != nil {
		return b.err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	b.keys = append(b.keys, key)
	return nil
}

func (b *stubBucket) PublicURL(key string) string {
	return "https://cdn.test/artworks/" + key
}
