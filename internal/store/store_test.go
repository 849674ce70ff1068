package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/studioadmin/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:store-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

var ignoreModel = cmpopts.IgnoreFields(db.Model{}, "ID", "CreatedAt", "UpdatedAt", "DeletedAt")

func TestCollectionInsertSelectRoundTrip(t *testing.T) {
	ctx := context.Background()
	classes := NewCollection[db.ClassRecord](setupStoreTestDB(t), "classes")

	first := db.ClassRecord{Icon: "Brush", Title: "Intro to Oils", Description: "Layers and glazes", Duration: "6 weeks", Level: "Beginner"}
	second := db.ClassRecord{Icon: "PenTool", Title: "Ink Lines", Description: "Pen control", Duration: "4 weeks", Level: "All Levels"}
	require.NoError(t, classes.Insert(ctx, &first))
	require.NoError(t, classes.Insert(ctx, &second))
	require.NotZero(t, first.ID)
	require.Greater(t, second.ID, first.ID)

	items, err := classes.Select(ctx, Asc("id"))
	require.NoError(t, err)
	require.Len(t, items, 2)
	if diff := cmp.Diff([]db.ClassRecord{first, second}, items, ignoreModel); diff != "" {
		t.Fatalf("listed records differ from inserted (-want +got):\n%s", diff)
	}

	desc, err := classes.Select(ctx, Desc("id"))
	require.NoError(t, err)
	require.Equal(t, second.ID, desc[0].ID)

	total, err := classes.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestCollectionUpdateWritesZeroValues(t *testing.T) {
	ctx := context.Background()
	testimonials := NewCollection[db.Testimonial](setupStoreTestDB(t), "testimonials")

	row := db.Testimonial{Name: "Ana", Course: "Watercolor", Stars: 5, Quote: "Lovely"}
	require.NoError(t, testimonials.Insert(ctx, &row))

	update := db.Testimonial{Name: "Ana", Course: "", Stars: 0, Quote: "Lovely"}
	require.NoError(t, testimonials.Update(ctx, row.ID, &update))
	require.Equal(t, row.ID, update.ID)
	require.Equal(t, 0, update.Stars)
	require.Empty(t, update.Course)
	require.False(t, update.CreatedAt.IsZero())
}

func TestCollectionMissingRows(t *testing.T) {
	ctx := context.Background()
	artworks := NewCollection[db.Artwork](setupStoreTestDB(t), "artworks")

	err := artworks.Update(ctx, 42, &db.Artwork{Src: "x", Title: "y"})
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, "record not found", Message(err))

	err = artworks.Delete(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)

	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	require.Equal(t, "delete", storeErr.Op)
	require.Equal(t, "artworks", storeErr.Collection)

	first, err := artworks.First(ctx, Asc("id"))
	require.NoError(t, err)
	require.Nil(t, first)
}

func TestCollectionDeletedIDNeverReappears(t *testing.T) {
	ctx := context.Background()
	artworks := NewCollection[db.Artwork](setupStoreTestDB(t), "artworks")

	gone := db.Artwork{Src: "https://cdn.test/a.png", Title: "Gone"}
	require.NoError(t, artworks.Insert(ctx, &gone))
	require.NoError(t, artworks.Delete(ctx, gone.ID))

	next := db.Artwork{Src: "https://cdn.test/b.png", Title: "Next"}
	require.NoError(t, artworks.Insert(ctx, &next))
	require.NotEqual(t, gone.ID, next.ID)

	items, err := artworks.Select(ctx, Asc("id"))
	require.NoError(t, err)
	for _, item := range items {
		require.NotEqual(t, gone.ID, item.ID)
	}
	require.ErrorIs(t, artworks.Delete(ctx, gone.ID), ErrNotFound)
}

func TestCollectionSurfacesBackendMessage(t *testing.T) {
	gdb := setupStoreTestDB(t)
	require.NoError(t, gdb.Migrator().DropTable(&db.ClassRecord{}))

	_, err := NewCollection[db.ClassRecord](gdb, "classes").Select(context.Background(), Asc("id"))
	require.Error(t, err)
	require.Contains(t, Message(err), "no such table")
}
