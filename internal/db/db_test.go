package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenCreatesParentDirAndTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "studio.db")

	gdb, err := Open(DriverSQLite, path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file to exist: %v", err)
	}

	for _, table := range []string{"classes", "contact_info", "testimonials", "artworks"} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to be migrated", table)
		}
	}
	if !gdb.Migrator().HasColumn(&ContactInfo{}, "map_url") {
		t.Fatalf("expected contact_info.map_url column")
	}

	if err := Ping(gdb); err != nil {
		t.Fatalf("expected ping to succeed: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("postgres", "whatever"); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestEnsureParentDirRejectsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write blocker: %v", err)
	}

	if err := ensureParentDir(filepath.Join(blocker, "studio.db")); err == nil {
		t.Fatalf("expected error when parent is a file")
	}
}
