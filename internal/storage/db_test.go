package storage

import (
	"path/filepath"
	"testing"

	"costcheck/internal/appdirs"
)

func TestResolveDBPathUsesDataDir(t *testing.T) {
	originalResolver := appDirsResolver
	t.Cleanup(func() {
		appDirsResolver = originalResolver
	})

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data-root")
	appDirsResolver = func() (appdirs.Paths, error) {
		return appdirs.Paths{
			LogDir:  filepath.Join(tempDir, "logs"),
			DataDir: dataDir,
		}, nil
	}

	got, err := resolveDBPath()
	if err != nil {
		t.Fatalf("resolveDBPath() returned error: %v", err)
	}

	want := filepath.Join(dataDir, "history.db")
	if got != want {
		t.Fatalf("resolveDBPath() = %q, want %q", got, want)
	}
}

func TestInitDBCreatesDatabase(t *testing.T) {
	originalResolver := appDirsResolver
	t.Cleanup(func() {
		appDirsResolver = originalResolver
		_ = Close()
	})

	dataDir := filepath.Join(t.TempDir(), "nested", "data")
	appDirsResolver = func() (appdirs.Paths, error) {
		return appdirs.Paths{DataDir: dataDir}, nil
	}

	if err := InitDB(); err != nil {
		t.Fatalf("InitDB() returned error: %v", err)
	}
	if DB == nil {
		t.Fatal("DB is nil after InitDB()")
	}
	if !DB.Migrator().HasTable("conformance_runs") {
		t.Fatal("conformance_runs table was not migrated")
	}
}
