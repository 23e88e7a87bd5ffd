package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/galaxy"
	"github.com/talgya/tramp-freighter/internal/persistence"
	"github.com/talgya/tramp-freighter/internal/state"
)

func seedSave(t *testing.T, dbPath string) {
	t.Helper()
	db, err := persistence.Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	store := state.New(state.Options{
		Catalog: galaxy.Default(),
		Tuning:  balance.Default(),
		Storage: db,
		Seed:    7,
	})
	if err := store.NewGame(); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
}

func TestExportClearImport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "saves.db")
	t.Setenv("TRADER_SAVE_PATH", dbPath)
	seedSave(t, dbPath)

	file := filepath.Join(dir, "backup.tfs")
	if err := run([]string{"export", file}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := run([]string{"clear"}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := run([]string{"export", filepath.Join(dir, "none.tfs")}); err == nil {
		t.Fatal("export after clear should fail")
	}
	if err := run([]string{"import", file}); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := run([]string{"inspect"}); err != nil {
		t.Fatalf("inspect: %v", err)
	}

	db, err := persistence.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, ok, _ := db.Read(persistence.SaveKey); !ok {
		t.Fatal("save missing after import")
	}
}

func TestUsage(t *testing.T) {
	t.Setenv("TRADER_SAVE_PATH", filepath.Join(t.TempDir(), "saves.db"))
	for _, args := range [][]string{nil, {"bogus"}, {"export"}} {
		if err := run(args); !errors.Is(err, errUsage) {
			t.Errorf("run(%v) = %v, want usage error", args, err)
		}
	}
}
