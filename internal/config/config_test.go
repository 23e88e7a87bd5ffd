package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.SaveInterval != 2*time.Second || cfg.SavePath != "data/tramp-freighter.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Fatalf("level = %v", cfg.Level())
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TRADER_PORT", "9000")
	t.Setenv("TRADER_SAVE_INTERVAL", "500ms")
	t.Setenv("TRADER_LOG_LEVEL", "debug")
	t.Setenv("TRADER_CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 || cfg.SaveInterval != 500*time.Millisecond {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("level = %v", cfg.Level())
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", cfg.CORSOrigins)
	}
}

func TestLoad_Error(t *testing.T) {
	t.Setenv("TRADER_PORT", "not-an-int")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("err = %v, want parse env error", err)
	}
}

func TestTuning_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("starting_credits: 900\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tun, err := Config{TuningPath: path}.Tuning()
	if err != nil {
		t.Fatalf("Tuning: %v", err)
	}
	if tun.StartingCredits != 900 || tun.StartingDebt != 10000 {
		t.Fatalf("tuning = %+v", tun)
	}
}

func TestCatalog_Default(t *testing.T) {
	cat, err := Config{}.Catalog()
	if err != nil || cat.Len() != 14 {
		t.Fatalf("Catalog = %v, %v", cat, err)
	}
}
