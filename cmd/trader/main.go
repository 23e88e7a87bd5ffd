// Command trader runs the trading core behind a local HTTP and websocket
// bridge.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/tramp-freighter/internal/api"
	"github.com/talgya/tramp-freighter/internal/broker"
	"github.com/talgya/tramp-freighter/internal/config"
	"github.com/talgya/tramp-freighter/internal/navigation"
	"github.com/talgya/tramp-freighter/internal/persistence"
	"github.com/talgya/tramp-freighter/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	catalog, err := cfg.Catalog()
	if err != nil {
		slog.Error("failed to load galaxy", "path", cfg.GalaxyPath, "error", err)
		os.Exit(1)
	}
	tuning, err := cfg.Tuning()
	if err != nil {
		slog.Error("failed to load tuning", "path", cfg.TuningPath, "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(cfg.SavePath), 0o755); err != nil {
		slog.Error("failed to create save directory", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(cfg.SavePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.SavePath)

	// ── Game state ────────────────────────────────────────────────────
	store := state.New(state.Options{
		Catalog:      catalog,
		Tuning:       tuning,
		Storage:      db,
		SaveKey:      persistence.SaveKey,
		SaveInterval: cfg.SaveInterval,
		Seed:         cfg.Seed,
	})
	if store.LoadGame() {
		p := store.Player()
		slog.Info("resumed saved game",
			"day", p.DaysElapsed,
			"credits", humanize.Comma(int64(p.Credits)),
			"system", store.CurrentSystem().Name,
		)
	} else {
		slog.Info("no usable save, starting a new game")
		if err := store.NewGame(); err != nil {
			slog.Error("failed to start new game", "error", err)
			os.Exit(1)
		}
	}

	// ── Bridge ────────────────────────────────────────────────────────
	nav := navigation.New(catalog, tuning)
	brk := broker.New(catalog, store.Pricer(), tuning, nil)
	srv := api.NewServer(store, nav, brk, cfg.Port)
	srv.Origins = cfg.CORSOrigins
	srv.ActionRate = cfg.ActionRate

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv.Start(ctx)
	fmt.Printf("\nTramp freighter core listening on http://localhost:%d/api/v1/state\n", cfg.Port)
	fmt.Println("Ctrl+C to stop")

	<-ctx.Done()
	slog.Info("received signal, shutting down")

	// Final save on shutdown.
	if err := srv.Save(); err != nil {
		slog.Error("final save failed", "error", err)
	}
	fmt.Println("Stopped. Game saved.")
}
