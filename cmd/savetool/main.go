// Command savetool inspects, exports and restores tramp-freighter saves
// without starting the game server.
//
// Usage:
//
//	savetool inspect
//	savetool export <file>
//	savetool import <file>
//	savetool clear
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/tramp-freighter/internal/config"
	"github.com/talgya/tramp-freighter/internal/persistence"
	"github.com/talgya/tramp-freighter/internal/savegame"
)

var errUsage = errors.New("usage: savetool inspect | export <file> | import <file> | clear")

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		slog.Error("savetool failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := persistence.Open(cfg.SavePath)
	if err != nil {
		return err
	}
	defer db.Close()

	switch args[0] {
	case "inspect":
		return inspect(cfg, db)
	case "export":
		if len(args) != 2 {
			return errUsage
		}
		return export(cfg, db, args[1])
	case "import":
		if len(args) != 2 {
			return errUsage
		}
		return restore(cfg, db, args[1])
	case "clear":
		if err := db.Delete(persistence.SaveKey); err != nil {
			return err
		}
		slog.Info("save cleared", "path", cfg.SavePath)
		return nil
	default:
		return errUsage
	}
}

func inspect(cfg config.Config, db *persistence.DB) error {
	saves, err := db.Saved()
	if err != nil {
		return err
	}
	if len(saves) == 0 {
		fmt.Println("no saves")
		return nil
	}
	for _, s := range saves {
		fmt.Printf("%s  v%s  %s  saved %s\n",
			s.Key, s.Version, humanize.Bytes(uint64(s.Size)), humanize.Time(s.SavedAt))
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	tuning, err := cfg.Tuning()
	if err != nil {
		return err
	}
	blob, ok, err := db.Read(persistence.SaveKey)
	if err != nil || !ok {
		return err
	}
	st, err := savegame.Load(blob, catalog, tuning)
	if err != nil {
		fmt.Printf("current save does not load: %v\n", err)
		return nil
	}
	sys, _ := catalog.System(st.Player.CurrentSystem)
	fmt.Printf("%s: day %d at %s, %s credits, %s debt, %d upgrades\n",
		st.Ship.Name, st.Player.DaysElapsed, sys.Name,
		humanize.Comma(int64(st.Player.Credits)), humanize.Comma(int64(st.Player.Debt)),
		len(st.Ship.Upgrades))
	return nil
}

func export(cfg config.Config, db *persistence.DB, path string) error {
	blob, ok, err := db.Read(persistence.SaveKey)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no save in %s", cfg.SavePath)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	tuning, err := cfg.Tuning()
	if err != nil {
		return err
	}
	// Older saves are exported in the current format.
	st, err := savegame.Load(blob, catalog, tuning)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	canonical, err := savegame.Serialize(st)
	if err != nil {
		return err
	}
	if err := savegame.Export(path, canonical, st.Meta); err != nil {
		return err
	}
	slog.Info("save exported", "file", path, "version", st.Meta.Version)
	return nil
}

// restore checks an exported save loads under the current catalog before
// replacing the stored one.
func restore(cfg config.Config, db *persistence.DB, path string) error {
	header, blob, err := savegame.Import(path)
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	tuning, err := cfg.Tuning()
	if err != nil {
		return err
	}
	st, err := savegame.Load(blob, catalog, tuning)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	canonical, err := savegame.Serialize(st)
	if err != nil {
		return err
	}
	if err := db.Write(persistence.SaveKey, canonical, st.Meta.Version); err != nil {
		return err
	}
	slog.Info("save imported",
		"file", path,
		"from_version", header.Version,
		"game", header.GameID,
		"exported", time.UnixMilli(header.Timestamp).Format(time.RFC3339),
	)
	return nil
}
