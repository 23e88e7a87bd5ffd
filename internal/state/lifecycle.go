package state

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/tramp-freighter/internal/entropy"
	"github.com/talgya/tramp-freighter/internal/model"
	"github.com/talgya/tramp-freighter/internal/savegame"
	"github.com/talgya/tramp-freighter/internal/ship"
)

// NewGame replaces any loaded state with a fresh game docked at the
// starting system and writes it out immediately.
func (s *Store) NewGame() error {
	t := s.tuning
	start, err := s.catalog.System(t.StartingSystem)
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	stats, err := s.computeStats(nil)
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}

	prices := s.pricer.Prices(start, 0, nil, nil)
	st := &model.State{
		Player: model.Player{
			Credits:       t.StartingCredits,
			Debt:          t.StartingDebt,
			CurrentSystem: start.ID,
		},
		Ship: model.Ship{
			Name:                t.DefaultShipName,
			Quirks:              ship.RollQuirks(entropy.Seeded(s.seed), t.QuirksPerShip),
			Upgrades:            []string{},
			Fuel:                stats.FuelCapacity,
			Hull:                t.ConditionMax,
			Engine:              t.ConditionMax,
			LifeSupport:         t.ConditionMax,
			FuelCapacity:        stats.FuelCapacity,
			CargoCapacity:       stats.CargoCapacity,
			HiddenCargoCapacity: stats.HiddenCargoCapacity,
			Cargo:               []model.CargoStack{},
			HiddenCargo:         []model.CargoStack{},
		},
		World: model.World{
			VisitedSystems: []int{start.ID},
			PriceKnowledge: map[int]model.PriceKnowledge{
				start.ID: {LastVisit: 0, Prices: clonePrices(prices), Source: model.SourceVisited},
			},
			ActiveEvents:        []model.ActiveEvent{},
			MarketConditions:    model.MarketConditions{},
			CurrentSystemPrices: prices,
			NPCState:            map[string]model.NPCState{},
		},
		Meta: model.Meta{
			Version: model.CurrentVersion,
			GameID:  uuid.New().String(),
		},
	}
	s.state = st

	slog.Info("new game started",
		"game", st.Meta.GameID,
		"system", start.Name,
		"credits", humanize.Comma(int64(st.Player.Credits)),
		"quirks", st.Ship.Quirks,
	)
	s.emitAll()
	if err := s.ForceSave(); err != nil {
		slog.Warn("initial save failed", "error", err)
	}
	return nil
}

// LoadGame replaces the state with the stored save. A missing, corrupt or
// incompatible save is reported as false and leaves the store unchanged.
func (s *Store) LoadGame() bool {
	blob, found, err := s.storage.Read(s.saveKey)
	if err != nil {
		slog.Warn("reading save failed", "key", s.saveKey, "error", err)
		return false
	}
	if !found {
		return false
	}
	st, err := savegame.Load(blob, s.catalog, s.tuning)
	if err != nil {
		slog.Warn("discarding unusable save", "key", s.saveKey, "error", err)
		return false
	}

	// Saves migrated from before the arrival snapshot existed have none.
	if len(st.World.CurrentSystemPrices) == 0 {
		sys, _ := s.catalog.System(st.Player.CurrentSystem)
		st.World.CurrentSystemPrices = s.pricer.Prices(sys, st.Player.DaysElapsed, st.World.ActiveEvents, st.World.MarketConditions)
	}

	s.state = st
	slog.Info("game loaded",
		"game", st.Meta.GameID,
		"version", st.Meta.Version,
		"day", st.Player.DaysElapsed,
		"credits", humanize.Comma(int64(st.Player.Credits)),
	)
	s.emitAll()
	return true
}

// SaveGame writes the state unless the last write was less than the save
// interval ago. A skipped save is dropped, not queued; the next mutation
// saves a newer state anyway.
func (s *Store) SaveGame() error {
	s.must()
	if !s.lastSave.IsZero() && s.now().Sub(s.lastSave) < s.saveInterval {
		slog.Debug("save debounced", "since", s.now().Sub(s.lastSave))
		return nil
	}
	return s.ForceSave()
}

// ForceSave writes the state regardless of the save interval.
func (s *Store) ForceSave() error {
	st := s.must()
	now := s.now()
	st.Meta.Version = model.CurrentVersion
	st.Meta.Timestamp = now.UnixMilli()

	blob, err := savegame.Serialize(st)
	if err != nil {
		return err
	}
	if err := s.storage.Write(s.saveKey, blob, st.Meta.Version); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	s.lastSave = now
	return nil
}

// ClearSave deletes the stored save and drops the loaded game.
func (s *Store) ClearSave() error {
	if err := s.storage.Delete(s.saveKey); err != nil {
		return fmt.Errorf("clear save: %w", err)
	}
	s.state = nil
	s.lastSave = time.Time{}
	slog.Info("save cleared", "key", s.saveKey)
	return nil
}

// persist is the write-through used by mutations. Failures are logged; the
// in-memory state stays authoritative.
func (s *Store) persist() {
	if err := s.SaveGame(); err != nil {
		slog.Warn("save failed", "error", err)
	}
}

// emitAll announces every subtree, after a game is created or loaded.
func (s *Store) emitAll() {
	st := s.state
	emit(s.bus, CreditsChanged, st.Player.Credits)
	emit(s.bus, DebtChanged, st.Player.Debt)
	emit(s.bus, FuelChanged, st.Ship.Fuel)
	emit(s.bus, CargoChanged, cloneStacks(st.Ship.Cargo))
	emit(s.bus, HiddenCargoChanged, cloneStacks(st.Ship.HiddenCargo))
	emit(s.bus, LocationChanged, st.Player.CurrentSystem)
	emit(s.bus, TimeChanged, st.Player.DaysElapsed)
	emit(s.bus, PriceKnowledgeChanged, model.ClonePriceKnowledge(st.World.PriceKnowledge))
	emit(s.bus, ActiveEventsChanged, cloneEvents(st.World.ActiveEvents))
	emit(s.bus, ShipConditionChanged, conditionOf(st.Ship))
	emit(s.bus, ShipNameChanged, st.Ship.Name)
	emit(s.bus, UpgradesChanged, cloneStrings(st.Ship.Upgrades))
	emit(s.bus, QuirksChanged, cloneStrings(st.Ship.Quirks))
}
