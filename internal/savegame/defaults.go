package savegame

import (
	"slices"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/model"
	"github.com/talgya/tramp-freighter/internal/ship"
)

// AddStateDefaults fills optional fields a save may predate so nothing
// downstream meets a nil subtree. It is idempotent and never overwrites a
// value that is present.
func AddStateDefaults(s *model.State, t balance.Tuning) {
	sh := &s.Ship
	sh.Name = ship.SanitizeName(sh.Name, t.DefaultShipName, t.MaxShipNameLength)
	if sh.Quirks == nil {
		sh.Quirks = []string{}
	}
	if sh.Upgrades == nil {
		sh.Upgrades = []string{}
	}
	if sh.Cargo == nil {
		sh.Cargo = []model.CargoStack{}
	}
	if sh.HiddenCargo == nil {
		sh.HiddenCargo = []model.CargoStack{}
	}
	base := ship.BaseStats(t.BaseCargoCapacity, t.BaseHiddenCapacity, t.BaseFuelCapacity)
	if stats, err := ship.ComputeStats(base, sh.Upgrades); err == nil {
		sh.CargoCapacity = stats.CargoCapacity
		sh.HiddenCargoCapacity = stats.HiddenCargoCapacity
		sh.FuelCapacity = stats.FuelCapacity
	}

	w := &s.World
	if w.VisitedSystems == nil {
		w.VisitedSystems = []int{}
	}
	if !slices.Contains(w.VisitedSystems, s.Player.CurrentSystem) {
		w.VisitedSystems = append(w.VisitedSystems, s.Player.CurrentSystem)
		slices.Sort(w.VisitedSystems)
	}
	if w.PriceKnowledge == nil {
		w.PriceKnowledge = map[int]model.PriceKnowledge{}
	}
	for id, k := range w.PriceKnowledge {
		if k.Prices == nil {
			k.Prices = map[string]int{}
		}
		if k.Source == "" {
			k.Source = model.SourceVisited
		}
		w.PriceKnowledge[id] = k
	}
	if w.ActiveEvents == nil {
		w.ActiveEvents = []model.ActiveEvent{}
	}
	if w.MarketConditions == nil {
		w.MarketConditions = model.MarketConditions{}
	}
	if w.CurrentSystemPrices == nil {
		w.CurrentSystemPrices = map[string]int{}
	}
	if w.NPCState == nil {
		w.NPCState = map[string]model.NPCState{}
	}
	for id, n := range w.NPCState {
		if n.Flags == nil {
			n.Flags = []string{}
			w.NPCState[id] = n
		}
	}

	if s.Meta.Version == "" {
		s.Meta.Version = model.CurrentVersion
	}
}
