package state

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/talgya/tramp-freighter/internal/economy"
	"github.com/talgya/tramp-freighter/internal/model"
	"github.com/talgya/tramp-freighter/internal/ship"
)

func (s *Store) UpdateCredits(credits int) {
	s.must().Player.Credits = credits
	emit(s.bus, CreditsChanged, credits)
}

func (s *Store) UpdateDebt(debt int) {
	s.must().Player.Debt = debt
	emit(s.bus, DebtChanged, debt)
}

// UpdateFuel sets the fuel level. Values outside [0, capacity] are rejected:
// callers are expected to have checked the bounds.
func (s *Store) UpdateFuel(fuel float64) error {
	st := s.must()
	if fuel < 0 || fuel > st.Ship.FuelCapacity || math.IsNaN(fuel) {
		return fmt.Errorf("fuel %.2f outside [0, %.2f]: %w", fuel, st.Ship.FuelCapacity, ErrOutOfRange)
	}
	st.Ship.Fuel = fuel
	emit(s.bus, FuelChanged, fuel)
	return nil
}

// UpdateShipCondition sets hull, engine and life support, clamping each to
// [0, ConditionMax]. A ConditionWarning follows for every system left below
// the warning threshold.
func (s *Store) UpdateShipCondition(hull, engine, lifeSupport float64) {
	st := s.must()
	maxCond := s.tuning.ConditionMax
	st.Ship.Hull = clamp(hull, 0, maxCond)
	st.Ship.Engine = clamp(engine, 0, maxCond)
	st.Ship.LifeSupport = clamp(lifeSupport, 0, maxCond)
	s.emitCondition(st.Ship)
}

// emitCondition announces the ship's condition and any warnings it is under.
func (s *Store) emitCondition(sh model.Ship) {
	emit(s.bus, ShipConditionChanged, conditionOf(sh))
	for _, w := range s.warnings(sh) {
		emit(s.bus, ConditionWarning, w)
	}
}

func (s *Store) warnings(sh model.Ship) []Warning {
	var out []Warning
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"hull", sh.Hull},
		{"engine", sh.Engine},
		{"lifeSupport", sh.LifeSupport},
	} {
		switch {
		case c.value < s.tuning.CriticalThreshold:
			out = append(out, Warning{System: c.name, Level: LevelCritical, Value: c.value})
		case c.value < s.tuning.WarningThreshold:
			out = append(out, Warning{System: c.name, Level: LevelWarning, Value: c.value})
		}
	}
	return out
}

// UpdateTime advances the clock to day. In order it ages price knowledge,
// decays market conditions, refreshes economic events and reprices every
// known system. The arrival snapshot is left alone.
func (s *Store) UpdateTime(day int) error {
	st := s.must()
	elapsed := day - st.Player.DaysElapsed
	if elapsed < 0 {
		return fmt.Errorf("day %d before current day %d: %w", day, st.Player.DaysElapsed, ErrOutOfRange)
	}
	w := &st.World

	for id, k := range w.PriceKnowledge {
		k.LastVisit += elapsed
		w.PriceKnowledge[id] = k
	}

	economy.Recover(w.MarketConditions, elapsed, s.tuning.MarketRecoveryRate, s.tuning.MarketPruneThreshold)

	w.ActiveEvents = s.events.UpdateEvents(w.ActiveEvents, day, s.catalog)

	for id, k := range w.PriceKnowledge {
		sys, err := s.catalog.System(id)
		if err != nil {
			continue
		}
		k.Prices = s.pricer.Prices(sys, day, w.ActiveEvents, w.MarketConditions)
		w.PriceKnowledge[id] = k
	}

	st.Player.DaysElapsed = day
	emit(s.bus, TimeChanged, day)
	emit(s.bus, PriceKnowledgeChanged, model.ClonePriceKnowledge(w.PriceKnowledge))
	emit(s.bus, ActiveEventsChanged, cloneEvents(w.ActiveEvents))
	return nil
}

// UpdateLocation moves the player to systemID and locks that system's prices
// for the current day until the next arrival.
func (s *Store) UpdateLocation(systemID int) error {
	st := s.must()
	sys, err := s.catalog.System(systemID)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	w := &st.World
	st.Player.CurrentSystem = systemID
	if !slices.Contains(w.VisitedSystems, systemID) {
		w.VisitedSystems = append(w.VisitedSystems, systemID)
		slices.Sort(w.VisitedSystems)
	}
	w.CurrentSystemPrices = s.pricer.Prices(sys, st.Player.DaysElapsed, w.ActiveEvents, w.MarketConditions)
	w.PriceKnowledge[systemID] = model.PriceKnowledge{
		LastVisit: 0,
		Prices:    clonePrices(w.CurrentSystemPrices),
		Source:    model.SourceVisited,
	}

	emit(s.bus, LocationChanged, systemID)
	emit(s.bus, PriceKnowledgeChanged, model.ClonePriceKnowledge(w.PriceKnowledge))
	s.persist()
	return nil
}

// Dock records the station's posted prices as fresh knowledge.
func (s *Store) Dock() Result {
	st := s.must()
	sys := s.CurrentSystem()
	if !sys.Station {
		return fail("No station in this system")
	}
	st.World.PriceKnowledge[sys.ID] = model.PriceKnowledge{
		LastVisit: 0,
		Prices:    clonePrices(st.World.CurrentSystemPrices),
		Source:    model.SourceVisited,
	}
	emit(s.bus, PriceKnowledgeChanged, model.ClonePriceKnowledge(st.World.PriceKnowledge))
	s.persist()
	return done
}

func (s *Store) Undock() Result {
	s.must()
	s.persist()
	return done
}

// UpdateShipName sanitizes and stores a new name, returning what was kept.
func (s *Store) UpdateShipName(name string) string {
	st := s.must()
	st.Ship.Name = ship.SanitizeName(name, s.tuning.DefaultShipName, s.tuning.MaxShipNameLength)
	emit(s.bus, ShipNameChanged, st.Ship.Name)
	s.persist()
	return st.Ship.Name
}

// RecordIntelligence stores prices for a system as fresh knowledge from
// source.
func (s *Store) RecordIntelligence(systemID int, prices map[string]int, source string) error {
	st := s.must()
	if _, err := s.catalog.System(systemID); err != nil {
		return fmt.Errorf("record intelligence: %w", err)
	}
	st.World.PriceKnowledge[systemID] = model.PriceKnowledge{
		LastVisit: 0,
		Prices:    clonePrices(prices),
		Source:    source,
	}
	emit(s.bus, PriceKnowledgeChanged, model.ClonePriceKnowledge(st.World.PriceKnowledge))
	s.persist()
	return nil
}

// PayDebt pays amount of the outstanding debt from credits.
func (s *Store) PayDebt(amount int) Result {
	st := s.must()
	switch {
	case amount <= 0:
		return fail("Invalid amount")
	case amount > st.Player.Debt:
		return fail("Amount exceeds debt")
	case amount > st.Player.Credits:
		return fail("Insufficient credits")
	}
	st.Player.Credits -= amount
	st.Player.Debt -= amount
	emit(s.bus, CreditsChanged, st.Player.Credits)
	emit(s.bus, DebtChanged, st.Player.Debt)
	s.persist()
	return done
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func conditionOf(sh model.Ship) Condition {
	return Condition{Hull: sh.Hull, Engine: sh.Engine, LifeSupport: sh.LifeSupport}
}

func clonePrices(p map[string]int) map[string]int {
	if p == nil {
		return map[string]int{}
	}
	return maps.Clone(p)
}

func cloneStacks(s []model.CargoStack) []model.CargoStack {
	return append([]model.CargoStack{}, s...)
}

func cloneEvents(e []model.ActiveEvent) []model.ActiveEvent {
	return append([]model.ActiveEvent{}, e...)
}

func cloneStrings(s []string) []string {
	return append([]string{}, s...)
}
