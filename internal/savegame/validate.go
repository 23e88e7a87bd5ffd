package savegame

import (
	"errors"
	"fmt"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/economy"
	"github.com/talgya/tramp-freighter/internal/galaxy"
	"github.com/talgya/tramp-freighter/internal/model"
	"github.com/talgya/tramp-freighter/internal/ship"
)

// Validate checks the structural invariants of a decoded state tree. All
// problems found are reported together.
func Validate(s *model.State, catalog *galaxy.Catalog, t balance.Tuning) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !catalog.Has(s.Player.CurrentSystem) {
		fail("current system %d not in catalog", s.Player.CurrentSystem)
	}
	if s.Player.DaysElapsed < 0 {
		fail("negative day %d", s.Player.DaysElapsed)
	}

	sh := s.Ship
	for name, v := range map[string]float64{"hull": sh.Hull, "engine": sh.Engine, "lifeSupport": sh.LifeSupport} {
		if v < 0 || v > t.ConditionMax {
			fail("%s %.2f outside [0, %.0f]", name, v, t.ConditionMax)
		}
	}
	if sh.Fuel < 0 || sh.Fuel > sh.FuelCapacity {
		fail("fuel %.2f outside [0, %.0f]", sh.Fuel, sh.FuelCapacity)
	}
	for _, id := range sh.Quirks {
		if _, err := ship.LookupQuirk(id); err != nil {
			fail("quirk: %v", err)
		}
	}
	for _, id := range sh.Upgrades {
		if _, err := ship.LookupUpgrade(id); err != nil {
			fail("upgrade: %v", err)
		}
	}
	validateStacks := func(hold string, stacks []model.CargoStack) {
		for i, st := range stacks {
			if st.Qty <= 0 {
				fail("%s stack %d has qty %d", hold, i, st.Qty)
			}
			if _, err := economy.LookupCommodity(st.Good); err != nil {
				fail("%s stack %d: %v", hold, i, err)
			}
		}
	}
	validateStacks("cargo", sh.Cargo)
	validateStacks("hidden cargo", sh.HiddenCargo)

	for _, id := range s.World.VisitedSystems {
		if !catalog.Has(id) {
			fail("visited system %d not in catalog", id)
		}
	}
	for id, k := range s.World.PriceKnowledge {
		if !catalog.Has(id) {
			fail("price knowledge for unknown system %d", id)
		}
		if k.LastVisit < 0 {
			fail("price knowledge for %d has negative staleness", id)
		}
	}
	for _, e := range s.World.ActiveEvents {
		if !catalog.Has(e.SystemID) {
			fail("event at unknown system %d", e.SystemID)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
