package state

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/talgya/tramp-freighter/internal/economy"
	"github.com/talgya/tramp-freighter/internal/model"
	"github.com/talgya/tramp-freighter/internal/ship"
)

// BuyGood buys qty units of good at price each into the main hold. Buying
// creates local demand, so the system's price for good rises afterwards.
func (s *Store) BuyGood(good string, qty, price int) (Result, error) {
	st := s.must()
	if _, err := economy.LookupCommodity(good); err != nil {
		return Result{}, fmt.Errorf("buy: %w", err)
	}
	switch {
	case qty <= 0:
		return fail("Invalid quantity"), nil
	case price <= 0:
		return fail("Invalid price"), nil
	case price > st.Player.Credits/qty:
		// Checked by division so qty*price cannot overflow.
		return fail("Insufficient credits"), nil
	case qty > s.CargoRemaining():
		return fail("Not enough cargo space"), nil
	}

	st.Player.Credits -= qty * price
	st.Ship.Cargo = addStack(st.Ship.Cargo, model.CargoStack{
		Good:      good,
		Qty:       qty,
		BuyPrice:  price,
		BuySystem: st.Player.CurrentSystem,
		BuyDate:   st.Player.DaysElapsed,
	})
	economy.RecordTrade(st.World.MarketConditions, st.Player.CurrentSystem, good, -float64(qty))

	slog.Debug("bought", "good", good, "qty", qty, "price", price, "system", st.Player.CurrentSystem)
	emit(s.bus, CreditsChanged, st.Player.Credits)
	emit(s.bus, CargoChanged, cloneStacks(st.Ship.Cargo))
	s.persist()
	return done, nil
}

// SellGood sells qty units from the main-hold stack at index. A stack sold
// out is removed.
func (s *Store) SellGood(index, qty, price int) (Result, error) {
	st := s.must()
	if index < 0 || index >= len(st.Ship.Cargo) {
		return Result{}, fmt.Errorf("sell stack %d of %d: %w", index, len(st.Ship.Cargo), ErrBadStack)
	}
	stack := st.Ship.Cargo[index]
	switch {
	case qty <= 0:
		return fail("Invalid quantity"), nil
	case price < 0:
		return fail("Invalid price"), nil
	case qty > stack.Qty:
		return fail("Not enough goods in stack"), nil
	case price > (math.MaxInt-st.Player.Credits)/qty:
		return fail("Invalid price"), nil
	}

	st.Player.Credits += qty * price
	st.Ship.Cargo = takeFromStack(st.Ship.Cargo, index, qty)
	economy.RecordTrade(st.World.MarketConditions, st.Player.CurrentSystem, stack.Good, float64(qty))

	slog.Debug("sold", "good", stack.Good, "qty", qty, "price", price, "profit", qty*(price-stack.BuyPrice))
	emit(s.bus, CreditsChanged, st.Player.Credits)
	emit(s.bus, CargoChanged, cloneStacks(st.Ship.Cargo))
	s.persist()
	return done, nil
}

// Refuel buys amount units of fuel at the current system's fuel price.
func (s *Store) Refuel(amount float64) Result {
	st := s.must()
	switch {
	case amount <= 0 || math.IsNaN(amount):
		return fail("Invalid amount")
	case st.Ship.Fuel+amount > st.Ship.FuelCapacity+1e-9:
		return fail("Exceeds fuel capacity")
	}
	cost := int(math.Ceil(amount * float64(s.pricer.FuelPrice(s.CurrentSystem()))))
	if cost > st.Player.Credits {
		return fail("Insufficient credits")
	}

	st.Player.Credits -= cost
	st.Ship.Fuel = math.Min(st.Ship.Fuel+amount, st.Ship.FuelCapacity)
	emit(s.bus, CreditsChanged, st.Player.Credits)
	emit(s.bus, FuelChanged, st.Ship.Fuel)
	s.persist()
	return done
}

// RepairCost is the price of restoring amount percentage points.
func (s *Store) RepairCost(amount float64) int {
	return int(math.Ceil(amount * s.tuning.RepairCostPerPercent))
}

// RepairShipSystem restores amount points of hull, engine or lifeSupport.
func (s *Store) RepairShipSystem(system string, amount float64) (Result, error) {
	st := s.must()
	var current float64
	switch system {
	case "hull":
		current = st.Ship.Hull
	case "engine":
		current = st.Ship.Engine
	case "lifeSupport":
		current = st.Ship.LifeSupport
	default:
		return Result{}, fmt.Errorf("repair %q: %w", system, ErrUnknownShipSystem)
	}
	maxCond := s.tuning.ConditionMax
	switch {
	case amount <= 0 || math.IsNaN(amount):
		return fail("Invalid repair amount"), nil
	case current >= maxCond:
		return fail("System already at maximum condition"), nil
	case current+amount > maxCond+1e-9:
		return fail("Repair exceeds maximum condition"), nil
	}
	cost := s.RepairCost(amount)
	if cost > st.Player.Credits {
		return fail("Insufficient credits"), nil
	}

	st.Player.Credits -= cost
	repaired := clamp(current+amount, 0, maxCond)
	switch system {
	case "hull":
		st.Ship.Hull = repaired
	case "engine":
		st.Ship.Engine = repaired
	case "lifeSupport":
		st.Ship.LifeSupport = repaired
	}

	emit(s.bus, CreditsChanged, st.Player.Credits)
	s.emitCondition(st.Ship)
	s.persist()
	return done, nil
}

// PurchaseUpgrade installs upgrade id at its catalog price and refolds the
// ship's derived capacities. An installed upgrade cannot be bought twice.
func (s *Store) PurchaseUpgrade(id string) (Result, error) {
	st := s.must()
	up, err := ship.LookupUpgrade(id)
	if err != nil {
		return Result{}, fmt.Errorf("purchase: %w", err)
	}
	if slices.Contains(st.Ship.Upgrades, id) {
		return fail("Upgrade already installed"), nil
	}
	if up.Cost > st.Player.Credits {
		return fail("Insufficient credits"), nil
	}
	upgrades := append(slices.Clone(st.Ship.Upgrades), id)
	stats, err := s.computeStats(upgrades)
	if err != nil {
		return Result{}, err
	}
	if stats.CargoCapacity < stackTotal(st.Ship.Cargo) {
		return fail("Cargo exceeds reduced capacity"), nil
	}
	if stats.HiddenCargoCapacity < stackTotal(st.Ship.HiddenCargo) {
		return fail("Hidden cargo exceeds reduced capacity"), nil
	}

	st.Player.Credits -= up.Cost
	st.Ship.Upgrades = upgrades
	st.Ship.CargoCapacity = stats.CargoCapacity
	st.Ship.HiddenCargoCapacity = stats.HiddenCargoCapacity
	st.Ship.FuelCapacity = stats.FuelCapacity
	st.Ship.Fuel = math.Min(st.Ship.Fuel, st.Ship.FuelCapacity)

	slog.Info("upgrade installed", "upgrade", id, "cost", up.Cost)
	emit(s.bus, CreditsChanged, st.Player.Credits)
	emit(s.bus, UpgradesChanged, cloneStrings(st.Ship.Upgrades))
	emit(s.bus, FuelChanged, st.Ship.Fuel)
	s.persist()
	return done, nil
}

// MoveToHiddenCargo moves qty units from main-hold stack index into the
// hidden compartment.
func (s *Store) MoveToHiddenCargo(index, qty int) (Result, error) {
	st := s.must()
	if index < 0 || index >= len(st.Ship.Cargo) {
		return Result{}, fmt.Errorf("hide stack %d: %w", index, ErrBadStack)
	}
	switch {
	case st.Ship.HiddenCargoCapacity <= 0:
		return fail("No hidden cargo compartment"), nil
	case qty <= 0:
		return fail("Invalid quantity"), nil
	case qty > st.Ship.Cargo[index].Qty:
		return fail("Not enough goods in stack"), nil
	case qty > s.HiddenCargoRemaining():
		return fail("Not enough hidden cargo space"), nil
	}
	moved := st.Ship.Cargo[index]
	moved.Qty = qty
	st.Ship.Cargo = takeFromStack(st.Ship.Cargo, index, qty)
	st.Ship.HiddenCargo = addStack(st.Ship.HiddenCargo, moved)

	emit(s.bus, CargoChanged, cloneStacks(st.Ship.Cargo))
	emit(s.bus, HiddenCargoChanged, cloneStacks(st.Ship.HiddenCargo))
	s.persist()
	return done, nil
}

// MoveToRegularCargo moves qty units from hidden stack index back into the
// main hold.
func (s *Store) MoveToRegularCargo(index, qty int) (Result, error) {
	st := s.must()
	if index < 0 || index >= len(st.Ship.HiddenCargo) {
		return Result{}, fmt.Errorf("unhide stack %d: %w", index, ErrBadStack)
	}
	switch {
	case qty <= 0:
		return fail("Invalid quantity"), nil
	case qty > st.Ship.HiddenCargo[index].Qty:
		return fail("Not enough goods in stack"), nil
	case qty > s.CargoRemaining():
		return fail("Not enough cargo space"), nil
	}
	moved := st.Ship.HiddenCargo[index]
	moved.Qty = qty
	st.Ship.HiddenCargo = takeFromStack(st.Ship.HiddenCargo, index, qty)
	st.Ship.Cargo = addStack(st.Ship.Cargo, moved)

	emit(s.bus, CargoChanged, cloneStacks(st.Ship.Cargo))
	emit(s.bus, HiddenCargoChanged, cloneStacks(st.Ship.HiddenCargo))
	s.persist()
	return done, nil
}

// addStack merges into a stack with identical purchase details or appends.
func addStack(stacks []model.CargoStack, in model.CargoStack) []model.CargoStack {
	for i, st := range stacks {
		if st.Good == in.Good && st.BuyPrice == in.BuyPrice && st.BuySystem == in.BuySystem && st.BuyDate == in.BuyDate {
			stacks[i].Qty += in.Qty
			return stacks
		}
	}
	return append(stacks, in)
}

// takeFromStack removes qty from stacks[i], dropping the stack when empty.
func takeFromStack(stacks []model.CargoStack, i, qty int) []model.CargoStack {
	stacks[i].Qty -= qty
	if stacks[i].Qty == 0 {
		return slices.Delete(stacks, i, i+1)
	}
	return stacks
}
