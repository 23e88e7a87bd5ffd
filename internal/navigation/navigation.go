// Package navigation prices and performs wormhole jumps.
package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/galaxy"
	"github.com/talgya/tramp-freighter/internal/model"
	"github.com/talgya/tramp-freighter/internal/ship"
)

// Failure reasons reported by ValidateJump.
const (
	ReasonNoConnection     = "No wormhole connection"
	ReasonInsufficientFuel = "Insufficient fuel for jump"
)

// Store is the part of the state store a jump reads and writes.
type Store interface {
	Player() model.Player
	Ship() model.Ship
	Stats() ship.Stats
	UpdateFuel(fuel float64) error
	UpdateTime(day int) error
	UpdateLocation(systemID int) error
	UpdateShipCondition(hull, engine, lifeSupport float64)
}

// JumpValidation describes a prospective jump. The numeric fields are filled
// in even when Valid is false.
type JumpValidation struct {
	Valid    bool    `json:"valid"`
	Distance float64 `json:"distance"`
	FuelCost float64 `json:"fuelCost"`
	JumpTime int     `json:"jumpTime"`
	Error    string  `json:"error,omitempty"`
}

// JumpResult is the outcome of ExecuteJump.
type JumpResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	From    int    `json:"from"`
	To      int    `json:"to"`
	JumpValidation
}

// Hooks are optional presentation callbacks run after a jump is committed.
// They cannot change the outcome.
type Hooks struct {
	Animate func(ctx context.Context, from, to int) error
	UI      func(ctx context.Context, r JumpResult)
}

// Navigator computes jump costs over a catalog.
type Navigator struct {
	catalog   *galaxy.Catalog
	t         balance.Tuning
	animating atomic.Bool
}

func New(catalog *galaxy.Catalog, t balance.Tuning) *Navigator {
	return &Navigator{catalog: catalog, t: t}
}

// ConnectedSystems returns the systems one wormhole away from id.
func (n *Navigator) ConnectedSystems(id int) []int {
	return n.catalog.Connected(id)
}

// DistanceBetween is the straight-line distance in light years.
func (n *Navigator) DistanceBetween(a, b int) (float64, error) {
	sa, err := n.catalog.System(a)
	if err != nil {
		return 0, err
	}
	sb, err := n.catalog.System(b)
	if err != nil {
		return 0, err
	}
	return galaxy.Distance(sa, sb), nil
}

// wear is 0 for a perfect engine and 1 for a wrecked one.
func (n *Navigator) wear(engine float64) float64 {
	return 1 - math.Max(0, math.Min(engine, n.t.ConditionMax))/n.t.ConditionMax
}

// FuelCostWithCondition prices a jump of distance light years. A worn engine
// burns more; quirkFn, when set, applies the ship's quirks on top.
func (n *Navigator) FuelCostWithCondition(distance, engine float64, quirkFn ship.QuirkModifier, quirks []string) float64 {
	cost := (n.t.FuelCostBase + distance*n.t.FuelPerLightYear) * (1 + n.wear(engine)*n.t.EngineFuelPenalty)
	if quirkFn != nil {
		cost = quirkFn(cost, ship.AttrFuelConsumption, quirks)
	}
	return cost
}

// JumpTimeWithCondition is the travel time in whole days, never less than one.
func (n *Navigator) JumpTimeWithCondition(distance, engine float64, quirkFn ship.QuirkModifier, quirks []string) int {
	days := distance * n.t.DaysPerLightYear * (1 + n.wear(engine)*n.t.EngineTimePenalty)
	if quirkFn != nil {
		days = quirkFn(days, ship.AttrJumpTime, quirks)
	}
	return max(1, int(math.Ceil(days-1e-9)))
}

// ValidateJump checks a jump from one system to another with the given fuel.
// Unknown system ids are an error; everything else is reported in the result.
func (n *Navigator) ValidateJump(from, to int, fuel, engine float64, quirkFn ship.QuirkModifier, quirks []string) (JumpValidation, error) {
	dist, err := n.DistanceBetween(from, to)
	if err != nil {
		return JumpValidation{}, fmt.Errorf("validate jump: %w", err)
	}
	v := JumpValidation{
		Distance: dist,
		FuelCost: n.FuelCostWithCondition(dist, engine, quirkFn, quirks),
		JumpTime: n.JumpTimeWithCondition(dist, engine, quirkFn, quirks),
	}
	switch {
	case !n.catalog.AreConnected(from, to):
		v.Error = ReasonNoConnection
	case fuel < v.FuelCost:
		v.Error = ReasonInsufficientFuel
	default:
		v.Valid = true
	}
	return v, nil
}

// IsAnimating reports whether jump hooks are running.
func (n *Navigator) IsAnimating() bool {
	return n.animating.Load()
}

// shipModifier folds the ship's quirks and upgrade rates into one modifier.
func shipModifier(stats ship.Stats) ship.QuirkModifier {
	return func(base float64, attr ship.Attribute, quirks []string) float64 {
		v := ship.ApplyQuirkModifiers(base, attr, quirks)
		switch attr {
		case ship.AttrFuelConsumption:
			v *= stats.FuelConsumption
		case ship.AttrHullDegradation:
			v *= stats.HullDegradation
		case ship.AttrEngineDegradation:
			v *= stats.EngineDegradation
		case ship.AttrLifeSupportDrain:
			v *= stats.LifeSupportDrain
		}
		return v
	}
}

// Preview validates a jump from the player's location with the ship as it
// is now, including quirks and upgrades.
func (n *Navigator) Preview(store Store, target int) (JumpValidation, error) {
	sh := store.Ship()
	return n.ValidateJump(store.Player().CurrentSystem, target, sh.Fuel, sh.Engine, shipModifier(store.Stats()), sh.Quirks)
}

// ExecuteJump moves the player to target. On success fuel is spent, the
// clock advances by the jump time and the location changes, in that order,
// so arrival prices are taken on the arrival day. Wear is applied last. The
// hooks run only after everything is committed. A rejected jump changes
// nothing.
func (n *Navigator) ExecuteJump(ctx context.Context, store Store, target int, hooks Hooks) (JumpResult, error) {
	p := store.Player()
	sh := store.Ship()
	mod := shipModifier(store.Stats())

	v, err := n.ValidateJump(p.CurrentSystem, target, sh.Fuel, sh.Engine, mod, sh.Quirks)
	if err != nil {
		return JumpResult{}, err
	}
	r := JumpResult{From: p.CurrentSystem, To: target, JumpValidation: v}
	if !v.Valid {
		r.Error = v.Error
		return r, nil
	}

	if err := store.UpdateFuel(math.Max(0, sh.Fuel-v.FuelCost)); err != nil {
		return r, fmt.Errorf("jump fuel: %w", err)
	}
	if err := store.UpdateTime(p.DaysElapsed + v.JumpTime); err != nil {
		return r, fmt.Errorf("jump time: %w", err)
	}
	if err := store.UpdateLocation(target); err != nil {
		return r, fmt.Errorf("jump location: %w", err)
	}
	store.UpdateShipCondition(
		sh.Hull-mod(n.t.HullWearPerJump, ship.AttrHullDegradation, sh.Quirks),
		sh.Engine-mod(n.t.EngineWearPerJump, ship.AttrEngineDegradation, sh.Quirks),
		sh.LifeSupport-mod(n.t.LifeSupportDrainPerDay*float64(v.JumpTime), ship.AttrLifeSupportDrain, sh.Quirks),
	)
	r.Success = true
	slog.Info("jump completed", "from", r.From, "to", target, "fuel", v.FuelCost, "days", v.JumpTime)

	n.runHooks(ctx, hooks, r)
	return r, nil
}

func (n *Navigator) runHooks(ctx context.Context, hooks Hooks, r JumpResult) {
	if hooks.Animate == nil && hooks.UI == nil {
		return
	}
	n.animating.Store(true)
	defer n.animating.Store(false)

	if hooks.Animate != nil && ctx.Err() == nil {
		if err := hooks.Animate(ctx, r.From, r.To); err != nil {
			slog.Debug("jump animation ended early", "error", err)
		}
	}
	if hooks.UI != nil && ctx.Err() == nil {
		hooks.UI(ctx, r)
	}
}
