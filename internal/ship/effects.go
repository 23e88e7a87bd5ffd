// Package ship defines the upgrade and quirk catalogs and folds their effects
// into the ship's derived statistics.
package ship

import (
	"errors"
	"fmt"
)

// Attribute names a ship statistic an upgrade or quirk can change.
type Attribute string

const (
	AttrCargoCapacity       Attribute = "cargoCapacity"
	AttrHiddenCargoCapacity Attribute = "hiddenCargoCapacity"
	AttrFuelCapacity        Attribute = "fuelCapacity"
	AttrFuelConsumption     Attribute = "fuelConsumption"
	AttrHullDegradation     Attribute = "hullDegradation"
	AttrEngineDegradation   Attribute = "engineDegradation"
	AttrLifeSupportDrain    Attribute = "lifeSupportDrain"
	AttrJumpTime            Attribute = "jumpTime"
)

// EffectKind says how an effect combines with the running value.
type EffectKind int

const (
	// Absolute replaces the value.
	Absolute EffectKind = iota
	// Multiplier scales the value.
	Multiplier
)

// Effect is one change to one attribute.
type Effect struct {
	Kind  EffectKind
	Field Attribute
	Value float64
}

var (
	ErrUnknownUpgrade = errors.New("unknown upgrade")
	ErrUnknownQuirk   = errors.New("unknown quirk")
)

// Stats are the ship values derived from installed upgrades.
type Stats struct {
	CargoCapacity       int     `json:"cargoCapacity"`
	HiddenCargoCapacity int     `json:"hiddenCargoCapacity"`
	FuelCapacity        float64 `json:"fuelCapacity"`
	FuelConsumption     float64 `json:"fuelConsumption"`
	HullDegradation     float64 `json:"hullDegradation"`
	EngineDegradation   float64 `json:"engineDegradation"`
	LifeSupportDrain    float64 `json:"lifeSupportDrain"`
}

// BaseStats are the values of a ship with no upgrades.
func BaseStats(cargo, hidden int, fuel float64) Stats {
	return Stats{
		CargoCapacity:       cargo,
		HiddenCargoCapacity: hidden,
		FuelCapacity:        fuel,
		FuelConsumption:     1,
		HullDegradation:     1,
		EngineDegradation:   1,
		LifeSupportDrain:    1,
	}
}

// Apply folds effects left to right onto the stats.
func (s Stats) Apply(effects []Effect) Stats {
	for _, e := range effects {
		switch e.Field {
		case AttrCargoCapacity:
			s.CargoCapacity = int(combine(float64(s.CargoCapacity), e))
		case AttrHiddenCargoCapacity:
			s.HiddenCargoCapacity = int(combine(float64(s.HiddenCargoCapacity), e))
		case AttrFuelCapacity:
			s.FuelCapacity = combine(s.FuelCapacity, e)
		case AttrFuelConsumption:
			s.FuelConsumption = combine(s.FuelConsumption, e)
		case AttrHullDegradation:
			s.HullDegradation = combine(s.HullDegradation, e)
		case AttrEngineDegradation:
			s.EngineDegradation = combine(s.EngineDegradation, e)
		case AttrLifeSupportDrain:
			s.LifeSupportDrain = combine(s.LifeSupportDrain, e)
		}
	}
	return s
}

func combine(v float64, e Effect) float64 {
	if e.Kind == Absolute {
		return e.Value
	}
	return v * e.Value
}

// ComputeStats derives the stats for a list of installed upgrade ids, in
// installation order. An unknown id is a caller bug.
func ComputeStats(base Stats, upgrades []string) (Stats, error) {
	s := base
	for _, id := range upgrades {
		u, ok := upgradeIndex[id]
		if !ok {
			return base, fmt.Errorf("%q: %w", id, ErrUnknownUpgrade)
		}
		s = s.Apply(u.Effects)
	}
	return s, nil
}
