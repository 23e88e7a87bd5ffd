// Package balance holds every gameplay tuning constant in one place.
// Defaults are compiled in; a YAML file may override any subset of them.
package balance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is the complete set of balance knobs consumed by the simulation core.
type Tuning struct {
	// Pricing.
	TechMidpoint         float64 `yaml:"tech_midpoint"`
	TechIntensity        float64 `yaml:"tech_intensity"`
	FluctuationAmplitude float64 `yaml:"fluctuation_amplitude"`
	FluctuationSeed      int64   `yaml:"fluctuation_seed"`
	PriceFloor           int     `yaml:"price_floor"`
	FuelBasePrice        float64 `yaml:"fuel_base_price"`

	// Market conditions (player-induced surplus/deficit).
	ConditionSensitivity float64 `yaml:"condition_sensitivity"`
	ConditionMinModifier float64 `yaml:"condition_min_modifier"`
	ConditionMaxModifier float64 `yaml:"condition_max_modifier"`
	MarketRecoveryRate   float64 `yaml:"market_recovery_rate"`
	MarketPruneThreshold float64 `yaml:"market_prune_threshold"`

	// Economic events.
	EventSpawnChance float64 `yaml:"event_spawn_chance"`
	EventSeed        int64   `yaml:"event_seed"`

	// Navigation.
	FuelCostBase      float64 `yaml:"fuel_cost_base"`
	FuelPerLightYear  float64 `yaml:"fuel_per_light_year"`
	EngineFuelPenalty float64 `yaml:"engine_fuel_penalty"` // extra fuel fraction at engine 0%
	DaysPerLightYear  float64 `yaml:"days_per_light_year"`
	EngineTimePenalty float64 `yaml:"engine_time_penalty"` // extra travel fraction at engine 0%

	// Wear applied by a jump.
	HullWearPerJump        float64 `yaml:"hull_wear_per_jump"`
	EngineWearPerJump      float64 `yaml:"engine_wear_per_jump"`
	LifeSupportDrainPerDay float64 `yaml:"life_support_drain_per_day"`

	// Ship condition.
	ConditionMax         float64 `yaml:"condition_max"`
	WarningThreshold     float64 `yaml:"warning_threshold"`
	CriticalThreshold    float64 `yaml:"critical_threshold"`
	RepairCostPerPercent float64 `yaml:"repair_cost_per_percent"`

	// Information broker.
	IntelBaseCost           int     `yaml:"intel_base_cost"`
	IntelNeverVisitedCost   int     `yaml:"intel_never_visited_cost"`
	IntelStalenessRate      float64 `yaml:"intel_staleness_rate"`
	IntelDistanceRate       float64 `yaml:"intel_distance_rate"`
	IntelMaxCost            int     `yaml:"intel_max_cost"`
	IntelManipulationChance float64 `yaml:"intel_manipulation_chance"`
	IntelManipulationFactor float64 `yaml:"intel_manipulation_factor"`

	// New game.
	StartingCredits    int     `yaml:"starting_credits"`
	StartingDebt       int     `yaml:"starting_debt"`
	StartingSystem     int     `yaml:"starting_system"`
	BaseCargoCapacity  int     `yaml:"base_cargo_capacity"`
	BaseHiddenCapacity int     `yaml:"base_hidden_capacity"`
	BaseFuelCapacity   float64 `yaml:"base_fuel_capacity"`
	QuirksPerShip      int     `yaml:"quirks_per_ship"`
	DefaultShipName    string  `yaml:"default_ship_name"`
	MaxShipNameLength  int     `yaml:"max_ship_name_length"`
}

// Default returns the shipped balance.
func Default() Tuning {
	return Tuning{
		TechMidpoint:         5.0,
		TechIntensity:        0.08,
		FluctuationAmplitude: 0.15,
		FluctuationSeed:      1337,
		PriceFloor:           1,
		FuelBasePrice:        2.0,

		ConditionSensitivity: 0.01,
		ConditionMinModifier: 0.5,
		ConditionMaxModifier: 1.5,
		MarketRecoveryRate:   0.1,
		MarketPruneThreshold: 0.1,

		EventSpawnChance: 0.05,
		EventSeed:        7919,

		FuelCostBase:      10,
		FuelPerLightYear:  2,
		EngineFuelPenalty: 0.5,
		DaysPerLightYear:  0.5,
		EngineTimePenalty: 0.5,

		HullWearPerJump:        2,
		EngineWearPerJump:      1,
		LifeSupportDrainPerDay: 0.5,

		ConditionMax:         100,
		WarningThreshold:     50,
		CriticalThreshold:    20,
		RepairCostPerPercent: 5,

		IntelBaseCost:           50,
		IntelNeverVisitedCost:   100,
		IntelStalenessRate:      1,
		IntelDistanceRate:       2,
		IntelMaxCost:            200,
		IntelManipulationChance: 0.1,
		IntelManipulationFactor: 0.7,

		StartingCredits:    500,
		StartingDebt:       10000,
		StartingSystem:     0,
		BaseCargoCapacity:  50,
		BaseHiddenCapacity: 0,
		BaseFuelCapacity:   100,
		QuirksPerShip:      2,
		DefaultShipName:    "Serendipity",
		MaxShipNameLength:  50,
	}
}

// Load reads a YAML override file on top of Default. Keys absent from the
// file keep their default value.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}
