package ship

import "fmt"

// Upgrade is a permanent purchasable modification.
type Upgrade struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Cost        int      `json:"cost"`
	Description string   `json:"description"`
	Tradeoff    string   `json:"tradeoff,omitempty"`
	Effects     []Effect `json:"-"`
}

var upgradeList = []Upgrade{
	{
		ID:          "extended_tank",
		Name:        "Extended Fuel Tank",
		Cost:        3000,
		Description: "Increases fuel capacity by 50%.",
		Tradeoff:    "Larger tank is more vulnerable to hull stress.",
		Effects: []Effect{
			{Kind: Absolute, Field: AttrFuelCapacity, Value: 150},
			{Kind: Multiplier, Field: AttrHullDegradation, Value: 1.1},
		},
	},
	{
		ID:          "reinforced_hull",
		Name:        "Reinforced Hull Plating",
		Cost:        5000,
		Description: "Halves hull wear from jumps.",
		Tradeoff:    "Extra mass reduces cargo capacity.",
		Effects: []Effect{
			{Kind: Multiplier, Field: AttrHullDegradation, Value: 0.5},
			{Kind: Absolute, Field: AttrCargoCapacity, Value: 45},
		},
	},
	{
		ID:          "efficient_drive",
		Name:        "High-Efficiency Drive",
		Cost:        4000,
		Description: "Reduces fuel consumption by 20%.",
		Tradeoff:    "Tuned components wear faster.",
		Effects: []Effect{
			{Kind: Multiplier, Field: AttrFuelConsumption, Value: 0.8},
			{Kind: Multiplier, Field: AttrEngineDegradation, Value: 1.2},
		},
	},
	{
		ID:          "expanded_hold",
		Name:        "Expanded Cargo Hold",
		Cost:        6000,
		Description: "Raises cargo capacity to 75 units.",
		Effects: []Effect{
			{Kind: Absolute, Field: AttrCargoCapacity, Value: 75},
		},
	},
	{
		ID:          "smuggler_hold",
		Name:        "Smuggler's Hold",
		Cost:        4500,
		Description: "A concealed compartment for 10 units of cargo.",
		Tradeoff:    "Inspectors take a closer look at modified ships.",
		Effects: []Effect{
			{Kind: Absolute, Field: AttrHiddenCargoCapacity, Value: 10},
		},
	},
	{
		ID:          "recycler_array",
		Name:        "Recycler Array",
		Cost:        3500,
		Description: "Recyclers cut life support drain by 30%.",
		Effects: []Effect{
			{Kind: Multiplier, Field: AttrLifeSupportDrain, Value: 0.7},
		},
	},
}

var upgradeIndex = func() map[string]Upgrade {
	m := make(map[string]Upgrade, len(upgradeList))
	for _, u := range upgradeList {
		m[u.ID] = u
	}
	return m
}()

// Upgrades returns the purchasable upgrades in catalog order.
func Upgrades() []Upgrade {
	return append([]Upgrade(nil), upgradeList...)
}

// LookupUpgrade returns an upgrade by id.
func LookupUpgrade(id string) (Upgrade, error) {
	u, ok := upgradeIndex[id]
	if !ok {
		return Upgrade{}, fmt.Errorf("%q: %w", id, ErrUnknownUpgrade)
	}
	return u, nil
}
