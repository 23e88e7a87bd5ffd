package ship

import (
	"fmt"
	"math/rand"
)

// Quirk is a permanent trait rolled when the ship is created.
type Quirk struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Flavor      string `json:"flavor"`
	// Modifiers multiply an attribute whenever it is evaluated.
	Modifiers map[Attribute]float64 `json:"-"`
}

var quirkList = []Quirk{
	{
		ID:          "sticky_seal",
		Name:        "Sticky Cargo Seal",
		Description: "The main hold door sticks. Turnarounds take longer.",
		Flavor:      "Every dock worker knows to bring a crowbar.",
		Modifiers:   map[Attribute]float64{AttrJumpTime: 1.15},
	},
	{
		ID:          "hot_thruster",
		Name:        "Hot Thruster",
		Description: "Port thruster runs hot. Burns a little extra fuel.",
		Flavor:      "The engineers call it 'enthusiastic'.",
		Modifiers:   map[Attribute]float64{AttrFuelConsumption: 1.05},
	},
	{
		ID:          "fuel_sipper",
		Name:        "Fuel Sipper",
		Description: "Exceptionally efficient fuel injection.",
		Flavor:      "Previous owner was meticulous about maintenance.",
		Modifiers:   map[Attribute]float64{AttrFuelConsumption: 0.85},
	},
	{
		ID:          "leaky_seals",
		Name:        "Leaky Seals",
		Description: "Micro-fractures in the hull seals accelerate wear.",
		Flavor:      "You can hear the whistle in the aft corridor.",
		Modifiers:   map[Attribute]float64{AttrHullDegradation: 1.5},
	},
	{
		ID:          "cramped_quarters",
		Name:        "Cramped Quarters",
		Description: "Tiny crew space, but life support has less to do.",
		Flavor:      "Nobody stretches on this ship.",
		Modifiers:   map[Attribute]float64{AttrLifeSupportDrain: 0.8},
	},
	{
		ID:          "lucky_ship",
		Name:        "Lucky Ship",
		Description: "Survived three pirate ambushes without a scratch.",
		Flavor:      "Crews fight to sign on.",
		Modifiers:   map[Attribute]float64{AttrHullDegradation: 0.8},
	},
	{
		ID:          "finicky_drive",
		Name:        "Finicky Drive",
		Description: "The jump drive needs coaxing. Engine wear is higher.",
		Flavor:      "Try turning it off and on again.",
		Modifiers:   map[Attribute]float64{AttrEngineDegradation: 1.3},
	},
}

var quirkIndex = func() map[string]Quirk {
	m := make(map[string]Quirk, len(quirkList))
	for _, q := range quirkList {
		m[q.ID] = q
	}
	return m
}()

// Quirks returns the quirk catalog.
func Quirks() []Quirk {
	return append([]Quirk(nil), quirkList...)
}

// LookupQuirk returns a quirk by id.
func LookupQuirk(id string) (Quirk, error) {
	q, ok := quirkIndex[id]
	if !ok {
		return Quirk{}, fmt.Errorf("%q: %w", id, ErrUnknownQuirk)
	}
	return q, nil
}

// QuirkModifier adjusts a base value for an attribute by a set of quirks.
type QuirkModifier func(base float64, attr Attribute, quirks []string) float64

// ApplyQuirkModifiers multiplies base by every quirk's modifier for attr.
// Unknown ids are ignored here; they are rejected when a save is validated.
func ApplyQuirkModifiers(base float64, attr Attribute, quirks []string) float64 {
	v := base
	for _, id := range quirks {
		if m, ok := quirkIndex[id].Modifiers[attr]; ok {
			v *= m
		}
	}
	return v
}

// RollQuirks picks n distinct quirks.
func RollQuirks(rng *rand.Rand, n int) []string {
	if n > len(quirkList) {
		n = len(quirkList)
	}
	out := make([]string, 0, n)
	for _, i := range rng.Perm(len(quirkList))[:n] {
		out = append(out, quirkList[i].ID)
	}
	return out
}
