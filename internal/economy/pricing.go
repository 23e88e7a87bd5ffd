package economy

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/galaxy"
	"github.com/talgya/tramp-freighter/internal/model"
)

// Pricer computes commodity prices. It holds only immutable tuning and a
// seeded noise field, so Price is a pure function of its arguments.
type Pricer struct {
	t     balance.Tuning
	noise opensimplex.Noise
}

// NewPricer creates a pricer for the given balance.
func NewPricer(t balance.Tuning) *Pricer {
	return &Pricer{
		t:     t,
		noise: opensimplex.NewNormalized(t.FluctuationSeed),
	}
}

// Price returns the credit price of good at system on day. Every modifier is
// an independent factor, so their order does not matter.
func (p *Pricer) Price(good Commodity, sys galaxy.StarSystem, day int, events []model.ActiveEvent, conditions model.MarketConditions) int {
	price := good.BasePrice *
		p.TechModifier(good, sys.TechLevel) *
		p.Fluctuation(good, sys.ID, day) *
		EventModifier(events, sys.ID, good.ID) *
		p.ConditionModifier(conditions, sys.ID, good.ID)

	rounded := int(math.Round(price))
	if rounded < p.t.PriceFloor {
		rounded = p.t.PriceFloor
	}
	return rounded
}

// Prices returns the full price table for a system.
func (p *Pricer) Prices(sys galaxy.StarSystem, day int, events []model.ActiveEvent, conditions model.MarketConditions) map[string]int {
	out := make(map[string]int, len(commodityList))
	for _, c := range commodityList {
		out[c.ID] = p.Price(c, sys, day, events, conditions)
	}
	return out
}

// TechModifier is exactly 1.0 at the tech midpoint.
func (p *Pricer) TechModifier(good Commodity, techLevel float64) float64 {
	return 1.0 + good.TechBias*(p.t.TechMidpoint-techLevel)*p.t.TechIntensity
}

// Fluctuation is the day-to-day wobble for (good, system, day). It samples a
// seeded simplex field, so it is stable across save/reload.
func (p *Pricer) Fluctuation(good Commodity, systemID, day int) float64 {
	// Fractional offsets keep samples off lattice points.
	x := float64(good.index)*7.31 + 0.5
	y := float64(systemID)*3.17 + 0.25
	z := float64(day) * 0.35
	n := math.Max(0, math.Min(1, p.noise.Eval3(x, y, z)))
	return 1.0 + (2*n-1)*p.t.FluctuationAmplitude
}

// ConditionModifier turns the surplus/deficit accumulator into a factor.
// Positive (player sold here) lowers the price; negative raises it.
func (p *Pricer) ConditionModifier(conditions model.MarketConditions, systemID int, good string) float64 {
	v := conditions[systemID][good]
	if v == 0 {
		return 1.0
	}
	m := 1.0 - v*p.t.ConditionSensitivity
	return math.Max(p.t.ConditionMinModifier, math.Min(p.t.ConditionMaxModifier, m))
}

// FuelPrice is the per-unit refuelling price at a system. Low-tech systems
// charge more.
func (p *Pricer) FuelPrice(sys galaxy.StarSystem) int {
	price := int(math.Round(p.t.FuelBasePrice * (1 + (p.t.TechMidpoint-sys.TechLevel)*0.1)))
	if price < 1 {
		price = 1
	}
	return price
}
