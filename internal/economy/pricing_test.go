package economy

import (
	"testing"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/galaxy"
	"github.com/talgya/tramp-freighter/internal/model"
)

func TestPrice_Deterministic(t *testing.T) {
	p := NewPricer(balance.Default())
	q := NewPricer(balance.Default())
	sys := galaxy.StarSystem{ID: 4, TechLevel: 3}
	events := []model.ActiveEvent{{SystemID: 4, Type: EventMiningStrike, Expiry: 20}}
	conds := model.MarketConditions{4: {"ore": -12}}

	for _, c := range Commodities() {
		for day := 0; day < 50; day++ {
			a := p.Price(c, sys, day, events, conds)
			b := p.Price(c, sys, day, events, conds)
			d := q.Price(c, sys, day, events, conds)
			if a != b || a != d {
				t.Fatalf("%s day %d: prices differ %d/%d/%d", c.ID, day, a, b, d)
			}
			if a <= 0 {
				t.Fatalf("%s day %d: non-positive price %d", c.ID, day, a)
			}
		}
	}
}

func TestTechModifier_MidpointIsNeutral(t *testing.T) {
	tun := balance.Default()
	p := NewPricer(tun)
	for _, c := range Commodities() {
		if m := p.TechModifier(c, tun.TechMidpoint); m != 1.0 {
			t.Fatalf("%s: tech modifier at midpoint = %v", c.ID, m)
		}
	}
	electronics, _ := LookupCommodity("electronics")
	if p.TechModifier(electronics, 9) >= 1 {
		t.Fatalf("electronics should be cheaper in high-tech systems")
	}
	ore, _ := LookupCommodity("ore")
	if p.TechModifier(ore, 2) >= 1 {
		t.Fatalf("ore should be cheaper in low-tech systems")
	}
}

func TestFluctuation_Bounded(t *testing.T) {
	tun := balance.Default()
	p := NewPricer(tun)
	grain, _ := LookupCommodity("grain")
	varied := false
	prev := p.Fluctuation(grain, 0, 0)
	for day := 1; day < 100; day++ {
		f := p.Fluctuation(grain, 0, day)
		if f < 1-tun.FluctuationAmplitude || f > 1+tun.FluctuationAmplitude {
			t.Fatalf("day %d fluctuation %v outside amplitude", day, f)
		}
		if f != prev {
			varied = true
		}
		prev = f
	}
	if !varied {
		t.Fatalf("fluctuation never changed across 100 days")
	}
}

func TestConditionModifier_Direction(t *testing.T) {
	tun := balance.Default()
	p := NewPricer(tun)
	conds := model.MarketConditions{1: {"grain": 20, "ore": -20}, 2: {"grain": 1e6}}
	if m := p.ConditionModifier(conds, 1, "grain"); m >= 1 {
		t.Fatalf("surplus should lower price, got %v", m)
	}
	if m := p.ConditionModifier(conds, 1, "ore"); m <= 1 {
		t.Fatalf("deficit should raise price, got %v", m)
	}
	if m := p.ConditionModifier(conds, 2, "grain"); m != tun.ConditionMinModifier {
		t.Fatalf("modifier not clamped: %v", m)
	}
	if m := p.ConditionModifier(conds, 3, "grain"); m != 1 {
		t.Fatalf("no history should be neutral, got %v", m)
	}
}

func TestPrice_FloorClamp(t *testing.T) {
	tun := balance.Default()
	tun.PriceFloor = 5
	p := NewPricer(tun)
	cheap := Commodity{ID: "dust", BasePrice: 0.01}
	if got := p.Price(cheap, galaxy.StarSystem{TechLevel: 5}, 3, nil, nil); got != 5 {
		t.Fatalf("price = %d, want floor 5", got)
	}
}

func TestPrice_EventRaisesPrice(t *testing.T) {
	p := NewPricer(balance.Default())
	med, _ := LookupCommodity("medicine")
	sys := galaxy.StarSystem{ID: 2, TechLevel: 5}
	base := p.Price(med, sys, 10, nil, nil)
	evt := []model.ActiveEvent{{SystemID: 2, Type: EventMedicalEmergency, Expiry: 15}}
	if got := p.Price(med, sys, 10, evt, nil); got <= base {
		t.Fatalf("medical emergency price %d not above %d", got, base)
	}
	other := []model.ActiveEvent{{SystemID: 3, Type: EventMedicalEmergency, Expiry: 15}}
	if got := p.Price(med, sys, 10, other, nil); got != base {
		t.Fatalf("event at another system changed price: %d vs %d", got, base)
	}
}

func TestLookupCommodity_Unknown(t *testing.T) {
	if _, err := LookupCommodity("spice"); err == nil {
		t.Fatalf("expected error for unknown good")
	}
}
