// Package broker sells market intelligence about other systems. Informants
// are unreliable: some reported prices are shaded low on purpose.
package broker

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/economy"
	"github.com/talgya/tramp-freighter/internal/entropy"
	"github.com/talgya/tramp-freighter/internal/galaxy"
	"github.com/talgya/tramp-freighter/internal/model"
)

// Store is the part of the state store the broker reads and writes.
type Store interface {
	State() *model.State
	UpdateCredits(credits int)
	RecordIntelligence(systemID int, prices map[string]int, source string) error
}

// Broker prices and sells intelligence.
type Broker struct {
	catalog *galaxy.Catalog
	pricer  *economy.Pricer
	t       balance.Tuning
	rng     entropy.Source
}

// New creates a broker. A nil rng draws from a crypto-seeded generator, so
// pass one explicitly for reproducible manipulation rolls.
func New(catalog *galaxy.Catalog, pricer *economy.Pricer, t balance.Tuning, rng entropy.Source) *Broker {
	if rng == nil {
		rng = entropy.Seeded(0)
	}
	return &Broker{catalog: catalog, pricer: pricer, t: t, rng: rng}
}

// Purchase is the outcome of PurchaseIntelligence.
type Purchase struct {
	Success bool           `json:"success"`
	Reason  string         `json:"reason,omitempty"`
	Cost    int            `json:"cost"`
	Prices  map[string]int `json:"prices,omitempty"`
}

// Option is one entry of ListAvailableIntelligence.
type Option struct {
	SystemID  int    `json:"systemId"`
	Name      string `json:"name"`
	Cost      int    `json:"cost"`
	Known     bool   `json:"known"`
	LastVisit int    `json:"lastVisit"`
	Current   bool   `json:"current"`
}

// IntelligenceCost prices intelligence on systemID bought at from. Systems the
// player knows nothing about cost the most; otherwise the price grows with
// staleness. Distance adds to both.
func (b *Broker) IntelligenceCost(from, systemID int, knowledge map[int]model.PriceKnowledge) (int, error) {
	src, err := b.catalog.System(from)
	if err != nil {
		return 0, err
	}
	dst, err := b.catalog.System(systemID)
	if err != nil {
		return 0, err
	}
	cost := float64(b.t.IntelNeverVisitedCost)
	if k, ok := knowledge[systemID]; ok {
		cost = float64(b.t.IntelBaseCost) + float64(k.LastVisit)*b.t.IntelStalenessRate
	}
	cost += galaxy.Distance(src, dst) * b.t.IntelDistanceRate
	return min(int(math.Round(cost)), b.t.IntelMaxCost), nil
}

// PurchaseIntelligence sells the current prices of systemID. Each good has a
// chance of being reported below its real price; the shaded figure only ever
// reaches price knowledge.
func (b *Broker) PurchaseIntelligence(store Store, systemID int) (Purchase, error) {
	st := store.State()
	sys, err := b.catalog.System(systemID)
	if err != nil {
		return Purchase{}, fmt.Errorf("purchase intelligence: %w", err)
	}
	cost, err := b.IntelligenceCost(st.Player.CurrentSystem, systemID, st.World.PriceKnowledge)
	if err != nil {
		return Purchase{}, err
	}
	if cost > st.Player.Credits {
		return Purchase{Reason: "Insufficient credits", Cost: cost}, nil
	}

	prices := b.pricer.Prices(sys, st.Player.DaysElapsed, st.World.ActiveEvents, st.World.MarketConditions)
	shaded := 0
	for _, c := range economy.Commodities() {
		if b.rng.Float64() < b.t.IntelManipulationChance {
			prices[c.ID] = max(b.t.PriceFloor, int(math.Round(float64(prices[c.ID])*b.t.IntelManipulationFactor)))
			shaded++
		}
	}

	store.UpdateCredits(st.Player.Credits - cost)
	if err := store.RecordIntelligence(systemID, prices, model.SourceBroker); err != nil {
		return Purchase{}, err
	}
	slog.Debug("intelligence sold", "system", sys.Name, "cost", cost, "shaded", shaded)
	return Purchase{Success: true, Cost: cost, Prices: prices}, nil
}

// ListAvailableIntelligence lists the neighbouring systems and the current
// one. Systems with no price knowledge come first, then the stalest; the
// current system is always last.
func (b *Broker) ListAvailableIntelligence(store Store) ([]Option, error) {
	st := store.State()
	here := st.Player.CurrentSystem
	var opts []Option
	for _, id := range append(b.catalog.Connected(here), here) {
		sys, err := b.catalog.System(id)
		if err != nil {
			return nil, err
		}
		cost, err := b.IntelligenceCost(here, id, st.World.PriceKnowledge)
		if err != nil {
			return nil, err
		}
		k, known := st.World.PriceKnowledge[id]
		opts = append(opts, Option{
			SystemID:  id,
			Name:      sys.Name,
			Cost:      cost,
			Known:     known,
			LastVisit: k.LastVisit,
			Current:   id == here,
		})
	}
	slices.SortStableFunc(opts, func(a, c Option) int {
		if a.Current != c.Current {
			if a.Current {
				return 1
			}
			return -1
		}
		if a.Known != c.Known {
			if !a.Known {
				return -1
			}
			return 1
		}
		if d := cmp.Compare(c.LastVisit, a.LastVisit); d != 0 {
			return d
		}
		return cmp.Compare(a.SystemID, c.SystemID)
	})
	return opts, nil
}

// GenerateRumor produces a line of dock gossip from real market data: an
// active event nearby, or the neighbour that pays most over local prices for
// some good.
func (b *Broker) GenerateRumor(store Store) string {
	st := store.State()
	here := st.Player.CurrentSystem
	neighbours := b.catalog.Connected(here)

	var rumors []string
	for _, e := range st.World.ActiveEvents {
		if e.SystemID != here && !slices.Contains(neighbours, e.SystemID) {
			continue
		}
		et, ok := economy.LookupEventType(e.Type)
		sys, err := b.catalog.System(e.SystemID)
		if !ok || err != nil {
			continue
		}
		rumors = append(rumors, fmt.Sprintf("Word is there's a %s at %s. %s", et.Name, sys.Name, et.Description))
	}

	bestDelta, bestGood, bestSys, bestPrice := 0, "", galaxy.StarSystem{}, 0
	for _, id := range neighbours {
		sys, err := b.catalog.System(id)
		if err != nil {
			continue
		}
		prices := b.pricer.Prices(sys, st.Player.DaysElapsed, st.World.ActiveEvents, st.World.MarketConditions)
		for _, c := range economy.Commodities() {
			local, ok := st.World.CurrentSystemPrices[c.ID]
			if !ok {
				continue
			}
			if d := prices[c.ID] - local; d > bestDelta {
				bestDelta, bestGood, bestSys, bestPrice = d, c.Name, sys, prices[c.ID]
			}
		}
	}
	if bestDelta > 0 {
		rumors = append(rumors, fmt.Sprintf("Traders say %s fetches ₡%s at %s, ₡%s more than here.",
			bestGood, humanize.Comma(int64(bestPrice)), bestSys.Name, humanize.Comma(int64(bestDelta))))
	}

	if len(rumors) == 0 {
		return "The docks are quiet today."
	}
	return rumors[b.rng.Intn(len(rumors))]
}
