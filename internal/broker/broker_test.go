package broker

import (
	"reflect"
	"strings"
	"testing"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/galaxy"
	"github.com/talgya/tramp-freighter/internal/model"
	"github.com/talgya/tramp-freighter/internal/persistence"
	"github.com/talgya/tramp-freighter/internal/state"
)

// fixedRNG returns the same draw every time.
type fixedRNG float64

func (f fixedRNG) Float64() float64 { return float64(f) }
func (f fixedRNG) Intn(int) int     { return 0 }

func setup(t *testing.T, draw float64) (*Broker, *state.Store) {
	t.Helper()
	s := state.New(state.Options{
		Catalog: galaxy.Default(),
		Tuning:  balance.Default(),
		Storage: persistence.NewMemory(),
		Seed:    3,
	})
	if err := s.NewGame(); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return New(s.Catalog(), s.Pricer(), s.Tuning(), fixedRNG(draw)), s
}

func TestIntelligenceCost(t *testing.T) {
	b, _ := setup(t, 1)
	never, err := b.IntelligenceCost(0, 1, nil)
	if err != nil {
		t.Fatalf("IntelligenceCost: %v", err)
	}
	if never != 109 {
		t.Fatalf("never-visited cost = %d, want 109", never)
	}

	fresh, _ := b.IntelligenceCost(0, 1, map[int]model.PriceKnowledge{1: {LastVisit: 0}})
	stale, _ := b.IntelligenceCost(0, 1, map[int]model.PriceKnowledge{1: {LastVisit: 10}})
	if !(fresh < stale) || stale-fresh != 10 {
		t.Fatalf("fresh %d stale %d", fresh, stale)
	}
	ancient, _ := b.IntelligenceCost(0, 1, map[int]model.PriceKnowledge{1: {LastVisit: 10000}})
	if ancient != 200 {
		t.Fatalf("capped cost = %d, want 200", ancient)
	}

	if _, err := b.IntelligenceCost(0, 77, nil); err == nil {
		t.Fatal("expected error for unknown system")
	}
}

func TestPurchaseIntelligence_Honest(t *testing.T) {
	b, s := setup(t, 0.99)
	cost, _ := b.IntelligenceCost(0, 2, s.PriceKnowledge())

	p, err := b.PurchaseIntelligence(s, 2)
	if err != nil || !p.Success {
		t.Fatalf("PurchaseIntelligence = %+v, %v", p, err)
	}
	if p.Cost != cost || s.Player().Credits != 500-cost {
		t.Fatalf("cost %d credits %d", p.Cost, s.Player().Credits)
	}
	sys, _ := s.Catalog().System(2)
	truth := s.Pricer().Prices(sys, 0, s.ActiveEvents(), s.State().World.MarketConditions)
	k := s.PriceKnowledge()[2]
	if !reflect.DeepEqual(k.Prices, truth) {
		t.Fatalf("reported %v, want %v", k.Prices, truth)
	}
	if k.Source != model.SourceBroker || k.LastVisit != 0 {
		t.Fatalf("knowledge = %+v", k)
	}
}

func TestPurchaseIntelligence_ShadedLow(t *testing.T) {
	b, s := setup(t, 0)
	p, err := b.PurchaseIntelligence(s, 2)
	if err != nil || !p.Success {
		t.Fatalf("PurchaseIntelligence = %+v, %v", p, err)
	}
	sys, _ := s.Catalog().System(2)
	truth := s.Pricer().Prices(sys, 0, s.ActiveEvents(), s.State().World.MarketConditions)
	for good, want := range truth {
		got := s.PriceKnowledge()[2].Prices[good]
		if got > want {
			t.Errorf("%s reported %d above real %d", good, got, want)
		}
		if want >= 4 && got == want {
			t.Errorf("%s not shaded: %d", good, got)
		}
	}
}

func TestPurchaseIntelligence_InsufficientCredits(t *testing.T) {
	b, s := setup(t, 1)
	s.UpdateCredits(10)
	p, err := b.PurchaseIntelligence(s, 2)
	if err != nil {
		t.Fatalf("PurchaseIntelligence: %v", err)
	}
	if p.Success || p.Reason != "Insufficient credits" {
		t.Fatalf("purchase = %+v", p)
	}
	if _, ok := s.PriceKnowledge()[2]; ok || s.Player().Credits != 10 {
		t.Fatal("failed purchase changed state")
	}
}

func TestListAvailableIntelligence_Ranking(t *testing.T) {
	b, s := setup(t, 1)
	if _, err := b.PurchaseIntelligence(s, 2); err != nil {
		t.Fatal(err)
	}
	s.UpdateTime(4)
	if _, err := b.PurchaseIntelligence(s, 3); err != nil {
		t.Fatal(err)
	}

	opts, err := b.ListAvailableIntelligence(s)
	if err != nil {
		t.Fatalf("ListAvailableIntelligence: %v", err)
	}
	var ids []int
	for _, o := range opts {
		ids = append(ids, o.SystemID)
	}
	// Unknown 1 and 5 first, then 2 (4 days stale), 3 (fresh), Sol last.
	if want := []int{1, 5, 2, 3, 0}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("order = %v, want %v", ids, want)
	}
	if !opts[len(opts)-1].Current {
		t.Fatal("current system not flagged")
	}
}

func TestGenerateRumor(t *testing.T) {
	b, s := setup(t, 0)
	rumor := b.GenerateRumor(s)
	if rumor == "" {
		t.Fatal("empty rumor")
	}
	if again := b.GenerateRumor(s); again != rumor {
		t.Fatal("rumor not stable for a fixed draw")
	}
	if strings.HasPrefix(rumor, "Traders say") && !strings.Contains(rumor, "₡") {
		t.Fatalf("price rumor without credits: %q", rumor)
	}
}
