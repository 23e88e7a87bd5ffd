package economy

import (
	"math"
	"testing"

	"github.com/talgya/tramp-freighter/internal/model"
)

func TestRecordTrade_CreatesAndCancels(t *testing.T) {
	conds := model.MarketConditions{}
	RecordTrade(conds, 3, "grain", 10)
	RecordTrade(conds, 3, "grain", -4)
	if conds[3]["grain"] != 6 {
		t.Fatalf("accumulator = %v, want 6", conds[3]["grain"])
	}
	RecordTrade(conds, 3, "grain", -6)
	if _, ok := conds[3]; ok {
		t.Fatalf("zeroed entry should be removed, got %v", conds)
	}
}

func TestRecover_DecaysAndPrunes(t *testing.T) {
	conds := model.MarketConditions{
		1: {"grain": 10, "ore": -0.105},
		2: {"parts": 0.05},
	}
	Recover(conds, 2, 0.1, 0.1)

	want := 10 * 0.81
	if got := conds[1]["grain"]; math.Abs(got-want) > 1e-9 {
		t.Fatalf("grain = %v, want %v", got, want)
	}
	if _, ok := conds[1]["ore"]; ok {
		t.Fatalf("ore should have been pruned")
	}
	if _, ok := conds[2]; ok {
		t.Fatalf("system 2 should have been pruned entirely")
	}

	Recover(conds, 0, 0.1, 0.1)
	if got := conds[1]["grain"]; math.Abs(got-want) > 1e-9 {
		t.Fatalf("zero-day recovery changed value to %v", got)
	}
}

func TestRecover_EventuallyEmpty(t *testing.T) {
	conds := model.MarketConditions{5: {"tritium": -40}}
	for i := 0; i < 100; i++ {
		Recover(conds, 1, 0.1, 0.1)
	}
	if len(conds) != 0 {
		t.Fatalf("conditions never pruned: %v", conds)
	}
}
