package economy

import (
	"reflect"
	"testing"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/galaxy"
	"github.com/talgya/tramp-freighter/internal/model"
)

func TestUpdateEvents_ExpiresPastEvents(t *testing.T) {
	tun := balance.Default()
	tun.EventSpawnChance = 0
	es := NewEventSystem(tun)
	events := []model.ActiveEvent{
		{ID: "a", SystemID: 1, Type: EventFestival, Expiry: 9},
		{ID: "b", SystemID: 2, Type: EventFestival, Expiry: 10},
	}
	got := es.UpdateEvents(events, 10, galaxy.Default())
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("UpdateEvents = %+v, want only b", got)
	}
}

func TestUpdateEvents_DeterministicAndOnePerSystem(t *testing.T) {
	tun := balance.Default()
	tun.EventSpawnChance = 0.5
	es := NewEventSystem(tun)
	cat := galaxy.Default()

	var events []model.ActiveEvent
	spawned := 0
	for day := 1; day <= 60; day++ {
		a := es.UpdateEvents(events, day, cat)
		b := es.UpdateEvents(events, day, cat)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("day %d: update not deterministic", day)
		}
		seen := map[int]bool{}
		for _, e := range a {
			if seen[e.SystemID] {
				t.Fatalf("day %d: two events at system %d", day, e.SystemID)
			}
			seen[e.SystemID] = true
			sys, err := cat.System(e.SystemID)
			if err != nil || !sys.Station {
				t.Fatalf("event spawned at non-station system %d", e.SystemID)
			}
			if e.StartDay == day {
				spawned++
				if e.ID != EventID(e.SystemID, e.Type, day) {
					t.Fatalf("event id not derived from its identity")
				}
			}
		}
		events = a
	}
	if spawned == 0 {
		t.Fatalf("no events spawned in 60 days at 50%% chance")
	}
}

func TestEventModifier_UnknownTypeNeutral(t *testing.T) {
	events := []model.ActiveEvent{{SystemID: 1, Type: "alien_invasion"}}
	if m := EventModifier(events, 1, "grain"); m != 1 {
		t.Fatalf("unknown event type modifier = %v", m)
	}
}
