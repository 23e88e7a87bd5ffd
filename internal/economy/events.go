package economy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/entropy"
	"github.com/talgya/tramp-freighter/internal/galaxy"
	"github.com/talgya/tramp-freighter/internal/model"
)

// EventType is one kind of systemic economic event.
type EventType struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	MinDuration int                `json:"minDuration"`
	MaxDuration int                `json:"maxDuration"`
	MinTech     float64            `json:"minTech"`
	MaxTech     float64            `json:"maxTech"`
	Modifiers   map[string]float64 `json:"modifiers"`
}

// Event type ids. The set is closed.
const (
	EventMiningStrike     = "mining_strike"
	EventMedicalEmergency = "medical_emergency"
	EventFestival         = "festival"
	EventSupplyGlut       = "supply_glut"
)

var eventTypes = []EventType{
	{
		ID:          EventMiningStrike,
		Name:        "Mining Strike",
		Description: "Miners have walked off the job. Raw materials are scarce.",
		MinDuration: 5, MaxDuration: 10,
		MinTech: 1, MaxTech: 5,
		Modifiers: map[string]float64{"ore": 1.5, "tritium": 1.3},
	},
	{
		ID:          EventMedicalEmergency,
		Name:        "Medical Emergency",
		Description: "An outbreak has hospitals begging for supplies.",
		MinDuration: 3, MaxDuration: 7,
		MinTech: 1, MaxTech: 10,
		Modifiers: map[string]float64{"medicine": 2.0, "grain": 0.9},
	},
	{
		ID:          EventFestival,
		Name:        "Festival",
		Description: "The station is celebrating. Luxuries and food are in demand.",
		MinDuration: 2, MaxDuration: 5,
		MinTech: 4, MaxTech: 10,
		Modifiers: map[string]float64{"electronics": 1.3, "grain": 1.2},
	},
	{
		ID:          EventSupplyGlut,
		Name:        "Supply Glut",
		Description: "Factories overproduced. Manufactured goods are cheap.",
		MinDuration: 4, MaxDuration: 8,
		MinTech: 6, MaxTech: 10,
		Modifiers: map[string]float64{"parts": 0.6, "electronics": 0.8},
	},
}

var eventNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("tramp-freighter/economic-events"))

// EventTypes returns the closed set of event types.
func EventTypes() []EventType {
	return append([]EventType(nil), eventTypes...)
}

// LookupEventType returns an event type by id.
func LookupEventType(id string) (EventType, bool) {
	for _, et := range eventTypes {
		if et.ID == id {
			return et, true
		}
	}
	return EventType{}, false
}

// Modifier returns the factor this event type applies to good.
func (et EventType) Modifier(good string) float64 {
	if m, ok := et.Modifiers[good]; ok {
		return m
	}
	return 1.0
}

// EventModifier multiplies the modifiers of every event active at systemID.
func EventModifier(events []model.ActiveEvent, systemID int, good string) float64 {
	m := 1.0
	for _, e := range events {
		if e.SystemID != systemID {
			continue
		}
		if et, ok := LookupEventType(e.Type); ok {
			m *= et.Modifier(good)
		}
	}
	return m
}

// EventID derives a stable id for an event from what it is, where and when.
func EventID(systemID int, eventType string, startDay int) string {
	return uuid.NewSHA1(eventNamespace, []byte(fmt.Sprintf("%d:%s:%d", systemID, eventType, startDay))).String()
}

// EventSystem ages, expires and spawns economic events.
type EventSystem struct {
	t balance.Tuning
}

// NewEventSystem creates an event system for the given balance.
func NewEventSystem(t balance.Tuning) *EventSystem {
	return &EventSystem{t: t}
}

// UpdateEvents returns the event list for day: expired events are dropped and
// new ones may spawn at stations without an event. The random draws are seeded
// from the day, so replaying the same day yields the same events.
func (es *EventSystem) UpdateEvents(events []model.ActiveEvent, day int, catalog *galaxy.Catalog) []model.ActiveEvent {
	out := make([]model.ActiveEvent, 0, len(events))
	busy := make(map[int]bool, len(events))
	for _, e := range events {
		if e.Expiry < day {
			continue
		}
		if busy[e.SystemID] {
			// Never two events at one system.
			continue
		}
		busy[e.SystemID] = true
		out = append(out, e)
	}

	rng := entropy.ForDay(es.t.EventSeed, day)
	for _, sys := range catalog.Systems() {
		if !sys.Station {
			continue
		}
		// Draw for every station so one system's state never shifts another's roll.
		roll := rng.Float64()
		pick := rng.Float64()
		length := rng.Float64()
		if busy[sys.ID] || roll >= es.t.EventSpawnChance {
			continue
		}
		eligible := eligibleTypes(sys.TechLevel)
		if len(eligible) == 0 {
			continue
		}
		et := eligible[int(pick*float64(len(eligible)))]
		duration := et.MinDuration + int(length*float64(et.MaxDuration-et.MinDuration+1))
		out = append(out, model.ActiveEvent{
			ID:       EventID(sys.ID, et.ID, day),
			SystemID: sys.ID,
			Type:     et.ID,
			StartDay: day,
			Expiry:   day + duration,
		})
		busy[sys.ID] = true
	}
	return out
}

func eligibleTypes(tech float64) []EventType {
	var out []EventType
	for _, et := range eventTypes {
		if tech >= et.MinTech && tech <= et.MaxTech {
			out = append(out, et)
		}
	}
	return out
}
