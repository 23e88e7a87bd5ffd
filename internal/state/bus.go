package state

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/talgya/tramp-freighter/internal/model"
)

// Topic identifies one kind of change notification and the payload type it
// carries. The set of topics is fixed; a subscriber naming a topic that does
// not exist, or expecting the wrong payload, fails to compile.
type Topic[T any] struct {
	name string
}

// Name is the wire name of the topic, used by the UI bridge.
func (t Topic[T]) Name() string { return t.name }

// Condition is the payload of ShipConditionChanged.
type Condition struct {
	Hull        float64 `json:"hull"`
	Engine      float64 `json:"engine"`
	LifeSupport float64 `json:"lifeSupport"`
}

// Warning is the payload of ConditionWarning.
type Warning struct {
	System string  `json:"system"`
	Level  string  `json:"level"`
	Value  float64 `json:"value"`
}

// Warning levels.
const (
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// NPCUpdate is the payload of NPCChanged.
type NPCUpdate struct {
	ID    string         `json:"id"`
	State model.NPCState `json:"state"`
}

var (
	CreditsChanged        = Topic[int]{"creditsChanged"}
	DebtChanged           = Topic[int]{"debtChanged"}
	FuelChanged           = Topic[float64]{"fuelChanged"}
	CargoChanged          = Topic[[]model.CargoStack]{"cargoChanged"}
	HiddenCargoChanged    = Topic[[]model.CargoStack]{"hiddenCargoChanged"}
	LocationChanged       = Topic[int]{"locationChanged"}
	TimeChanged           = Topic[int]{"timeChanged"}
	PriceKnowledgeChanged = Topic[map[int]model.PriceKnowledge]{"priceKnowledgeChanged"}
	ActiveEventsChanged   = Topic[[]model.ActiveEvent]{"activeEventsChanged"}
	ShipConditionChanged  = Topic[Condition]{"shipConditionChanged"}
	ConditionWarning      = Topic[Warning]{"conditionWarning"}
	ShipNameChanged       = Topic[string]{"shipNameChanged"}
	UpgradesChanged       = Topic[[]string]{"upgradesChanged"}
	QuirksChanged         = Topic[[]string]{"quirksChanged"}
	NPCChanged            = Topic[NPCUpdate]{"npcChanged"}
)

type handler struct {
	id uint64
	fn func(any)
}

// Bus delivers change notifications synchronously, in subscription order.
// A panicking subscriber is logged and skipped; the rest still run.
type Bus struct {
	nextID uint64
	subs   map[string][]handler
	taps   []handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]handler)}
}

// Subscription is returned by Subscribe and Tap.
type Subscription struct {
	bus   *Bus
	topic string
	id    uint64
	tap   bool
}

// Unsubscribe stops delivery. Calling it more than once is harmless.
func (s Subscription) Unsubscribe() {
	if s.bus == nil {
		return
	}
	drop := func(hs []handler) []handler {
		return slices.DeleteFunc(hs, func(h handler) bool { return h.id == s.id })
	}
	if s.tap {
		s.bus.taps = drop(s.bus.taps)
		return
	}
	s.bus.subs[s.topic] = drop(s.bus.subs[s.topic])
}

// Subscribe registers fn for every emission on topic.
func Subscribe[T any](b *Bus, topic Topic[T], fn func(T)) Subscription {
	b.nextID++
	h := handler{id: b.nextID, fn: func(v any) { fn(v.(T)) }}
	b.subs[topic.name] = append(b.subs[topic.name], h)
	return Subscription{bus: b, topic: topic.name, id: h.id}
}

// Tap registers fn for every emission on every topic, after the topic's own
// subscribers. The bridge uses it to forward events without listing topics.
func (b *Bus) Tap(fn func(topic string, payload any)) Subscription {
	b.nextID++
	h := handler{id: b.nextID}
	h.fn = func(v any) {
		e := v.(tapped)
		fn(e.topic, e.payload)
	}
	b.taps = append(b.taps, h)
	return Subscription{bus: b, id: h.id, tap: true}
}

type tapped struct {
	topic   string
	payload any
}

func emit[T any](b *Bus, topic Topic[T], payload T) {
	// Copy so handlers may unsubscribe while being called.
	for _, h := range slices.Clone(b.subs[topic.name]) {
		deliver(topic.name, h, payload)
	}
	if len(b.taps) == 0 {
		return
	}
	e := tapped{topic: topic.name, payload: payload}
	for _, h := range slices.Clone(b.taps) {
		deliver(topic.name, h, e)
	}
}

func deliver(topic string, h handler, v any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("subscriber panicked", "topic", topic, "panic", fmt.Sprint(r))
		}
	}()
	h.fn(v)
}
