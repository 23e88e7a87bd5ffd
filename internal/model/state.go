// Package model defines the canonical game state tree. The tree is owned by
// state.Store; every other package only reads it or receives copies.
package model

// CurrentVersion is the save schema version written by this build.
const CurrentVersion = "2.1.0"

// Price knowledge sources.
const (
	SourceVisited = "visited"
	SourceBroker  = "broker"
)

// State is the root of the persisted tree.
type State struct {
	Player Player `json:"player"`
	Ship   Ship   `json:"ship"`
	World  World  `json:"world"`
	Meta   Meta   `json:"meta"`
}

// Player holds the commander's finances, location and the game clock.
type Player struct {
	Credits       int `json:"credits"`
	Debt          int `json:"debt"`
	CurrentSystem int `json:"currentSystem"`
	DaysElapsed   int `json:"daysElapsed"`
}

// Ship holds the player's vessel. Quirks are fixed at creation; Upgrades
// only ever grow. Capacities are derived from Upgrades.
type Ship struct {
	Name                string       `json:"name"`
	Quirks              []string     `json:"quirks"`
	Upgrades            []string     `json:"upgrades"`
	Fuel                float64      `json:"fuel"`
	Hull                float64      `json:"hull"`
	Engine              float64      `json:"engine"`
	LifeSupport         float64      `json:"lifeSupport"`
	FuelCapacity        float64      `json:"fuelCapacity"`
	CargoCapacity       int          `json:"cargoCapacity"`
	HiddenCargoCapacity int          `json:"hiddenCargoCapacity"`
	Cargo               []CargoStack `json:"cargo"`
	HiddenCargo         []CargoStack `json:"hiddenCargo"`
}

// CargoStack is one lot of a good bought together. Qty is always > 0.
type CargoStack struct {
	Good      string `json:"good"`
	Qty       int    `json:"qty"`
	BuyPrice  int    `json:"buyPrice"`
	BuySystem int    `json:"buySystem"`
	BuyDate   int    `json:"buyDate"`
}

// World holds everything the player knows or has changed about the galaxy.
type World struct {
	VisitedSystems      []int                      `json:"visitedSystems"`
	PriceKnowledge      map[int]PriceKnowledge     `json:"priceKnowledge"`
	ActiveEvents        []ActiveEvent              `json:"activeEvents"`
	MarketConditions    map[int]map[string]float64 `json:"marketConditions"`
	CurrentSystemPrices map[string]int             `json:"currentSystemPrices"`
	NPCState            map[string]NPCState        `json:"npcState"`
}

// PriceKnowledge is what the player believes a system's market looks like.
// LastVisit counts days since the entry was recorded.
type PriceKnowledge struct {
	LastVisit int            `json:"lastVisit"`
	Prices    map[string]int `json:"prices"`
	Source    string         `json:"source"`
}

// ActiveEvent is an economic event in force at one system until Expiry.
type ActiveEvent struct {
	ID       string `json:"id"`
	SystemID int    `json:"systemId"`
	Type     string `json:"type"`
	StartDay int    `json:"startDay"`
	Expiry   int    `json:"expiry"`
}

// NPCState tracks the player's standing with one NPC.
type NPCState struct {
	Rep             int      `json:"rep"`
	Flags           []string `json:"flags"`
	Interactions    int      `json:"interactions"`
	LastInteraction int      `json:"lastInteraction"`
}

// Meta describes the save itself.
type Meta struct {
	Version   string `json:"version"`
	Timestamp int64  `json:"timestamp"`
	GameID    string `json:"gameId,omitempty"`
}

// MarketConditions is the sparse system → good → accumulator map.
type MarketConditions = map[int]map[string]float64
