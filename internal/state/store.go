// Package state owns the canonical game state. Every change goes through a
// Store method, which applies the mutation, notifies subscribers on the Bus
// and persists the result.
package state

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/economy"
	"github.com/talgya/tramp-freighter/internal/galaxy"
	"github.com/talgya/tramp-freighter/internal/model"
	"github.com/talgya/tramp-freighter/internal/ship"
)

var (
	// ErrNotInitialized is the panic value of a query made before a game
	// was started or loaded.
	ErrNotInitialized    = errors.New("state not initialized")
	ErrOutOfRange        = errors.New("value out of range")
	ErrUnknownShipSystem = errors.New("unknown ship system")
	ErrBadStack          = errors.New("no such cargo stack")
)

// Result reports the outcome of a player action. A failed action leaves the
// state untouched and carries a player-facing reason.
type Result struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

var done = Result{Success: true}

func fail(reason string) Result { return Result{Reason: reason} }

// Storage is the local save slot the store writes through to.
type Storage interface {
	Write(key, blob, version string) error
	Read(key string) (string, bool, error)
	Delete(key string) error
}

// Options configures a Store. Catalog and Storage are required.
type Options struct {
	Catalog *galaxy.Catalog
	Tuning  balance.Tuning
	Storage Storage
	// SaveKey defaults to persistence.SaveKey's value.
	SaveKey string
	// SaveInterval is the minimum time between debounced writes.
	SaveInterval time.Duration
	// Seed fixes the new-game quirk roll; zero draws from crypto/rand.
	Seed int64
	Now  func() time.Time
}

// Store is the single owner of the game state tree.
type Store struct {
	bus     *Bus
	state   *model.State
	catalog *galaxy.Catalog
	tuning  balance.Tuning
	pricer  *economy.Pricer
	events  *economy.EventSystem
	storage Storage

	saveKey      string
	saveInterval time.Duration
	lastSave     time.Time
	seed         int64
	now          func() time.Time
}

// New creates a store with no game loaded.
func New(opts Options) *Store {
	if opts.SaveKey == "" {
		opts.SaveKey = "tramp-freighter-save"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		bus:          NewBus(),
		catalog:      opts.Catalog,
		tuning:       opts.Tuning,
		pricer:       economy.NewPricer(opts.Tuning),
		events:       economy.NewEventSystem(opts.Tuning),
		storage:      opts.Storage,
		saveKey:      opts.SaveKey,
		saveInterval: opts.SaveInterval,
		seed:         opts.Seed,
		now:          opts.Now,
	}
}

func (s *Store) Bus() *Bus                { return s.bus }
func (s *Store) Catalog() *galaxy.Catalog { return s.catalog }
func (s *Store) Tuning() balance.Tuning   { return s.tuning }
func (s *Store) Pricer() *economy.Pricer  { return s.pricer }

// Initialized reports whether a game is loaded.
func (s *Store) Initialized() bool { return s.state != nil }

func (s *Store) must() *model.State {
	if s.state == nil {
		panic(ErrNotInitialized)
	}
	return s.state
}

// State returns a deep copy of the whole tree.
func (s *Store) State() *model.State { return s.must().Clone() }

func (s *Store) Player() model.Player { return s.must().Player }

// Ship returns a copy of the ship subtree.
func (s *Store) Ship() model.Ship {
	c := s.must().Clone()
	return c.Ship
}

// CurrentSystem returns the catalog entry for the player's location.
func (s *Store) CurrentSystem() galaxy.StarSystem {
	sys, err := s.catalog.System(s.must().Player.CurrentSystem)
	if err != nil {
		panic(err)
	}
	return sys
}

func (s *Store) CargoUsed() int { return stackTotal(s.must().Ship.Cargo) }

func (s *Store) CargoRemaining() int {
	st := s.must()
	return st.Ship.CargoCapacity - stackTotal(st.Ship.Cargo)
}

func (s *Store) HiddenCargoUsed() int { return stackTotal(s.must().Ship.HiddenCargo) }

func (s *Store) HiddenCargoRemaining() int {
	st := s.must()
	return st.Ship.HiddenCargoCapacity - stackTotal(st.Ship.HiddenCargo)
}

func (s *Store) FuelCapacity() float64 { return s.must().Ship.FuelCapacity }

func (s *Store) PriceKnowledge() map[int]model.PriceKnowledge {
	return model.ClonePriceKnowledge(s.must().World.PriceKnowledge)
}

func (s *Store) CurrentSystemPrices() map[string]int {
	return maps.Clone(s.must().World.CurrentSystemPrices)
}

func (s *Store) ActiveEvents() []model.ActiveEvent {
	return append([]model.ActiveEvent(nil), s.must().World.ActiveEvents...)
}

func (s *Store) VisitedSystems() []int {
	return append([]int(nil), s.must().World.VisitedSystems...)
}

// NPCState returns the standing with one NPC; unknown NPCs are neutral.
func (s *Store) NPCState(id string) model.NPCState {
	n := s.must().World.NPCState[id]
	n.Flags = append([]string{}, n.Flags...)
	return n
}

// Stats folds the installed upgrades over the base ship.
func (s *Store) Stats() ship.Stats {
	stats, err := s.computeStats(s.must().Ship.Upgrades)
	if err != nil {
		panic(err)
	}
	return stats
}

func (s *Store) computeStats(upgrades []string) (ship.Stats, error) {
	base := ship.BaseStats(s.tuning.BaseCargoCapacity, s.tuning.BaseHiddenCapacity, s.tuning.BaseFuelCapacity)
	stats, err := ship.ComputeStats(base, upgrades)
	if err != nil {
		return ship.Stats{}, fmt.Errorf("ship stats: %w", err)
	}
	return stats, nil
}

func stackTotal(stacks []model.CargoStack) int {
	n := 0
	for _, st := range stacks {
		n += st.Qty
	}
	return n
}
