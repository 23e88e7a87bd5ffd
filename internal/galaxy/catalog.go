// Package galaxy provides the static star system catalog and wormhole network.
// The catalog is read-only input to the simulation: nothing in the core mutates it.
package galaxy

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed data/galaxy.yaml
var defaultCatalogYAML []byte

// ErrUnknownSystem is returned when an id is not in the catalog.
var ErrUnknownSystem = errors.New("unknown star system")

// StarSystem is one entry of the static catalog.
type StarSystem struct {
	ID        int     `yaml:"id" json:"id"`
	Name      string  `yaml:"name" json:"name"`
	X         float64 `yaml:"x" json:"x"`
	Y         float64 `yaml:"y" json:"y"`
	Z         float64 `yaml:"z" json:"z"`
	Type      string  `yaml:"type" json:"type"` // spectral class
	TechLevel float64 `yaml:"tech_level" json:"techLevel"`
	Station   bool    `yaml:"station" json:"station"`
}

// Catalog holds the systems and the symmetric wormhole adjacency built from them.
type Catalog struct {
	systems []StarSystem
	index   map[int]int   // id → position in systems
	adj     map[int][]int // id → sorted neighbour ids
}

type catalogFile struct {
	Systems   []StarSystem `yaml:"systems"`
	Wormholes [][2]int     `yaml:"wormholes"`
}

// New builds a catalog. Wormholes are undirected: listing A→B connects B→A
// as well, duplicate pairs collapse, and self-links are rejected.
func New(systems []StarSystem, wormholes [][2]int) (*Catalog, error) {
	c := &Catalog{
		systems: make([]StarSystem, 0, len(systems)),
		index:   make(map[int]int, len(systems)),
		adj:     make(map[int][]int, len(systems)),
	}
	for _, s := range systems {
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("duplicate system id %d", s.ID)
		}
		c.index[s.ID] = len(c.systems)
		c.systems = append(c.systems, s)
	}
	slices.SortFunc(c.systems, func(a, b StarSystem) int { return a.ID - b.ID })
	for i, s := range c.systems {
		c.index[s.ID] = i
	}

	for _, w := range wormholes {
		a, b := w[0], w[1]
		if a == b {
			return nil, fmt.Errorf("wormhole %d→%d links a system to itself", a, b)
		}
		if !c.Has(a) || !c.Has(b) {
			return nil, fmt.Errorf("wormhole %d→%d: %w", a, b, ErrUnknownSystem)
		}
		c.link(a, b)
		c.link(b, a)
	}
	for id := range c.adj {
		slices.Sort(c.adj[id])
	}
	return c, nil
}

func (c *Catalog) link(from, to int) {
	if slices.Contains(c.adj[from], to) {
		return
	}
	c.adj[from] = append(c.adj[from], to)
}

// Parse decodes a YAML catalog.
func Parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse galaxy: %w", err)
	}
	if len(f.Systems) == 0 {
		return nil, errors.New("parse galaxy: no systems")
	}
	return New(f.Systems, f.Wormholes)
}

// Load reads a YAML catalog from disk.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded galaxy catalog: %v", err))
	}
	return c
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id int) bool {
	_, ok := c.index[id]
	return ok
}

// System returns the system with the given id.
func (c *Catalog) System(id int) (StarSystem, error) {
	i, ok := c.index[id]
	if !ok {
		return StarSystem{}, fmt.Errorf("system %d: %w", id, ErrUnknownSystem)
	}
	return c.systems[i], nil
}

// Systems returns every system ordered by id.
func (c *Catalog) Systems() []StarSystem {
	return slices.Clone(c.systems)
}

// Connected returns the ids reachable through one wormhole, ordered by id.
func (c *Catalog) Connected(id int) []int {
	return slices.Clone(c.adj[id])
}

// AreConnected reports whether a wormhole joins a and b.
func (c *Catalog) AreConnected(a, b int) bool {
	return slices.Contains(c.adj[a], b)
}

// Len returns the number of systems.
func (c *Catalog) Len() int {
	return len(c.systems)
}

// Distance is the Euclidean distance between two systems in light years.
func Distance(a, b StarSystem) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
