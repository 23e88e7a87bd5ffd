package model

import "maps"

// Clone returns a deep copy of the state tree.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.Ship.Quirks = cloneSlice(s.Ship.Quirks)
	c.Ship.Upgrades = cloneSlice(s.Ship.Upgrades)
	c.Ship.Cargo = cloneSlice(s.Ship.Cargo)
	c.Ship.HiddenCargo = cloneSlice(s.Ship.HiddenCargo)
	c.World = s.World.Clone()
	return &c
}

// Clone returns a deep copy of the world subtree.
func (w World) Clone() World {
	c := w
	c.VisitedSystems = cloneSlice(w.VisitedSystems)
	c.ActiveEvents = cloneSlice(w.ActiveEvents)
	c.CurrentSystemPrices = maps.Clone(w.CurrentSystemPrices)
	c.PriceKnowledge = ClonePriceKnowledge(w.PriceKnowledge)
	c.MarketConditions = CloneConditions(w.MarketConditions)
	if w.NPCState != nil {
		c.NPCState = make(map[string]NPCState, len(w.NPCState))
		for id, n := range w.NPCState {
			n.Flags = cloneSlice(n.Flags)
			c.NPCState[id] = n
		}
	}
	return c
}

// ClonePriceKnowledge deep-copies a price knowledge map.
func ClonePriceKnowledge(pk map[int]PriceKnowledge) map[int]PriceKnowledge {
	if pk == nil {
		return nil
	}
	out := make(map[int]PriceKnowledge, len(pk))
	for id, k := range pk {
		k.Prices = maps.Clone(k.Prices)
		out[id] = k
	}
	return out
}

// CloneConditions deep-copies a market conditions map.
func CloneConditions(mc MarketConditions) MarketConditions {
	if mc == nil {
		return nil
	}
	out := make(MarketConditions, len(mc))
	for id, goods := range mc {
		out[id] = maps.Clone(goods)
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
