// Package economy provides commodity pricing, player-driven market pressure
// and the systemic economic events that move prices.
package economy

import (
	"errors"
	"fmt"
)

// ErrUnknownGood is returned for a commodity id that is not traded.
var ErrUnknownGood = errors.New("unknown good")

// Commodity is a tradeable good.
type Commodity struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"basePrice"`
	// TechBias > 0 makes the good cheaper in high-tech systems,
	// TechBias < 0 cheaper in low-tech ones.
	TechBias float64 `json:"techBias"`
	index    int
}

var commodityList = []Commodity{
	{ID: "grain", Name: "Grain", BasePrice: 12, TechBias: -0.6},
	{ID: "ore", Name: "Ore", BasePrice: 15, TechBias: -0.8},
	{ID: "tritium", Name: "Tritium", BasePrice: 50, TechBias: 0.2},
	{ID: "parts", Name: "Parts", BasePrice: 30, TechBias: 0.6},
	{ID: "medicine", Name: "Medicine", BasePrice: 40, TechBias: 0.4},
	{ID: "electronics", Name: "Electronics", BasePrice: 35, TechBias: 1.0},
}

var commodityIndex = func() map[string]Commodity {
	m := make(map[string]Commodity, len(commodityList))
	for i := range commodityList {
		commodityList[i].index = i
		m[commodityList[i].ID] = commodityList[i]
	}
	return m
}()

// Commodities returns every traded good in display order.
func Commodities() []Commodity {
	return append([]Commodity(nil), commodityList...)
}

// LookupCommodity returns a good by id.
func LookupCommodity(id string) (Commodity, error) {
	c, ok := commodityIndex[id]
	if !ok {
		return Commodity{}, fmt.Errorf("%q: %w", id, ErrUnknownGood)
	}
	return c, nil
}
