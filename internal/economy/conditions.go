package economy

import (
	"math"

	"github.com/talgya/tramp-freighter/internal/model"
)

// RecordTrade adds delta to the (system, good) accumulator. Sales pass +qty,
// purchases −qty. The map is created on demand.
func RecordTrade(conditions model.MarketConditions, systemID int, good string, delta float64) {
	goods := conditions[systemID]
	if goods == nil {
		goods = make(map[string]float64)
		conditions[systemID] = goods
	}
	goods[good] += delta
	if goods[good] == 0 {
		delete(goods, good)
		if len(goods) == 0 {
			delete(conditions, systemID)
		}
	}
}

// Recover decays every accumulator by (1 − rate)^days and prunes entries that
// fall below threshold, so the map never accumulates near-zero noise.
func Recover(conditions model.MarketConditions, days int, rate, threshold float64) {
	if days <= 0 {
		return
	}
	factor := math.Pow(1-rate, float64(days))
	for systemID, goods := range conditions {
		for good, v := range goods {
			v *= factor
			if math.Abs(v) < threshold {
				delete(goods, good)
				continue
			}
			goods[good] = v
		}
		if len(goods) == 0 {
			delete(conditions, systemID)
		}
	}
}
