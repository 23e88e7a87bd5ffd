package state

import (
	"log/slog"
	"slices"

	"github.com/talgya/tramp-freighter/internal/model"
)

// Reputation bounds.
const (
	MinRep = -100
	MaxRep = 100
)

// RepTier names the band a reputation value falls in.
func RepTier(rep int) string {
	switch {
	case rep <= -50:
		return "hostile"
	case rep < -10:
		return "cold"
	case rep <= 10:
		return "neutral"
	case rep < 50:
		return "friendly"
	default:
		return "trusted"
	}
}

// ModifyRep adds delta to an NPC's reputation, clamped to [MinRep, MaxRep],
// and counts the interaction. It returns the new value.
func (s *Store) ModifyRep(npcID string, delta int) int {
	st := s.must()
	n := st.World.NPCState[npcID]
	// Bounding delta first keeps n.Rep+delta from overflowing.
	delta = min(MaxRep-MinRep, max(MinRep-MaxRep, delta))
	n.Rep = min(MaxRep, max(MinRep, n.Rep+delta))
	n.Interactions++
	n.LastInteraction = st.Player.DaysElapsed
	if n.Flags == nil {
		n.Flags = []string{}
	}
	st.World.NPCState[npcID] = n

	slog.Debug("reputation changed", "npc", npcID, "delta", delta, "rep", n.Rep, "tier", RepTier(n.Rep))
	s.emitNPC(npcID, n)
	s.persist()
	return n.Rep
}

// SetNPCFlag adds flag to an NPC's flags unless already present. Existing
// flags keep their order. It reports whether the flag was new.
func (s *Store) SetNPCFlag(npcID, flag string) bool {
	st := s.must()
	n := st.World.NPCState[npcID]
	if slices.Contains(n.Flags, flag) {
		return false
	}
	n.Flags = append(slices.Clone(n.Flags), flag)
	st.World.NPCState[npcID] = n

	s.emitNPC(npcID, n)
	s.persist()
	return true
}

func (s *Store) emitNPC(id string, n model.NPCState) {
	n.Flags = cloneStrings(n.Flags)
	emit(s.bus, NPCChanged, NPCUpdate{ID: id, State: n})
}
