// Package synergy derives faction bonuses from what a player has deployed.
package synergy

import (
	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/game"
)

// Bonuses maps each active faction to the tier it reached.
type Bonuses map[catalog.Faction]catalog.Bonus

// Counts tallies units per faction. Ids missing from the catalog are skipped.
func Counts(cat *catalog.Catalog, refs []game.UnitRef) map[catalog.Faction]int {
	counts := map[catalog.Faction]int{}
	for _, r := range refs {
		u, ok := cat.Lookup(r.ID)
		if !ok || u.Faction == "" {
			continue
		}
		counts[u.Faction]++
	}
	return counts
}

// Resolve returns, for every faction at or above its lowest threshold, the
// bonus of the highest threshold the board reaches. It does not modify board.
func Resolve(cat *catalog.Catalog, board game.Board) Bonuses {
	out := Bonuses{}
	for f, n := range Counts(cat, board.Units()) {
		info, ok := cat.Faction(f)
		if !ok {
			continue
		}
		for i := len(info.Tiers) - 1; i >= 0; i-- {
			if n >= info.Tiers[i].Threshold {
				out[f] = info.Tiers[i].Bonus
				break
			}
		}
	}
	return out
}

// Active describes one faction's progress for scoreboards and the HTTP API.
type Active struct {
	Faction   catalog.Faction `json:"faction" msgpack:"faction"`
	Count     int             `json:"count" msgpack:"count"`
	Threshold int             `json:"threshold" msgpack:"threshold"`
	Next      int             `json:"next,omitempty" msgpack:"next,omitempty"`
}

// Summary reports every faction present on board with its reached and next threshold.
func Summary(cat *catalog.Catalog, board game.Board) []Active {
	var out []Active
	counts := Counts(cat, board.Units())
	for _, info := range cat.Factions() {
		n := counts[info.ID]
		if n == 0 {
			continue
		}
		a := Active{Faction: info.ID, Count: n}
		for _, t := range info.Tiers {
			if n >= t.Threshold {
				a.Threshold = t.Threshold
			} else if a.Next == 0 {
				a.Next = t.Threshold
			}
		}
		out = append(out, a)
	}
	return out
}
