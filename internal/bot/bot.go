// Package bot plays a seat that has no human behind it.
package bot

import (
	"slices"
	"sort"

	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/game"
	"github.com/pefman/fffa-arena/internal/hexgrid"
	"github.com/pefman/fffa-arena/internal/synergy"
)

// Names are assigned to bots in seat order.
var Names = []string{
	"Whiskers", "Mittens", "Shadow", "Luna",
	"Felix", "Cleo", "Tiger", "Noodle",
	"Biscuit", "Mochi", "Salem", "Pixel",
}

// TankFactions are placed on the front row.
var TankFactions = []catalog.Faction{catalog.MaineCoon, catalog.Persian, catalog.Ragdoll}

const (
	levelUpReserve  = 10
	cheapGold       = 30
	cheapCost       = 2
	rerollMinGold   = 10
	rerollSpendGold = 20
	tankHP          = 700
)

var (
	frontRows = []int{hexgrid.FrontRow}
	backRows  = []int{5, 6, 7}
)

// Turn summarises what the bot did, for logging.
type Turn struct {
	LeveledUp bool
	Bought    []string
	Merges    []game.MergeEvent
	Placed    int
	Rerolled  bool
}

// TakeTurn runs the fixed decision pipeline once: level up, buy, merge,
// place, then maybe reroll and buy again. Dead players are left alone.
func TakeTurn(cat *catalog.Catalog, p *game.PlayerState, rng catalog.Rand) Turn {
	var t Turn
	if !p.Alive {
		return t
	}
	t.LeveledUp = decideLevelUp(p)
	buy(cat, p, &t)
	r, evs := game.MergeAll(p.Roster())
	p.SetRoster(r)
	t.Merges = append(t.Merges, evs...)
	t.Placed = place(cat, p)
	t.Rerolled = decideReroll(cat, p, rng, &t)
	return t
}

func decideLevelUp(p *game.PlayerState) bool {
	if p.Level >= catalog.MaxLevel {
		return false
	}
	if p.Gold >= catalog.LevelUpCost+levelUpReserve && len(p.Board) >= p.UnitCap() {
		return p.LevelUp() == nil
	}
	return false
}

// buy walks the shop left to right and takes offers that pair with owned
// copies, advance a faction, or are cheap while rich.
func buy(cat *catalog.Catalog, p *game.PlayerState, t *Turn) {
	owned := p.OwnedCounts()
	factions := synergy.Counts(cat, append(p.Board.Units(), p.Bench.Units()...))
	for i, id := range p.Shop {
		if id == "" {
			continue
		}
		u, ok := cat.Lookup(id)
		if !ok || !p.CanAfford(u.Cost) {
			continue
		}
		if p.Bench.FirstFree() < 0 {
			break
		}
		cheap := p.Gold >= cheapGold && u.Cost <= cheapCost
		if priority(owned[id], factions[u.Faction], cheap) < 20 && !cheap {
			continue
		}
		evs, err := p.Buy(cat, i)
		if err != nil {
			continue
		}
		t.Bought = append(t.Bought, id)
		t.Merges = append(t.Merges, evs...)
		owned[id]++
		factions[u.Faction]++
	}
}

func priority(copies, factionCount int, cheap bool) int {
	score := 0
	switch {
	case copies >= 2:
		score += 50
	case copies >= 1:
		score += 20
	}
	if factionCount == 1 || factionCount == 3 || factionCount == 5 {
		score += 30
	}
	if cheap {
		score += 10
	}
	return score
}

func isTank(u catalog.Unit, ok bool) bool {
	if !ok {
		return false
	}
	return slices.Contains(TankFactions, u.Faction) || u.Stats.HP > tankHP
}

// place fills open board slots from the bench: tanks first, then by cost.
// Tanks prefer the front row and everyone else the back rows; both fall
// back to any free hex.
func place(cat *catalog.Catalog, p *game.PlayerState) int {
	if len(p.Board) >= p.UnitCap() {
		return 0
	}
	type candidate struct {
		slot int
		tank bool
		cost int
	}
	var cands []candidate
	for i, ref := range p.Bench {
		if ref == nil {
			continue
		}
		u, ok := cat.Lookup(ref.ID)
		cands = append(cands, candidate{slot: i, tank: isTank(u, ok), cost: u.Cost})
	}
	sort.SliceStable(cands, func(a, b int) bool {
		if cands[a].tank != cands[b].tank {
			return cands[a].tank
		}
		return cands[a].cost > cands[b].cost
	})

	placed := 0
	for _, c := range cands {
		if len(p.Board) >= p.UnitCap() {
			break
		}
		preferred := backRows
		if c.tank {
			preferred = frontRows
		}
		rows := slices.Concat(preferred, frontRows, backRows)
		if h, ok := freeHex(p.Board, rows); ok {
			if p.Place(c.slot, h) == nil {
				placed++
			}
		}
	}
	return placed
}

func freeHex(b game.Board, rows []int) (hexgrid.Hex, bool) {
	for _, row := range rows {
		for col := 0; col < hexgrid.Cols; col++ {
			h := hexgrid.Hex{Col: col, Row: row}
			if _, taken := b[h]; !taken {
				return h, true
			}
		}
	}
	return hexgrid.Hex{}, false
}

// decideReroll spends on one reroll when a pair is waiting for its third copy.
func decideReroll(cat *catalog.Catalog, p *game.PlayerState, rng catalog.Rand, t *Turn) bool {
	if p.Gold < rerollMinGold {
		return false
	}
	pair := false
	for _, n := range p.OwnedCounts() {
		if n == 2 {
			pair = true
			break
		}
	}
	if !pair || p.Bench.FirstFree() < 0 || p.Gold < rerollSpendGold {
		return false
	}
	if err := p.Reroll(cat, rng); err != nil {
		return false
	}
	buy(cat, p, t)
	return true
}
