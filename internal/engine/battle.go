package engine

import (
	"fmt"

	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/game"
	"github.com/pefman/fffa-arena/internal/hexgrid"
	"github.com/pefman/fffa-arena/internal/synergy"
)

const (
	DefaultMaxTicks = 1000
	DrawDamage      = 2
	BaseDamage      = 2

	// NoPlayer marks a missing winner or loser.
	NoPlayer = -1
)

// Army is one player's side of a battle.
type Army struct {
	OwnerID int
	Level   int
	Board   game.Board
}

type Options struct {
	MaxTicks int
	// Trace records a line per attack in Result.Trace.
	Trace bool
}

// UnitSnapshot is the client playback view of a unit. HP is the starting
// value; clients replay the fight themselves.
type UnitSnapshot struct {
	ID              string          `json:"id" msgpack:"id"`
	HexKey          string          `json:"hexKey" msgpack:"hexKey"`
	IsPlayer        bool            `json:"isPlayer" msgpack:"isPlayer"`
	MaxHP           int             `json:"maxHp" msgpack:"maxHp"`
	HP              int             `json:"hp" msgpack:"hp"`
	Attack          int             `json:"attack" msgpack:"attack"`
	Speed           float64         `json:"speed" msgpack:"speed"`
	Range           int             `json:"range" msgpack:"range"`
	Armor           float64         `json:"armor" msgpack:"armor"`
	DamageReduction float64         `json:"damageReduction" msgpack:"damageReduction"`
	Role            catalog.Role    `json:"role" msgpack:"role"`
	Faction         catalog.Faction `json:"faction" msgpack:"faction"`
	Stars           int             `json:"stars" msgpack:"stars"`
	OwnerID         int             `json:"ownerId" msgpack:"ownerId"`
	CritChance      float64         `json:"critChance" msgpack:"critChance"`
	CritDamage      float64         `json:"critDamage" msgpack:"critDamage"`
	Lifesteal       float64         `json:"lifesteal" msgpack:"lifesteal"`
	Ability         catalog.Ability `json:"ability" msgpack:"ability"`
}

// Result is the outcome of one pairing.
type Result struct {
	PlayerA    int            `json:"playerA" msgpack:"playerA"`
	PlayerB    int            `json:"playerB" msgpack:"playerB"`
	Winner     int            `json:"winner" msgpack:"winner"`
	Loser      int            `json:"loser" msgpack:"loser"`
	Damage     int            `json:"damage" msgpack:"damage"`
	Ghost      bool           `json:"isGhostMatch" msgpack:"isGhostMatch"`
	SurvivorsA int            `json:"survivorsA" msgpack:"survivorsA"`
	SurvivorsB int            `json:"survivorsB" msgpack:"survivorsB"`
	Ticks      int            `json:"ticks" msgpack:"ticks"`
	ArmyA      []UnitSnapshot `json:"armyA" msgpack:"armyA"`
	ArmyB      []UnitSnapshot `json:"armyB" msgpack:"armyB"`
	Trace      []string       `json:"trace,omitempty" msgpack:"trace,omitempty"`
}

// Draw reports a battle with no winner.
func (r Result) Draw() bool { return r.Winner == NoPlayer }

// Involves reports whether id fought in this pairing.
func (r Result) Involves(id int) bool { return r.PlayerA == id || r.PlayerB == id }

// BuildArmy instantiates a board for one side. Defender hexes are mirrored.
// Units missing from the catalog are skipped.
func BuildArmy(cat *catalog.Catalog, a Army, side Side) []*CombatUnit {
	bonuses := synergy.Resolve(cat, a.Board)
	var out []*CombatUnit
	for _, h := range a.Board.Hexes() {
		ref := a.Board[h]
		pos := h
		if side == Defender {
			pos = h.Mirror()
		}
		u, ok := NewCombatUnit(cat, UnitSpec{
			ID:      ref.ID,
			Hex:     pos,
			Side:    side,
			Bonuses: bonuses,
			Stars:   ref.Stars,
			OwnerID: a.OwnerID,
		})
		if ok {
			out = append(out, u)
		}
	}
	return out
}

// Simulate runs a full battle between a (attacking, natural hexes) and b
// (defending, mirrored). The only randomness is crit rolls drawn from r.
func Simulate(cat *catalog.Catalog, a, b Army, r Roller, opts Options) Result {
	maxTicks := opts.MaxTicks
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}
	armyA := BuildArmy(cat, a, Attacker)
	armyB := BuildArmy(cat, b, Defender)
	all := make([]*CombatUnit, 0, len(armyA)+len(armyB))
	all = append(all, armyA...)
	all = append(all, armyB...)

	res := Result{PlayerA: a.OwnerID, PlayerB: b.OwnerID, Winner: NoPlayer, Loser: NoPlayer}
	for res.Ticks < maxTicks {
		if countAlive(armyA) == 0 || countAlive(armyB) == 0 {
			break
		}
		for _, u := range all {
			if !u.Alive() {
				continue
			}
			enemies := armyB
			if u.Side == Defender {
				enemies = armyA
			}
			target := nearest(u, enemies)
			if target == nil {
				continue
			}
			if hexgrid.Distance(u.Hex, target.Hex) <= u.Range {
				hit := resolveHit(u, target, r)
				if opts.Trace {
					res.Trace = append(res.Trace, fmt.Sprintf("t%d %s", res.Ticks, hit.describe(u, target)))
				}
				continue
			}
			if next, ok := stepToward(u, target, all); ok {
				u.Hex = next
			}
		}
		res.Ticks++
	}

	res.SurvivorsA = countAlive(armyA)
	res.SurvivorsB = countAlive(armyB)
	switch {
	case res.SurvivorsA > 0 && res.SurvivorsB == 0:
		res.Winner, res.Loser = a.OwnerID, b.OwnerID
		res.Damage = BaseDamage + survivorCost(armyA)
	case res.SurvivorsB > 0 && res.SurvivorsA == 0:
		res.Winner, res.Loser = b.OwnerID, a.OwnerID
		res.Damage = BaseDamage + survivorCost(armyB)
	default:
		res.Damage = DrawDamage
	}
	res.ArmyA = snapshots(armyA)
	res.ArmyB = snapshots(armyB)
	return res
}

// ResolveMatchup handles empty boards before simulating: a side with no
// units loses outright for 2 + the winner's level. When both are empty the
// first side loses.
func ResolveMatchup(cat *catalog.Catalog, a, b Army, ghost bool, r Roller, opts Options) Result {
	var res Result
	switch {
	case len(a.Board) == 0:
		res = Result{
			PlayerA:    a.OwnerID,
			PlayerB:    b.OwnerID,
			Winner:     b.OwnerID,
			Loser:      a.OwnerID,
			Damage:     BaseDamage + b.Level,
			SurvivorsB: len(b.Board),
		}
	case len(b.Board) == 0:
		res = Result{
			PlayerA:    a.OwnerID,
			PlayerB:    b.OwnerID,
			Winner:     a.OwnerID,
			Loser:      b.OwnerID,
			Damage:     BaseDamage + a.Level,
			SurvivorsA: len(a.Board),
		}
	default:
		res = Simulate(cat, a, b, r, opts)
	}
	res.Ghost = ghost
	if res.ArmyA == nil {
		res.ArmyA = []UnitSnapshot{}
	}
	if res.ArmyB == nil {
		res.ArmyB = []UnitSnapshot{}
	}
	return res
}

func countAlive(army []*CombatUnit) int {
	n := 0
	for _, u := range army {
		if u.Alive() {
			n++
		}
	}
	return n
}

// nearest picks the closest living enemy; ties go to the earlier one.
func nearest(u *CombatUnit, enemies []*CombatUnit) *CombatUnit {
	var best *CombatUnit
	bestDist := 0
	for _, e := range enemies {
		if !e.Alive() {
			continue
		}
		d := hexgrid.Distance(u.Hex, e.Hex)
		if best == nil || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

// stepToward tries the direct diagonal step first, then the neighbor that
// gets strictly closer, then the first one that keeps the same distance.
func stepToward(u, target *CombatUnit, all []*CombatUnit) (hexgrid.Hex, bool) {
	occupied := make(map[hexgrid.Hex]bool, len(all))
	for _, o := range all {
		if o != u && o.Alive() {
			occupied[o.Hex] = true
		}
	}
	direct := hexgrid.Step(u.Hex, target.Hex)
	if direct.InBounds() && !occupied[direct] {
		return direct, true
	}
	cur := hexgrid.Distance(u.Hex, target.Hex)
	best, bestDist, found := hexgrid.Hex{}, cur, false
	for _, n := range hexgrid.Neighbors(u.Hex) {
		if !n.InBounds() || occupied[n] {
			continue
		}
		if d := hexgrid.Distance(n, target.Hex); d < bestDist {
			best, bestDist, found = n, d, true
		}
	}
	if found {
		return best, true
	}
	for _, n := range hexgrid.Neighbors(u.Hex) {
		if !n.InBounds() || occupied[n] {
			continue
		}
		if hexgrid.Distance(n, target.Hex) == cur {
			return n, true
		}
	}
	return u.Hex, false
}

func survivorCost(army []*CombatUnit) int {
	total := 0
	for _, u := range army {
		if !u.Alive() {
			continue
		}
		if u.Cost > 0 {
			total += u.Cost
		} else {
			total++
		}
	}
	return total
}

func snapshots(army []*CombatUnit) []UnitSnapshot {
	out := make([]UnitSnapshot, len(army))
	for i, u := range army {
		out[i] = UnitSnapshot{
			ID:              u.ID,
			HexKey:          u.Hex.Key(),
			IsPlayer:        u.Side == Attacker,
			MaxHP:           u.MaxHP,
			HP:              u.MaxHP,
			Attack:          u.Attack,
			Speed:           u.Speed,
			Range:           u.Range,
			Armor:           u.Armor,
			DamageReduction: u.DamageReduction,
			Role:            u.Role,
			Faction:         u.Faction,
			Stars:           u.Stars,
			OwnerID:         u.OwnerID,
			CritChance:      u.CritChance,
			CritDamage:      u.CritDamage,
			Lifesteal:       u.Lifesteal,
			Ability:         u.Ability,
		}
	}
	return out
}
