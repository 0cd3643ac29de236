package game

import (
	"sort"

	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/hexgrid"
)

// Roster is a board plus bench, the unit of work for merging.
type Roster struct {
	Board Board
	Bench Bench
}

func (r Roster) Clone() Roster {
	return Roster{Board: r.Board.Clone(), Bench: r.Bench.Clone()}
}

// MergeEvent records three copies combining into one higher star unit.
type MergeEvent struct {
	UnitID  string `json:"unitId" msgpack:"unitId"`
	Stars   int    `json:"stars" msgpack:"stars"`
	OnBoard bool   `json:"onBoard" msgpack:"onBoard"`
	Hex     string `json:"hexKey,omitempty" msgpack:"hexKey,omitempty"`
	Slot    int    `json:"benchIndex" msgpack:"benchIndex"`
}

type location struct {
	onBoard bool
	hex     hexgrid.Hex
	slot    int
}

// Merge combines copies of (id, stars) three at a time and cascades into the
// next star level. Board copies are collected first (row-major), then bench
// copies by slot. The result keeps the first board hex if any copy was on
// the board, otherwise the first bench slot. The input roster is not modified.
func Merge(r Roster, id string, stars int) (Roster, []MergeEvent) {
	out := r.Clone()
	var events []MergeEvent
	for stars < catalog.MaxStars {
		var matches []location
		for _, h := range out.Board.Hexes() {
			if u := out.Board[h]; u.ID == id && u.Stars == stars {
				matches = append(matches, location{onBoard: true, hex: h})
			}
		}
		for i, u := range out.Bench {
			if u != nil && u.ID == id && u.Stars == stars {
				matches = append(matches, location{slot: i})
			}
		}
		if len(matches) < 3 {
			break
		}
		keep := matches[0]
		for _, m := range matches[1:3] {
			if m.onBoard {
				delete(out.Board, m.hex)
			} else {
				out.Bench[m.slot] = nil
			}
		}
		stars++
		merged := UnitRef{ID: id, Stars: stars}
		ev := MergeEvent{UnitID: id, Stars: stars, Slot: -1}
		if keep.onBoard {
			out.Board[keep.hex] = merged
			ev.OnBoard = true
			ev.Hex = keep.hex.Key()
		} else {
			out.Bench[keep.slot] = &merged
			ev.Slot = keep.slot
		}
		events = append(events, ev)
	}
	return out, events
}

// MergeAll sweeps every (id, stars) group until nothing is left to combine.
func MergeAll(r Roster) (Roster, []MergeEvent) {
	out := r.Clone()
	var events []MergeEvent
	for {
		id, stars, ok := firstMergeable(out)
		if !ok {
			return out, events
		}
		var evs []MergeEvent
		out, evs = Merge(out, id, stars)
		events = append(events, evs...)
	}
}

func firstMergeable(r Roster) (string, int, bool) {
	type key struct {
		id    string
		stars int
	}
	counts := map[key]int{}
	var order []key
	add := func(u UnitRef) {
		k := key{u.ID, u.Stars}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	for _, u := range r.Board.Units() {
		add(u)
	}
	for _, u := range r.Bench.Units() {
		add(u)
	}
	for _, k := range order {
		if k.stars < catalog.MaxStars && counts[k] >= 3 {
			return k.id, k.stars, true
		}
	}
	return "", 0, false
}

func sortHexes(hs []hexgrid.Hex) {
	sort.Slice(hs, func(i, j int) bool { return hexgrid.Less(hs[i], hs[j]) })
}
