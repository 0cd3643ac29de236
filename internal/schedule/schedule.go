// Package schedule pairs players for each combat round.
package schedule

// Pairing is one fixed round-robin fixture between two seats.
type Pairing struct {
	A int `json:"playerA" msgpack:"playerA"`
	B int `json:"playerB" msgpack:"playerB"`
}

// Table holds one row of pairings per round of the rotation.
type Table [][]Pairing

// Matchup is a pairing chosen for the current round. In a ghost matchup only
// A is affected by the result.
type Matchup struct {
	A     int  `json:"playerA" msgpack:"playerA"`
	B     int  `json:"playerB" msgpack:"playerB"`
	Ghost bool `json:"isGhostMatch" msgpack:"isGhostMatch"`
}

// Rand is the subset of *rand.Rand used to pick ghost opponents.
type Rand interface {
	Intn(n int) int
}

// RoundRobin builds the circle-method table for n seats (n even): seat 0 is
// fixed, the rest rotate one step per round, and pairs are taken from both
// ends inward.
func RoundRobin(n int) Table {
	if n < 2 {
		return nil
	}
	rounds := n - 1
	table := make(Table, 0, rounds)
	for r := 0; r < rounds; r++ {
		rotation := make([]int, 0, n)
		rotation = append(rotation, 0)
		for i := 1; i < n; i++ {
			rotation = append(rotation, (i-1+r)%rounds+1)
		}
		row := make([]Pairing, 0, n/2)
		for i := 0; i < n/2; i++ {
			row = append(row, Pairing{A: rotation[i], B: rotation[n-1-i]})
		}
		table = append(table, row)
	}
	return table
}

// Matchups selects the pairings for round (1-based). Fixtures whose seats are
// both alive are kept; every alive seat left over gets a ghost matchup
// against a random other alive seat. With one or no seats alive there is
// nothing to play.
func Matchups(t Table, round int, alive []bool, rng Rand) []Matchup {
	var living []int
	for id, ok := range alive {
		if ok {
			living = append(living, id)
		}
	}
	if len(living) <= 1 || len(t) == 0 {
		return nil
	}
	isAlive := func(id int) bool { return id >= 0 && id < len(alive) && alive[id] }

	idx := (round - 1) % len(t)
	if idx < 0 {
		idx += len(t)
	}
	var out []Matchup
	paired := map[int]bool{}
	for _, p := range t[idx] {
		if isAlive(p.A) && isAlive(p.B) && !paired[p.A] && !paired[p.B] {
			out = append(out, Matchup{A: p.A, B: p.B})
			paired[p.A] = true
			paired[p.B] = true
		}
	}
	for _, id := range living {
		if paired[id] {
			continue
		}
		opponents := make([]int, 0, len(living)-1)
		for _, o := range living {
			if o != id {
				opponents = append(opponents, o)
			}
		}
		out = append(out, Matchup{A: id, B: opponents[rng.Intn(len(opponents))], Ghost: true})
	}
	return out
}
