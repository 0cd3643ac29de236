package schedule

import (
	"math/rand"
	"testing"
)

func TestRoundRobinCoversEveryPair(t *testing.T) {
	table := RoundRobin(8)
	if len(table) != 7 {
		t.Fatalf("rounds=%d", len(table))
	}
	seen := map[[2]int]int{}
	for r, row := range table {
		if len(row) != 4 {
			t.Fatalf("round %d has %d pairings", r, len(row))
		}
		inRound := map[int]bool{}
		for _, p := range row {
			if inRound[p.A] || inRound[p.B] || p.A == p.B {
				t.Fatalf("round %d reuses a seat: %v", r, row)
			}
			inRound[p.A], inRound[p.B] = true, true
			k := [2]int{min(p.A, p.B), max(p.A, p.B)}
			seen[k]++
		}
	}
	if len(seen) != 28 {
		t.Fatalf("distinct pairs=%d want 28", len(seen))
	}
	for k, n := range seen {
		if n != 1 {
			t.Fatalf("pair %v met %d times", k, n)
		}
	}
	if first := table[0][0]; first != (Pairing{A: 0, B: 7}) {
		t.Fatalf("first fixture=%v", first)
	}
}

func allAlive(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}

func TestMatchupsAllAlive(t *testing.T) {
	table := RoundRobin(8)
	rng := rand.New(rand.NewSource(1))
	for round := 1; round <= 14; round++ {
		ms := Matchups(table, round, allAlive(8), rng)
		if len(ms) != 4 {
			t.Fatalf("round %d: %d matchups", round, len(ms))
		}
		for i, m := range ms {
			if m.Ghost {
				t.Fatalf("unexpected ghost in full lobby")
			}
			want := table[(round-1)%7][i]
			if m.A != want.A || m.B != want.B {
				t.Fatalf("round %d matchup %d=%v want %v", round, i, m, want)
			}
		}
	}
}

func TestMatchupsGhostForOddCount(t *testing.T) {
	table := RoundRobin(8)
	alive := allAlive(8)
	alive[7] = false
	alive[3] = false
	alive[5] = false
	rng := rand.New(rand.NewSource(3))
	ms := Matchups(table, 1, alive, rng)

	appearsAsA := map[int]int{}
	for _, m := range ms {
		if !alive[m.A] || !alive[m.B] || m.A == m.B {
			t.Fatalf("bad matchup %v", m)
		}
		if m.Ghost {
			appearsAsA[m.A]++
		} else {
			appearsAsA[m.A]++
			appearsAsA[m.B]++
		}
	}
	for id, ok := range alive {
		if ok && appearsAsA[id] != 1 {
			t.Fatalf("seat %d scheduled %d times: %v", id, appearsAsA[id], ms)
		}
	}
}

func TestMatchupsNoneWhenOneAlive(t *testing.T) {
	alive := make([]bool, 8)
	alive[2] = true
	if ms := Matchups(RoundRobin(8), 4, alive, rand.New(rand.NewSource(1))); len(ms) != 0 {
		t.Fatalf("want no matchups, got %v", ms)
	}
}
