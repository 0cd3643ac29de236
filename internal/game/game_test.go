package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/hexgrid"
)

func hex(c, r int) hexgrid.Hex { return hexgrid.Hex{Col: c, Row: r} }

func countStars(r Roster, id string, stars int) int {
	n := 0
	for _, u := range r.Board {
		if u.ID == id && u.Stars == stars {
			n++
		}
	}
	for _, u := range r.Bench {
		if u != nil && u.ID == id && u.Stars == stars {
			n++
		}
	}
	return n
}

func TestMergeThreeCopies(t *testing.T) {
	r := Roster{Board: Board{hex(2, 5): {ID: "a", Stars: 1}}}
	r.Bench[0] = &UnitRef{ID: "a", Stars: 1}
	r.Bench[3] = &UnitRef{ID: "a", Stars: 1}
	r.Bench[4] = &UnitRef{ID: "a", Stars: 1}

	out, events := Merge(r, "a", 1)
	if len(events) != 1 {
		t.Fatalf("events=%v", events)
	}
	if got := countStars(out, "a", 1); got != 1 {
		t.Fatalf("1-star left=%d want 1", got)
	}
	if got := countStars(out, "a", 2); got != 1 {
		t.Fatalf("2-star=%d want 1", got)
	}
	if u := out.Board[hex(2, 5)]; u.Stars != 2 {
		t.Fatalf("merged unit should stay on the board hex, got %+v", u)
	}
	if out.Bench[4] == nil {
		t.Fatalf("fourth copy should remain untouched")
	}
	if countStars(r, "a", 1) != 4 {
		t.Fatalf("input roster was modified")
	}
}

func TestMergeBenchOnlyKeepsFirstSlot(t *testing.T) {
	r := Roster{Board: Board{}}
	r.Bench[2] = &UnitRef{ID: "a", Stars: 1}
	r.Bench[5] = &UnitRef{ID: "a", Stars: 1}
	r.Bench[7] = &UnitRef{ID: "a", Stars: 1}
	out, _ := Merge(r, "a", 1)
	if out.Bench[2] == nil || out.Bench[2].Stars != 2 || out.Bench[5] != nil || out.Bench[7] != nil {
		t.Fatalf("bench after merge: %v %v %v", out.Bench[2], out.Bench[5], out.Bench[7])
	}
}

func TestMergeCascadesAndStopsAtThreeStars(t *testing.T) {
	r := Roster{Board: Board{}}
	r.Bench[0] = &UnitRef{ID: "a", Stars: 2}
	r.Bench[1] = &UnitRef{ID: "a", Stars: 2}
	r.Bench[2] = &UnitRef{ID: "a", Stars: 1}
	r.Bench[3] = &UnitRef{ID: "a", Stars: 1}
	r.Bench[4] = &UnitRef{ID: "a", Stars: 1}
	out, events := Merge(r, "a", 1)
	if len(events) != 2 || countStars(out, "a", 3) != 1 || out.Bench.Count() != 1 {
		t.Fatalf("cascade failed: events=%v bench=%d", events, out.Bench.Count())
	}

	r = Roster{Board: Board{}}
	for i := 0; i < 3; i++ {
		r.Bench[i] = &UnitRef{ID: "a", Stars: 3}
	}
	out, events = Merge(r, "a", 3)
	if len(events) != 0 || countStars(out, "a", 3) != 3 {
		t.Fatalf("3-star units must not merge")
	}
}

func TestMergeAll(t *testing.T) {
	r := Roster{Board: Board{}}
	for i := 0; i < 3; i++ {
		r.Bench[i] = &UnitRef{ID: "a", Stars: 1}
		r.Bench[i+3] = &UnitRef{ID: "b", Stars: 1}
	}
	out, events := MergeAll(r)
	if len(events) != 2 || out.Bench.Count() != 2 {
		t.Fatalf("events=%d bench=%d", len(events), out.Bench.Count())
	}
}

func newTestPlayer() *PlayerState {
	return NewPlayer(0, "p", false, 50, 100)
}

func TestBuyAndSell(t *testing.T) {
	cat := catalog.Default()
	p := newTestPlayer()
	p.Shop = Shop{"alley_tabby_thug", "", "nope", "", ""}
	if _, err := p.Buy(cat, 0); err != nil {
		t.Fatalf("buy: %v", err)
	}
	cost := cat.Cost("alley_tabby_thug")
	if p.Gold != 50-cost || p.Shop[0] != "" || p.Bench[0] == nil {
		t.Fatalf("after buy gold=%d shop=%v bench=%v", p.Gold, p.Shop, p.Bench[0])
	}
	for _, c := range []struct {
		slot int
		want error
	}{{0, ErrEmptySlot}, {2, ErrUnknownUnit}, {9, ErrInvalidSlot}} {
		if _, err := p.Buy(cat, c.slot); !errors.Is(err, c.want) {
			t.Errorf("buy slot %d: %v want %v", c.slot, err, c.want)
		}
	}
	v, err := p.SellBench(cat, 0)
	if err != nil || v != cost || p.Gold != 50 {
		t.Fatalf("sell: v=%d err=%v gold=%d", v, err, p.Gold)
	}
}

func TestBuyRejectedLeavesStateUntouched(t *testing.T) {
	cat := catalog.Default()
	p := newTestPlayer()
	p.Gold = 0
	p.Shop = Shop{"alley_tabby_thug"}
	if _, err := p.Buy(cat, 0); !errors.Is(err, ErrNotEnoughGold) {
		t.Fatalf("err=%v", err)
	}
	if p.Shop[0] == "" || p.Bench.Count() != 0 {
		t.Fatalf("state changed on rejected buy")
	}

	p.Gold = 50
	for i := range p.Bench {
		p.Bench[i] = &UnitRef{ID: "x", Stars: 1}
	}
	if _, err := p.Buy(cat, 0); !errors.Is(err, ErrBenchFull) {
		t.Fatalf("err=%v", err)
	}
	if p.Gold != 50 {
		t.Fatalf("gold spent on rejected buy")
	}
}

func TestPlaceRespectsCapAndSwaps(t *testing.T) {
	p := newTestPlayer()
	for i := 0; i < 5; i++ {
		p.Bench[i] = &UnitRef{ID: "u", Stars: 1}
	}
	for i := 0; i < 3; i++ {
		if err := p.Place(i, hex(i, 4)); err != nil {
			t.Fatalf("place %d: %v", i, err)
		}
	}
	if err := p.Place(3, hex(3, 4)); !errors.Is(err, ErrBoardFull) {
		t.Fatalf("cap: %v", err)
	}
	if err := p.Place(3, hex(0, 3)); !errors.Is(err, ErrInvalidHex) {
		t.Fatalf("zone: %v", err)
	}
	p.Bench[3] = &UnitRef{ID: "v", Stars: 2}
	if err := p.Place(3, hex(0, 4)); err != nil {
		t.Fatalf("swap place: %v", err)
	}
	if p.Board[hex(0, 4)].ID != "v" || p.Bench[3].ID != "u" || len(p.Board) != 3 {
		t.Fatalf("swap failed: board=%v bench=%v", p.Board, p.Bench[3])
	}
	if err := p.Place(8, hex(1, 5)); !errors.Is(err, ErrEmptySlot) {
		t.Fatalf("empty slot: %v", err)
	}
}

func TestMoveAndBoardToBench(t *testing.T) {
	p := newTestPlayer()
	p.Board[hex(0, 4)] = UnitRef{ID: "a", Stars: 1}
	p.Board[hex(1, 4)] = UnitRef{ID: "b", Stars: 1}
	if err := p.Move(hex(0, 4), hex(1, 4)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if p.Board[hex(0, 4)].ID != "b" || p.Board[hex(1, 4)].ID != "a" {
		t.Fatalf("move swap failed: %v", p.Board)
	}
	if err := p.Move(hex(0, 4), hex(5, 7)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if _, ok := p.Board[hex(0, 4)]; ok {
		t.Fatalf("source hex not cleared")
	}
	if err := p.Move(hex(5, 7), hex(5, 2)); !errors.Is(err, ErrInvalidHex) {
		t.Fatalf("err=%v", err)
	}

	p.Bench[2] = &UnitRef{ID: "c", Stars: 1}
	if err := p.BoardToBench(hex(5, 7), 2); err != nil {
		t.Fatalf("board_to_bench: %v", err)
	}
	if p.Bench[2].ID != "b" || p.Board[hex(5, 7)].ID != "c" {
		t.Fatalf("swap to bench failed")
	}
	if err := p.BoardToBench(hex(1, 4), -1); err != nil || p.Bench[0].ID != "a" {
		t.Fatalf("first free: %v %v", err, p.Bench[0])
	}
	if err := p.BenchSwap(0, 8); err != nil || p.Bench[8].ID != "a" || p.Bench[0] != nil {
		t.Fatalf("bench swap failed")
	}
	if err := p.BenchSwap(0, 9); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("err=%v", err)
	}
}

func TestRerollAtOneGoldRejected(t *testing.T) {
	cat := catalog.Default()
	rng := rand.New(rand.NewSource(1))
	p := newTestPlayer()
	p.RollShop(cat, rng)
	before := p.Shop
	p.Gold = 1
	if err := p.Reroll(cat, rng); !errors.Is(err, ErrNotEnoughGold) {
		t.Fatalf("err=%v", err)
	}
	if p.Shop != before || p.Gold != 1 {
		t.Fatalf("shop or gold changed on rejected reroll")
	}
	p.Gold = 2
	if err := p.Reroll(cat, rng); err != nil || p.Gold != 0 {
		t.Fatalf("reroll: %v gold=%d", err, p.Gold)
	}
}

func TestLevelUpToMax(t *testing.T) {
	p := newTestPlayer()
	p.Level = 8
	p.Gold = 4
	if err := p.LevelUp(); err != nil {
		t.Fatalf("level up: %v", err)
	}
	if p.Level != 9 || p.Gold != 0 {
		t.Fatalf("level=%d gold=%d", p.Level, p.Gold)
	}
	p.Gold = 100
	if err := p.LevelUp(); !errors.Is(err, ErrMaxLevel) {
		t.Fatalf("err=%v", err)
	}
	if p.Level != 9 || p.Gold != 100 {
		t.Fatalf("state changed at max level")
	}
}

func TestStreaksAndIncome(t *testing.T) {
	p := newTestPlayer()
	p.RecordWin()
	p.RecordWin()
	if p.Streak != 2 {
		t.Fatalf("streak=%d", p.Streak)
	}
	p.RecordLoss()
	if p.Streak != -1 || p.Wins != 2 || p.Losses != 1 {
		t.Fatalf("streak=%d", p.Streak)
	}
	p.RecordLoss()
	if p.Streak != -2 {
		t.Fatalf("streak=%d", p.Streak)
	}
	cases := []struct{ gold, streak, want int }{
		{0, 0, 5}, {49, 0, 9}, {120, 0, 10}, {0, -2, 7}, {60, 9, 13},
	}
	for _, c := range cases {
		if got := Income(c.gold, c.streak); got != c.want {
			t.Errorf("Income(%d,%d)=%d want %d", c.gold, c.streak, got, c.want)
		}
	}
	p.TakeDamage(150)
	if p.Health != 0 || p.Alive {
		t.Fatalf("health=%d alive=%v", p.Health, p.Alive)
	}
}
