package bot

import (
	"math/rand"
	"testing"

	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/game"
	"github.com/pefman/fffa-arena/internal/hexgrid"
)

func hex(c, r int) hexgrid.Hex { return hexgrid.Hex{Col: c, Row: r} }

func newBot(gold int) *game.PlayerState {
	return game.NewPlayer(1, Names[0], true, gold, 100)
}

func TestBuysPairsAndPlacesBackRow(t *testing.T) {
	cat := catalog.Default()
	p := newBot(20)
	p.Bench[0] = &game.UnitRef{ID: "siamese_screamer", Stars: 1}
	p.Shop = game.Shop{"persian_pampered", "siamese_screamer"}

	turn := TakeTurn(cat, p, rand.New(rand.NewSource(1)))
	if len(turn.Bought) != 1 || turn.Bought[0] != "siamese_screamer" {
		t.Fatalf("bought=%v", turn.Bought)
	}
	if p.Shop[0] != "persian_pampered" || p.Gold != 19 {
		t.Fatalf("shop=%v gold=%d", p.Shop, p.Gold)
	}
	if turn.Placed != 2 || p.Board[hex(0, 5)].ID != "siamese_screamer" || p.Board[hex(1, 5)].ID != "siamese_screamer" {
		t.Fatalf("board=%v", p.Board)
	}
	if turn.Rerolled {
		t.Fatalf("should not reroll under 20 gold")
	}
}

func TestTanksGoFront(t *testing.T) {
	cat := catalog.Default()
	p := newBot(5)
	p.Bench[0] = &game.UnitRef{ID: "siamese_screamer", Stars: 1}
	p.Bench[1] = &game.UnitRef{ID: "persian_pampered", Stars: 1}

	TakeTurn(cat, p, rand.New(rand.NewSource(1)))
	if p.Board[hex(0, 4)].ID != "persian_pampered" {
		t.Fatalf("tank not on front row: %v", p.Board)
	}
	if p.Board[hex(0, 5)].ID != "siamese_screamer" {
		t.Fatalf("ranged not on back row: %v", p.Board)
	}
	if p.Bench.Count() != 0 {
		t.Fatalf("bench should be empty")
	}
}

func fillBoard(p *game.PlayerState) {
	for i, id := range []string{"alley_tabby_thug", "alley_ginger_rogue", "siamese_screamer"} {
		p.Board[hex(i, 5)] = game.UnitRef{ID: id, Stars: 1}
	}
}

func TestLevelsUpWhenBoardFull(t *testing.T) {
	cat := catalog.Default()
	p := newBot(14)
	fillBoard(p)
	turn := TakeTurn(cat, p, rand.New(rand.NewSource(1)))
	if !turn.LeveledUp || p.Level != 2 || p.Gold != 10 {
		t.Fatalf("level=%d gold=%d", p.Level, p.Gold)
	}

	p = newBot(13)
	fillBoard(p)
	if TakeTurn(cat, p, rand.New(rand.NewSource(1))).LeveledUp {
		t.Fatalf("should keep a 10 gold reserve")
	}
}

func TestBuyMergesImmediately(t *testing.T) {
	cat := catalog.Default()
	p := newBot(5)
	p.Bench[0] = &game.UnitRef{ID: "alley_tabby_thug", Stars: 1}
	p.Bench[1] = &game.UnitRef{ID: "alley_tabby_thug", Stars: 1}
	p.Shop = game.Shop{"alley_tabby_thug"}

	turn := TakeTurn(cat, p, rand.New(rand.NewSource(1)))
	if len(turn.Merges) != 1 {
		t.Fatalf("merges=%v", turn.Merges)
	}
	if len(p.Board) != 1 || p.Board[hex(0, 5)].Stars != 2 {
		t.Fatalf("board=%v", p.Board)
	}
}

func TestRerollsWhenPairWaiting(t *testing.T) {
	cat := catalog.Default()
	p := newBot(30)
	p.Bench[0] = &game.UnitRef{ID: "alley_tabby_thug", Stars: 1}
	p.Bench[1] = &game.UnitRef{ID: "alley_tabby_thug", Stars: 1}

	turn := TakeTurn(cat, p, rand.New(rand.NewSource(9)))
	if !turn.Rerolled || p.Gold > 28 {
		t.Fatalf("rerolled=%v gold=%d", turn.Rerolled, p.Gold)
	}
}

func TestDeadBotDoesNothing(t *testing.T) {
	cat := catalog.Default()
	p := newBot(50)
	p.Alive = false
	p.Shop = game.Shop{"alley_tabby_thug"}
	TakeTurn(cat, p, rand.New(rand.NewSource(1)))
	if p.Gold != 50 || p.Shop[0] == "" {
		t.Fatalf("dead bot acted")
	}
}
