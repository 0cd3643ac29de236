package game

import (
	"errors"

	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/hexgrid"
)

// Precondition failures for player actions. The text is sent to the client as is.
var (
	ErrNotEnoughGold = errors.New("not enough gold")
	ErrBenchFull     = errors.New("bench full")
	ErrBoardFull     = errors.New("board full (level up to place more)")
	ErrInvalidHex    = errors.New("invalid hex position")
	ErrInvalidSlot   = errors.New("invalid slot")
	ErrEmptySlot     = errors.New("slot empty")
	ErrUnknownUnit   = errors.New("unknown unit")
	ErrMaxLevel      = errors.New("already max level")
)

// Colors are handed out by seat index.
var Colors = [...]string{
	"#4CAF50", "#F44336", "#2196F3", "#FF9800",
	"#9C27B0", "#00BCD4", "#FFEB3B", "#E91E63",
}

// UnitRef is an owned unit: catalog id plus star level.
type UnitRef struct {
	ID    string `json:"id" msgpack:"id"`
	Stars int    `json:"stars" msgpack:"stars"`
}

// Board maps deployed hexes to units.
type Board map[hexgrid.Hex]UnitRef

// Bench holds reserve units; nil is an empty slot.
type Bench [catalog.BenchSize]*UnitRef

// Shop holds the current offers; "" is an empty (bought) slot.
type Shop [catalog.ShopSize]string

func (b Board) Clone() Board {
	out := make(Board, len(b))
	for h, u := range b {
		out[h] = u
	}
	return out
}

// Hexes returns the occupied hexes in row-major order.
func (b Board) Hexes() []hexgrid.Hex {
	out := make([]hexgrid.Hex, 0, len(b))
	for h := range b {
		out = append(out, h)
	}
	sortHexes(out)
	return out
}

// Units lists the board units in row-major hex order.
func (b Board) Units() []UnitRef {
	hexes := b.Hexes()
	out := make([]UnitRef, len(hexes))
	for i, h := range hexes {
		out[i] = b[h]
	}
	return out
}

func (b Bench) Clone() Bench {
	var out Bench
	for i, u := range b {
		if u != nil {
			c := *u
			out[i] = &c
		}
	}
	return out
}

// FirstFree returns the first empty slot, or -1.
func (b *Bench) FirstFree() int {
	for i, u := range b {
		if u == nil {
			return i
		}
	}
	return -1
}

func (b *Bench) Count() int {
	n := 0
	for _, u := range b {
		if u != nil {
			n++
		}
	}
	return n
}

// Units lists the occupied slots in index order.
func (b *Bench) Units() []UnitRef {
	var out []UnitRef
	for _, u := range b {
		if u != nil {
			out = append(out, *u)
		}
	}
	return out
}

// PlayerState is everything one seat owns inside a match.
type PlayerState struct {
	ID    int
	Name  string
	Color string
	IsBot bool

	Gold   int
	Health int
	Level  int

	Board Board
	Bench Bench
	Shop  Shop

	Alive     bool
	Streak    int
	Wins      int
	Losses    int
	Placement int
}

func NewPlayer(id int, name string, isBot bool, gold, health int) *PlayerState {
	color := "#888"
	if id >= 0 && id < len(Colors) {
		color = Colors[id]
	}
	return &PlayerState{
		ID:     id,
		Name:   name,
		Color:  color,
		IsBot:  isBot,
		Gold:   gold,
		Health: health,
		Level:  1,
		Board:  Board{},
		Alive:  true,
	}
}

// UnitCap is the number of units the board may hold at the current level.
func (p *PlayerState) UnitCap() int { return p.Level + 2 }

func (p *PlayerState) CanAfford(cost int) bool { return p.Gold >= cost }

// Spend never takes gold below zero.
func (p *PlayerState) Spend(amount int) {
	p.Gold = max(0, p.Gold-amount)
}

func (p *PlayerState) Earn(amount int) { p.Gold += amount }

// TakeDamage lowers health, clamped at zero, and clears Alive when it hits zero.
func (p *PlayerState) TakeDamage(amount int) {
	p.Health = max(0, p.Health-amount)
	if p.Health <= 0 {
		p.Alive = false
	}
}

func (p *PlayerState) RollShop(cat *catalog.Catalog, rng catalog.Rand) {
	p.Shop = cat.RollShop(rng, p.Level)
}

// Roster returns a copy of the board and bench.
func (p *PlayerState) Roster() Roster {
	return Roster{Board: p.Board.Clone(), Bench: p.Bench.Clone()}
}

func (p *PlayerState) SetRoster(r Roster) {
	p.Board = r.Board
	p.Bench = r.Bench
}

// OwnedCounts counts copies of each unit id across board and bench, any star level.
func (p *PlayerState) OwnedCounts() map[string]int {
	counts := map[string]int{}
	for _, u := range p.Board {
		counts[u.ID]++
	}
	for _, u := range p.Bench {
		if u != nil {
			counts[u.ID]++
		}
	}
	return counts
}
