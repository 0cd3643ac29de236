package game

import (
	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/hexgrid"
)

// The actions below check every precondition before touching state, so a
// returned error always leaves the player unchanged. Phase and liveness
// checks belong to the caller.

func validBench(i int) bool { return i >= 0 && i < catalog.BenchSize }

// Buy moves shop offer slot to the first free bench slot and merges.
func (p *PlayerState) Buy(cat *catalog.Catalog, slot int) ([]MergeEvent, error) {
	if slot < 0 || slot >= catalog.ShopSize {
		return nil, ErrInvalidSlot
	}
	id := p.Shop[slot]
	if id == "" {
		return nil, ErrEmptySlot
	}
	u, ok := cat.Lookup(id)
	if !ok {
		return nil, ErrUnknownUnit
	}
	if !p.CanAfford(u.Cost) {
		return nil, ErrNotEnoughGold
	}
	free := p.Bench.FirstFree()
	if free < 0 {
		return nil, ErrBenchFull
	}
	p.Spend(u.Cost)
	p.Bench[free] = &UnitRef{ID: id, Stars: 1}
	p.Shop[slot] = ""
	r, events := Merge(p.Roster(), id, 1)
	p.SetRoster(r)
	return events, nil
}

func (p *PlayerState) sellValue(cat *catalog.Catalog, u UnitRef) int {
	return catalog.SellValue(cat.Cost(u.ID), u.Stars)
}

// SellBoard removes the unit at h and refunds its sell value.
func (p *PlayerState) SellBoard(cat *catalog.Catalog, h hexgrid.Hex) (int, error) {
	u, ok := p.Board[h]
	if !ok {
		return 0, ErrEmptySlot
	}
	v := p.sellValue(cat, u)
	p.Earn(v)
	delete(p.Board, h)
	return v, nil
}

func (p *PlayerState) SellBench(cat *catalog.Catalog, slot int) (int, error) {
	if !validBench(slot) {
		return 0, ErrInvalidSlot
	}
	u := p.Bench[slot]
	if u == nil {
		return 0, ErrEmptySlot
	}
	v := p.sellValue(cat, *u)
	p.Earn(v)
	p.Bench[slot] = nil
	return v, nil
}

// Place deploys a bench unit. An occupied target swaps with the bench slot
// and does not count against the unit cap.
func (p *PlayerState) Place(slot int, h hexgrid.Hex) error {
	if !validBench(slot) {
		return ErrInvalidSlot
	}
	u := p.Bench[slot]
	if u == nil {
		return ErrEmptySlot
	}
	if !h.InPlayerZone() {
		return ErrInvalidHex
	}
	if cur, ok := p.Board[h]; ok {
		p.Bench[slot] = &cur
		p.Board[h] = *u
		return nil
	}
	if len(p.Board) >= p.UnitCap() {
		return ErrBoardFull
	}
	p.Board[h] = *u
	p.Bench[slot] = nil
	return nil
}

// Move relocates a board unit, swapping with any unit already at the target.
func (p *PlayerState) Move(from, to hexgrid.Hex) error {
	u, ok := p.Board[from]
	if !ok {
		return ErrEmptySlot
	}
	if !to.InPlayerZone() {
		return ErrInvalidHex
	}
	if other, ok := p.Board[to]; ok {
		p.Board[from] = other
	} else {
		delete(p.Board, from)
	}
	p.Board[to] = u
	return nil
}

// BoardToBench returns a unit to slot, swapping if the slot is taken. A slot
// outside the bench means the first free one.
func (p *PlayerState) BoardToBench(h hexgrid.Hex, slot int) error {
	u, ok := p.Board[h]
	if !ok {
		return ErrEmptySlot
	}
	if validBench(slot) {
		if cur := p.Bench[slot]; cur != nil {
			p.Board[h] = *cur
		} else {
			delete(p.Board, h)
		}
		p.Bench[slot] = &u
		return nil
	}
	free := p.Bench.FirstFree()
	if free < 0 {
		return ErrBenchFull
	}
	p.Bench[free] = &u
	delete(p.Board, h)
	return nil
}

func (p *PlayerState) BenchSwap(from, to int) error {
	if !validBench(from) || !validBench(to) {
		return ErrInvalidSlot
	}
	p.Bench[from], p.Bench[to] = p.Bench[to], p.Bench[from]
	return nil
}

// Reroll pays for and replaces the whole shop.
func (p *PlayerState) Reroll(cat *catalog.Catalog, rng catalog.Rand) error {
	if !p.CanAfford(catalog.RerollCost) {
		return ErrNotEnoughGold
	}
	p.Spend(catalog.RerollCost)
	p.RollShop(cat, rng)
	return nil
}

func (p *PlayerState) LevelUp() error {
	if p.Level >= catalog.MaxLevel {
		return ErrMaxLevel
	}
	if !p.CanAfford(catalog.LevelUpCost) {
		return ErrNotEnoughGold
	}
	p.Spend(catalog.LevelUpCost)
	p.Level++
	return nil
}

// Income is the gold an alive player earns after a round.
func Income(gold, streak int) int {
	if streak < 0 {
		streak = -streak
	}
	return 5 + min(5, gold/10) + min(3, streak)
}

// RecordWin and RecordLoss update the streak, resetting to one on reversal.
func (p *PlayerState) RecordWin() {
	p.Wins++
	if p.Streak >= 0 {
		p.Streak++
	} else {
		p.Streak = 1
	}
}

func (p *PlayerState) RecordLoss() {
	p.Losses++
	if p.Streak <= 0 {
		p.Streak--
	} else {
		p.Streak = -1
	}
}
