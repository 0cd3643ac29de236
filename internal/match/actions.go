package match

import (
	"github.com/pefman/fffa-arena/internal/game"
	"github.com/pefman/fffa-arena/internal/hexgrid"
	"github.com/pefman/fffa-arena/internal/models"
	"github.com/pefman/fffa-arena/internal/synergy"
)

// act validates and applies one player action. A returned error means the
// player's state is unchanged.
func (m *Match) act(seat int, kind string, a models.Action) error {
	s := m.seat(seat)
	if s == nil {
		return ErrNoSeat
	}
	p := s.Player

	switch kind {
	case models.TypeReadyCombat:
		if m.phase != PhaseShop || !p.Alive {
			return nil
		}
		m.readyCombat[seat] = true
		if m.allHumansReady() {
			m.toCombat()
		}
		return nil
	case models.TypeBenchSwap:
		// Allowed in any phase.
		if !p.Alive {
			return ErrEliminated
		}
		if err := p.BenchSwap(a.FromIndex, a.ToIndex); err != nil {
			return err
		}
		m.sendBoard(seat, nil)
		return nil
	}

	if !models.IsAction(kind) {
		return ErrUnknownAction
	}
	if m.phase != PhaseShop {
		return ErrNotShopPhase
	}
	if !p.Alive {
		return ErrEliminated
	}

	var merges []game.MergeEvent
	var err error
	switch kind {
	case models.TypeBuy:
		merges, err = p.Buy(m.cat, a.ShopIndex)
	case models.TypeSellBoard:
		err = withHex(a.HexKey, game.ErrEmptySlot, func(h hexgrid.Hex) error {
			_, err := p.SellBoard(m.cat, h)
			return err
		})
	case models.TypeSellBench:
		_, err = p.SellBench(m.cat, a.Bench())
	case models.TypePlace:
		err = withHex(a.HexKey, game.ErrInvalidHex, func(h hexgrid.Hex) error {
			return p.Place(a.Bench(), h)
		})
	case models.TypeMove:
		err = withHex(a.FromHex, game.ErrEmptySlot, func(from hexgrid.Hex) error {
			return withHex(a.ToHex, game.ErrInvalidHex, func(to hexgrid.Hex) error {
				return p.Move(from, to)
			})
		})
	case models.TypeBoardToBench:
		err = withHex(a.HexKey, game.ErrEmptySlot, func(h hexgrid.Hex) error {
			return p.BoardToBench(h, a.Bench())
		})
	case models.TypeReroll:
		if err := p.Reroll(m.cat, m.rng); err != nil {
			return err
		}
		m.send(seat, models.TypeShopUpdate, models.ShopUpdate{Shop: p.Shop, Gold: p.Gold})
		return nil
	case models.TypeLevelUp:
		err = p.LevelUp()
	}
	if err != nil {
		return err
	}
	m.sendBoard(seat, merges)
	return nil
}

// withHex parses key and hands the hex to fn; a malformed key fails with bad.
func withHex(key string, bad error, fn func(hexgrid.Hex) error) error {
	h, err := hexgrid.Parse(key)
	if err != nil {
		return bad
	}
	return fn(h)
}

func (m *Match) sendBoard(seat int, merges []game.MergeEvent) {
	p := m.seats[seat].Player
	m.send(seat, models.TypeBoardUpdate, models.BoardUpdate{
		Board:     models.BoardKeys(p.Board),
		Bench:     p.Bench.Clone(),
		Gold:      p.Gold,
		Level:     p.Level,
		UnitCap:   p.UnitCap(),
		Shop:      p.Shop,
		Merges:    merges,
		Synergies: synergy.Summary(m.cat, p.Board),
	})
}
