package models

import (
	"github.com/pefman/fffa-arena/internal/engine"
	"github.com/pefman/fffa-arena/internal/game"
)

// BoardKeys projects a board onto "col,row" string keys for the wire.
func BoardKeys(b game.Board) map[string]game.UnitRef {
	out := make(map[string]game.UnitRef, len(b))
	for h, u := range b {
		out[h.Key()] = u
	}
	return out
}

func Public(p *game.PlayerState) PublicState {
	return PublicState{
		ID:         p.ID,
		Name:       p.Name,
		Color:      p.Color,
		IsBot:      p.IsBot,
		Health:     p.Health,
		Gold:       p.Gold,
		Level:      p.Level,
		BoardCount: len(p.Board),
		IsAlive:    p.Alive,
		Wins:       p.Wins,
		Losses:     p.Losses,
		Streak:     p.Streak,
		Placement:  p.Placement,
	}
}

func Private(p *game.PlayerState) PrivateState {
	return PrivateState{
		ID:      p.ID,
		Name:    p.Name,
		Color:   p.Color,
		Gold:    p.Gold,
		Health:  p.Health,
		Level:   p.Level,
		UnitCap: p.UnitCap(),
		Board:   BoardKeys(p.Board),
		Bench:   p.Bench.Clone(),
		Shop:    p.Shop,
		Wins:    p.Wins,
		Losses:  p.Losses,
		Streak:  p.Streak,
		IsAlive: p.Alive,
	}
}

func optionalID(id int) *int {
	if id == engine.NoPlayer {
		return nil
	}
	return &id
}

// Summarize drops the armies from a battle result.
func Summarize(r engine.Result) ResultSummary {
	return ResultSummary{
		PlayerA:      r.PlayerA,
		PlayerB:      r.PlayerB,
		Winner:       optionalID(r.Winner),
		Loser:        optionalID(r.Loser),
		Damage:       r.Damage,
		IsGhostMatch: r.Ghost,
		SurvivorsA:   r.SurvivorsA,
		SurvivorsB:   r.SurvivorsB,
	}
}
