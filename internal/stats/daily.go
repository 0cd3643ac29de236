package stats

import (
	"github.com/pefman/fffa-arena/internal/match"
	"github.com/pefman/fffa-arena/internal/models"
)

// Observe folds one round of results into today's records. Draws never
// set the battle record; ties keep the earlier holder.
func (t *Tracker) Observe(r match.RoundReport) {
	names := make(map[int]string, len(r.Players))
	for _, p := range r.Players {
		names[p.ID] = p.Name
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover()
	at := t.now().Unix()

	for _, res := range r.Results {
		if res.Draw() || res.Damage <= t.state.BiggestBattle.Damage {
			continue
		}
		t.state.BiggestBattle = TopBattle{
			Damage:  res.Damage,
			Winner:  names[res.Winner],
			Loser:   names[res.Loser],
			Ghost:   res.Ghost,
			MatchID: r.MatchID,
			Round:   r.Round,
			Time:    at,
		}
	}
	if best, ok := longestStreak(r.Players); ok && best.Streak > t.state.LongestStreak.Streak {
		t.state.LongestStreak = TopStreak{
			Streak:  best.Streak,
			Player:  best.Name,
			MatchID: r.MatchID,
			Round:   r.Round,
			Time:    at,
		}
	}
}

func longestStreak(players []models.PublicState) (models.PublicState, bool) {
	var best models.PublicState
	found := false
	for _, p := range players {
		if p.Streak > 0 && (!found || p.Streak > best.Streak) {
			best, found = p, true
		}
	}
	return best, found
}
