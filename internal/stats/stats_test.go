package stats

import (
	"testing"
	"time"

	"github.com/pefman/fffa-arena/internal/engine"
	"github.com/pefman/fffa-arena/internal/match"
	"github.com/pefman/fffa-arena/internal/models"
)

func report(round int, results []engine.Result, streaks ...int) match.RoundReport {
	names := []string{"Ann", "Bob", "Cid", "Dee"}
	r := match.RoundReport{MatchID: "ABC123", Round: round, Results: results}
	for i, s := range streaks {
		r.Players = append(r.Players, models.PublicState{ID: i, Name: names[i], Streak: s})
	}
	return r
}

func win(a, b, dmg int) engine.Result {
	return engine.Result{PlayerA: a, PlayerB: b, Winner: a, Loser: b, Damage: dmg}
}

func draw(a, b int) engine.Result {
	return engine.Result{PlayerA: a, PlayerB: b, Winner: engine.NoPlayer, Loser: engine.NoPlayer, Damage: engine.DrawDamage}
}

func TestObserve(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	tr := NewWithClock(func() time.Time { return now })

	tr.Observe(report(1, []engine.Result{draw(0, 1), win(2, 3, 7)}, 0, 0, 1, -1))
	got := tr.Today()
	if got.Date != "2026-05-04" {
		t.Fatalf("date %q", got.Date)
	}
	if got.BiggestBattle.Damage != 7 || got.BiggestBattle.Winner != "Cid" || got.BiggestBattle.Loser != "Dee" || got.BiggestBattle.Round != 1 {
		t.Fatalf("battle %+v", got.BiggestBattle)
	}
	if got.LongestStreak.Streak != 1 || got.LongestStreak.Player != "Cid" {
		t.Fatalf("streak %+v", got.LongestStreak)
	}

	// A tie keeps the earlier holder; a longer streak replaces it.
	tr.Observe(report(2, []engine.Result{win(1, 0, 7)}, -1, 3, 2, -2))
	got = tr.Today()
	if got.BiggestBattle.Winner != "Cid" {
		t.Fatalf("tie replaced holder: %+v", got.BiggestBattle)
	}
	if got.LongestStreak.Streak != 3 || got.LongestStreak.Player != "Bob" || got.LongestStreak.Round != 2 {
		t.Fatalf("streak %+v", got.LongestStreak)
	}
}

func TestDrawsAndLossStreaksIgnored(t *testing.T) {
	tr := New()
	tr.Observe(report(1, []engine.Result{draw(0, 1)}, -4, -4))
	got := tr.Today()
	if got.BiggestBattle.Damage != 0 || got.LongestStreak.Streak != 0 {
		t.Fatalf("records %+v", got)
	}
}

func TestRolloverAndReset(t *testing.T) {
	now := time.Date(2026, 5, 4, 23, 59, 0, 0, time.UTC)
	tr := NewWithClock(func() time.Time { return now })
	tr.Observe(report(1, []engine.Result{win(0, 1, 12)}, 1, -1))
	if tr.Today().BiggestBattle.Damage != 12 {
		t.Fatalf("record missing")
	}

	now = now.Add(2 * time.Minute)
	got := tr.Today()
	if got.Date != "2026-05-05" || got.BiggestBattle.Damage != 0 {
		t.Fatalf("no rollover: %+v", got)
	}

	tr.Observe(report(2, []engine.Result{win(0, 1, 5)}, 2, -2))
	tr.Reset()
	if got := tr.Today(); got.BiggestBattle.Damage != 0 || got.LongestStreak.Streak != 0 {
		t.Fatalf("reset kept %+v", got)
	}
}
