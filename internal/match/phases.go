package match

import (
	"sort"
	"time"

	"github.com/pefman/fffa-arena/internal/bot"
	"github.com/pefman/fffa-arena/internal/engine"
	"github.com/pefman/fffa-arena/internal/game"
	"github.com/pefman/fffa-arena/internal/logging"
	"github.com/pefman/fffa-arena/internal/models"
	"github.com/pefman/fffa-arena/internal/schedule"
)

// The phase machine runs waiting -> shop -> combat -> results, then back to
// shop or on to finished once at most one player is alive.

func (m *Match) startGame() {
	m.round = 1
	m.startedAt = m.clock.Now()
	infos := make([]models.SeatInfo, len(m.seats))
	for i, s := range m.seats {
		p := s.Player
		infos[i] = models.SeatInfo{ID: p.ID, Name: p.Name, Color: p.Color, IsBot: p.IsBot}
	}
	m.broadcast(models.TypeGameStart, models.GameStart{LobbyID: m.id, Players: infos})
	for i, s := range m.seats {
		if !s.Player.IsBot {
			m.sendStateSync(i)
		}
	}
	m.log.Info().Int("humans", m.info().Humans).Msg("match started")
	m.startShop()
}

func (m *Match) startShop() {
	m.phase = PhaseShop
	m.readyCombat = map[int]bool{}
	d := m.tuning.ShopDuration(m.round)

	m.broadcast(models.TypePhaseChange, models.PhaseChange{Phase: string(PhaseShop), Round: m.round, Timer: seconds(d)})
	for i, s := range m.seats {
		if !s.Player.IsBot && s.Player.Alive {
			m.send(i, models.TypeShopUpdate, models.ShopUpdate{Shop: s.Player.Shop, Gold: s.Player.Gold})
		}
	}
	m.sendScoreboard()
	m.log.Info().Int(logging.FieldRound, m.round).Str(logging.FieldPhase, string(m.phase)).Dur("timer", d).Msg("phase change")
	m.arm(d, m.toCombat)
}

// allHumansReady counts only connected, alive humans; with none of them
// left the round never waits.
func (m *Match) allHumansReady() bool {
	for i, s := range m.seats {
		p := s.Player
		if p.IsBot || !p.Alive || s.disconnected {
			continue
		}
		if !m.readyCombat[i] {
			return false
		}
	}
	return true
}

func (m *Match) toCombat() {
	if m.phase != PhaseShop {
		return
	}
	m.disarm()
	m.phase = PhaseCombat

	for _, s := range m.seats {
		if s.Player.IsBot && s.Player.Alive {
			t := bot.TakeTurn(m.cat, s.Player, m.rng)
			m.log.Debug().Int(logging.FieldSeat, s.Player.ID).Strs("bought", t.Bought).Int("merges", len(t.Merges)).
				Int("placed", t.Placed).Bool("leveled", t.LeveledUp).Bool("rerolled", t.Rerolled).Msg("bot turn")
		}
	}

	alive := make([]bool, len(m.seats))
	for i, s := range m.seats {
		alive[i] = s.Player.Alive
	}
	matchups := schedule.Matchups(m.table, m.round, alive, m.rng)
	if len(matchups) == 0 {
		m.endGame()
		return
	}

	opts := engine.Options{MaxTicks: m.tuning.MaxTicks}
	m.results = make([]engine.Result, 0, len(matchups))
	for _, mu := range matchups {
		a, b := m.seats[mu.A].Player, m.seats[mu.B].Player
		m.results = append(m.results, engine.ResolveMatchup(m.cat, armyOf(a), armyOf(b), mu.Ghost, m.rng, opts))
	}

	m.broadcast(models.TypePhaseChange, models.PhaseChange{Phase: string(PhaseCombat), Round: m.round, Timer: seconds(m.tuning.CombatDisplay)})
	for i, s := range m.seats {
		p := s.Player
		if p.IsBot || !p.Alive {
			continue
		}
		for _, r := range m.results {
			// A ghost opponent is only borrowed; its own pairing is elsewhere.
			if !r.Involves(p.ID) || (r.Ghost && r.PlayerA != p.ID) {
				continue
			}
			isA := r.PlayerA == p.ID
			opp := m.seats[r.PlayerB].Player
			if !isA {
				opp = m.seats[r.PlayerA].Player
			}
			m.send(i, models.TypeMatchup, models.Matchup{
				Opponent:      models.Opponent{ID: opp.ID, Name: opp.Name, Color: opp.Color, BoardCount: len(opp.Board)},
				ArmyA:         r.ArmyA,
				ArmyB:         r.ArmyB,
				YouArePlayerA: isA,
				IsGhostMatch:  r.Ghost,
			})
			break
		}
	}
	m.log.Info().Int(logging.FieldRound, m.round).Str(logging.FieldPhase, string(m.phase)).Int("battles", len(m.results)).Msg("phase change")
	m.arm(m.tuning.CombatDisplay, m.toResults)
}

func armyOf(p *game.PlayerState) engine.Army {
	return engine.Army{OwnerID: p.ID, Level: p.Level, Board: p.Board.Clone()}
}

func (m *Match) toResults() {
	if m.phase != PhaseCombat {
		return
	}
	m.phase = PhaseResults

	for _, r := range m.results {
		m.apply(r)
	}
	for _, s := range m.seats {
		if p := s.Player; p.Alive {
			p.Earn(game.Income(p.Gold, p.Streak))
		}
	}
	for _, s := range m.seats {
		p := s.Player
		if p.Alive || p.Placement != 0 {
			continue
		}
		p.Placement = len(m.seats) - len(m.eliminationOrder)
		m.eliminationOrder = append(m.eliminationOrder, p.ID)
		m.broadcast(models.TypeElimination, models.Elimination{PlayerID: p.ID, PlayerName: p.Name, Placement: p.Placement})
		m.log.Info().Int(logging.FieldSeat, p.ID).Str(logging.FieldPlayer, p.Name).Int("placement", p.Placement).Msg("player eliminated")
	}

	summaries := make([]models.ResultSummary, len(m.results))
	for i, r := range m.results {
		summaries[i] = models.Summarize(r)
	}
	m.broadcast(models.TypeCombatResult, models.CombatResult{Round: m.round, Results: summaries})
	m.sendScoreboard()
	if m.hooks.OnResults != nil {
		m.hooks.OnResults(RoundReport{MatchID: m.id, Round: m.round, Results: m.results, Players: m.scoreboard()})
	}
	m.log.Info().Int(logging.FieldRound, m.round).Str(logging.FieldPhase, string(m.phase)).Int("alive", m.aliveCount()).Msg("phase change")

	if m.aliveCount() <= 1 {
		m.arm(m.tuning.ResultsDisplay, m.endGame)
		return
	}
	m.arm(m.tuning.ResultsDisplay, m.nextRound)
}

// apply books one battle. In a ghost matchup only side A is touched; B's
// health and record belong to its own pairing. A ghost draw costs nobody.
func (m *Match) apply(r engine.Result) {
	a := m.seats[r.PlayerA].Player
	b := m.seats[r.PlayerB].Player
	switch {
	case r.Draw():
		if !r.Ghost {
			a.TakeDamage(r.Damage)
			b.TakeDamage(r.Damage)
		}
	case r.Ghost:
		if r.Winner == a.ID {
			a.RecordWin()
		} else {
			a.TakeDamage(r.Damage)
			a.RecordLoss()
		}
	default:
		winner, loser := a, b
		if r.Winner == b.ID {
			winner, loser = b, a
		}
		loser.TakeDamage(r.Damage)
		winner.RecordWin()
		loser.RecordLoss()
	}
}

func (m *Match) nextRound() {
	if m.phase != PhaseResults {
		return
	}
	m.round++
	for _, s := range m.seats {
		if s.Player.Alive {
			s.Player.RollShop(m.cat, m.rng)
		}
	}
	m.startShop()
}

func (m *Match) endGame() {
	if m.phase == PhaseFinished {
		return
	}
	m.disarm()
	m.phase = PhaseFinished

	var winner *models.PlayerRef
	var alive []*game.PlayerState
	for _, s := range m.seats {
		if s.Player.Alive {
			alive = append(alive, s.Player)
		}
	}
	if len(alive) == 1 {
		alive[0].Placement = 1
		winner = &models.PlayerRef{ID: alive[0].ID, Name: alive[0].Name}
	}

	placements := make([]models.Placement, len(m.seats))
	for i, s := range m.seats {
		p := s.Player
		placements[i] = models.Placement{ID: p.ID, Name: p.Name, Placement: p.Placement, IsBot: p.IsBot, Wins: p.Wins, Losses: p.Losses}
	}
	sort.SliceStable(placements, func(i, j int) bool { return placements[i].Placement < placements[j].Placement })

	m.broadcast(models.TypeGameOver, models.GameOver{Winner: winner, Placements: placements})
	ev := m.log.Info().Int(logging.FieldRound, m.round)
	if winner != nil {
		ev = ev.Str("winner", winner.Name)
	}
	ev.Msg("game over")

	if m.hooks.OnFinished != nil {
		m.hooks.OnFinished(Summary{
			MatchID:    m.id,
			Rounds:     m.round,
			StartedAt:  m.startedAt,
			EndedAt:    m.clock.Now(),
			Winner:     winner,
			Placements: placements,
		})
	}
	m.arm(m.tuning.FinishedRetention, func() { m.teardown("retention elapsed") })
}

func seconds(d time.Duration) int { return int(d / time.Second) }
