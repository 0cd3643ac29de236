package match

import (
	"github.com/pefman/fffa-arena/internal/logging"
	"github.com/pefman/fffa-arena/internal/models"
)

// send delivers to one seat if it has a live connection. Write failures are
// left to the transport, which reports them through Disconnect.
func (m *Match) send(seat int, msgType string, payload any) {
	s := m.seat(seat)
	if s == nil || !s.online() {
		return
	}
	if err := s.conn.Send(msgType, payload); err != nil {
		m.log.Debug().Int(logging.FieldSeat, seat).Str("type", msgType).Err(err).Msg("send failed")
	}
}

func (m *Match) broadcast(msgType string, payload any) {
	m.broadcastExcept(-1, msgType, payload)
}

func (m *Match) broadcastExcept(skip int, msgType string, payload any) {
	for i := range m.seats {
		if i != skip {
			m.send(i, msgType, payload)
		}
	}
}

func (m *Match) scoreboard() []models.PublicState {
	out := make([]models.PublicState, len(m.seats))
	for i, s := range m.seats {
		out[i] = models.Public(s.Player)
	}
	return out
}

func (m *Match) sendScoreboard() {
	m.broadcast(models.TypeScoreboard, models.Scoreboard{Players: m.scoreboard()})
}

func (m *Match) sendStateSync(seat int) {
	s := m.seat(seat)
	if s == nil || s.Player.IsBot {
		return
	}
	m.send(seat, models.TypeStateSync, models.StateSync{
		You:        seat,
		Round:      m.round,
		Phase:      string(m.phase),
		Player:     models.Private(s.Player),
		Scoreboard: m.scoreboard(),
	})
}

func (m *Match) lobbySeats() []models.LobbySeat {
	out := make([]models.LobbySeat, len(m.seats))
	for i, s := range m.seats {
		out[i] = models.LobbySeat{ID: s.Player.ID, Name: s.Player.Name, IsBot: s.Player.IsBot}
	}
	return out
}
