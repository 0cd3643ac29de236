// Package match runs one lobby from the waiting room to the final placements.
//
// All match state is owned by a single goroutine draining an inbox of
// closures. Player actions, connection events and timer callbacks are posted
// to that inbox, so nothing in here takes a lock on match state.
package match

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	mrand "math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pefman/fffa-arena/internal/bot"
	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/engine"
	"github.com/pefman/fffa-arena/internal/game"
	"github.com/pefman/fffa-arena/internal/logging"
	"github.com/pefman/fffa-arena/internal/models"
	"github.com/pefman/fffa-arena/internal/schedule"
)

type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseShop     Phase = "shop"
	PhaseCombat   Phase = "combat"
	PhaseResults  Phase = "results"
	PhaseFinished Phase = "finished"
)

const (
	MaxNameLen  = 16
	DefaultName = "Player"
	inboxSize   = 64
)

var (
	ErrClosed        = errors.New("match closed")
	ErrNotFound      = errors.New("lobby not found")
	ErrLobbyFull     = errors.New("lobby not found or full")
	ErrNoSeat        = errors.New("invalid player")
	ErrAuthFailed    = errors.New("auth failed")
	ErrNotShopPhase  = errors.New("not in shop phase")
	ErrEliminated    = errors.New("player eliminated")
	ErrUnknownAction = errors.New("unknown action")
)

// Conn is the outbound side of a player's connection.
type Conn interface {
	Send(msgType string, payload any) error
}

// Seat is one player slot. Bots have no connection and no token.
type Seat struct {
	Player *game.PlayerState

	conn         Conn
	token        string
	disconnected bool
	grace        Timer
	graceGen     uint64
}

func (s *Seat) online() bool { return s.conn != nil && !s.disconnected }

// Summary describes a finished match.
type Summary struct {
	MatchID    string
	Rounds     int
	StartedAt  time.Time
	EndedAt    time.Time
	Winner     *models.PlayerRef
	Placements []models.Placement
}

// RoundReport is emitted after each round's results are applied.
type RoundReport struct {
	MatchID string
	Round   int
	Results []engine.Result
	Players []models.PublicState
}

// Hooks are called on the match goroutine and must not block for long.
type Hooks struct {
	OnTeardown func(id string)
	OnFinished func(Summary)
	OnResults  func(RoundReport)
}

type Options struct {
	Tuning Tuning
	Clock  Clock
	RNG    *mrand.Rand
	Logger *zerolog.Logger
	Hooks  Hooks
}

// Info is a point-in-time view for listings.
type Info struct {
	ID        string             `json:"id"`
	Phase     Phase              `json:"phase"`
	Round     int                `json:"round"`
	Seats     []models.LobbySeat `json:"players"`
	Humans    int                `json:"humans"`
	Connected int                `json:"connected"`
	Alive     int                `json:"alive"`
	CreatedAt time.Time          `json:"createdAt"`
}

type Match struct {
	id     string
	cat    *catalog.Catalog
	tuning Tuning
	clock  Clock
	rng    *mrand.Rand
	log    zerolog.Logger
	hooks  Hooks

	seats            []*Seat
	phase            Phase
	round            int
	table            schedule.Table
	eliminationOrder []int
	results          []engine.Result
	readyCombat      map[int]bool
	timer            Timer
	gen              uint64
	createdAt        time.Time
	startedAt        time.Time

	inbox     chan func()
	done      chan struct{}
	closeOnce sync.Once
	running   atomic.Bool
}

func New(id string, cat *catalog.Catalog, opts Options) *Match {
	if opts.Tuning == (Tuning{}) {
		opts.Tuning = DefaultTuning()
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.RNG == nil {
		opts.RNG = engine.NewRNG()
	}
	base := log.Logger
	if opts.Logger != nil {
		base = *opts.Logger
	}
	m := &Match{
		id:          id,
		cat:         cat,
		tuning:      opts.Tuning,
		clock:       opts.Clock,
		rng:         opts.RNG,
		log:         base.With().Str(logging.FieldMatch, id).Logger(),
		hooks:       opts.Hooks,
		phase:       PhaseWaiting,
		table:       schedule.RoundRobin(opts.Tuning.MaxPlayers),
		readyCombat: map[int]bool{},
		inbox:       make(chan func(), inboxSize),
		done:        make(chan struct{}),
	}
	m.createdAt = m.clock.Now()
	return m
}

func (m *Match) ID() string { return m.id }

// Done is closed once the match has been torn down.
func (m *Match) Done() <-chan struct{} { return m.done }

func (m *Match) closed() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

// Run starts the match goroutine. Until Run is called, posted work executes
// on the caller's goroutine.
func (m *Match) Run() {
	if !m.running.CompareAndSwap(false, true) {
		return
	}
	go m.loop()
}

func (m *Match) loop() {
	for {
		select {
		case <-m.done:
			return
		case f := <-m.inbox:
			f()
		}
	}
}

func (m *Match) post(f func()) {
	if m.closed() {
		return
	}
	if !m.running.Load() {
		f()
		return
	}
	select {
	case m.inbox <- f:
	case <-m.done:
	}
}

// call runs f on the match goroutine and waits for it.
func (m *Match) call(f func()) error {
	if m.closed() {
		return ErrClosed
	}
	if !m.running.Load() {
		f()
		return nil
	}
	finished := make(chan struct{})
	select {
	case m.inbox <- func() { f(); close(finished) }:
	case <-m.done:
		return ErrClosed
	}
	select {
	case <-finished:
		return nil
	case <-m.done:
	}
	select {
	case <-finished:
		return nil
	default:
		return ErrClosed
	}
}

// Close tears the match down without waiting for the retention window.
func (m *Match) Close() {
	m.post(func() { m.teardown("closed") })
}

// ===== Public API =====

// Join seats a human in a waiting lobby and returns the seat index plus the
// credential needed to reconnect to it.
func (m *Match) Join(name string, conn Conn) (int, string, error) {
	seat, token, err := -1, "", error(nil)
	if cerr := m.call(func() { seat, token, err = m.join(name, conn) }); cerr != nil {
		return -1, "", ErrLobbyFull
	}
	return seat, token, err
}

// Ready fills the empty seats with bots and starts a waiting match.
func (m *Match) Ready(seat int) {
	m.post(func() {
		s := m.seat(seat)
		if s == nil || s.Player.IsBot || m.phase != PhaseWaiting {
			return
		}
		m.fillBotsAndStart()
	})
}

// Start is Ready without a requesting seat, used for practice matches.
func (m *Match) Start() {
	m.post(func() {
		if m.phase == PhaseWaiting {
			m.fillBotsAndStart()
		}
	})
}

// Reconnect hands seat to a new connection when token matches the one
// issued at join.
func (m *Match) Reconnect(seat int, token string, conn Conn) error {
	var err error
	if cerr := m.call(func() { err = m.reconnect(seat, token, conn) }); cerr != nil {
		return ErrNotFound
	}
	return err
}

// Disconnect detaches conn from seat. A newer connection on the same seat
// is left alone.
func (m *Match) Disconnect(seat int, conn Conn) {
	m.post(func() { m.disconnect(seat, conn) })
}

// Act applies a player action. Rejections are reported to the player as an
// error message.
func (m *Match) Act(seat int, kind string, a models.Action) {
	m.post(func() {
		if err := m.act(seat, kind, a); err != nil {
			m.log.Debug().Int(logging.FieldSeat, seat).Str(logging.FieldAction, kind).Err(err).Msg("action rejected")
			m.send(seat, models.TypeError, models.Error{Message: err.Error()})
		}
	})
}

func (m *Match) Info() (Info, error) {
	var info Info
	err := m.call(func() { info = m.info() })
	return info, err
}

func (m *Match) Phase() Phase {
	p := PhaseFinished
	_ = m.call(func() { p = m.phase })
	return p
}

// ===== Seats =====

func (m *Match) seat(i int) *Seat {
	if i < 0 || i >= len(m.seats) {
		return nil
	}
	return m.seats[i]
}

// CleanName trims a display name, defaults it and caps its length.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		name = string([]rune(name)[:MaxNameLen])
	}
	return name
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (m *Match) join(name string, conn Conn) (int, string, error) {
	if m.phase != PhaseWaiting || len(m.seats) >= m.tuning.MaxPlayers {
		return -1, "", ErrLobbyFull
	}
	token, err := newToken()
	if err != nil {
		return -1, "", err
	}
	id := len(m.seats)
	p := game.NewPlayer(id, CleanName(name), false, m.tuning.StartingGold, m.tuning.StartingHealth)
	p.RollShop(m.cat, m.rng)
	m.seats = append(m.seats, &Seat{Player: p, conn: conn, token: token})

	you := id
	seats := m.lobbySeats()
	m.send(id, models.TypeLobbyState, models.LobbyState{LobbyID: m.id, You: &you, AuthToken: token, Players: seats})
	m.broadcastExcept(id, models.TypeLobbyState, models.LobbyState{LobbyID: m.id, Players: seats})
	m.log.Info().Int(logging.FieldSeat, id).Str(logging.FieldPlayer, p.Name).Int("seats", len(m.seats)).Msg("player joined")
	return id, token, nil
}

func (m *Match) reconnect(seat int, token string, conn Conn) error {
	s := m.seat(seat)
	if s == nil || s.Player.IsBot {
		return ErrNoSeat
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		return ErrAuthFailed
	}
	s.conn = conn
	s.disconnected = false
	if s.grace != nil {
		s.grace.Stop()
		s.grace = nil
	}
	s.graceGen++
	m.log.Info().Int(logging.FieldSeat, seat).Str(logging.FieldPlayer, s.Player.Name).Msg("player reconnected")
	m.sendStateSync(seat)
	return nil
}

func (m *Match) disconnect(seat int, conn Conn) {
	s := m.seat(seat)
	if s == nil || s.conn != conn {
		return
	}
	s.conn = nil
	s.disconnected = true
	m.log.Info().Int(logging.FieldSeat, seat).Str(logging.FieldPlayer, s.Player.Name).Str(logging.FieldPhase, string(m.phase)).Msg("player disconnected")

	switch m.phase {
	case PhaseWaiting:
		if m.connectedHumans() == 0 {
			m.teardown("lobby empty")
		}
	case PhaseFinished:
	default:
		s.graceGen++
		gen := s.graceGen
		s.grace = m.clock.AfterFunc(m.tuning.DisconnectGrace, func() {
			m.post(func() {
				if s.graceGen != gen || !s.disconnected {
					return
				}
				s.grace = nil
				m.log.Warn().Int(logging.FieldSeat, seat).Str(logging.FieldPlayer, s.Player.Name).Msg("reconnect grace expired, seat keeps its board")
			})
		})
	}
}

func (m *Match) fillBotsAndStart() {
	for i := 0; len(m.seats) < m.tuning.MaxPlayers; i++ {
		id := len(m.seats)
		name := fmt.Sprintf("Bot %d", id)
		if i < len(bot.Names) {
			name = bot.Names[i]
		}
		p := game.NewPlayer(id, name, true, m.tuning.StartingGold, m.tuning.StartingHealth)
		p.RollShop(m.cat, m.rng)
		m.seats = append(m.seats, &Seat{Player: p})
	}
	m.startGame()
}

func (m *Match) connectedHumans() int {
	n := 0
	for _, s := range m.seats {
		if !s.Player.IsBot && s.online() {
			n++
		}
	}
	return n
}

func (m *Match) aliveCount() int {
	n := 0
	for _, s := range m.seats {
		if s.Player.Alive {
			n++
		}
	}
	return n
}

func (m *Match) info() Info {
	info := Info{
		ID:        m.id,
		Phase:     m.phase,
		Round:     m.round,
		Seats:     m.lobbySeats(),
		CreatedAt: m.createdAt,
	}
	for _, s := range m.seats {
		if !s.Player.IsBot {
			info.Humans++
			if s.online() {
				info.Connected++
			}
		}
		if s.Player.Alive {
			info.Alive++
		}
	}
	return info
}

// ===== Timers =====

// arm replaces the phase timer. Callbacks from any earlier arm are ignored
// even if they already fired.
func (m *Match) arm(d time.Duration, fn func()) {
	m.disarm()
	gen := m.gen
	m.timer = m.clock.AfterFunc(d, func() {
		m.post(func() {
			if gen != m.gen {
				return
			}
			m.timer = nil
			fn()
		})
	})
}

func (m *Match) disarm() {
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Match) teardown(reason string) {
	m.closeOnce.Do(func() {
		m.disarm()
		for _, s := range m.seats {
			if s.grace != nil {
				s.grace.Stop()
				s.grace = nil
			}
		}
		close(m.done)
		m.log.Info().Str("reason", reason).Str(logging.FieldPhase, string(m.phase)).Msg("match torn down")
		if m.hooks.OnTeardown != nil {
			m.hooks.OnTeardown(m.id)
		}
	})
}
