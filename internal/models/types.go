package models

import (
	"github.com/pefman/fffa-arena/internal/engine"
	"github.com/pefman/fffa-arena/internal/game"
	"github.com/pefman/fffa-arena/internal/synergy"
)

// ========================= Message types =========================

// Client to server.
const (
	TypeJoin         = "join"
	TypeReady        = "ready"
	TypeReconnect    = "reconnect"
	TypePing         = "ping"
	TypeBuy          = "buy"
	TypeSellBoard    = "sell_board"
	TypeSellBench    = "sell_bench"
	TypePlace        = "place"
	TypeMove         = "move"
	TypeBoardToBench = "board_to_bench"
	TypeBenchSwap    = "bench_swap"
	TypeReroll       = "reroll"
	TypeLevelUp      = "level_up"
	TypeReadyCombat  = "ready_combat"
)

// Server to client.
const (
	TypeLobbyState   = "lobby_state"
	TypeGameStart    = "game_start"
	TypeStateSync    = "state_sync"
	TypePhaseChange  = "phase_change"
	TypeShopUpdate   = "shop_update"
	TypeBoardUpdate  = "board_update"
	TypeScoreboard   = "scoreboard"
	TypeMatchup      = "matchup"
	TypeCombatResult = "combat_result"
	TypeElimination  = "elimination"
	TypeGameOver     = "game_over"
	TypeError        = "error"
	TypePong         = "pong"
)

// IsAction reports whether t is an in-match player action.
func IsAction(t string) bool {
	switch t {
	case TypeBuy, TypeSellBoard, TypeSellBench, TypePlace, TypeMove,
		TypeBoardToBench, TypeBenchSwap, TypeReroll, TypeLevelUp, TypeReadyCombat:
		return true
	}
	return false
}

// WsMsg is the frame envelope in both directions.
type WsMsg struct {
	Type string `json:"type" msgpack:"type"`
	Data any    `json:"data,omitempty" msgpack:"data,omitempty"`
}

// ========================= Inbound payloads =========================

type Join struct {
	Name     string `json:"name" msgpack:"name"`
	LobbyID  string `json:"lobbyId,omitempty" msgpack:"lobbyId,omitempty"`
	Practice bool   `json:"practice,omitempty" msgpack:"practice,omitempty"`
}

type Reconnect struct {
	LobbyID     string `json:"lobbyId" msgpack:"lobbyId"`
	PlayerIndex int    `json:"playerIndex" msgpack:"playerIndex"`
	AuthToken   string `json:"authToken" msgpack:"authToken"`
}

type Ping struct {
	T int64 `json:"t" msgpack:"t"`
}

// Action carries the arguments of every player action; each action reads
// only the fields it needs. BenchIndex is optional for board_to_bench.
type Action struct {
	ShopIndex  int    `json:"shopIndex" msgpack:"shopIndex"`
	BenchIndex *int   `json:"benchIndex,omitempty" msgpack:"benchIndex,omitempty"`
	HexKey     string `json:"hexKey,omitempty" msgpack:"hexKey,omitempty"`
	FromHex    string `json:"fromHex,omitempty" msgpack:"fromHex,omitempty"`
	ToHex      string `json:"toHex,omitempty" msgpack:"toHex,omitempty"`
	FromIndex  int    `json:"fromIndex" msgpack:"fromIndex"`
	ToIndex    int    `json:"toIndex" msgpack:"toIndex"`
}

// Bench returns BenchIndex, or -1 when absent.
func (a Action) Bench() int {
	if a.BenchIndex == nil {
		return -1
	}
	return *a.BenchIndex
}

// ========================= Outbound payloads =========================

type LobbySeat struct {
	ID      int    `json:"id" msgpack:"id"`
	Name    string `json:"name" msgpack:"name"`
	IsBot   bool   `json:"isBot" msgpack:"isBot"`
	IsReady bool   `json:"isReady" msgpack:"isReady"`
}

type LobbyState struct {
	LobbyID   string      `json:"lobbyId" msgpack:"lobbyId"`
	You       *int        `json:"you,omitempty" msgpack:"you,omitempty"`
	AuthToken string      `json:"authToken,omitempty" msgpack:"authToken,omitempty"`
	Players   []LobbySeat `json:"players" msgpack:"players"`
}

type SeatInfo struct {
	ID    int    `json:"id" msgpack:"id"`
	Name  string `json:"name" msgpack:"name"`
	Color string `json:"color" msgpack:"color"`
	IsBot bool   `json:"isBot" msgpack:"isBot"`
}

type GameStart struct {
	LobbyID string     `json:"lobbyId" msgpack:"lobbyId"`
	Players []SeatInfo `json:"players" msgpack:"players"`
}

// PublicState is what every player may see about a seat.
type PublicState struct {
	ID         int    `json:"id" msgpack:"id"`
	Name       string `json:"name" msgpack:"name"`
	Color      string `json:"color" msgpack:"color"`
	IsBot      bool   `json:"isBot" msgpack:"isBot"`
	Health     int    `json:"health" msgpack:"health"`
	Gold       int    `json:"gold" msgpack:"gold"`
	Level      int    `json:"level" msgpack:"level"`
	BoardCount int    `json:"boardCount" msgpack:"boardCount"`
	IsAlive    bool   `json:"isAlive" msgpack:"isAlive"`
	Wins       int    `json:"wins" msgpack:"wins"`
	Losses     int    `json:"losses" msgpack:"losses"`
	Streak     int    `json:"streak" msgpack:"streak"`
	Placement  int    `json:"placement" msgpack:"placement"`
}

// PrivateState is the owning player's full view of their seat.
type PrivateState struct {
	ID      int                     `json:"id" msgpack:"id"`
	Name    string                  `json:"name" msgpack:"name"`
	Color   string                  `json:"color" msgpack:"color"`
	Gold    int                     `json:"gold" msgpack:"gold"`
	Health  int                     `json:"health" msgpack:"health"`
	Level   int                     `json:"level" msgpack:"level"`
	UnitCap int                     `json:"unitCap" msgpack:"unitCap"`
	Board   map[string]game.UnitRef `json:"board" msgpack:"board"`
	Bench   game.Bench              `json:"bench" msgpack:"bench"`
	Shop    game.Shop               `json:"shop" msgpack:"shop"`
	Wins    int                     `json:"wins" msgpack:"wins"`
	Losses  int                     `json:"losses" msgpack:"losses"`
	Streak  int                     `json:"streak" msgpack:"streak"`
	IsAlive bool                    `json:"isAlive" msgpack:"isAlive"`
}

type StateSync struct {
	You        int           `json:"you" msgpack:"you"`
	Round      int           `json:"round" msgpack:"round"`
	Phase      string        `json:"phase" msgpack:"phase"`
	Player     PrivateState  `json:"player" msgpack:"player"`
	Scoreboard []PublicState `json:"scoreboard" msgpack:"scoreboard"`
}

type PhaseChange struct {
	Phase string `json:"phase" msgpack:"phase"`
	Round int    `json:"round" msgpack:"round"`
	Timer int    `json:"timer" msgpack:"timer"`
}

type ShopUpdate struct {
	Shop game.Shop `json:"shop" msgpack:"shop"`
	Gold int       `json:"gold" msgpack:"gold"`
}

type BoardUpdate struct {
	Board     map[string]game.UnitRef `json:"board" msgpack:"board"`
	Bench     game.Bench              `json:"bench" msgpack:"bench"`
	Gold      int                     `json:"gold" msgpack:"gold"`
	Level     int                     `json:"level" msgpack:"level"`
	UnitCap   int                     `json:"unitCap" msgpack:"unitCap"`
	Shop      game.Shop               `json:"shop" msgpack:"shop"`
	Merges    []game.MergeEvent       `json:"merges,omitempty" msgpack:"merges,omitempty"`
	Synergies []synergy.Active        `json:"synergies,omitempty" msgpack:"synergies,omitempty"`
}

type Scoreboard struct {
	Players []PublicState `json:"players" msgpack:"players"`
}

type Opponent struct {
	ID         int    `json:"id" msgpack:"id"`
	Name       string `json:"name" msgpack:"name"`
	Color      string `json:"color" msgpack:"color"`
	BoardCount int    `json:"boardCount" msgpack:"boardCount"`
}

type Matchup struct {
	Opponent      Opponent              `json:"opponent" msgpack:"opponent"`
	ArmyA         []engine.UnitSnapshot `json:"armyA" msgpack:"armyA"`
	ArmyB         []engine.UnitSnapshot `json:"armyB" msgpack:"armyB"`
	YouArePlayerA bool                  `json:"youArePlayerA" msgpack:"youArePlayerA"`
	IsGhostMatch  bool                  `json:"isGhostMatch" msgpack:"isGhostMatch"`
}

// ResultSummary is a battle outcome without the armies.
type ResultSummary struct {
	PlayerA      int  `json:"playerA" msgpack:"playerA"`
	PlayerB      int  `json:"playerB" msgpack:"playerB"`
	Winner       *int `json:"winner" msgpack:"winner"`
	Loser        *int `json:"loser" msgpack:"loser"`
	Damage       int  `json:"damage" msgpack:"damage"`
	IsGhostMatch bool `json:"isGhostMatch" msgpack:"isGhostMatch"`
	SurvivorsA   int  `json:"survivorsA" msgpack:"survivorsA"`
	SurvivorsB   int  `json:"survivorsB" msgpack:"survivorsB"`
}

type CombatResult struct {
	Round   int             `json:"round" msgpack:"round"`
	Results []ResultSummary `json:"results" msgpack:"results"`
}

type Elimination struct {
	PlayerID   int    `json:"playerId" msgpack:"playerId"`
	PlayerName string `json:"playerName" msgpack:"playerName"`
	Placement  int    `json:"placement" msgpack:"placement"`
}

type PlayerRef struct {
	ID   int    `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
}

type Placement struct {
	ID        int    `json:"id" msgpack:"id"`
	Name      string `json:"name" msgpack:"name"`
	Placement int    `json:"placement" msgpack:"placement"`
	IsBot     bool   `json:"isBot" msgpack:"isBot"`
	Wins      int    `json:"wins" msgpack:"wins"`
	Losses    int    `json:"losses" msgpack:"losses"`
}

type GameOver struct {
	Winner     *PlayerRef  `json:"winner" msgpack:"winner"`
	Placements []Placement `json:"placements" msgpack:"placements"`
}

type Error struct {
	Message string `json:"message" msgpack:"message"`
}

type Pong struct {
	T int64 `json:"t" msgpack:"t"`
}
