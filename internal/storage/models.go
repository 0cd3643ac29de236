package storage

import (
	"time"

	"gorm.io/gorm"
)

// MatchRecord is one finished match.
type MatchRecord struct {
	gorm.Model
	MatchID    string            `gorm:"uniqueIndex" json:"matchId"`
	Rounds     int               `json:"rounds"`
	StartedAt  time.Time         `json:"startedAt"`
	EndedAt    time.Time         `json:"endedAt"`
	WinnerName string            `json:"winner,omitempty"`
	Humans     int               `json:"humans"`
	Placements []PlacementRecord `gorm:"foreignKey:MatchRecordID" json:"placements"`
}

func (MatchRecord) TableName() string { return "match_history" }

type PlacementRecord struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	MatchRecordID uint   `gorm:"index" json:"-"`
	Seat          int    `json:"seat"`
	Name          string `json:"name"`
	IsBot         bool   `json:"isBot"`
	Placement     int    `json:"placement"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
}

func (PlacementRecord) TableName() string { return "match_placements" }

// PlayerRecord aggregates finished matches per human display name.
type PlayerRecord struct {
	gorm.Model
	Name          string `gorm:"uniqueIndex" json:"name"`
	GamesPlayed   int    `json:"gamesPlayed"`
	Wins          int    `json:"wins"`
	TopFour       int    `json:"topFour"`
	BestPlacement int    `json:"bestPlacement"`
}

func (PlayerRecord) TableName() string { return "player_profiles" }
