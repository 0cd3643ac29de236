// Package storage archives finished matches in sqlite and derives the
// all-time leaderboard from them. Live match state is never stored.
package storage

import (
	"errors"

	"github.com/pefman/fffa-arena/internal/match"
)

var ErrNotFound = errors.New("match not found")

type Repository interface {
	// SaveMatch stores a finished match and updates the profiles of its
	// human players.
	SaveMatch(s match.Summary) error
	RecentMatches(limit int) ([]MatchRecord, error)
	GetMatch(matchID string) (*MatchRecord, error)
	// TopPlayers orders by wins, then top-four finishes, then games played.
	TopPlayers(limit int) ([]PlayerRecord, error)
}
