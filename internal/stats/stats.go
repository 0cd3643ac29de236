// Package stats keeps today's headline records in memory. They reset at
// UTC midnight and are lost on restart.
package stats

import (
	"sync"
	"time"
)

type TopBattle struct {
	Damage  int    `json:"damage"`
	Winner  string `json:"winner"`
	Loser   string `json:"loser,omitempty"`
	Ghost   bool   `json:"ghost,omitempty"`
	MatchID string `json:"match_id,omitempty"`
	Round   int    `json:"round,omitempty"`
	Time    int64  `json:"time"`
}

type TopStreak struct {
	Streak  int    `json:"streak"`
	Player  string `json:"player"`
	MatchID string `json:"match_id,omitempty"`
	Round   int    `json:"round,omitempty"`
	Time    int64  `json:"time"`
}

type Daily struct {
	Date          string    `json:"date"`
	BiggestBattle TopBattle `json:"biggest_battle"`
	LongestStreak TopStreak `json:"longest_streak"`
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	now   func() time.Time
	state Daily
}

func New() *Tracker {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Tracker {
	t := &Tracker{now: now}
	t.state = Daily{Date: t.today()}
	return t
}

func (t *Tracker) today() string {
	return t.now().UTC().Format("2006-01-02")
}

// rollover must be called with mu held.
func (t *Tracker) rollover() {
	if d := t.today(); t.state.Date != d {
		t.state = Daily{Date: d}
	}
}

func (t *Tracker) Today() Daily {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover()
	return t.state
}

// Reset clears today's records.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = Daily{Date: t.today()}
}
