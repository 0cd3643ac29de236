package match

import (
	"errors"
	"fmt"
	"time"
)

// Tuning holds the timing and economy knobs of a match. Zero values are
// never valid; start from DefaultTuning.
type Tuning struct {
	MaxPlayers        int           `yaml:"max_players"`
	StartingGold      int           `yaml:"starting_gold"`
	StartingHealth    int           `yaml:"starting_health"`
	ShopSecondsBase   int           `yaml:"shop_seconds_base"`
	ShopSecondsMin    int           `yaml:"shop_seconds_min"`
	CombatDisplay     time.Duration `yaml:"combat_display"`
	ResultsDisplay    time.Duration `yaml:"results_display"`
	DisconnectGrace   time.Duration `yaml:"disconnect_grace"`
	FinishedRetention time.Duration `yaml:"finished_retention"`
	MaxTicks          int           `yaml:"max_ticks"`
}

func DefaultTuning() Tuning {
	return Tuning{
		MaxPlayers:        8,
		StartingGold:      50,
		StartingHealth:    100,
		ShopSecondsBase:   30,
		ShopSecondsMin:    15,
		CombatDisplay:     8 * time.Second,
		ResultsDisplay:    5 * time.Second,
		DisconnectGrace:   60 * time.Second,
		FinishedRetention: 300 * time.Second,
		MaxTicks:          1000,
	}
}

func (t Tuning) Validate() error {
	var errs []error
	if t.MaxPlayers < 2 || t.MaxPlayers > 8 || t.MaxPlayers%2 != 0 {
		errs = append(errs, fmt.Errorf("max_players must be even and within 2..8, got %d", t.MaxPlayers))
	}
	if t.StartingGold < 0 {
		errs = append(errs, fmt.Errorf("starting_gold must not be negative, got %d", t.StartingGold))
	}
	if t.StartingHealth <= 0 {
		errs = append(errs, fmt.Errorf("starting_health must be positive, got %d", t.StartingHealth))
	}
	if t.ShopSecondsMin <= 0 || t.ShopSecondsBase < t.ShopSecondsMin {
		errs = append(errs, fmt.Errorf("shop seconds need 0 < min <= base, got min=%d base=%d", t.ShopSecondsMin, t.ShopSecondsBase))
	}
	if t.CombatDisplay < 0 || t.ResultsDisplay < 0 || t.DisconnectGrace < 0 || t.FinishedRetention < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if t.MaxTicks <= 0 {
		errs = append(errs, fmt.Errorf("max_ticks must be positive, got %d", t.MaxTicks))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid tuning: %w", errors.Join(errs...))
	}
	return nil
}

// ShopDuration is the countdown for the shop phase of round.
func (t Tuning) ShopDuration(round int) time.Duration {
	secs := max(t.ShopSecondsMin, t.ShopSecondsBase-round/3)
	return time.Duration(secs) * time.Second
}
