package storage

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pefman/fffa-arena/internal/match"
)

const defaultLimit = 10

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) SaveMatch(s match.Summary) error {
	rec := MatchRecord{
		MatchID:   s.MatchID,
		Rounds:    s.Rounds,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
	if s.Winner != nil {
		rec.WinnerName = s.Winner.Name
	}
	for _, p := range s.Placements {
		if !p.IsBot {
			rec.Humans++
		}
		rec.Placements = append(rec.Placements, PlacementRecord{
			Seat:      p.ID,
			Name:      p.Name,
			IsBot:     p.IsBot,
			Placement: p.Placement,
			Wins:      p.Wins,
			Losses:    p.Losses,
		})
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		for _, p := range s.Placements {
			if p.IsBot {
				continue
			}
			if err := upsertProfile(tx, p.Name, p.Placement); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertProfile(tx *gorm.DB, name string, placement int) error {
	var pr PlayerRecord
	err := tx.Where("name = ?", name).First(&pr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pr = PlayerRecord{Name: name}
	} else if err != nil {
		return err
	}
	pr.GamesPlayed++
	if placement == 1 {
		pr.Wins++
	}
	if placement <= 4 {
		pr.TopFour++
	}
	if pr.BestPlacement == 0 || placement < pr.BestPlacement {
		pr.BestPlacement = placement
	}
	return tx.Save(&pr).Error
}

func (r *sqliteRepository) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	var out []MatchRecord
	err := r.db.Preload("Placements", func(db *gorm.DB) *gorm.DB {
		return db.Order("placement ASC")
	}).Order("ended_at DESC").Order("id DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqliteRepository) GetMatch(matchID string) (*MatchRecord, error) {
	var rec MatchRecord
	err := r.db.Preload("Placements", func(db *gorm.DB) *gorm.DB {
		return db.Order("placement ASC")
	}).Where("match_id = ?", strings.ToUpper(matchID)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sqliteRepository) TopPlayers(limit int) ([]PlayerRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	var out []PlayerRecord
	if err := r.db.Model(&PlayerRecord{}).
		Order("wins DESC").
		Order("top_four DESC").
		Order("games_played DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
