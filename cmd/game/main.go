package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/config"
	"github.com/pefman/fffa-arena/internal/logging"
	"github.com/pefman/fffa-arena/internal/match"
	"github.com/pefman/fffa-arena/internal/stats"
	"github.com/pefman/fffa-arena/internal/storage"
)

// Build metadata injected via -ldflags at build time
var (
	buildVersion = "dev"
	buildTime    = ""
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("game", "info", "json")
		log.Fatal().Err(err).Msg("load config")
	}
	logger := logging.Setup("game", cfg.LogLevel, cfg.LogFormat)

	db, err := storage.OpenAndMigrate(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("open history db")
	}
	repo := storage.NewSQLiteRepository(db)
	daily := stats.New()

	// Archiving runs off the match goroutine.
	var archiving sync.WaitGroup
	hooks := match.Hooks{
		OnFinished: func(s match.Summary) {
			archiving.Add(1)
			go func() {
				defer archiving.Done()
				if err := repo.SaveMatch(s); err != nil {
					log.Error().Err(err).Str(logging.FieldMatch, s.MatchID).Msg("archive match")
				}
			}()
		},
		OnResults: daily.Observe,
	}
	reg := match.NewRegistry(catalog.Default(), match.RegistryOptions{
		Tuning: cfg.Tuning,
		Logger: logger,
		Hooks:  hooks,
	})

	srv := &http.Server{
		Addr:              cfg.GameAddr,
		Handler:           routes(cfg, reg, repo, daily),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		log.Info().Str("addr", cfg.GameAddr).Str("version", buildVersion).Int("max_players", cfg.Tuning.MaxPlayers).Msg("fffa game server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()
	<-ctx.Done()

	log.Info().Int("matches", reg.Len()).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	reg.Shutdown()
	archiving.Wait()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
