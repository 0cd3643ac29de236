// Command api serves the unit catalog, the match archive and the battle
// sandbox without running any matches. It reads the same database the game
// server writes.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pefman/fffa-arena/internal/api"
	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/config"
	"github.com/pefman/fffa-arena/internal/logging"
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
		logging.Setup("api", "info", "json")
		log.Fatal().Err(err).Msg("load config")
	}
	logger := logging.Setup("api", cfg.LogLevel, cfg.LogFormat)

	db, err := storage.OpenAndMigrate(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("open history db")
	}

	deps := api.Deps{
		Catalog:   catalog.Default(),
		Repo:      storage.NewSQLiteRepository(db),
		Version:   buildVersion,
		BuildTime: buildTime,
		Logger:    logger,
	}
	if len(cfg.AllowedOrigins) > 0 {
		deps.AllowOrigin = cfg.OriginAllowed
	}
	srv := &http.Server{
		Addr:              cfg.APIAddr,
		Handler:           api.NewHandler(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		log.Info().Str("addr", cfg.APIAddr).Str("version", buildVersion).Msg("fffa api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
