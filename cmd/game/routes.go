package main

import (
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/pefman/fffa-arena/internal/api"
	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/config"
	"github.com/pefman/fffa-arena/internal/logging"
	"github.com/pefman/fffa-arena/internal/match"
	"github.com/pefman/fffa-arena/internal/server"
	"github.com/pefman/fffa-arena/internal/stats"
	"github.com/pefman/fffa-arena/internal/storage"
)

func routes(cfg config.Config, reg *match.Registry, repo storage.Repository, daily *stats.Tracker) http.Handler {
	r := mux.NewRouter()

	r.Handle("/ws", server.New(reg, server.Options{
		CheckOrigin: cfg.OriginAllowed,
		Logger:      log.Logger,
	}))

	// Client-side debug lines end up in the server log.
	r.HandleFunc("/debug", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(io.LimitReader(r.Body, 4096))
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = "(empty client debug)"
		}
		log.Debug().Str(logging.FieldRemote, r.RemoteAddr).Str("client", msg).Msg("client debug")
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPost)

	api.Register(r, api.Deps{
		Catalog:   catalog.Default(),
		Registry:  reg,
		Repo:      repo,
		Stats:     daily,
		Version:   buildVersion,
		BuildTime: buildTime,
		Logger:    log.Logger,
	})

	var allow func(string) bool
	if len(cfg.AllowedOrigins) > 0 {
		allow = cfg.OriginAllowed
	}
	return api.WithCORS(r, allow)
}
