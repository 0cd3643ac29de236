// Package api serves the read-only HTTP side of the arena: the unit
// catalog, live lobbies, the match archive, daily records and the battle
// sandbox.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/match"
	"github.com/pefman/fffa-arena/internal/stats"
	"github.com/pefman/fffa-arena/internal/storage"
)

// Deps are the sources behind the routes. Nil sources leave their routes
// unregistered, so the history-only binary can run without a registry.
type Deps struct {
	Catalog  *catalog.Catalog
	Registry *match.Registry
	Repo     storage.Repository
	Stats    *stats.Tracker

	Version   string
	BuildTime string
	Logger    zerolog.Logger
	// AllowOrigin decides the CORS origin header. Nil allows any origin.
	AllowOrigin func(origin string) bool
}

type handlers struct {
	Deps
}

// Register mounts every available route on r.
func Register(r *mux.Router, d Deps) {
	h := &handlers{Deps: d}

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/version", h.version).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	if d.Catalog != nil {
		api.HandleFunc("/units", h.units).Methods(http.MethodGet)
		api.HandleFunc("/units/{id}", h.unit).Methods(http.MethodGet)
		api.HandleFunc("/synergies", h.synergies).Methods(http.MethodGet)
		api.HandleFunc("/sim/battle", h.simBattle).Methods(http.MethodPost)
	}
	if d.Registry != nil {
		api.HandleFunc("/lobbies", h.lobbies).Methods(http.MethodGet)
	}
	if d.Repo != nil {
		api.HandleFunc("/matches", h.matches).Methods(http.MethodGet)
		api.HandleFunc("/matches/{id}", h.matchByID).Methods(http.MethodGet)
		api.HandleFunc("/leaderboard", h.leaderboard).Methods(http.MethodGet)
	}
	if d.Stats != nil {
		api.HandleFunc("/stats/daily", h.daily).Methods(http.MethodGet)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "unsupported path")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, r.Method+" not allowed")
	})
}

// NewHandler is Register on a fresh router, wrapped with CORS.
func NewHandler(d Deps) http.Handler {
	r := mux.NewRouter()
	Register(r, d)
	return WithCORS(r, d.AllowOrigin)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

// WithCORS answers preflight requests and stamps the allow headers.
func WithCORS(next http.Handler, allow func(origin string) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allow == nil:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allow(origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
