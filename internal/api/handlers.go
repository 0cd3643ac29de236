package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/match"
	"github.com/pefman/fffa-arena/internal/storage"
)

const maxListLimit = 100

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *handlers) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"version": h.Version, "time": h.BuildTime})
}

// GET /api/units?faction=Alley&cost=3
func (h *handlers) units(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cost := 0
	if s := q.Get("cost"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > catalog.MaxCost {
			writeError(w, http.StatusBadRequest, "cost must be 1-5")
			return
		}
		cost = n
	}
	faction := q.Get("faction")
	out := make([]catalog.Unit, 0, len(h.Catalog.Units()))
	for _, u := range h.Catalog.Units() {
		if cost != 0 && u.Cost != cost {
			continue
		}
		if faction != "" && !strings.EqualFold(string(u.Faction), faction) {
			continue
		}
		out = append(out, u)
	}
	writeJSON(w, out)
}

func (h *handlers) unit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	u, ok := h.Catalog.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown unit "+id)
		return
	}
	writeJSON(w, u)
}

func (h *handlers) synergies(w http.ResponseWriter, r *http.Request) {
	odds := map[string][catalog.MaxCost]int{}
	for lvl := 1; lvl <= catalog.MaxLevel; lvl++ {
		odds[strconv.Itoa(lvl)] = h.Catalog.Odds(lvl)
	}
	writeJSON(w, map[string]any{
		"factions": h.Catalog.Factions(),
		"shopOdds": odds,
	})
}

// GET /api/lobbies lists lobbies still taking players; ?all=1 includes
// running and finished matches.
func (h *handlers) lobbies(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all") == "1"
	seats := h.Registry.Tuning().MaxPlayers
	out := make([]match.Info, 0)
	for _, info := range h.Registry.List() {
		if all || (info.Phase == match.PhaseWaiting && len(info.Seats) < seats) {
			out = append(out, info)
		}
	}
	writeJSON(w, map[string]any{"lobbies": out, "count": len(out)})
}

func limitParam(r *http.Request) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	return min(n, maxListLimit), nil
}

func (h *handlers) matches(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	recs, err := h.Repo.RecentMatches(limit)
	if err != nil {
		h.Logger.Error().Err(err).Msg("api: recent matches")
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	writeJSON(w, recs)
}

func (h *handlers) matchByID(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Repo.GetMatch(mux.Vars(r)["id"])
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error().Err(err).Msg("api: get match")
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	writeJSON(w, rec)
}

type leaderboardEntry struct {
	Rank          int    `json:"rank"`
	Name          string `json:"name"`
	GamesPlayed   int    `json:"gamesPlayed"`
	Wins          int    `json:"wins"`
	TopFour       int    `json:"topFour"`
	BestPlacement int    `json:"bestPlacement"`
}

func (h *handlers) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	top, err := h.Repo.TopPlayers(limit)
	if err != nil {
		h.Logger.Error().Err(err).Msg("api: leaderboard")
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	out := make([]leaderboardEntry, 0, len(top))
	for i, p := range top {
		out = append(out, leaderboardEntry{
			Rank:          i + 1,
			Name:          p.Name,
			GamesPlayed:   p.GamesPlayed,
			Wins:          p.Wins,
			TopFour:       p.TopFour,
			BestPlacement: p.BestPlacement,
		})
	}
	writeJSON(w, map[string]any{"players": out, "count": len(out)})
}

func (h *handlers) daily(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Stats.Today())
}
