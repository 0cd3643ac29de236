package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/engine"
	"github.com/pefman/fffa-arena/internal/game"
)

type simSide struct {
	Level int        `json:"level"`
	Board game.Board `json:"board"`
}

type simRequest struct {
	A        simSide `json:"a"`
	B        simSide `json:"b"`
	Seed     *int64  `json:"seed,omitempty"`
	MaxTicks int     `json:"maxTicks,omitempty"`
}

func (s simSide) army(cat *catalog.Catalog, owner int) (engine.Army, error) {
	lvl := s.Level
	if lvl == 0 {
		lvl = 1
	}
	if lvl < 1 || lvl > catalog.MaxLevel {
		return engine.Army{}, fmt.Errorf("level must be 1-%d", catalog.MaxLevel)
	}
	for h, ref := range s.Board {
		if !h.InBounds() {
			return engine.Army{}, fmt.Errorf("hex %s off the board", h)
		}
		if _, ok := cat.Lookup(ref.ID); !ok {
			return engine.Army{}, fmt.Errorf("unknown unit %q", ref.ID)
		}
		if ref.Stars < 1 || ref.Stars > catalog.MaxStars {
			return engine.Army{}, fmt.Errorf("stars must be 1-%d", catalog.MaxStars)
		}
	}
	return engine.Army{OwnerID: owner, Level: lvl, Board: s.Board}, nil
}

// POST /api/sim/battle runs one board against another with a full trace.
// Side a attacks from its own hexes; side b is mirrored as the defender.
func (h *handlers) simBattle(w http.ResponseWriter, r *http.Request) {
	var req simRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	a, err := req.A.army(h.Catalog, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "a: "+err.Error())
		return
	}
	b, err := req.B.army(h.Catalog, 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "b: "+err.Error())
		return
	}
	if req.MaxTicks < 0 || req.MaxTicks > engine.DefaultMaxTicks {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("maxTicks must be 0-%d", engine.DefaultMaxTicks))
		return
	}

	rng := engine.NewRNG()
	if req.Seed != nil {
		rng = engine.Seeded(*req.Seed)
	}
	res := engine.ResolveMatchup(h.Catalog, a, b, false, rng, engine.Options{MaxTicks: req.MaxTicks, Trace: true})
	h.Logger.Debug().Int("ticks", res.Ticks).Int("winner", res.Winner).Int("damage", res.Damage).Msg("api: sim battle")
	writeJSON(w, res)
}
