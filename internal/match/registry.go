package match

import (
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/logging"
)

// Registry maps lobby ids to running matches. Matches remove themselves
// when they tear down.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]*Match

	cat    *catalog.Catalog
	tuning Tuning
	clock  Clock
	log    zerolog.Logger
	hooks  Hooks
}

type RegistryOptions struct {
	Tuning Tuning
	Clock  Clock
	Logger zerolog.Logger
	// Hooks are passed to every match; OnTeardown runs after the registry
	// has dropped the match.
	Hooks Hooks
}

func NewRegistry(cat *catalog.Catalog, opts RegistryOptions) *Registry {
	if opts.Tuning == (Tuning{}) {
		opts.Tuning = DefaultTuning()
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	return &Registry{
		matches: map[string]*Match{},
		cat:     cat,
		tuning:  opts.Tuning,
		clock:   opts.Clock,
		log:     opts.Logger,
		hooks:   opts.Hooks,
	}
}

func newLobbyID() string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return strings.ToUpper(hex.EncodeToString(b))
}

// Create starts a new match under a fresh lobby id.
func (r *Registry) Create() *Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked()
}

func (r *Registry) createLocked() *Match {
	id := newLobbyID()
	for r.matches[id] != nil {
		id = newLobbyID()
	}
	hooks := r.hooks
	var m *Match
	hooks.OnTeardown = func(id string) {
		r.remove(id, m)
		if r.hooks.OnTeardown != nil {
			r.hooks.OnTeardown(id)
		}
	}
	m = New(id, r.cat, Options{Tuning: r.tuning, Clock: r.clock, Logger: &r.log, Hooks: hooks})
	r.matches[id] = m
	m.Run()
	r.log.Info().Str(logging.FieldMatch, id).Int("matches", len(r.matches)).Msg("match created")
	return m
}

func (r *Registry) remove(id string, m *Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.matches[id]; ok && cur == m {
		delete(r.matches, id)
	}
}

func (r *Registry) Get(id string) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[strings.ToUpper(id)]
	return m, ok
}

// FindOrCreate returns the lobby named id, or a new lobby for an empty or
// unknown id. A started or full lobby is still returned; Join rejects it.
func (r *Registry) FindOrCreate(id string) *Match {
	id = strings.ToUpper(strings.TrimSpace(id))
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.matches[id]; ok && id != "" {
		return m
	}
	return r.createLocked()
}

// List snapshots every live match, ordered by creation time.
func (r *Registry) List() []Info {
	r.mu.RLock()
	all := make([]*Match, 0, len(r.matches))
	for _, m := range r.matches {
		all = append(all, m)
	}
	r.mu.RUnlock()

	out := make([]Info, 0, len(all))
	for _, m := range all {
		if info, err := m.Info(); err == nil {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete drops a match and tears it down.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	m, ok := r.matches[id]
	delete(r.matches, id)
	r.mu.Unlock()
	if ok {
		m.Close()
	}
}

// Tuning is the configuration every match in r starts with.
func (r *Registry) Tuning() Tuning { return r.tuning }

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}

// Shutdown tears down every match.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	all := r.matches
	r.matches = map[string]*Match{}
	r.mu.Unlock()
	for _, m := range all {
		m.Close()
	}
}
