// Package config reads process settings from the environment and an optional
// tuning file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pefman/fffa-arena/internal/match"
)

type Config struct {
	GameAddr       string
	APIAddr        string
	DBPath         string
	TuningPath     string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string
	Tuning         match.Tuning
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads .env when present, then the environment, then the tuning file
// named by FFFA_TUNING.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = getenv("GAME_PORT", "8081")
	}
	cfg := Config{
		GameAddr:   ":" + port,
		APIAddr:    ":" + getenv("API_PORT", "8080"),
		DBPath:     getenv("FFFA_DB", "./data/fffa.db"),
		TuningPath: os.Getenv("FFFA_TUNING"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		LogFormat:  getenv("LOG_FORMAT", "json"),
		Tuning:     match.DefaultTuning(),
	}
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	if cfg.TuningPath != "" {
		t, err := LoadTuning(cfg.TuningPath, cfg.Tuning)
		if err != nil {
			return Config{}, err
		}
		cfg.Tuning = t
	}
	return cfg, nil
}

// LoadTuning overlays the YAML file at path on base. Keys missing from the
// file keep their base values.
func LoadTuning(path string, base match.Tuning) (match.Tuning, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("config: read tuning %s: %w", path, err)
	}
	return ParseTuning(b, base)
}

func ParseTuning(doc []byte, base match.Tuning) (match.Tuning, error) {
	t := base
	if err := yaml.Unmarshal(doc, &t); err != nil {
		return base, fmt.Errorf("config: parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return base, fmt.Errorf("config: %w", err)
	}
	return t, nil
}

// OriginAllowed reports whether a websocket or CORS origin is accepted. An
// empty allow list accepts everything.
func (c Config) OriginAllowed(origin string) bool {
	if len(c.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range c.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
