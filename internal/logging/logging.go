// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Field names shared by every log call site.
const (
	FieldMatch  = "match"
	FieldPlayer = "player"
	FieldSeat   = "seat"
	FieldRound  = "round"
	FieldPhase  = "phase"
	FieldAction = "action"
	FieldRemote = "remote"
)

// New builds a logger writing to w. format "console" gives human readable
// output, anything else JSON lines.
func New(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Setup installs the logger as the global one used through zerolog/log.
func Setup(service, level, format string) zerolog.Logger {
	l := New(os.Stderr, level, format).With().Str("service", service).Logger()
	zerolog.SetGlobalLevel(l.GetLevel())
	log.Logger = l
	return l
}
