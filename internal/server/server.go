// Package server is the websocket front door: it upgrades connections,
// picks a codec, runs the join and reconnect handshake and then forwards
// player messages to the match that owns the seat.
package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/pefman/fffa-arena/internal/logging"
	"github.com/pefman/fffa-arena/internal/match"
	"github.com/pefman/fffa-arena/internal/models"
)

type Options struct {
	// CheckOrigin decides whether a browser origin may connect. Nil allows all.
	CheckOrigin func(origin string) bool
	Logger      zerolog.Logger
}

type Server struct {
	reg      *match.Registry
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func New(reg *match.Registry, opts Options) *Server {
	s := &Server{reg: reg, log: opts.Logger}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || opts.CheckOrigin == nil {
				return true
			}
			return opts.CheckOrigin(origin)
		},
	}
	return s
}

// ServeHTTP upgrades the request. ?enc=msgpack selects binary frames.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Str(logging.FieldRemote, r.RemoteAddr).Err(err).Msg("ws: upgrade failed")
		return
	}
	codec := models.CodecFor(r.URL.Query().Get("enc"))
	c := newClient(s, conn, codec, s.log.With().Str(logging.FieldRemote, r.RemoteAddr).Logger())
	c.log.Debug().Str("codec", codec.Name()).Msg("ws: connected")
	go c.writePump()
	c.readPump()
}
