package server

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/pefman/fffa-arena/internal/logging"
	"github.com/pefman/fffa-arena/internal/match"
	"github.com/pefman/fffa-arena/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 64 << 10
	sendBuffer     = 64
)

var (
	errSlowClient    = errors.New("client send buffer full")
	errClientClosed  = errors.New("client closed")
	errAlreadySeated = errors.New("already in a lobby")
	errNotSeated     = errors.New("join a lobby first")
	errMalformed     = errors.New("malformed message")
)

// client is one websocket connection. The read side runs the handshake and
// forwards actions; every outbound frame goes through the send channel so
// only writePump touches the socket for writing.
type client struct {
	srv   *Server
	conn  *websocket.Conn
	codec models.Codec
	log   zerolog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// Owned by readPump, as is log once seated.
	match *match.Match
	seat  int
}

func newClient(s *Server, conn *websocket.Conn, codec models.Codec, log zerolog.Logger) *client {
	return &client{
		srv:   s,
		conn:  conn,
		codec: codec,
		log:   log,
		send:  make(chan []byte, sendBuffer),
		done:  make(chan struct{}),
		seat:  -1,
	}
}

// Send implements match.Conn. It never blocks: a client that cannot keep up
// is dropped.
func (c *client) Send(msgType string, payload any) error {
	frame, err := c.codec.Encode(msgType, payload)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return errClientClosed
	default:
	}
	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return errClientClosed
	default:
		c.close()
		return errSlowClient
	}
}

func (c *client) sendError(err error) {
	_ = c.Send(models.TypeError, models.Error{Message: err.Error()})
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *client) frameType() int {
	if c.codec.Binary() {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(c.frameType(), frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump() {
	defer func() {
		if c.match != nil {
			c.match.Disconnect(c.seat, c)
		}
		c.close()
		c.log.Debug().Int(logging.FieldSeat, c.seat).Msg("ws: closed")
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("ws: read failed")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		in, err := c.codec.Decode(frame)
		if err != nil {
			c.log.Debug().Err(err).Msg("ws: bad frame")
			continue
		}
		c.dispatch(in)
	}
}

func (c *client) dispatch(in models.Inbound) {
	switch in.Type {
	case models.TypeJoin:
		var j models.Join
		if err := in.Bind(&j); err != nil {
			c.sendError(errMalformed)
			return
		}
		c.join(j)
	case models.TypeReconnect:
		var r models.Reconnect
		if err := in.Bind(&r); err != nil {
			c.sendError(errMalformed)
			return
		}
		c.reconnect(r)
	case models.TypePing:
		var p models.Ping
		_ = in.Bind(&p)
		_ = c.Send(models.TypePong, models.Pong{T: p.T})
	case models.TypeReady:
		if c.match != nil {
			c.match.Ready(c.seat)
		}
	default:
		if c.match == nil {
			c.sendError(errNotSeated)
			return
		}
		var a models.Action
		if err := in.Bind(&a); err != nil {
			c.sendError(errMalformed)
			return
		}
		c.match.Act(c.seat, in.Type, a)
	}
}

func (c *client) attach(m *match.Match, seat int) {
	c.match = m
	c.seat = seat
	c.log = c.log.With().Str(logging.FieldMatch, m.ID()).Int(logging.FieldSeat, seat).Logger()
}

func (c *client) join(j models.Join) {
	if c.match != nil {
		c.sendError(errAlreadySeated)
		return
	}
	var m *match.Match
	if j.Practice {
		m = c.srv.reg.Create()
	} else {
		m = c.srv.reg.FindOrCreate(j.LobbyID)
	}
	seat, _, err := m.Join(j.Name, c)
	if err != nil {
		c.sendError(err)
		return
	}
	c.attach(m, seat)
	if j.Practice {
		m.Start()
	}
}

func (c *client) reconnect(r models.Reconnect) {
	if c.match != nil {
		c.sendError(errAlreadySeated)
		return
	}
	m, ok := c.srv.reg.Get(r.LobbyID)
	if !ok {
		c.sendError(match.ErrNotFound)
		return
	}
	if err := m.Reconnect(r.PlayerIndex, r.AuthToken, c); err != nil {
		c.sendError(err)
		return
	}
	c.attach(m, r.PlayerIndex)
}
