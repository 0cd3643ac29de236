package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var ErrMissingType = errors.New("message has no type")

// Codec turns envelopes into websocket frames and back. A connection picks
// one codec at upgrade time and keeps it.
type Codec interface {
	Name() string
	// Binary reports whether frames go out as binary websocket messages.
	Binary() bool
	Encode(msgType string, payload any) ([]byte, error)
	Decode(frame []byte) (Inbound, error)
}

// Inbound is a decoded envelope whose payload has not been bound yet.
type Inbound struct {
	Type string
	bind func(v any) error
}

// Bind decodes the payload into v. A missing payload leaves v untouched.
func (in Inbound) Bind(v any) error {
	if in.bind == nil {
		return nil
	}
	return in.bind(v)
}

// CodecFor maps the ?enc= query value to a codec. Unknown names get JSON.
func CodecFor(name string) Codec {
	if name == "msgpack" {
		return MsgpackCodec{}
	}
	return JSONCodec{}
}

// ===== JSON =====

type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }
func (JSONCodec) Binary() bool { return false }

func (JSONCodec) Encode(msgType string, payload any) ([]byte, error) {
	return json.Marshal(WsMsg{Type: msgType, Data: payload})
}

func (JSONCodec) Decode(frame []byte) (Inbound, error) {
	var raw struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(frame, &raw); err != nil {
		return Inbound{}, fmt.Errorf("decode json frame: %w", err)
	}
	if raw.Type == "" {
		return Inbound{}, ErrMissingType
	}
	in := Inbound{Type: raw.Type}
	if len(raw.Data) > 0 && string(raw.Data) != "null" {
		in.bind = func(v any) error { return json.Unmarshal(raw.Data, v) }
	}
	return in, nil
}

// ===== MessagePack =====

type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return "msgpack" }
func (MsgpackCodec) Binary() bool { return true }

func (MsgpackCodec) Encode(msgType string, payload any) ([]byte, error) {
	return msgpack.Marshal(&WsMsg{Type: msgType, Data: payload})
}

func (MsgpackCodec) Decode(frame []byte) (Inbound, error) {
	var raw struct {
		Type string             `msgpack:"type"`
		Data msgpack.RawMessage `msgpack:"data"`
	}
	if err := msgpack.Unmarshal(frame, &raw); err != nil {
		return Inbound{}, fmt.Errorf("decode msgpack frame: %w", err)
	}
	if raw.Type == "" {
		return Inbound{}, ErrMissingType
	}
	in := Inbound{Type: raw.Type}
	// 0xc0 is nil.
	if len(raw.Data) > 0 && raw.Data[0] != 0xc0 {
		in.bind = func(v any) error { return msgpack.Unmarshal(raw.Data, v) }
	}
	return in, nil
}
