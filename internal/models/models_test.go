package models

import (
	"encoding/json"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pefman/fffa-arena/internal/engine"
	"github.com/pefman/fffa-arena/internal/game"
	"github.com/pefman/fffa-arena/internal/hexgrid"
)

func TestCodecFor(t *testing.T) {
	if c := CodecFor("msgpack"); c.Name() != "msgpack" || !c.Binary() {
		t.Fatalf("got %s", c.Name())
	}
	for _, name := range []string{"", "json", "xml"} {
		if c := CodecFor(name); c.Name() != "json" || c.Binary() {
			t.Fatalf("%q -> %s", name, c.Name())
		}
	}
}

func TestDecodeAction(t *testing.T) {
	idx := 4
	payload := Action{HexKey: "3,5", BenchIndex: &idx}
	jsonFrame, _ := json.Marshal(map[string]any{"type": TypeBoardToBench, "data": payload})
	packFrame, _ := msgpack.Marshal(map[string]any{"type": TypeBoardToBench, "data": payload})

	for _, c := range []struct {
		codec Codec
		frame []byte
	}{{JSONCodec{}, jsonFrame}, {MsgpackCodec{}, packFrame}} {
		in, err := c.codec.Decode(c.frame)
		if err != nil {
			t.Fatalf("%s: %v", c.codec.Name(), err)
		}
		if in.Type != TypeBoardToBench || !IsAction(in.Type) {
			t.Fatalf("%s: type %q", c.codec.Name(), in.Type)
		}
		var a Action
		if err := in.Bind(&a); err != nil {
			t.Fatalf("%s: bind: %v", c.codec.Name(), err)
		}
		if a.HexKey != "3,5" || a.Bench() != 4 {
			t.Fatalf("%s: action %+v", c.codec.Name(), a)
		}
	}
}

func TestDecodeWithoutPayload(t *testing.T) {
	for _, c := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		frame, err := c.Encode(TypeReroll, nil)
		if err != nil {
			t.Fatal(err)
		}
		in, err := c.Decode(frame)
		if err != nil {
			t.Fatalf("%s: %v", c.Name(), err)
		}
		a := Action{ShopIndex: 7}
		if err := in.Bind(&a); err != nil || a.ShopIndex != 7 {
			t.Fatalf("%s: bind touched value: %+v %v", c.Name(), a, err)
		}
		if a.Bench() != -1 {
			t.Fatalf("absent bench index should be -1")
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	if _, err := (JSONCodec{}).Decode([]byte(`{"data":{}}`)); err != ErrMissingType {
		t.Fatalf("want ErrMissingType, got %v", err)
	}
	if _, err := (JSONCodec{}).Decode([]byte(`not json`)); err == nil {
		t.Fatalf("garbage should fail")
	}
	if _, err := (MsgpackCodec{}).Decode([]byte{0xc1}); err == nil {
		t.Fatalf("garbage should fail")
	}
}

func TestEncodeBoardUpdateJSON(t *testing.T) {
	p := game.NewPlayer(2, "Tom", false, 10, 100)
	p.Board[hexgrid.Hex{Col: 3, Row: 5}] = game.UnitRef{ID: "alley_tabby_thug", Stars: 2}
	frame, err := JSONCodec{}.Encode(TypeBoardUpdate, BoardUpdate{Board: BoardKeys(p.Board), Bench: p.Bench, Gold: p.Gold})
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Type string `json:"type"`
		Data struct {
			Board map[string]game.UnitRef `json:"board"`
			Bench []*game.UnitRef         `json:"bench"`
			Gold  int                     `json:"gold"`
		} `json:"data"`
	}
	if err := json.Unmarshal(frame, &out); err != nil {
		t.Fatal(err)
	}
	if out.Type != TypeBoardUpdate || out.Data.Board["3,5"].Stars != 2 || len(out.Data.Bench) != 9 || out.Data.Gold != 10 {
		t.Fatalf("frame %s", frame)
	}
}

func TestStateViews(t *testing.T) {
	p := game.NewPlayer(1, "Ann", true, 25, 80)
	p.Board[hexgrid.Hex{Col: 0, Row: 4}] = game.UnitRef{ID: "mainecoon_cub", Stars: 1}
	p.Streak = -2

	pub := Public(p)
	if pub.BoardCount != 1 || !pub.IsBot || pub.Health != 80 || pub.Streak != -2 || !pub.IsAlive {
		t.Fatalf("public %+v", pub)
	}
	priv := Private(p)
	if priv.UnitCap != 3 || priv.Board["0,4"].ID != "mainecoon_cub" || priv.Gold != 25 {
		t.Fatalf("private %+v", priv)
	}
	p.Bench[0] = &game.UnitRef{ID: "x", Stars: 1}
	if priv.Bench[0] != nil {
		t.Fatalf("private view should not alias the bench")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(engine.Result{PlayerA: 0, PlayerB: 3, Winner: engine.NoPlayer, Loser: engine.NoPlayer, Damage: 2})
	if s.Winner != nil || s.Loser != nil || s.Damage != 2 {
		t.Fatalf("draw summary %+v", s)
	}
	s = Summarize(engine.Result{PlayerA: 0, PlayerB: 3, Winner: 3, Loser: 0, Ghost: true})
	if s.Winner == nil || *s.Winner != 3 || *s.Loser != 0 || !s.IsGhostMatch {
		t.Fatalf("summary %+v", s)
	}
}
