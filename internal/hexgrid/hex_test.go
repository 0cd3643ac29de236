package hexgrid

import "testing"

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Hex
		want int
	}{
		{Hex{0, 0}, Hex{0, 0}, 0},
		{Hex{0, 0}, Hex{1, 0}, 1},
		{Hex{3, 4}, Hex{3, 3}, 1},
		{Hex{3, 4}, Hex{2, 3}, 1},
		{Hex{3, 4}, Hex{4, 3}, 2},
		{Hex{3, 5}, Hex{4, 4}, 1},
		{Hex{0, 0}, Hex{0, 7}, 7},
		{Hex{0, 7}, Hex{6, 0}, 9},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); got != c.want {
			t.Errorf("Distance(%v,%v)=%d want %d", c.a, c.b, got, c.want)
		}
		if got := Distance(c.b, c.a); got != c.want {
			t.Errorf("Distance not symmetric for %v,%v: %d", c.a, c.b, got)
		}
	}
}

func TestNeighborsAreAdjacent(t *testing.T) {
	for _, h := range []Hex{{3, 3}, {3, 4}, {0, 1}, {6, 6}} {
		for _, n := range Neighbors(h) {
			if d := Distance(h, n); d != 1 {
				t.Fatalf("neighbor %v of %v at distance %d", n, h, d)
			}
		}
	}
}

func TestParseAndKey(t *testing.T) {
	h, err := Parse("3,4")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if h != (Hex{Col: 3, Row: 4}) {
		t.Fatalf("got %+v", h)
	}
	if h.Key() != "3,4" {
		t.Fatalf("key=%q", h.Key())
	}
	for _, bad := range []string{"", "3", "a,4", "3,b"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestMirrorAndZones(t *testing.T) {
	if m := (Hex{2, 4}).Mirror(); m != (Hex{2, 3}) {
		t.Fatalf("mirror=%v", m)
	}
	if !(Hex{0, 7}).InPlayerZone() || (Hex{0, 3}).InPlayerZone() || (Hex{7, 5}).InPlayerZone() {
		t.Fatalf("player zone check wrong")
	}
	if (Hex{-1, 0}).InBounds() || !(Hex{6, 7}).InBounds() {
		t.Fatalf("bounds check wrong")
	}
}
