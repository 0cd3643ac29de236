package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "json")
	l.Info().Msg("hidden")
	l.Warn().Str(FieldMatch, "ABC123").Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("lines=%d: %s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal(lines[0], &rec); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if rec[FieldMatch] != "ABC123" || rec["message"] != "shown" {
		t.Fatalf("record=%v", rec)
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "loud", "console")
	l.Debug().Msg("hidden")
	l.Info().Msg("visible")
	if !bytes.Contains(buf.Bytes(), []byte("visible")) || bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Fatalf("output=%q", buf.String())
	}
}
