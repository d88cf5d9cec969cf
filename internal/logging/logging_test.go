package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, Options{Level: "info", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	Component(l, "batch").Info("done", "items", 3)
	l.Debug("hidden")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("want one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["component"] != "batch" || rec["msg"] != "done" || rec["items"] != float64(3) {
		t.Fatalf("record = %v", rec)
	}
}

func TestQuiet(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, Options{Level: "debug", Quiet: true})
	if err != nil {
		t.Fatal(err)
	}
	l.Warn("suppressed")
	l.Error("shown")
	if strings.Contains(buf.String(), "suppressed") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("quiet output = %q", buf.String())
	}
	if _, err := New(&buf, Options{Format: "xml"}); err == nil {
		t.Fatal("unknown format accepted")
	}
}
