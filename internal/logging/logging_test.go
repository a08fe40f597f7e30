package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{" INFO ", InfoLevel, false},
		{"Warn", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := Component(NewWithWriter(&buf, WarnLevel), "repository")

	log.Info().Msg("dropped")
	log.Warn().Str("key", "tasks").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d records, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	for field, want := range map[string]any{"level": "warn", "message": "kept", "component": "repository", "key": "tasks"} {
		if rec[field] != want {
			t.Errorf("%s = %v, want %v", field, rec[field], want)
		}
	}
	if _, ok := rec["time"]; !ok {
		t.Error("record missing time")
	}
	if _, ok := rec["pid"]; !ok {
		t.Error("record missing pid")
	}
}

func TestNewWithoutFileDiscards(t *testing.T) {
	log, closer, err := New(Config{Level: "debug"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer closer.Close()
	log.Error().Msg("nowhere")
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, _, err := New(Config{Level: "chatty", FilePath: filepath.Join(t.TempDir(), "x.log")}); err == nil {
		t.Fatal("expected error for bad level")
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskflow.log")
	cfg := DefaultConfig()
	cfg.FilePath = path

	log, closer, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info().Msg("started")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"message":"started"`) {
		t.Errorf("log file = %q, want started record", data)
	}
}
