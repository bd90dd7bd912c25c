package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerWritesToAllWriters(t *testing.T) {
	var a, b bytes.Buffer
	logger := NewLogger(&a, &b)
	logger.Info().Str("clip", "Part 1.mp4").Msg("encoded")

	for name, buf := range map[string]*bytes.Buffer{"a": &a, "b": &b} {
		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("writer %s: invalid json %q: %v", name, buf.String(), err)
		}
		if rec["clip"] != "Part 1.mp4" || rec["message"] != "encoded" {
			t.Errorf("writer %s: unexpected record %v", name, rec)
		}
	}
}

func TestInitWithLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "partsplit.log")
	closer, err := Init(false, path)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	logger := WithComponent("test")
	logger.Info().Msg("hello")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"component":"test"`) {
		t.Errorf("log file missing component field: %s", data)
	}
}
