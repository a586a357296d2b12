package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestZapLoggerWritesStructuredField(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf)

	log.InfoObj("fetch completed", "fetch_meta", map[string]any{"digest": "abc", "status": 200})
	log.DebugObj("hidden", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line at info level, got %d: %s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "fetch completed" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts key: %v", entry)
	}
	meta, ok := entry["fetch_meta"].(map[string]any)
	if !ok || meta["digest"] != "abc" {
		t.Fatalf("fetch_meta = %v", entry["fetch_meta"])
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("chatty", &buf)
	log.DebugObj("hidden", "k", "v")
	log.WarnObj("shown", "k", "v")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}
