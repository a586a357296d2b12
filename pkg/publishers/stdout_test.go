package publishers

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriterPublisherWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	pub := NewWriterPublisher("", &buf)
	if pub.ID() != TypeStdout || pub.Type() != TypeStdout {
		t.Fatalf("unexpected id/type %s/%s", pub.ID(), pub.Type())
	}

	evt := testEvent()
	for i := 0; i < 2; i++ {
		if err := pub.Publish(context.Background(), evt); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var got Event
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("decode line: %v", err)
	}
	if got.Digest != evt.Digest || !got.FetchedAt.Equal(evt.FetchedAt) {
		t.Fatalf("decoded event %#v", got)
	}
}
