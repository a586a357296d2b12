package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// stdoutPublisher writes each event as one JSON line.
type stdoutPublisher struct {
	id  string
	typ string
	mu  sync.Mutex
	out io.Writer
}

func newStdoutPublisher(_ context.Context, cfg PublisherConfig, _ Logger) (Publisher, error) {
	return NewWriterPublisher(cfg.ID, os.Stdout), nil
}

// NewWriterPublisher returns a publisher that writes JSON lines to w.
func NewWriterPublisher(id string, w io.Writer) Publisher {
	if id == "" {
		id = TypeStdout
	}
	return &stdoutPublisher{id: id, typ: TypeStdout, out: w}
}

func (s *stdoutPublisher) ID() string   { return s.id }
func (s *stdoutPublisher) Type() string { return s.typ }

func (s *stdoutPublisher) Publish(_ context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	payload = append(payload, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(payload); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
