package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bitboxx-inc/bizinfo-harvester/pkg/bizinfo"
	"github.com/bitboxx-inc/bizinfo-harvester/pkg/publishers"
)

// fakeFetcher returns preset documents in order, or an error.
type fakeFetcher struct {
	bodies []string
	err    error
	calls  int
}

func (f *fakeFetcher) URL() string { return "https://example.com/bizinfo.json" }
func (f *fakeFetcher) Fetch(context.Context) (bizinfo.Value, error) {
	f.calls++
	if f.err != nil {
		return bizinfo.Value{}, f.err
	}
	body := f.bodies[(f.calls-1)%len(f.bodies)]
	return bizinfo.Parse([]byte(body))
}

// fakePublisher records published events and reports a preset outcome.
type fakePublisher struct {
	mu         sync.Mutex
	events     []publishers.Event
	deliveries int
	err        error
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return f.deliveries, f.err
}

// fakeDeduper tracks seen digests.
type fakeDeduper struct {
	seen    map[string]bool
	failErr error
}

func (f *fakeDeduper) SeenDigest(d string) (bool, error) {
	if f.failErr != nil {
		return false, f.failErr
	}
	return f.seen[d], nil
}

func (f *fakeDeduper) MarkDigest(d string) error {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	f.seen[d] = true
	return nil
}

func TestRunOnceRelaysNewDocumentAndSkipsRepeat(t *testing.T) {
	fetcher := &fakeFetcher{bodies: []string{`{"name":"Acme","n":1}`, `{"n":1, "name":"Acme"}`}}
	pub := &fakePublisher{deliveries: 1}
	dedupe := &fakeDeduper{}
	svc := NewService(fetcher, pub, nil, dedupe)
	fixed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	first, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("first RunOnce: %v", err)
	}
	if first.Skipped || first.Deliveries != 1 || first.Digest == "" {
		t.Fatalf("unexpected first result %#v", first)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if string(evt.Payload) != `{"n":1,"name":"Acme"}` || !evt.FetchedAt.Equal(fixed) {
		t.Fatalf("unexpected event %#v", evt)
	}

	second, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second RunOnce: %v", err)
	}
	if !second.Skipped || second.Digest != first.Digest {
		t.Fatalf("reordered identical document should be skipped, got %#v", second)
	}
	if len(pub.events) != 1 {
		t.Fatalf("skip must not publish, got %d events", len(pub.events))
	}
	if fetcher.calls != 2 {
		t.Fatalf("every pass must fetch, got %d calls", fetcher.calls)
	}
}

func TestRunOnceFetchErrorStopsPass(t *testing.T) {
	boom := &bizinfo.Error{Kind: bizinfo.KindStatus, StatusCode: 500}
	pub := &fakePublisher{deliveries: 1}
	svc := NewService(&fakeFetcher{err: boom}, pub, nil, &fakeDeduper{})

	_, err := svc.RunOnce(context.Background())
	if !errors.Is(err, bizinfo.ErrFetchFailed) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("nothing should be published after a failed fetch")
	}
}

func TestRunOnceDoesNotMarkWhenAllPublishersFail(t *testing.T) {
	pub := &fakePublisher{deliveries: 0, err: errors.New("sink down")}
	dedupe := &fakeDeduper{}
	svc := NewService(&fakeFetcher{bodies: []string{`[1]`}}, pub, nil, dedupe)

	res, err := svc.RunOnce(context.Background())
	if err == nil {
		t.Fatalf("expected publish error")
	}
	if dedupe.seen[res.Digest] {
		t.Fatalf("digest must not be marked when no publisher succeeded")
	}
}

func TestRunOnceMarksOnPartialSuccess(t *testing.T) {
	pub := &fakePublisher{deliveries: 1, err: errors.New("one sink down")}
	dedupe := &fakeDeduper{}
	svc := NewService(&fakeFetcher{bodies: []string{`"v"`}}, pub, nil, dedupe)

	res, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("partial success should not fail the pass: %v", err)
	}
	if !dedupe.seen[res.Digest] {
		t.Fatalf("digest should be marked after a successful delivery")
	}
}

func TestRunOnceDedupeError(t *testing.T) {
	pub := &fakePublisher{deliveries: 1}
	svc := NewService(&fakeFetcher{bodies: []string{`{}`}}, pub, nil, &fakeDeduper{failErr: errors.New("db locked")})

	if _, err := svc.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected dedupe error")
	}
	if len(pub.events) != 0 {
		t.Fatalf("nothing should be published when dedupe lookup fails")
	}
}

func TestRunOnceWithoutDedupeAlwaysPublishes(t *testing.T) {
	pub := &fakePublisher{deliveries: 1}
	svc := NewService(&fakeFetcher{bodies: []string{`{}`}}, pub, nil, nil)

	for i := 0; i < 3; i++ {
		if _, err := svc.RunOnce(context.Background()); err != nil {
			t.Fatalf("RunOnce: %v", err)
		}
	}
	if len(pub.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(pub.events))
	}
}

func TestRunOnceUninitialized(t *testing.T) {
	var svc *Service
	if _, err := svc.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected error for nil service")
	}
}
