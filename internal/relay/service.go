package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/bitboxx-inc/bizinfo-harvester/internal/domain"
	"github.com/bitboxx-inc/bizinfo-harvester/internal/logger"
	"github.com/bitboxx-inc/bizinfo-harvester/pkg/bizinfo"
	"github.com/bitboxx-inc/bizinfo-harvester/pkg/publishers"
)

// Result summarizes one relay pass.
type Result struct {
	Digest     string
	Skipped    bool
	Deliveries int
}

// Service fetches the document once per pass and relays new content.
type Service struct {
	fetcher   DocumentFetcher
	publisher EventPublisher
	dedupe    Deduper
	log       logger.Logger
	now       func() time.Time
}

// NewService wires a relay. A nil dedupe relays every fetched document.
func NewService(fetcher DocumentFetcher, pub EventPublisher, log logger.Logger, dedupe Deduper) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		fetcher:   fetcher,
		publisher: pub,
		dedupe:    dedupe,
		log:       log,
		now:       time.Now,
	}
}

// RunOnce performs a single fetch and, if the content is new, publishes it.
// Fetch failures are returned without retry.
func (s *Service) RunOnce(ctx context.Context) (Result, error) {
	if s == nil || s.fetcher == nil || s.publisher == nil {
		return Result{}, fmt.Errorf("relay service is not initialized")
	}

	val, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.log.ErrorObj("document fetch failed", "fetch_error", map[string]any{
			"source_url": s.fetcher.URL(),
			"kind":       bizinfo.KindOf(err).String(),
			"error":      err.Error(),
		})
		return Result{}, fmt.Errorf("fetch document: %w", err)
	}

	payload, err := val.MarshalJSON()
	if err != nil {
		return Result{}, fmt.Errorf("encode document: %w", err)
	}
	doc := domain.NewDocument(s.fetcher.URL(), payload, s.now())
	res := Result{Digest: doc.Digest}

	seen, err := s.seen(doc.Digest)
	if err != nil {
		return res, err
	}
	if seen {
		res.Skipped = true
		s.log.DebugObj("document unchanged; skipping publish", "relay_skip", map[string]any{
			"digest": doc.Digest,
		})
		return res, nil
	}

	delivered, pubErr := s.publisher.Publish(ctx, publishers.NewEvent(doc))
	res.Deliveries = delivered
	if pubErr != nil {
		s.log.WarnObj("document publish had failures", "publish_error", map[string]any{
			"digest":     doc.Digest,
			"deliveries": delivered,
			"error":      pubErr.Error(),
		})
	}
	if delivered == 0 {
		if pubErr != nil {
			return res, fmt.Errorf("publish document %s: %w", doc.Digest, pubErr)
		}
		return res, nil
	}

	if s.dedupe != nil {
		if err := s.dedupe.MarkDigest(doc.Digest); err != nil {
			return res, fmt.Errorf("mark digest %s: %w", doc.Digest, err)
		}
	}

	s.log.InfoObj("document relayed", "relay_result", map[string]any{
		"digest":      doc.Digest,
		"deliveries":  delivered,
		"payload_len": len(doc.Payload),
	})
	return res, nil
}

func (s *Service) seen(digest string) (bool, error) {
	if s.dedupe == nil {
		return false, nil
	}
	seen, err := s.dedupe.SeenDigest(digest)
	if err != nil {
		return false, fmt.Errorf("check digest %s: %w", digest, err)
	}
	return seen, nil
}
