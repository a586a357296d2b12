package relay

import (
	"context"

	"github.com/bitboxx-inc/bizinfo-harvester/pkg/bizinfo"
	"github.com/bitboxx-inc/bizinfo-harvester/pkg/publishers"
)

// DocumentFetcher retrieves the remote document. *bizinfo.Fetcher satisfies it.
type DocumentFetcher interface {
	URL() string
	Fetch(ctx context.Context) (bizinfo.Value, error)
}

// EventPublisher publishes documents downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers digests that were already relayed.
type Deduper interface {
	SeenDigest(digest string) (bool, error)
	MarkDigest(digest string) error
}
