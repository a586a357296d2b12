package publishers

import (
	"encoding/json"
	"time"

	"github.com/bitboxx-inc/bizinfo-harvester/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	SourceURL string          `json:"source_url"`
	Digest    string          `json:"digest"`
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// NewEvent constructs an Event for the given document.
func NewEvent(doc domain.Document) Event {
	return Event{
		SourceURL: doc.SourceURL,
		Digest:    doc.Digest,
		Payload:   doc.Payload,
		FetchedAt: doc.FetchedAt,
	}
}
