package domain

import (
	"crypto/sha1" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"encoding/json"
	"time"
)

// Document is one fetched bizinfo payload in canonical JSON form.
type Document struct {
	SourceURL string
	Digest    string
	Payload   json.RawMessage
	FetchedAt time.Time
}

// NewDocument fingerprints payload, which must already be canonical.
func NewDocument(sourceURL string, payload []byte, fetchedAt time.Time) Document {
	sum := sha1.Sum(payload)
	return Document{
		SourceURL: sourceURL,
		Digest:    hex.EncodeToString(sum[:]),
		Payload:   json.RawMessage(payload),
		FetchedAt: fetchedAt.UTC(),
	}
}
