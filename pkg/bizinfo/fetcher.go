// Package bizinfo fetches the published business info document and decodes it
// as an arbitrary JSON value.
package bizinfo

import (
	"context"
	"strings"
	"time"

	"github.com/bitboxx-inc/bizinfo-harvester/pkg/httpclient"
)

// DefaultURL is the location of the public bizinfo.json document.
const DefaultURL = "https://raw.githubusercontent.com/bitboxx-inc/bitboxx-public/refs/heads/main/bizinfo.json"

const defaultTimeout = 15 * time.Second

// Fetcher retrieves one JSON document per call. It holds no mutable state and
// is safe for concurrent use.
type Fetcher struct {
	url    string
	client httpclient.Client
}

// New returns a Fetcher for url. An empty url selects DefaultURL and a nil
// client selects a resty client with a 15s timeout.
func New(url string, client httpclient.Client) *Fetcher {
	url = strings.TrimSpace(url)
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = httpclient.NewRestyClient(defaultTimeout)
	}
	return &Fetcher{url: url, client: client}
}

// URL returns the document location.
func (f *Fetcher) URL() string { return f.url }

// Fetch issues one GET, rejects non-2xx statuses without reading the body as
// JSON and decodes the body otherwise. It never retries.
func (f *Fetcher) Fetch(ctx context.Context) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := f.client.Get(ctx, f.url, nil)
	if err != nil {
		return Value{}, &Error{Kind: KindTransport, URL: f.url, Err: err}
	}

	if code := resp.StatusCode(); !httpclient.IsSuccess(code) {
		return Value{}, &Error{Kind: KindStatus, URL: f.url, StatusCode: code}
	}

	val, err := Parse(resp.Body())
	if err != nil {
		return Value{}, &Error{Kind: KindDecode, URL: f.url, StatusCode: resp.StatusCode(), Err: err}
	}
	return val, nil
}

// FetchRemoteInfo fetches DefaultURL with the default client.
func FetchRemoteInfo(ctx context.Context) (Value, error) {
	return New("", nil).Fetch(ctx)
}
