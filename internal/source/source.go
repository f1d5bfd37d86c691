// Package source downloads the emoji sequence list the cache is built from.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzhttp"
)

// DefaultURL is the Unicode emoji sequences data file.
const DefaultURL = "https://unicode.org/Public/emoji/13.1/emoji-sequences.txt"

var (
	// ErrBadStatus is returned for non-2xx responses.
	ErrBadStatus = errors.New("unexpected HTTP status")

	// ErrNotText is returned when the response is not a text document.
	ErrNotText = errors.New("response is not text")
)

// Fetcher retrieves the source list over HTTP.
type Fetcher struct {
	URL       string
	Client    *http.Client
	UserAgent string
}

// New returns a Fetcher for url. A zero timeout leaves the client default
// (no timeout) in place.
func New(url string, timeout time.Duration) *Fetcher {
	if url == "" {
		url = DefaultURL
	}
	return &Fetcher{
		URL: url,
		Client: &http.Client{
			Transport: gzhttp.Transport(http.DefaultTransport),
			Timeout:   timeout,
		},
		UserAgent: "emorand",
	}
}

// Fetch performs a single GET. The caller must close the returned body.
func (f *Fetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	log.Debug("Fetching emoji list", "url", f.URL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to get url: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || !strings.HasPrefix(mediaType, "text/") {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%w: %s", ErrNotText, ct)
		}
	}

	log.Debug("Fetched emoji list", "status", resp.StatusCode, "length", resp.ContentLength)
	return resp.Body, nil
}
