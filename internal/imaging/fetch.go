package imaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultFetchTimeout  = 10 * time.Second
	defaultMaxFetchBytes = 5 * 1024 * 1024
	maxRedirects         = 2
)

// allowedMIMETypes are the only content types a remote image may declare.
// Matching is by prefix so parameters like "; charset=binary" pass.
var allowedMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

var (
	ErrBadStatus   = errors.New("unexpected response status")
	ErrContentType = errors.New("disallowed content type")
	ErrTooLarge    = errors.New("image exceeds size limit")
)

// FetchResult is a successfully downloaded remote image.
type FetchResult struct {
	Data []byte
	// MIME is the matched entry from the allowlist, not the raw header.
	MIME string
}

// Fetcher performs bounded HTTP fetches of remote images. Every fetch is
// capped by a wall-clock timeout, a redirect limit, and a body size limit.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxFetchBytes
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		maxBytes: maxBytes,
	}
}

// Fetch downloads the URL. The URL must already have passed urlcheck.IsSafe;
// Fetch enforces transport limits, not the SSRF policy.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	mime := matchAllowedMIME(contentType)
	if mime == "" {
		return nil, fmt.Errorf("%w: %q", ErrContentType, contentType)
	}

	if resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes declared", ErrTooLarge, resp.ContentLength)
	}

	// Read one byte past the cap so an oversize body is detectable even
	// without a Content-Length header.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: body larger than %d bytes", ErrTooLarge, f.maxBytes)
	}

	return &FetchResult{Data: body, MIME: mime}, nil
}

func matchAllowedMIME(contentType string) string {
	for _, allowed := range allowedMIMETypes {
		if strings.HasPrefix(contentType, allowed) {
			return allowed
		}
	}
	return ""
}
