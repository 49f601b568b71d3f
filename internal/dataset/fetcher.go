package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Fetcher downloads remote tabular sources.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a Fetcher. The timeout bounds the whole request so a
// stalled server fails the load instead of hanging it.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Validators identify a previously fetched representation.
type Validators struct {
	ETag         string
	LastModified string
}

func (v Validators) empty() bool { return v.ETag == "" && v.LastModified == "" }

// FetchResult is the body and metadata of one remote fetch.
type FetchResult struct {
	Body        []byte
	Validators  Validators
	ContentType string
	FinalURL    string
	// NotModified is set when the server answered 304 to a conditional request.
	NotModified bool
}

// Fetch GETs rawURL. When prev is non-empty the request is conditional.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, prev Validators) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.8")
	if prev.ETag != "" {
		req.Header.Set("If-None-Match", prev.ETag)
	}
	if prev.LastModified != "" {
		req.Header.Set("If-Modified-Since", prev.LastModified)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	res := &FetchResult{
		Validators: Validators{
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		},
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}
	if resp.StatusCode == http.StatusNotModified && !prev.empty() {
		res.NotModified = true
		if res.Validators.empty() {
			res.Validators = prev
		}
		return res, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	// Read one byte past the limit so oversize bodies fail instead of truncating.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", f.maxBytes)
	}
	res.Body = body
	return res, nil
}

// IsRemote reports whether source is an HTTP(S) URL.
func IsRemote(source string) bool {
	s := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// resourceName extracts the file name of a URL path for decoder selection.
func resourceName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return path.Base(parsed.Path)
}
