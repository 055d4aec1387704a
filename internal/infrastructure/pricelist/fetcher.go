// Package pricelist downloads and decodes partner price-list feeds.
package pricelist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/shoporders/backend/internal/infrastructure/config"
)

// Error codes reported for feeds that cannot be obtained
const (
	CodeInvalidURL   = "INVALID_URL"
	CodeFetchFailed  = "PRICE_LIST_FETCH_FAILED"
	CodeFeedTooLarge = "PRICE_LIST_TOO_LARGE"
)

// ValidateURL accepts absolute URLs with an allowed scheme and a host
func ValidateURL(raw string, allowedSchemes []string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "url is required")
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, shared.NewDomainError(CodeInvalidURL, "Enter a valid URL.")
	}
	if !slices.Contains(allowedSchemes, strings.ToLower(u.Scheme)) {
		return nil, shared.NewDomainError(CodeInvalidURL, "Enter a valid URL.")
	}
	return u, nil
}

// Document is a downloaded feed
type Document struct {
	URL         string
	ContentType string
	Body        []byte
}

// Fetcher downloads feeds over HTTP with a timeout and a size cap
type Fetcher struct {
	httpClient     *http.Client
	maxSize        int64
	allowedSchemes []string
}

// NewFetcher creates a Fetcher from the price-list config
func NewFetcher(cfg config.PriceListConfig) *Fetcher {
	return &Fetcher{
		httpClient:     &http.Client{Timeout: cfg.FetchTimeout},
		maxSize:        cfg.MaxSizeBytes,
		allowedSchemes: cfg.AllowedSchemes,
	}
}

// AllowedSchemes returns the URL schemes the fetcher accepts
func (f *Fetcher) AllowedSchemes() []string {
	return f.allowedSchemes
}

// Fetch validates rawURL and downloads the feed body
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	u, err := ValidateURL(rawURL, f.allowedSchemes)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("pricelist: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/x-yaml, text/yaml, text/plain, */*")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, shared.NewDomainError(CodeFetchFailed,
			fmt.Sprintf("Could not download the price list: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, shared.NewDomainError(CodeFetchFailed,
			fmt.Sprintf("Price list server answered HTTP %d", resp.StatusCode))
	}

	// Read one byte past the cap to detect oversized feeds.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, shared.NewDomainError(CodeFetchFailed,
			fmt.Sprintf("Could not read the price list after %s: %v", time.Since(start).Round(time.Millisecond), err))
	}
	if int64(len(body)) > f.maxSize {
		return nil, shared.NewDomainError(CodeFeedTooLarge,
			fmt.Sprintf("Price list exceeds %d bytes", f.maxSize))
	}

	return &Document{
		URL:         u.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
