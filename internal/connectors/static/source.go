// Package static provides a course source that scrapes the catalogue
// over plain HTTP. It only sees server-rendered markup, so catalogues
// that lazy-load listings need the browser source instead.
package static

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/coursefind-cli/internal/connectors/coursehtml"
	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursefind-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CourseSource = (*Source)(nil)

// Default configuration values.
const (
	DefaultRequestsPerSecond = 2.0
	DefaultTimeout           = 30 * time.Second

	userAgent = "coursefind/1.0"
)

// Config holds configuration for the static scraper.
type Config struct {
	// BaseURL is the catalogue listing page (required).
	BaseURL string

	// RequestsPerSecond throttles detail-page fetches
	// (default: 2).
	RequestsPerSecond float64

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Source scrapes course records from server-rendered catalogue pages.
type Source struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

// NewSource creates a static HTML scraper.
func NewSource(cfg Config) (*Source, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: scrape base URL is required", domain.ErrConfig)
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Source{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL: cfg.BaseURL,
	}, nil
}

// Name returns the source type identifier.
func (s *Source) Name() string {
	return "static"
}

// Fetch scrapes the catalogue page and every course detail page.
// A failing detail page degrades that record to its listing data
// rather than aborting the whole scrape.
func (s *Source) Fetch(ctx context.Context) ([]domain.CourseRecord, error) {
	doc, err := s.get(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetching catalogue page: %w", err)
	}

	listings, err := coursehtml.ParseListings(doc, s.baseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("found %d course listings at %s", len(listings), s.baseURL)

	records := make([]domain.CourseRecord, 0, len(listings))
	for _, listing := range listings {
		detail, err := s.get(ctx, listing.URL)
		if err != nil {
			logger.Warn("detail page %s: %v", listing.URL, err)
			records = append(records, coursehtml.ListingRecord(listing))
			continue
		}
		records = append(records, coursehtml.ParseDetail(detail, listing))
	}

	return records, nil
}

// get fetches a page and parses it, respecting the rate limit.
func (s *Source) get(ctx context.Context, url string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// Close releases resources.
func (s *Source) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
