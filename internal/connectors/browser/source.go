// Package browser provides a course source that scrapes the catalogue
// through a headless Chrome instance. The catalogue lazy-loads course
// cards as the page scrolls, so the scraper drives the browser to the
// bottom until the page height stops growing before reading the DOM.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/custodia-labs/coursefind-cli/internal/connectors/coursehtml"
	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursefind-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CourseSource = (*Source)(nil)

// Default configuration values.
const (
	DefaultPageTimeout = 60 * time.Second

	// scrollSettle is how long to wait after each scroll for
	// lazy-loaded content to render.
	scrollSettle = 2 * time.Second

	// maxScrolls caps the scroll loop on pages that keep growing.
	maxScrolls = 50
)

// Config holds configuration for the browser scraper.
type Config struct {
	// BaseURL is the catalogue listing page (required).
	BaseURL string

	// Headless disables the browser window (default in Default()).
	Headless bool

	// PageTimeout bounds loading a single page (default: 60s).
	PageTimeout time.Duration
}

// Source scrapes course records using a headless browser.
type Source struct {
	baseURL     string
	pageTimeout time.Duration

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewSource creates a browser scraper and starts the browser.
func NewSource(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: scrape base URL is required", domain.ErrConfig)
	}
	if cfg.PageTimeout == 0 {
		cfg.PageTimeout = DefaultPageTimeout
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser now so a missing Chrome binary fails at setup,
	// not mid-scrape.
	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: starting browser: %v", domain.ErrConfig, err)
	}

	return &Source{
		baseURL:       cfg.BaseURL,
		pageTimeout:   cfg.PageTimeout,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Name returns the source type identifier.
func (s *Source) Name() string {
	return "browser"
}

// Fetch scrapes the catalogue page and every course detail page.
// A failing detail page degrades that record to its listing data
// rather than aborting the whole scrape.
func (s *Source) Fetch(ctx context.Context) ([]domain.CourseRecord, error) {
	html, err := s.renderPage(ctx, s.baseURL, true)
	if err != nil {
		return nil, fmt.Errorf("loading catalogue page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing catalogue page: %w", err)
	}

	listings, err := coursehtml.ParseListings(doc, s.baseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("found %d course listings at %s", len(listings), s.baseURL)

	records := make([]domain.CourseRecord, 0, len(listings))
	for _, listing := range listings {
		detailHTML, err := s.renderPage(ctx, listing.URL, false)
		if err != nil {
			logger.Warn("detail page %s: %v", listing.URL, err)
			records = append(records, coursehtml.ListingRecord(listing))
			continue
		}

		detail, err := goquery.NewDocumentFromReader(strings.NewReader(detailHTML))
		if err != nil {
			logger.Warn("parsing detail page %s: %v", listing.URL, err)
			records = append(records, coursehtml.ListingRecord(listing))
			continue
		}
		records = append(records, coursehtml.ParseDetail(detail, listing))
	}

	return records, nil
}

// renderPage navigates to url and returns the rendered HTML. When
// scroll is set, the page is scrolled to the bottom until its height
// stabilises so lazy-loaded listings are present in the DOM.
func (s *Source) renderPage(ctx context.Context, url string, scroll bool) (string, error) {
	pageCtx, cancel := context.WithTimeout(s.browserCtx, s.pageTimeout)
	defer cancel()

	// The caller's context gates the whole scrape.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-pageCtx.Done():
		}
	}()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.Sleep(scrollSettle),
	}
	if scroll {
		actions = append(actions, chromedp.ActionFunc(s.scrollToBottom))
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(pageCtx, actions...); err != nil {
		return "", err
	}
	return html, nil
}

// scrollToBottom repeatedly scrolls to the page bottom until the
// scroll height stops growing.
func (s *Source) scrollToBottom(ctx context.Context) error {
	var lastHeight int64
	if err := chromedp.Run(ctx,
		chromedp.Evaluate("document.body.scrollHeight", &lastHeight)); err != nil {
		return err
	}

	for i := 0; i < maxScrolls; i++ {
		var height int64
		err := chromedp.Run(ctx,
			chromedp.Evaluate("window.scrollTo(0, document.body.scrollHeight)", nil),
			chromedp.Sleep(scrollSettle),
			chromedp.Evaluate("document.body.scrollHeight", &height),
		)
		if err != nil {
			return err
		}
		if height == lastHeight {
			return nil
		}
		lastHeight = height
	}

	logger.Warn("page kept growing after %d scrolls, proceeding with current content", maxScrolls)
	return nil
}

// Close shuts the browser down.
func (s *Source) Close() error {
	s.browserCancel()
	s.allocCancel()
	return nil
}
