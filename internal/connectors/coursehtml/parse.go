// Package coursehtml parses course catalogue markup shared by the
// browser and static scrapers. Both render the same storefront HTML,
// so the selector logic lives here once.
package coursehtml

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
)

// Catalogue listing selectors.
const (
	listingSelector     = ".collections-products .product-item"
	titleSelector       = "a.product-title"
	priceSelector       = ".product-price-value"
	descriptionSelector = ".product-description"
	curriculumSelector  = ".curriculum-item"
	instructorSelector  = ".instructor-name"
)

// missingFieldDefault fills required record fields the markup does not
// provide. Records must stay valid against the indexing schema even
// when a page is sparse or a detail fetch fails.
const missingFieldDefault = "N/A"

// Listing is a course as it appears on the catalogue page: title, URL
// and price, before the detail page fills in the rest.
type Listing struct {
	Title string
	URL   string
	Price string
}

// ListingRecord builds a course record from listing data alone, used
// when the detail page cannot be fetched. Detail-only fields get the
// missing-field default so the record still indexes.
func ListingRecord(listing Listing) domain.CourseRecord {
	return domain.CourseRecord{
		Title:       listing.Title,
		URL:         listing.URL,
		Price:       listing.Price,
		Description: missingFieldDefault,
		Instructor:  missingFieldDefault,
	}
}

// ParseListings extracts course listings from a catalogue page.
// Containers without a title link are skipped; a page with none is an
// error since it usually means the markup changed.
func ParseListings(doc *goquery.Document, baseURL string) ([]Listing, error) {
	var listings []Listing

	doc.Find(listingSelector).Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find(titleSelector).First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		listings = append(listings, Listing{
			Title: strings.TrimSpace(link.Text()),
			URL:   resolveURL(baseURL, href),
			Price: textOrDefault(sel.Find(priceSelector), "N/A"),
		})
	})

	if len(listings) == 0 {
		return nil, fmt.Errorf("no course listings found under %q", listingSelector)
	}
	return listings, nil
}

// ParseDetail fills a course record from its detail page, combining it
// with the listing data. Description and instructor fall back to the
// missing-field default when the page lacks them.
func ParseDetail(doc *goquery.Document, listing Listing) domain.CourseRecord {
	record := domain.CourseRecord{
		Title: listing.Title,
		URL:   listing.URL,
		Price: listing.Price,
	}

	record.Description = textOrDefault(doc.Find(descriptionSelector), missingFieldDefault)
	record.Instructor = textOrDefault(doc.Find(instructorSelector), missingFieldDefault)

	doc.Find(curriculumSelector).Each(func(_ int, sel *goquery.Selection) {
		if item := strings.TrimSpace(sel.Text()); item != "" {
			record.Curriculum = append(record.Curriculum, item)
		}
	})

	return record
}

// resolveURL makes href absolute against base. Already-absolute hrefs
// pass through unchanged.
func resolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func textOrDefault(sel *goquery.Selection, fallback string) string {
	text := strings.TrimSpace(sel.First().Text())
	if text == "" {
		return fallback
	}
	return text
}
