package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RegulatoryDigest/internal/dates"
	"RegulatoryDigest/internal/domain"
	"RegulatoryDigest/internal/infrastructure/httpclient"
	"RegulatoryDigest/internal/scanner"
)

// CommerceScanner reads "what's new" cards whose metadata line looks like
// "15th Jan. 2024 | Notification".
type CommerceScanner struct {
	listing listingFetcher
}

// NewCommerceScanner wires an HTTP client and logger.
func NewCommerceScanner(client *httpclient.Client, log *slog.Logger) *CommerceScanner {
	return &CommerceScanner{listing: newListingFetcher(client, log)}
}

// Name identifies the strategy inside the registry.
func (s *CommerceScanner) Name() string {
	return string(domain.SourceCommerce)
}

// Scan loads the listing and returns PDF cards dated on or after the cutoff.
func (s *CommerceScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.DocumentRecord, error) {
	doc, err := s.listing.fetchDocument(ctx, req.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("commerce: %w", err)
	}
	return extractCommerce(doc, req), nil
}

func extractCommerce(doc *goquery.Document, req scanner.Request) []domain.DocumentRecord {
	var records []domain.DocumentRecord

	doc.Find(".whats-new-wrapper").Each(func(_ int, card *goquery.Selection) {
		heading := card.Find("h3").First()
		meta := card.Find("p").First()
		link := card.Find("a.innr-btn").First()
		if heading.Length() == 0 || meta.Length() == 0 || link.Length() == 0 {
			return
		}

		rawDate, _, _ := strings.Cut(cellText(meta), "|")
		date, ok := dates.Parse(dates.CleanMessy(rawDate), dates.Verbose)
		if !ok {
			return
		}

		href, _ := link.Attr("href")
		pdfURL, ok := resolveURL(baseFor(req), href)
		if !ok || !strings.Contains(strings.ToLower(pdfURL), ".pdf") {
			return
		}
		if !dates.OnOrAfter(date, req.Cutoff) {
			return
		}

		records = append(records, domain.DocumentRecord{
			Source: domain.SourceCommerce,
			Title:  cellText(heading),
			URL:    pdfURL,
			Date:   date,
		})
	})

	return records
}
