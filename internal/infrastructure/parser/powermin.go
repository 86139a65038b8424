package parser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"RegulatoryDigest/internal/dates"
	"RegulatoryDigest/internal/domain"
	"RegulatoryDigest/internal/infrastructure/httpclient"
	"RegulatoryDigest/internal/scanner"
)

const (
	powerMinMinColumns = 5
	powerMinTitleCol   = 1
	powerMinDateCol    = 2
	powerMinLinkCol    = 4
)

// PowerMinScanner reads wide circular tables: title, date and download link
// sit in fixed columns.
type PowerMinScanner struct {
	listing listingFetcher
}

// NewPowerMinScanner wires an HTTP client and logger.
func NewPowerMinScanner(client *httpclient.Client, log *slog.Logger) *PowerMinScanner {
	return &PowerMinScanner{listing: newListingFetcher(client, log)}
}

// Name identifies the strategy inside the registry.
func (s *PowerMinScanner) Name() string {
	return string(domain.SourcePowerMin)
}

// Scan loads the listing and returns rows dated on or after the cutoff.
func (s *PowerMinScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.DocumentRecord, error) {
	doc, err := s.listing.fetchDocument(ctx, req.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("powermin: %w", err)
	}
	return extractPowerMin(doc, req), nil
}

func extractPowerMin(doc *goquery.Document, req scanner.Request) []domain.DocumentRecord {
	var records []domain.DocumentRecord

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < powerMinMinColumns {
			return
		}

		date, ok := dates.Parse(cellText(cols.Eq(powerMinDateCol)), dates.Numeric)
		if !ok || !dates.OnOrAfter(date, req.Cutoff) {
			return
		}

		href, exists := cols.Eq(powerMinLinkCol).Find("a[href]").First().Attr("href")
		if !exists {
			return
		}
		pdfURL, ok := resolveURL(baseFor(req), href)
		if !ok {
			return
		}

		records = append(records, domain.DocumentRecord{
			Source: domain.SourcePowerMin,
			Title:  cellText(cols.Eq(powerMinTitleCol)),
			URL:    pdfURL,
			Date:   date,
		})
	})

	return records
}
