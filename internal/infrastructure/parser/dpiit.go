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

// DPIITScanner reads table listings where the publication date only lives in
// the PDF file name.
type DPIITScanner struct {
	listing listingFetcher
}

// NewDPIITScanner wires an HTTP client and logger.
func NewDPIITScanner(client *httpclient.Client, log *slog.Logger) *DPIITScanner {
	return &DPIITScanner{listing: newListingFetcher(client, log)}
}

// Name identifies the strategy inside the registry.
func (s *DPIITScanner) Name() string {
	return string(domain.SourceDPIIT)
}

// Scan loads the listing and returns the PDFs dated on or after the cutoff.
func (s *DPIITScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.DocumentRecord, error) {
	doc, err := s.listing.fetchDocument(ctx, req.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("dpiit: %w", err)
	}
	return extractDPIIT(doc, req, s.listing.logger), nil
}

func extractDPIIT(doc *goquery.Document, req scanner.Request, log *slog.Logger) []domain.DocumentRecord {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	var records []domain.DocumentRecord

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		var link *goquery.Selection
		row.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if strings.HasSuffix(strings.TrimSpace(href), ".pdf") {
				link = a
				return false
			}
			return true
		})
		if link == nil {
			return
		}

		href, _ := link.Attr("href")
		pdfURL, ok := resolveURL(baseFor(req), href)
		if !ok {
			return
		}

		date, ok := dates.FromFilename(pdfURL)
		if !ok {
			log.Debug("dpiit: no date in file name", "url", pdfURL)
			return
		}
		if !dates.OnOrAfter(date, req.Cutoff) {
			return
		}

		records = append(records, domain.DocumentRecord{
			Source: domain.SourceDPIIT,
			Title:  cellText(link),
			URL:    pdfURL,
			Date:   date,
		})
	})

	return records
}
