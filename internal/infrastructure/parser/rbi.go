package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RegulatoryDigest/internal/dates"
	"RegulatoryDigest/internal/domain"
	"RegulatoryDigest/internal/ports"
	"RegulatoryDigest/internal/scanner"
)

const untitled = "Untitled"

// RBIScanner handles the notifications page that only fills in after
// client-side rendering.
type RBIScanner struct {
	renderer ports.PageRenderer
	logger   *slog.Logger
}

// NewRBIScanner wires the browser renderer.
func NewRBIScanner(renderer ports.PageRenderer, log *slog.Logger) *RBIScanner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &RBIScanner{renderer: renderer, logger: log}
}

// Name identifies the strategy inside the registry.
func (s *RBIScanner) Name() string {
	return string(domain.SourceRBI)
}

// Scan renders the listing and parses notification blocks.
func (s *RBIScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.DocumentRecord, error) {
	if s.renderer == nil {
		return nil, errors.New("rbi: page renderer is not configured")
	}

	html, err := s.renderer.Render(ctx, req.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("rbi: render listing: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("rbi: parse listing: %w", err)
	}

	return extractRBI(doc, req), nil
}

func extractRBI(doc *goquery.Document, req scanner.Request) []domain.DocumentRecord {
	var records []domain.DocumentRecord

	doc.Find("div.notification-row-each-inner").Each(func(_ int, block *goquery.Selection) {
		title := cellText(block.Find("a.mtm_list_item_heading").First())
		if title == "" {
			title = untitled
		}

		date, ok := dates.Parse(cellText(block.Find("div.notification-date").First()), dates.Verbose)
		if !ok || !dates.OnOrAfter(date, req.Cutoff) {
			return
		}

		href, exists := block.Find("a.matomo_download.download_link[href]").First().Attr("href")
		if !exists {
			return
		}
		pdfURL, ok := resolveURL(baseFor(req), href)
		if !ok {
			return
		}

		records = append(records, domain.DocumentRecord{
			Source: domain.SourceRBI,
			Title:  title,
			URL:    pdfURL,
			Date:   date,
		})
	})

	return records
}
