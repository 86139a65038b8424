package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RegulatoryDigest/internal/infrastructure/httpclient"
	"RegulatoryDigest/internal/scanner"
)

// listingFetcher is shared by the scanners that read static HTML.
type listingFetcher struct {
	client *httpclient.Client
	logger *slog.Logger
}

func newListingFetcher(client *httpclient.Client, log *slog.Logger) listingFetcher {
	if client == nil {
		client = httpclient.New("", 0)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return listingFetcher{client: client, logger: log}
}

func (l listingFetcher) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := l.client.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing %s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	return doc, nil
}

// resolveURL joins href onto base; base falls back to the listing URL upstream.
func resolveURL(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	root, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	resolved := root.ResolveReference(ref)
	if resolved.Scheme == "" || resolved.Host == "" {
		return "", false
	}
	return resolved.String(), true
}

func baseFor(req scanner.Request) string {
	if req.BaseURL != "" {
		return req.BaseURL
	}
	return req.ListingURL
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
