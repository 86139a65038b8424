package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"RegulatoryDigest/internal/scanner"
)

const rbiRendered = `
<html><body>
<div class="notification-row-each-inner">
  <a class="mtm_list_item_heading" href="/web/rbi/-/notifications/1">Master Direction on KYC</a>
  <div class="notification-date">May 16, 2025</div>
  <a class="matomo_download download_link" href="/documents/87730/kyc.pdf">Download</a>
</div>
<div class="notification-row-each-inner">
  <div class="notification-date">16 May 2025</div>
  <a class="matomo_download download_link" href="https://rbidocs.rbi.org.in/rdocs/notification/PDFs/untitled.PDF">Download</a>
</div>
<div class="notification-row-each-inner">
  <a class="mtm_list_item_heading">Old circular</a>
  <div class="notification-date">Jan 2, 2024</div>
  <a class="matomo_download download_link" href="/documents/old.pdf">Download</a>
</div>
<div class="notification-row-each-inner">
  <a class="mtm_list_item_heading">No download</a>
  <div class="notification-date">May 20, 2025</div>
  <a class="download_link" href="/documents/plain.pdf">Download</a>
</div>
<div class="notification-row-each-inner">
  <a class="mtm_list_item_heading">No date</a>
  <a class="matomo_download download_link" href="/documents/nodate.pdf">Download</a>
</div>
</body></html>`

type fakeRenderer struct {
	html string
	err  error
	got  string
}

func (f *fakeRenderer) Render(_ context.Context, pageURL string) (string, error) {
	f.got = pageURL
	return f.html, f.err
}

func TestRBIScannerScan(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{html: rbiRendered}
	sc := NewRBIScanner(renderer, nil)

	records, err := sc.Scan(context.Background(), scanner.Request{
		Cutoff:     day(2025, time.May, 16),
		ListingURL: "https://website.rbi.org.in/web/rbi/notifications?delta=100",
		BaseURL:    "https://website.rbi.org.in",
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if renderer.got != "https://website.rbi.org.in/web/rbi/notifications?delta=100" {
		t.Fatalf("renderer got %q", renderer.got)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].Title != "Master Direction on KYC" || records[0].URL != "https://website.rbi.org.in/documents/87730/kyc.pdf" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Title != untitled {
		t.Fatalf("missing heading must fall back to %q, got %q", untitled, records[1].Title)
	}
}

func TestRBIScannerRenderFailure(t *testing.T) {
	t.Parallel()

	sc := NewRBIScanner(&fakeRenderer{err: errors.New("chrome not found")}, nil)
	if _, err := sc.Scan(context.Background(), scanner.Request{ListingURL: "https://example.org"}); err == nil {
		t.Fatal("expected render error")
	}

	if _, err := NewRBIScanner(nil, nil).Scan(context.Background(), scanner.Request{}); err == nil {
		t.Fatal("expected error without renderer")
	}
}
