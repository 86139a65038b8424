package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"RegulatoryDigest/internal/config"
	"RegulatoryDigest/internal/domain"
	"RegulatoryDigest/internal/scanner"
)

type stubScanner struct {
	name    string
	records []domain.DocumentRecord
	err     error
	seen    scanner.Request
}

func (s *stubScanner) Name() string { return s.name }

func (s *stubScanner) Scan(_ context.Context, req scanner.Request) ([]domain.DocumentRecord, error) {
	s.seen = req
	return s.records, s.err
}

func TestStrategySourceFetchAll(t *testing.T) {
	t.Parallel()

	cutoff := day(2024, time.March, 1)
	good := &stubScanner{name: "dpiit", records: []domain.DocumentRecord{{Source: domain.SourceDPIIT, Title: "QCO", URL: "https://dpiit.gov.in/a.pdf", Date: cutoff}}}
	broken := &stubScanner{name: "rbi", err: errors.New("browser crashed")}

	reg := scanner.NewRegistry()
	reg.Register(good)
	reg.Register(broken)

	sites := []config.SourceConfig{
		{Name: "DPIIT", Adapter: "dpiit", ListingURL: "https://dpiit.gov.in/list", BaseURL: "https://dpiit.gov.in"},
		{Name: "RBI", Adapter: "rbi"},
		{Name: "Unknown", Adapter: "nope"},
	}
	src := NewStrategySource(reg, sites, nil)

	if got := src.SourceNames(); len(got) != 3 || got[0] != "DPIIT" || got[2] != "Unknown" {
		t.Fatalf("unexpected names: %v", got)
	}

	batches := src.FetchAll(context.Background(), cutoff)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}

	if batches[0].Err != nil || len(batches[0].Records) != 1 {
		t.Fatalf("unexpected first batch: %+v", batches[0])
	}
	if !good.seen.Cutoff.Equal(cutoff) || good.seen.BaseURL != "https://dpiit.gov.in" || good.seen.SiteName != "DPIIT" {
		t.Fatalf("request not forwarded: %+v", good.seen)
	}

	if batches[1].Err == nil || len(batches[1].Records) != 0 {
		t.Fatalf("failing source must yield an empty batch with error: %+v", batches[1])
	}
	if batches[2].Err == nil {
		t.Fatal("unregistered adapter must be reported")
	}
}

func TestStrategySourceCancelled(t *testing.T) {
	t.Parallel()

	reg := scanner.NewRegistry()
	stub := &stubScanner{name: "dpiit"}
	reg.Register(stub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewStrategySource(reg, []config.SourceConfig{{Name: "DPIIT", Adapter: "dpiit"}}, nil)
	batches := src.FetchAll(ctx, time.Now())
	if len(batches) != 1 || !errors.Is(batches[0].Err, context.Canceled) {
		t.Fatalf("expected cancelled batch, got %+v", batches)
	}
}
