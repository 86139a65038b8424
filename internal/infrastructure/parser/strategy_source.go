package parser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"RegulatoryDigest/internal/config"
	"RegulatoryDigest/internal/domain"
	"RegulatoryDigest/internal/ports"
	"RegulatoryDigest/internal/scanner"
)

// StrategySource implements DocumentSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SourceConfig
	logger   *slog.Logger
}

var _ ports.DocumentSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sources.
func NewStrategySource(reg *scanner.Registry, sites []config.SourceConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// SourceNames returns the configured display names in run order.
func (s *StrategySource) SourceNames() []string {
	names := make([]string, 0, len(s.sites))
	for _, site := range s.sites {
		names = append(names, site.Name)
	}
	return names
}

// FetchAll runs each configured source one after another. A source that fails
// yields an empty batch carrying the error so the remaining sources still run.
func (s *StrategySource) FetchAll(ctx context.Context, cutoff time.Time) []ports.SourceBatch {
	s.debug("fetch all", "sources", len(s.sites), "cutoff", cutoff.Format("2006-01-02"))

	batches := make([]ports.SourceBatch, 0, len(s.sites))
	for _, site := range s.sites {
		batch := ports.SourceBatch{Name: site.Name}

		if err := ctx.Err(); err != nil {
			batch.Err = err
			batches = append(batches, batch)
			continue
		}

		records, err := s.scanSite(ctx, site, cutoff)
		if err != nil {
			s.warn("source failed", "source", site.Name, "error", err)
			batch.Err = err
		}
		batch.Records = records
		s.debug("source produced records", "source", site.Name, "count", len(records))
		batches = append(batches, batch)
	}

	return batches
}

func (s *StrategySource) scanSite(ctx context.Context, site config.SourceConfig, cutoff time.Time) ([]domain.DocumentRecord, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	strategy, err := s.registry.Resolve(site.Adapter)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", site.Name, err)
	}

	req := scanner.Request{
		Cutoff:     cutoff,
		SiteName:   site.Name,
		ListingURL: site.ListingURL,
		BaseURL:    site.BaseURL,
	}

	records, err := strategy.Scan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("scan source %s: %w", site.Name, err)
	}
	return records, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
