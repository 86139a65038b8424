package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"RegulatoryDigest/internal/domain"
	"RegulatoryDigest/internal/ports"
)

var (
	errNoFetcher    = errors.New("no text fetcher configured")
	errNoSummarizer = errors.New("no summarizer configured")
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.DocumentSource
	Fetcher    ports.TextFetcher
	Summarizer ports.Summarizer
	Logger     *slog.Logger
	Now        func() time.Time
}

// Pipeline turns listing records into a grouped, summarized report.
type Pipeline struct {
	source     ports.DocumentSource
	fetcher    ports.TextFetcher
	summarizer ports.Summarizer
	logger     *slog.Logger
	now        func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		source:     deps.Source,
		fetcher:    deps.Fetcher,
		summarizer: deps.Summarizer,
		logger:     logger,
		now:        now,
	}
}

// Run processes every record sequentially. Documents that cannot be fetched
// or summarized are recorded in Report.Skipped and the run continues. The
// only error returned is context cancellation, together with the partial
// report gathered so far.
func (p *Pipeline) Run(ctx context.Context, cutoff time.Time) (domain.Report, error) {
	if p.source == nil {
		return domain.NewReport(cutoff, p.now(), nil), nil
	}

	report := domain.NewReport(cutoff, p.now(), p.source.SourceNames())

	for _, batch := range p.source.FetchAll(ctx, cutoff) {
		if batch.Err != nil {
			report.Skipped = append(report.Skipped, domain.Skip{
				Source: batch.Name,
				Stage:  domain.StageListing,
				Reason: batch.Err.Error(),
			})
		}

		for _, record := range batch.Records {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			if entry, ok := p.process(ctx, &report, batch.Name, record); ok {
				report.Add(batch.Name, entry)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	p.logger.Info("run complete",
		"cutoff", cutoff.Format("2006-01-02"),
		"entries", report.Total(),
		"skipped", len(report.Skipped))
	return report, nil
}

func (p *Pipeline) process(ctx context.Context, report *domain.Report, source string, record domain.DocumentRecord) (domain.ReportEntry, bool) {
	p.logger.Debug("process record", "source", source, "title", record.Title, "url", record.URL)

	if p.fetcher == nil {
		report.Skipped = append(report.Skipped, domain.Skip{
			Source: source,
			URL:    record.URL,
			Stage:  domain.StageFetch,
			Reason: errNoFetcher.Error(),
		})
		return domain.ReportEntry{}, false
	}
	extracted := p.fetcher.FetchText(ctx, record.URL)
	if !extracted.Usable() {
		report.Skipped = append(report.Skipped, domain.Skip{
			Source: source,
			URL:    record.URL,
			Stage:  domain.StageFetch,
			Reason: extracted.Reason(),
		})
		return domain.ReportEntry{}, false
	}

	if p.summarizer == nil {
		report.Skipped = append(report.Skipped, domain.Skip{
			Source: source,
			URL:    record.URL,
			Stage:  domain.StageSummarize,
			Reason: errNoSummarizer.Error(),
		})
		return domain.ReportEntry{}, false
	}
	summary, err := p.summarizer.Summarize(ctx, record.Title, extracted.Text)
	if err != nil {
		p.logger.Warn("summarization failed", "source", source, "url", record.URL, "error", err)
		report.Skipped = append(report.Skipped, domain.Skip{
			Source: source,
			URL:    record.URL,
			Stage:  domain.StageSummarize,
			Reason: err.Error(),
		})
		return domain.ReportEntry{}, false
	}

	return domain.ReportEntry{
		Title: summary.Title,
		Body:  summary.Body,
		URL:   record.URL,
		Date:  record.Date,
	}, true
}
