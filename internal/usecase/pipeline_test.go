package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RegulatoryDigest/internal/domain"
	"RegulatoryDigest/internal/ports"
)

var allSources = []string{"DPIIT", "Power Ministry", "RBI", "Commerce"}

type fakeSource struct {
	names   []string
	batches []ports.SourceBatch
	cutoff  time.Time
}

func (f *fakeSource) SourceNames() []string { return f.names }

func (f *fakeSource) FetchAll(_ context.Context, cutoff time.Time) []ports.SourceBatch {
	f.cutoff = cutoff
	return f.batches
}

type fakeFetcher struct {
	texts map[string]domain.ExtractedText
	calls []string
}

func (f *fakeFetcher) FetchText(_ context.Context, url string) domain.ExtractedText {
	f.calls = append(f.calls, url)
	if res, ok := f.texts[url]; ok {
		res.URL = url
		return res
	}
	return domain.ExtractedText{URL: url, Failure: domain.FailureStatus, Err: errors.New("unexpected status 404 Not Found")}
}

type fakeSummarizer struct {
	fail  map[string]bool
	calls int
}

func (f *fakeSummarizer) Summarize(_ context.Context, title, text string) (domain.Summary, error) {
	f.calls++
	if f.fail[title] {
		return domain.Summary{}, errors.New("service unavailable")
	}
	return domain.Summary{Title: "Generated: " + title, Body: "### Summary\n- " + text}, nil
}

func record(source domain.SourceTag, title, url string) domain.DocumentRecord {
	return domain.DocumentRecord{Source: source, Title: title, URL: url, Date: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)}
}

func TestPipelineRunGroupsBySourceInDiscoveryOrder(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		names: allSources,
		batches: []ports.SourceBatch{
			{Name: "DPIIT", Records: []domain.DocumentRecord{
				record(domain.SourceDPIIT, "first", "https://dpiit.gov.in/1.pdf"),
				record(domain.SourceDPIIT, "second", "https://dpiit.gov.in/2.pdf"),
			}},
			{Name: "Power Ministry"},
			{Name: "RBI", Records: []domain.DocumentRecord{record(domain.SourceRBI, "kyc", "https://rbi.org.in/kyc.pdf")}},
			{Name: "Commerce"},
		},
	}
	fetcher := &fakeFetcher{texts: map[string]domain.ExtractedText{
		"https://dpiit.gov.in/1.pdf": {Text: "one"},
		"https://dpiit.gov.in/2.pdf": {Text: "two"},
		"https://rbi.org.in/kyc.pdf": {Text: "kyc"},
	}}
	cutoff := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	p := NewPipeline(PipelineDeps{Source: source, Fetcher: fetcher, Summarizer: &fakeSummarizer{}})
	report, err := p.Run(context.Background(), cutoff)
	require.NoError(t, err)

	assert.Equal(t, cutoff, source.cutoff)
	assert.Equal(t, allSources, report.Sources())

	dpiit, ok := report.Group("DPIIT")
	require.True(t, ok)
	require.Len(t, dpiit, 2)
	assert.Equal(t, "Generated: first", dpiit[0].Title)
	assert.Equal(t, "Generated: second", dpiit[1].Title)
	assert.Equal(t, "https://dpiit.gov.in/2.pdf", dpiit[1].URL)

	power, ok := report.Group("Power Ministry")
	require.True(t, ok)
	assert.Empty(t, power)

	rbi, _ := report.Group("RBI")
	require.Len(t, rbi, 1)
	assert.Equal(t, "### Summary\n- kyc", rbi[0].Body)
	assert.Empty(t, report.Skipped)
}

func TestPipelineSkipsUnusableText(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		names: allSources,
		batches: []ports.SourceBatch{{Name: "Commerce", Records: []domain.DocumentRecord{
			record(domain.SourceCommerce, "missing", "https://commerce.gov.in/404.pdf"),
			record(domain.SourceCommerce, "blank", "https://commerce.gov.in/blank.pdf"),
			record(domain.SourceCommerce, "ok", "https://commerce.gov.in/ok.pdf"),
		}}},
	}
	fetcher := &fakeFetcher{texts: map[string]domain.ExtractedText{
		"https://commerce.gov.in/blank.pdf": {Text: "   "},
		"https://commerce.gov.in/ok.pdf":    {Text: "content"},
	}}
	summarizer := &fakeSummarizer{}

	report, err := NewPipeline(PipelineDeps{Source: source, Fetcher: fetcher, Summarizer: summarizer}).
		Run(context.Background(), time.Time{})
	require.NoError(t, err)

	entries, _ := report.Group("Commerce")
	require.Len(t, entries, 1)
	assert.Equal(t, "https://commerce.gov.in/ok.pdf", entries[0].URL)
	assert.Equal(t, 1, summarizer.calls, "unusable text must never reach the summarizer")

	require.Len(t, report.Skipped, 2)
	assert.Equal(t, domain.StageFetch, report.Skipped[0].Stage)
	assert.Contains(t, report.Skipped[0].Reason, "404")
	assert.Equal(t, "empty", report.Skipped[1].Reason)
}

func TestPipelineContinuesAfterSummarizationFailure(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		names: allSources,
		batches: []ports.SourceBatch{{Name: "RBI", Records: []domain.DocumentRecord{
			record(domain.SourceRBI, "boom", "https://rbi.org.in/a.pdf"),
			record(domain.SourceRBI, "fine", "https://rbi.org.in/b.pdf"),
		}}},
	}
	fetcher := &fakeFetcher{texts: map[string]domain.ExtractedText{
		"https://rbi.org.in/a.pdf": {Text: "a"},
		"https://rbi.org.in/b.pdf": {Text: "b"},
	}}

	report, err := NewPipeline(PipelineDeps{
		Source:     source,
		Fetcher:    fetcher,
		Summarizer: &fakeSummarizer{fail: map[string]bool{"boom": true}},
	}).Run(context.Background(), time.Time{})
	require.NoError(t, err)

	entries, _ := report.Group("RBI")
	require.Len(t, entries, 1)
	assert.Equal(t, "Generated: fine", entries[0].Title)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, domain.StageSummarize, report.Skipped[0].Stage)
}

func TestPipelineRecordsListingFailures(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		names:   allSources,
		batches: []ports.SourceBatch{{Name: "RBI", Err: errors.New("render listing: chrome not found")}},
	}

	report, err := NewPipeline(PipelineDeps{Source: source, Fetcher: &fakeFetcher{}, Summarizer: &fakeSummarizer{}}).
		Run(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Len(t, report.Sections, 4)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, domain.StageListing, report.Skipped[0].Stage)
	assert.Equal(t, "RBI", report.Skipped[0].Source)
}

func TestPipelineStopsOnCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &fakeSource{
		names:   allSources,
		batches: []ports.SourceBatch{{Name: "DPIIT", Records: []domain.DocumentRecord{record(domain.SourceDPIIT, "a", "https://x/a.pdf")}}},
	}
	fetcher := &fakeFetcher{}

	report, err := NewPipeline(PipelineDeps{Source: source, Fetcher: fetcher, Summarizer: &fakeSummarizer{}}).Run(ctx, time.Time{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.calls)
	assert.Len(t, report.Sections, 4, "partial report still lists every source")
}

func TestPipelineWithoutSource(t *testing.T) {
	t.Parallel()

	report, err := NewPipeline(PipelineDeps{}).Run(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, report.Sections)
}

func TestPipelineRecordsSkipsForMissingDependencies(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		names: []string{"RBI"},
		batches: []ports.SourceBatch{{
			Name:    "RBI",
			Records: []domain.DocumentRecord{record(domain.SourceRBI, "KYC", "https://rbi.org.in/kyc.pdf")},
		}},
	}

	report, err := NewPipeline(PipelineDeps{Source: source}).Run(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, domain.StageFetch, report.Skipped[0].Stage)
	assert.Equal(t, errNoFetcher.Error(), report.Skipped[0].Reason)

	fetcher := &fakeFetcher{texts: map[string]domain.ExtractedText{"https://rbi.org.in/kyc.pdf": {Text: "body"}}}
	report, err = NewPipeline(PipelineDeps{Source: source, Fetcher: fetcher}).Run(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, domain.StageSummarize, report.Skipped[0].Stage)
	assert.Equal(t, "https://rbi.org.in/kyc.pdf", report.Skipped[0].URL)
	assert.Zero(t, report.Total())
}
