package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RegulatoryDigest/internal/domain"
	"RegulatoryDigest/internal/ports"
)

type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (m *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	m.job = job
	return nil
}

func (m *manualDriver) Stop(context.Context) error {
	m.stopped = true
	return nil
}

func TestSchedulerRunsPipelinePerTrigger(t *testing.T) {
	t.Parallel()

	source := &fakeSource{names: allSources, batches: []ports.SourceBatch{{Name: "DPIIT"}}}
	pipeline := NewPipeline(PipelineDeps{Source: source, Fetcher: &fakeFetcher{}, Summarizer: &fakeSummarizer{}})

	var handled []domain.Report
	driver := &manualDriver{}
	sch := NewScheduler(driver, pipeline,
		func(trigger time.Time) time.Time { return trigger.AddDate(0, 0, -90) },
		func(_ context.Context, r domain.Report) error {
			handled = append(handled, r)
			return nil
		}, nil)

	require.NoError(t, sch.Start(context.Background()))
	require.NotNil(t, driver.job)

	trigger := time.Date(2024, time.May, 30, 6, 0, 0, 0, time.UTC)
	driver.job(trigger)

	require.Len(t, handled, 1)
	assert.Equal(t, trigger.AddDate(0, 0, -90), source.cutoff)
	assert.Len(t, handled[0].Sections, 4)

	require.NoError(t, sch.Stop(context.Background()))
	assert.True(t, driver.stopped)
}
