package ports

import (
	"context"
	"time"

	"RegulatoryDigest/internal/domain"
)

// SourceBatch is what one configured source produced during a run.
type SourceBatch struct {
	Name    string
	Records []domain.DocumentRecord
	Err     error
}

// DocumentSource runs every configured listing adapter in order.
type DocumentSource interface {
	SourceNames() []string
	FetchAll(ctx context.Context, cutoff time.Time) []SourceBatch
}

// PageRenderer loads a page in a JavaScript-capable browser and returns the final markup.
type PageRenderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// TextFetcher downloads a PDF and returns its text; failures are carried in the result.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) domain.ExtractedText
}

// Summarizer turns document text into a generated title and structured body.
type Summarizer interface {
	Summarize(ctx context.Context, title, text string) (domain.Summary, error)
}

// Completer is the black-box text-generation service.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Notifier pushes the rendered digest to a chat channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
