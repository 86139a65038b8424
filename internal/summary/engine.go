// Package summary builds the summarization prompt for a regulatory
// notification and parses the sectioned response.
package summary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"RegulatoryDigest/internal/domain"
	"RegulatoryDigest/internal/ports"
)

// Section headers the model is asked to emit.
const (
	TitleMarker   = "### Title"
	SummaryMarker = "### Summary"
	SectorsMarker = "### Potentially Impacted Sectors"
)

var promptTemplate = template.Must(template.New("prompt").Parse(`
You're an AI assistant that reads Indian government regulatory notification documents.

Document title: {{.Title}}

Text:
{{.Text}}

Please write a short title for the document, summarize the key takeaways into 3-7 bullet points, and list potentially impacted sectors. Format:

` + TitleMarker + `
<short title>

` + SummaryMarker + `
- point 1
- point 2

` + SectorsMarker + `
- sector 1
- sector 2
`))

// Engine wraps a Completer with the fixed prompt and response parsing.
type Engine struct {
	completer ports.Completer
}

var _ ports.Summarizer = (*Engine)(nil)

// NewEngine wires the text-generation backend.
func NewEngine(completer ports.Completer) *Engine {
	return &Engine{completer: completer}
}

// Summarize makes one completion call per document.
func (e *Engine) Summarize(ctx context.Context, title, text string) (domain.Summary, error) {
	if e.completer == nil {
		return domain.Summary{}, errors.New("summary engine has no completer")
	}

	prompt, err := BuildPrompt(title, text)
	if err != nil {
		return domain.Summary{}, err
	}

	response, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("summarize %q: %w", title, err)
	}

	return ParseResponse(title, response), nil
}

// BuildPrompt renders the instruction for one document.
func BuildPrompt(title, text string) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, struct{ Title, Text string }{title, text}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// ParseResponse splits the response on its section headers. Without a
// leading title header the original title is kept and the whole response
// becomes the body.
func ParseResponse(originalTitle, response string) domain.Summary {
	trimmed := strings.TrimSpace(response)
	if !strings.HasPrefix(trimmed, TitleMarker) {
		return domain.Summary{Title: originalTitle, Body: response}
	}

	rest := strings.TrimPrefix(trimmed, TitleMarker)
	titleSection, body := rest, ""
	if idx := strings.Index(rest, SummaryMarker); idx >= 0 {
		titleSection, body = rest[:idx], rest[idx:]
	}

	generated := firstLine(titleSection)
	if body == "" {
		body = strings.TrimPrefix(strings.TrimSpace(titleSection), generated)
	}
	if generated == "" {
		generated = originalTitle
	}

	return domain.Summary{Title: generated, Body: strings.TrimSpace(body)}
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
