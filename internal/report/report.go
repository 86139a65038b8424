// Package report renders a grouped run result as Markdown or HTML.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"RegulatoryDigest/internal/domain"
)

// Formats accepted by Write.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// EmptySection is printed for a source that published nothing in the window.
const EmptySection = "_No new notifications in this window._"

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders one section per source in report order.
func Markdown(r domain.Report) string {
	var b strings.Builder

	b.WriteString("# India Regulatory Summary\n\n")
	if !r.Cutoff.IsZero() {
		fmt.Fprintf(&b, "Documents published on or after %s.\n\n", r.Cutoff.Format("2 January 2006"))
	}

	for _, section := range r.Sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Source)
		if len(section.Entries) == 0 {
			b.WriteString(EmptySection + "\n\n")
			continue
		}
		for _, entry := range section.Entries {
			fmt.Fprintf(&b, "### %s\n\n", entry.Title)
			if !entry.Date.IsZero() {
				fmt.Fprintf(&b, "_Published %s_\n\n", entry.Date.Format("2 Jan 2006"))
			}
			b.WriteString(demoteHeadings(entry.Body))
			fmt.Fprintf(&b, "\n\n[PDF link](%s)\n\n---\n\n", entry.URL)
		}
	}

	if len(r.Skipped) > 0 {
		b.WriteString("## Skipped documents\n\n")
		for _, skip := range r.Skipped {
			target := skip.URL
			if target == "" {
				target = "listing"
			}
			fmt.Fprintf(&b, "- %s (%s, %s): %s\n", skip.Source, target, skip.Stage, skip.Reason)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// HTML converts the Markdown rendering with goldmark.
func HTML(r domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>India Regulatory Summary</title></head><body>\n")
	if err := markdown.Convert([]byte(Markdown(r)), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	buf.WriteString("</body></html>\n")
	return buf.Bytes(), nil
}

// Write renders r in format to w.
func Write(w io.Writer, r domain.Report, format string) error {
	switch strings.ToLower(format) {
	case "", FormatMarkdown, "md":
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatHTML:
		out, err := HTML(r)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// demoteHeadings pushes the summary's "###" sections below the entry title.
func demoteHeadings(body string) string {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "### ") {
			lines[i] = "#" + line
		}
	}
	return strings.Join(lines, "\n")
}

// Digest is a compact plain-text listing for chat notifications.
func Digest(r domain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "India Regulatory Summary: %d new document(s)\n", r.Total())
	for _, section := range r.Sections {
		fmt.Fprintf(&b, "\n%s\n", section.Source)
		if len(section.Entries) == 0 {
			b.WriteString("  no new notifications\n")
			continue
		}
		for _, entry := range section.Entries {
			fmt.Fprintf(&b, "- %s\n  %s\n", entry.Title, entry.URL)
		}
	}
	return b.String()
}
