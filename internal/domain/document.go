package domain

import (
	"strings"
	"time"
)

// SourceTag identifies the adapter that discovered a document.
type SourceTag string

const (
	SourceDPIIT    SourceTag = "dpiit"
	SourcePowerMin SourceTag = "powermin"
	SourceRBI      SourceTag = "rbi"
	SourceCommerce SourceTag = "commerce"
)

// DocumentRecord is a listing entry discovered by an adapter, before its PDF is fetched.
type DocumentRecord struct {
	Source SourceTag
	Title  string
	URL    string
	Date   time.Time
}

// FailureKind classifies why a document's text could not be used.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureNetwork    FailureKind = "network"
	FailureStatus     FailureKind = "status"
	FailureMalformed  FailureKind = "malformed"
	FailureExtraction FailureKind = "extraction"
	FailureEmpty      FailureKind = "empty"
)

// ExtractedText is the outcome of downloading a record's PDF and reading its pages.
type ExtractedText struct {
	URL     string
	Text    string
	Failure FailureKind
	Err     error
}

// Usable reports whether the text can be handed to the summarizer.
func (e ExtractedText) Usable() bool {
	return e.Failure == FailureNone && strings.TrimSpace(e.Text) != ""
}

// Reason renders the failure for diagnostics.
func (e ExtractedText) Reason() string {
	if e.Failure == FailureNone {
		if strings.TrimSpace(e.Text) == "" {
			return string(FailureEmpty)
		}
		return ""
	}
	if e.Err != nil {
		return string(e.Failure) + ": " + e.Err.Error()
	}
	return string(e.Failure)
}

// Summary is the parsed output of the text-generation service.
type Summary struct {
	Title string
	Body  string
}
