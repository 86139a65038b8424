package pdftext

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"RegulatoryDigest/internal/domain"
	"RegulatoryDigest/internal/infrastructure/httpclient"
	"RegulatoryDigest/internal/ports"
)

const pdfMagic = "%PDF-"

var errNotPDF = errors.New("payload does not start with a PDF header")

// Extractor returns the concatenated page text of the PDF stored at path.
type Extractor func(path string) (string, error)

// Fetcher downloads PDFs to a scratch file and extracts their text.
type Fetcher struct {
	client   *httpclient.Client
	tempDir  string
	validate func(path string) error
	extract  Extractor
	logger   *slog.Logger
}

var _ ports.TextFetcher = (*Fetcher)(nil)

// NewFetcher wires the HTTP client; tempDir "" uses os.TempDir.
func NewFetcher(client *httpclient.Client, tempDir string, log *slog.Logger) *Fetcher {
	if client == nil {
		client = httpclient.New("", 0)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{client: client, tempDir: tempDir, validate: Validate, extract: ExtractFile, logger: log}
}

// FetchText never returns an error: every failure is classified in the result
// and logged.
func (f *Fetcher) FetchText(ctx context.Context, url string) domain.ExtractedText {
	res := f.fetch(ctx, url)
	if res.Failure != domain.FailureNone {
		f.logger.Warn("skipped document", "url", url, "failure", res.Failure, "error", res.Err)
	}
	return res
}

func (f *Fetcher) fetch(ctx context.Context, url string) domain.ExtractedText {
	res := domain.ExtractedText{URL: url}

	resp, err := f.client.Get(ctx, url)
	if err != nil {
		res.Failure, res.Err = domain.FailureNetwork, err
		return res
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		res.Failure, res.Err = domain.FailureStatus, fmt.Errorf("unexpected status %s", resp.Status)
		return res
	}

	tmp, err := os.CreateTemp(f.tempDir, "regdigest-*.pdf")
	if err != nil {
		res.Failure, res.Err = domain.FailureExtraction, fmt.Errorf("create temp file: %w", err)
		return res
	}
	defer os.Remove(tmp.Name())

	if err := savePDF(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		if errors.Is(err, errNotPDF) {
			res.Failure = domain.FailureMalformed
		} else {
			res.Failure = domain.FailureNetwork
		}
		res.Err = err
		return res
	}
	if err := tmp.Close(); err != nil {
		res.Failure, res.Err = domain.FailureExtraction, fmt.Errorf("close temp file: %w", err)
		return res
	}

	if err := f.validate(tmp.Name()); err != nil {
		res.Failure, res.Err = domain.FailureMalformed, err
		return res
	}

	text, err := f.extract(tmp.Name())
	if err != nil {
		res.Failure, res.Err = domain.FailureExtraction, err
		return res
	}

	res.Text = strings.TrimSpace(text)
	if res.Text == "" {
		res.Failure = domain.FailureEmpty
	}
	return res
}

// savePDF copies body into w after checking the PDF magic bytes.
func savePDF(w io.Writer, body io.Reader) error {
	br := bufio.NewReader(body)
	head, err := br.Peek(len(pdfMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read payload: %w", err)
	}
	if string(head) != pdfMagic {
		return errNotPDF
	}
	if _, err := io.Copy(w, br); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// Validate runs pdfcpu's relaxed validation so truncated or HTML-disguised
// downloads are classified as malformed before extraction.
func Validate(path string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("validate pdf: %w", err)
	}
	return nil
}

// ExtractFile reads every page in order and joins their plain text. The pdf
// package panics on some broken streams, so panics become errors.
func ExtractFile(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract text: %v", r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}
